package domain

import "time"

// SentMail is one entry of the sent-mail history.
type SentMail struct {
	ID            int64     `json:"id"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	ReceiverEmail string    `json:"receiver_email"`
	CompanyName   string    `json:"company_name"`
	CreatedAt     time.Time `json:"created_at"`
}
