package domain

// JobApplication is the AI-generated draft for a job. ID is the application's
// own identifier, which differs from the job id the draft is fetched by.
type JobApplication struct {
	ID            int64  `json:"id"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ReceiverEmail string `json:"receiver_email"`
}

// ApplicationDraft is the editable part of a job application.
type ApplicationDraft struct {
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ReceiverEmail string `json:"receiver_email"`
}

// SendRequest asks the backend to deliver an application by email.
type SendRequest struct {
	ApplicationID int64  `json:"-"`
	ReceiverEmail string `json:"receiver_email"`
	SMTPConfigID  *int64 `json:"smtp_config_id,omitempty"`
}
