package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// MailboxView is the sent-mail history.
type MailboxView struct {
	Query string            `json:"query,omitempty"`
	Mails []domain.SentMail `json:"mails"`
	Total int               `json:"total"`
	// Empty is the placeholder shown when Mails is empty.
	Empty    string           `json:"empty,omitempty"`
	Selected *domain.SentMail `json:"selected,omitempty"`
	// Position reads "i of n" over the whole history.
	Position   string `json:"position,omitempty"`
	PreviousID int64  `json:"previous_id,omitempty"`
	NextID     int64  `json:"next_id,omitempty"`
}

// SearchMails keeps the mails whose subject, body or company name contains
// query, ignoring case.
func SearchMails(mails []domain.SentMail, query string) []domain.SentMail {
	q := strings.ToLower(query)
	if q == "" {
		return mails
	}
	out := make([]domain.SentMail, 0, len(mails))
	for _, m := range mails {
		if strings.Contains(strings.ToLower(m.Subject), q) ||
			strings.Contains(strings.ToLower(m.Body), q) ||
			strings.Contains(strings.ToLower(m.CompanyName), q) {
			out = append(out, m)
		}
	}
	return out
}

// BuildMailbox computes the mailbox. Navigation walks the whole history, not
// only the search results. A zero or unknown selectedID selects nothing.
func BuildMailbox(mails []domain.SentMail, query string, selectedID int64) MailboxView {
	view := MailboxView{Query: query, Mails: SearchMails(mails, query), Total: len(mails)}
	if len(view.Mails) == 0 {
		view.Empty = "No mails sent yet"
		if query != "" {
			view.Empty = "No matches found"
		}
	}

	for i, m := range mails {
		if selectedID == 0 || m.ID != selectedID {
			continue
		}
		sel := mails[i]
		view.Selected = &sel
		view.Position = fmt.Sprintf("%d of %d", i+1, len(mails))
		if i > 0 {
			view.PreviousID = mails[i-1].ID
		}
		if i < len(mails)-1 {
			view.NextID = mails[i+1].ID
		}
		break
	}
	return view
}

// Mails renders the sent-mail history.
func (v *Views) Mails(ctx context.Context, query string, selectedID int64) (Result, error) {
	mails, err := v.portal.ListSentMail(ctx)
	if err != nil {
		return Result{}, err
	}
	return render(BuildMailbox(mails, query, selectedID)), nil
}
