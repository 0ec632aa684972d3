package view

import (
	"sync"
	"time"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// EditorForm is the working copy of an application draft.
type EditorForm struct {
	ApplicationID int64  `json:"application_id"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ReceiverEmail string `json:"receiver_email"`
	// LoadedAt is the cache time of the draft the form was last reset from.
	LoadedAt time.Time `json:"loaded_at"`

	base domain.JobApplication
}

// FormPatch carries the fields a user edited. Nil fields are kept.
type FormPatch struct {
	Subject       *string `json:"subject"`
	Body          *string `json:"body"`
	ReceiverEmail *string `json:"receiver_email"`
}

// FormStore keeps one working form per job id.
type FormStore struct {
	mu    sync.Mutex
	forms map[int64]EditorForm
}

func NewFormStore() *FormStore {
	return &FormStore{forms: make(map[int64]EditorForm)}
}

// Get returns the working form of jobID.
func (s *FormStore) Get(jobID int64) (EditorForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[jobID]
	return f, ok
}

// Sync resets the form of jobID from app when there is none yet or the
// server draft changed since the form was loaded. Local edits survive any
// number of reads of an unchanged draft. A reset keeps a typed receiver when
// the server has none.
func (s *FormStore) Sync(jobID int64, app domain.JobApplication, loadedAt time.Time) EditorForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[jobID]
	if ok && f.base == app {
		return f
	}
	receiver := app.ReceiverEmail
	if receiver == "" {
		receiver = f.ReceiverEmail
	}
	f = EditorForm{
		ApplicationID: app.ID,
		Subject:       app.Subject,
		Body:          app.Body,
		ReceiverEmail: receiver,
		LoadedAt:      loadedAt,
		base:          app,
	}
	s.forms[jobID] = f
	return f
}

// Update applies fn to the form of jobID, if any.
func (s *FormStore) Update(jobID int64, fn func(f *EditorForm)) (EditorForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[jobID]
	if !ok {
		return EditorForm{}, false
	}
	fn(&f)
	s.forms[jobID] = f
	return f, true
}

// Apply writes the non-nil fields of p into f.
func (p FormPatch) Apply(f *EditorForm) {
	if p.Subject != nil {
		f.Subject = *p.Subject
	}
	if p.Body != nil {
		f.Body = *p.Body
	}
	if p.ReceiverEmail != nil {
		f.ReceiverEmail = *p.ReceiverEmail
	}
}

func (s *FormStore) Drop(jobID int64) {
	s.mu.Lock()
	delete(s.forms, jobID)
	s.mu.Unlock()
}

func (s *FormStore) Clear() {
	s.mu.Lock()
	s.forms = make(map[int64]EditorForm)
	s.mu.Unlock()
}
