package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/domain"
)

// stubPortal is a ports.PortalService recording every call by name.
type stubPortal struct {
	mu    sync.Mutex
	calls []string

	user        *domain.User
	loginErr    error
	jobs        []domain.Job
	applied     []domain.Job
	created     *domain.Job
	app         *domain.JobApplication
	appErr      error
	regenerated *domain.JobApplication
	extracted   *domain.Job
	prompts     []domain.PromptTemplate
	smtp        []domain.SMTPConfig
	mails       []domain.SentMail
	profile     *domain.Profile
	writeErr    error

	registered []domain.Registration
	edited     []domain.ApplicationDraft
	sent       []domain.SendRequest
	promptIn   []domain.PromptInput
	smtpIn     []domain.SMTPConfigInput

	snapshots map[string]cache.Snapshot
	mutations map[string]cache.MutationState
}

func newStubPortal() *stubPortal {
	return &stubPortal{
		snapshots: map[string]cache.Snapshot{},
		mutations: map[string]cache.MutationState{},
	}
}

func (s *stubPortal) record(format string, args ...any) {
	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

func (s *stubPortal) called(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (s *stubPortal) Register(_ context.Context, reg domain.Registration) error {
	s.record("Register")
	s.registered = append(s.registered, reg)
	return s.writeErr
}

func (s *stubPortal) Login(_ context.Context, creds domain.Credentials) (*domain.User, error) {
	s.record("Login")
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.user = &domain.User{ID: "1", Username: creds.Username}
	return s.user, nil
}

func (s *stubPortal) Logout(context.Context) error {
	s.record("Logout")
	s.user = nil
	return nil
}

func (s *stubPortal) CurrentUser(context.Context) (*domain.User, error) {
	s.record("CurrentUser")
	return s.user, nil
}

func (s *stubPortal) ListJobs(context.Context) ([]domain.Job, error) {
	s.record("ListJobs")
	return s.jobs, nil
}

func (s *stubPortal) CreateJob(_ context.Context, in domain.JobInput) (*domain.Job, error) {
	s.record("CreateJob")
	return s.created, s.writeErr
}

func (s *stubPortal) ListAppliedJobs(context.Context) ([]domain.Job, error) {
	s.record("ListAppliedJobs")
	return s.applied, nil
}

func (s *stubPortal) GetProfile(context.Context) (*domain.Profile, error) {
	s.record("GetProfile")
	return s.profile, nil
}

func (s *stubPortal) ApplyToJob(_ context.Context, jobID int64) error {
	s.record("ApplyToJob:%d", jobID)
	return s.writeErr
}

func (s *stubPortal) ApplyInBackground(jobID int64) {
	s.record("ApplyInBackground:%d", jobID)
}

func (s *stubPortal) GetApplication(_ context.Context, jobID int64) (*domain.JobApplication, error) {
	s.record("GetApplication:%d", jobID)
	if s.appErr != nil {
		return nil, s.appErr
	}
	app := *s.app
	return &app, nil
}

func (s *stubPortal) RegenerateApplication(_ context.Context, jobID int64) (*domain.JobApplication, error) {
	s.record("RegenerateApplication:%d", jobID)
	return s.regenerated, s.writeErr
}

func (s *stubPortal) EditApplication(_ context.Context, jobID int64, draft domain.ApplicationDraft) error {
	s.record("EditApplication:%d", jobID)
	s.edited = append(s.edited, draft)
	return s.writeErr
}

func (s *stubPortal) SendApplication(_ context.Context, req domain.SendRequest) error {
	s.record("SendApplication")
	s.sent = append(s.sent, req)
	return s.writeErr
}

func (s *stubPortal) ExtractJob(_ context.Context, rawURL string) (*domain.Job, error) {
	s.record("ExtractJob")
	return s.extracted, s.writeErr
}

func (s *stubPortal) ListPrompts(context.Context) ([]domain.PromptTemplate, error) {
	s.record("ListPrompts")
	return s.prompts, nil
}

func (s *stubPortal) CreatePrompt(_ context.Context, in domain.PromptInput) error {
	s.record("CreatePrompt")
	s.promptIn = append(s.promptIn, in)
	return s.writeErr
}

func (s *stubPortal) UpdatePrompt(_ context.Context, id int64, in domain.PromptInput) error {
	s.record("UpdatePrompt:%d", id)
	s.promptIn = append(s.promptIn, in)
	return s.writeErr
}

func (s *stubPortal) DeletePrompt(_ context.Context, id int64) error {
	s.record("DeletePrompt:%d", id)
	return s.writeErr
}

func (s *stubPortal) ListSMTPConfigs(context.Context) ([]domain.SMTPConfig, error) {
	s.record("ListSMTPConfigs")
	return s.smtp, nil
}

func (s *stubPortal) CreateSMTPConfig(_ context.Context, in domain.SMTPConfigInput) error {
	s.record("CreateSMTPConfig")
	s.smtpIn = append(s.smtpIn, in)
	return s.writeErr
}

func (s *stubPortal) UpdateSMTPConfig(_ context.Context, id int64, in domain.SMTPConfigInput) error {
	s.record("UpdateSMTPConfig:%d", id)
	s.smtpIn = append(s.smtpIn, in)
	return s.writeErr
}

func (s *stubPortal) DeleteSMTPConfig(_ context.Context, id int64) error {
	s.record("DeleteSMTPConfig:%d", id)
	return s.writeErr
}

func (s *stubPortal) ListSentMail(context.Context) ([]domain.SentMail, error) {
	s.record("ListSentMail")
	return s.mails, nil
}

func (s *stubPortal) QueryState(key string) cache.Snapshot {
	return s.snapshots[key]
}

func (s *stubPortal) MutationState(name string) cache.MutationState {
	return s.mutations[name]
}
