package ports

import (
	"context"

	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/domain"
)

// PortalService exposes every backend operation. Reads go through the query
// cache; writes invalidate the keys they affect once they succeed.
type PortalService interface {
	Register(ctx context.Context, reg domain.Registration) error
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)

	ListJobs(ctx context.Context) ([]domain.Job, error)
	CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error)
	ListAppliedJobs(ctx context.Context) ([]domain.Job, error)
	GetProfile(ctx context.Context) (*domain.Profile, error)

	ApplyToJob(ctx context.Context, jobID int64) error
	// ApplyInBackground fires the draft request without waiting for it.
	ApplyInBackground(jobID int64)
	GetApplication(ctx context.Context, jobID int64) (*domain.JobApplication, error)
	RegenerateApplication(ctx context.Context, jobID int64) (*domain.JobApplication, error)
	EditApplication(ctx context.Context, jobID int64, draft domain.ApplicationDraft) error
	SendApplication(ctx context.Context, req domain.SendRequest) error
	ExtractJob(ctx context.Context, rawURL string) (*domain.Job, error)

	ListPrompts(ctx context.Context) ([]domain.PromptTemplate, error)
	CreatePrompt(ctx context.Context, in domain.PromptInput) error
	UpdatePrompt(ctx context.Context, id int64, in domain.PromptInput) error
	DeletePrompt(ctx context.Context, id int64) error

	ListSMTPConfigs(ctx context.Context) ([]domain.SMTPConfig, error)
	CreateSMTPConfig(ctx context.Context, in domain.SMTPConfigInput) error
	UpdateSMTPConfig(ctx context.Context, id int64, in domain.SMTPConfigInput) error
	DeleteSMTPConfig(ctx context.Context, id int64) error

	ListSentMail(ctx context.Context) ([]domain.SentMail, error)

	// QueryState and MutationState expose the cache's tracking of a query key
	// and of a named write.
	QueryState(key string) cache.Snapshot
	MutationState(name string) cache.MutationState
}
