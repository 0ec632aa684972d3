package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/operation"
	"github.com/emailportal/portal-client/internal/core/ports"
)

// PortalService executes operation descriptors: reads through the query
// cache, writes through the mutation tracker with their invalidations.
type PortalService struct {
	transport ports.Transport
	session   ports.SessionService
	cache     *cache.Client
	sched     cache.Scheduler
	log       zerolog.Logger
}

// NewPortalService wires the executor. sched runs fire-and-forget writes;
// when nil they run on their own goroutine.
func NewPortalService(
	transport ports.Transport,
	session ports.SessionService,
	queries *cache.Client,
	sched cache.Scheduler,
	log zerolog.Logger,
) *PortalService {
	return &PortalService{
		transport: transport,
		session:   session,
		cache:     queries,
		sched:     sched,
		log:       log,
	}
}

// call performs one request, validates the response shape and decodes the
// selected value into out, which may be nil.
func (s *PortalService) call(ctx context.Context, d operation.Descriptor, out any) error {
	resp, err := s.transport.Do(ctx, d.Request)
	if err != nil {
		return err
	}
	raw, err := d.Schema.Extract(d.Name, resp.Body)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.SchemaError{Operation: d.Name, Path: d.Schema.Path, Reason: err.Error()}
	}
	return nil
}

func fetcher[T any](s *PortalService, d operation.Descriptor) cache.Fetcher {
	return func(ctx context.Context) (any, error) {
		var out T
		if err := s.call(ctx, d, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func query[T any](ctx context.Context, s *PortalService, d operation.Descriptor) (T, error) {
	var zero T
	v, err := s.cache.Query(ctx, d.Key, d.Options, fetcher[T](s, d))
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s: cached value has type %T", d.Name, v)
	}
	return out, nil
}

func (s *PortalService) mutate(ctx context.Context, d operation.Descriptor, out any) error {
	return s.cache.Mutate(ctx, d.Mutation, func(ctx context.Context) error {
		return s.call(ctx, d, out)
	}, d.Invalidates...)
}

// Register creates an account. It does not log the user in.
func (s *PortalService) Register(ctx context.Context, reg domain.Registration) error {
	return s.mutate(ctx, operation.Register(reg), nil)
}

// Login exchanges the credentials for a token pair and persists the session.
// Cached data of a previous user is dropped.
func (s *PortalService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	var tokens domain.TokenPair
	if err := s.mutate(ctx, operation.Login(creds), &tokens); err != nil {
		return nil, err
	}
	user, err := s.session.DecodeAccessToken(tokens.Access)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(ctx, tokens, user); err != nil {
		return nil, err
	}
	s.cache.Clear()

	// The job list is the first view after login; a read arriving while
	// this runs shares the fetch.
	jobs := operation.ListJobs()
	s.cache.Prefetch(ctx, jobs.Key, jobs.Options, fetcher[[]domain.Job](s, jobs))
	return user, nil
}

// Logout clears the session and every cached query.
func (s *PortalService) Logout(ctx context.Context) error {
	err := s.session.Logout(ctx)
	s.cache.Clear()
	return err
}

func (s *PortalService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.session.CurrentUser(ctx)
}

func (s *PortalService) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return query[[]domain.Job](ctx, s, operation.ListJobs())
}

func (s *PortalService) CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error) {
	var job domain.Job
	if err := s.mutate(ctx, operation.CreateJob(in), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *PortalService) ListAppliedJobs(ctx context.Context) ([]domain.Job, error) {
	return query[[]domain.Job](ctx, s, operation.ListAppliedJobs())
}

func (s *PortalService) GetProfile(ctx context.Context) (*domain.Profile, error) {
	p, err := query[domain.Profile](ctx, s, operation.GetProfile())
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyToJob asks the backend to generate the draft for jobID.
func (s *PortalService) ApplyToJob(ctx context.Context, jobID int64) error {
	return s.mutate(ctx, operation.Apply(jobID), nil)
}

// ApplyInBackground issues ApplyToJob without waiting for it. Failures are
// logged and visible through MutationState.
func (s *PortalService) ApplyInBackground(jobID int64) {
	key := cache.Key(operation.KeyJob, jobID)
	task := func(ctx context.Context) {
		if err := s.ApplyToJob(ctx, jobID); err != nil {
			s.log.Warn().Err(err).Int64("job_id", jobID).Msg("background apply failed")
		}
	}
	if s.sched != nil && s.sched.Schedule(key, task) {
		return
	}
	go task(context.Background())
}

func (s *PortalService) GetApplication(ctx context.Context, jobID int64) (*domain.JobApplication, error) {
	app, err := query[domain.JobApplication](ctx, s, operation.GetApplication(jobID))
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// RegenerateApplication returns a freshly generated subject and body.
func (s *PortalService) RegenerateApplication(ctx context.Context, jobID int64) (*domain.JobApplication, error) {
	var app domain.JobApplication
	if err := s.mutate(ctx, operation.Regenerate(jobID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *PortalService) EditApplication(ctx context.Context, jobID int64, draft domain.ApplicationDraft) error {
	return s.mutate(ctx, operation.EditApplication(jobID, draft), nil)
}

func (s *PortalService) SendApplication(ctx context.Context, req domain.SendRequest) error {
	return s.mutate(ctx, operation.SendEmail(req), nil)
}

// ExtractJob imports the job at rawURL and returns it.
func (s *PortalService) ExtractJob(ctx context.Context, rawURL string) (*domain.Job, error) {
	var job domain.Job
	if err := s.mutate(ctx, operation.ExtractJob(rawURL), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *PortalService) ListPrompts(ctx context.Context) ([]domain.PromptTemplate, error) {
	return query[[]domain.PromptTemplate](ctx, s, operation.ListPrompts())
}

func (s *PortalService) CreatePrompt(ctx context.Context, in domain.PromptInput) error {
	return s.mutate(ctx, operation.CreatePrompt(in), nil)
}

func (s *PortalService) UpdatePrompt(ctx context.Context, id int64, in domain.PromptInput) error {
	return s.mutate(ctx, operation.UpdatePrompt(id, in), nil)
}

func (s *PortalService) DeletePrompt(ctx context.Context, id int64) error {
	return s.mutate(ctx, operation.DeletePrompt(id), nil)
}

func (s *PortalService) ListSMTPConfigs(ctx context.Context) ([]domain.SMTPConfig, error) {
	return query[[]domain.SMTPConfig](ctx, s, operation.ListSMTPConfigs())
}

func (s *PortalService) CreateSMTPConfig(ctx context.Context, in domain.SMTPConfigInput) error {
	return s.mutate(ctx, operation.CreateSMTPConfig(in), nil)
}

func (s *PortalService) UpdateSMTPConfig(ctx context.Context, id int64, in domain.SMTPConfigInput) error {
	return s.mutate(ctx, operation.UpdateSMTPConfig(id, in), nil)
}

func (s *PortalService) DeleteSMTPConfig(ctx context.Context, id int64) error {
	return s.mutate(ctx, operation.DeleteSMTPConfig(id), nil)
}

func (s *PortalService) ListSentMail(ctx context.Context) ([]domain.SentMail, error) {
	return query[[]domain.SentMail](ctx, s, operation.ListSentMail())
}

func (s *PortalService) QueryState(key string) cache.Snapshot {
	return s.cache.Snapshot(key)
}

func (s *PortalService) MutationState(name string) cache.MutationState {
	return s.cache.Mutation(name)
}
