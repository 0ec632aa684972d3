// Package operation describes every backend call the portal makes. The
// constructors are pure: they build the request, the cache key a read is
// stored under, the keys a write invalidates and the expected response shape.
// Executing them is the portal service's job.
package operation

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/core/schema"
)

// Cache key families.
const (
	KeyJobs        = "jobs"
	KeyJob         = "job"
	KeyPrompts     = "prompts"
	KeySMTPConfigs = "smtp-configs"
	KeyMails       = "mails"
	KeyProfile     = "profile"
	KeyAppliedJobs = "applied-jobs"
)

// Families returns every cache key family.
func Families() []string {
	return []string{KeyJobs, KeyJob, KeyPrompts, KeySMTPConfigs, KeyMails, KeyProfile, KeyAppliedJobs}
}

// Operation names, used for mutation tracking, logs and metrics.
const (
	NameListJobs         = "list jobs"
	NameGetApplication   = "get job application"
	NameListPrompts      = "list prompts"
	NameListSMTPConfigs  = "list smtp configs"
	NameListSentMail     = "list sent mail"
	NameGetProfile       = "get profile"
	NameListAppliedJobs  = "list applied jobs"
	NameRegister         = "register"
	NameLogin            = "login"
	NameCreateJob        = "create job"
	NameApply            = "apply to job"
	NameRegenerate       = "regenerate application"
	NameEditApplication  = "edit application"
	NameSendEmail        = "send email"
	NameCreatePrompt     = "create prompt"
	NameUpdatePrompt     = "update prompt"
	NameDeletePrompt     = "delete prompt"
	NameCreateSMTPConfig = "create smtp config"
	NameUpdateSMTPConfig = "update smtp config"
	NameDeleteSMTPConfig = "delete smtp config"
	NameExtractJob       = "extract job"
)

// Descriptor is one backend operation.
type Descriptor struct {
	Name string
	// Mutation is the name a write's state is tracked under. It defaults to
	// Name.
	Mutation string
	Request  ports.Request
	// Key is set for reads only.
	Key     string
	Options cache.Options
	// Invalidates lists key prefixes marked stale after a successful write.
	Invalidates []string
	Schema      schema.Schema
}

// IsQuery reports whether the descriptor is a cached read.
func (d Descriptor) IsQuery() bool { return d.Key != "" }

func read(name, path, key string, s schema.Schema) Descriptor {
	return Descriptor{
		Name:    name,
		Request: ports.Request{Operation: name, Method: http.MethodGet, Path: path},
		Key:     key,
		Schema:  s,
	}
}

func write(name, method, path string, body any, s schema.Schema, invalidates ...string) Descriptor {
	return Descriptor{
		Name:        name,
		Mutation:    name,
		Request:     ports.Request{Operation: name, Method: method, Path: path, Body: body},
		Invalidates: invalidates,
		Schema:      s,
	}
}

var jobFields = []string{"id", "title"}

// ListJobs reads every job listing.
func ListJobs() Descriptor {
	return read(NameListJobs, "/api/job/", KeyJobs, schema.Schema{Kind: schema.Array, Required: jobFields})
}

// GetApplication reads the draft generated for a job.
func GetApplication(jobID int64) Descriptor {
	return read(NameGetApplication, fmt.Sprintf("/api/job_application/%d", jobID), cache.Key(KeyJob, jobID),
		schema.Schema{Kind: schema.ObjectOrArray, Required: []string{"subject", "body"}})
}

// ListPrompts reads the prompt templates.
func ListPrompts() Descriptor {
	return read(NameListPrompts, "/api/prompts/", KeyPrompts, schema.Schema{Kind: schema.Array, Required: []string{"id"}})
}

// ListSMTPConfigs reads the SMTP configurations.
func ListSMTPConfigs() Descriptor {
	return read(NameListSMTPConfigs, "/api/smtp-configs/", KeySMTPConfigs, schema.Schema{Kind: schema.Array, Required: []string{"id"}})
}

// Sent mail changes rarely; it is served from cache for five minutes and
// retried once.
const (
	SentMailStaleTime  = 5 * time.Minute
	SentMailRetry      = 1
	SentMailRetryDelay = time.Second
)

// ListSentMail reads the sent-mail history.
func ListSentMail() Descriptor {
	d := read(NameListSentMail, "/api/mails/", KeyMails, schema.Schema{Kind: schema.Array, Required: []string{"id"}})
	d.Options = cache.Options{StaleTime: SentMailStaleTime, Retry: SentMailRetry, RetryDelay: SentMailRetryDelay}
	return d
}

// GetProfile reads the current user's profile.
func GetProfile() Descriptor {
	return read(NameGetProfile, "/api/profile/", KeyProfile, schema.Schema{Kind: schema.Object})
}

// ListAppliedJobs reads the jobs the user applied to.
func ListAppliedJobs() Descriptor {
	return read(NameListAppliedJobs, "/api/user-applied-jobs/", KeyAppliedJobs,
		schema.Schema{Path: "applied_jobs", Kind: schema.Array, Required: jobFields})
}

// Register creates an account.
func Register(reg domain.Registration) Descriptor {
	mp := &ports.Multipart{Fields: map[string]string{
		"username": reg.Username,
		"email":    reg.Email,
		"password": reg.Password,
	}}
	if len(reg.Resume) > 0 {
		mp.Files = append(mp.Files, ports.FilePart{Field: "resume", Filename: reg.ResumeFilename, Content: reg.Resume})
	}
	d := write(NameRegister, http.MethodPost, "/api/register/", nil, schema.Schema{})
	d.Request.Multipart = mp
	return d
}

// Login exchanges credentials for a token pair.
func Login(creds domain.Credentials) Descriptor {
	return write(NameLogin, http.MethodPost, "/api/token/", creds,
		schema.Schema{Kind: schema.Object, Required: []string{"access", "refresh"}})
}

// CreateJob adds a job listing.
func CreateJob(in domain.JobInput) Descriptor {
	return write(NameCreateJob, http.MethodPost, "/api/job/", in, schema.Schema{}, KeyJobs)
}

// Apply asks the backend to generate the application draft for a job.
func Apply(jobID int64) Descriptor {
	d := write(NameApply, http.MethodPost, fmt.Sprintf("/api/apply/%d/", jobID), struct{}{}, schema.Schema{},
		cache.Key(KeyJob, jobID), KeyJobs, KeyAppliedJobs)
	d.Mutation = ApplyMutation(jobID)
	return d
}

// ApplyMutation is the mutation name Apply(jobID) is tracked under.
func ApplyMutation(jobID int64) string { return cache.Key(NameApply, jobID) }

// Regenerate is Apply with the regenerate flag. It returns the new draft and
// invalidates nothing, so a receiver typed into the editor is kept.
func Regenerate(jobID int64) Descriptor {
	d := write(NameRegenerate, http.MethodPost, fmt.Sprintf("/api/apply/%d/", jobID), struct{}{},
		schema.Schema{Path: "data", Kind: schema.Object, Required: []string{"subject", "body"}})
	d.Request.Query = url.Values{"regenerate": []string{"true"}}
	return d
}

// EditApplication saves the edited draft of a job.
func EditApplication(jobID int64, draft domain.ApplicationDraft) Descriptor {
	return write(NameEditApplication, http.MethodPut, fmt.Sprintf("/api/job_application/%d", jobID), draft,
		schema.Schema{}, cache.Key(KeyJob, jobID))
}

// SendEmail delivers an application. The path carries the application id.
func SendEmail(req domain.SendRequest) Descriptor {
	return write(NameSendEmail, http.MethodPost, fmt.Sprintf("/api/send_application/%d", req.ApplicationID), req,
		schema.Schema{}, KeyMails, KeyAppliedJobs)
}

// CreatePrompt adds a prompt template.
func CreatePrompt(in domain.PromptInput) Descriptor {
	return write(NameCreatePrompt, http.MethodPost, "/api/prompts/", in, schema.Schema{}, KeyPrompts)
}

// UpdatePrompt patches a prompt template.
func UpdatePrompt(id int64, in domain.PromptInput) Descriptor {
	return write(NameUpdatePrompt, http.MethodPatch, fmt.Sprintf("/api/prompts/%d/", id), in, schema.Schema{}, KeyPrompts)
}

// DeletePrompt removes a prompt template.
func DeletePrompt(id int64) Descriptor {
	return write(NameDeletePrompt, http.MethodDelete, fmt.Sprintf("/api/prompts/%d/", id), nil, schema.Schema{}, KeyPrompts)
}

// CreateSMTPConfig adds an SMTP configuration.
func CreateSMTPConfig(in domain.SMTPConfigInput) Descriptor {
	return write(NameCreateSMTPConfig, http.MethodPost, "/api/smtp-configs/", in, schema.Schema{}, KeySMTPConfigs)
}

// UpdateSMTPConfig replaces an SMTP configuration.
func UpdateSMTPConfig(id int64, in domain.SMTPConfigInput) Descriptor {
	return write(NameUpdateSMTPConfig, http.MethodPut, fmt.Sprintf("/api/smtp-configs/%d/", id), in, schema.Schema{}, KeySMTPConfigs)
}

// DeleteSMTPConfig removes an SMTP configuration.
func DeleteSMTPConfig(id int64) Descriptor {
	return write(NameDeleteSMTPConfig, http.MethodDelete, fmt.Sprintf("/api/smtp-configs/%d/", id), nil, schema.Schema{}, KeySMTPConfigs)
}

type extractRequest struct {
	URL string `json:"url"`
}

// ExtractJob imports a job listing from a URL. The backend stores it and
// returns the new job.
func ExtractJob(rawURL string) Descriptor {
	return write(NameExtractJob, http.MethodPost, "/api/extract/", extractRequest{URL: rawURL},
		schema.Schema{Kind: schema.Object, Required: []string{"id"}}, KeyJobs)
}
