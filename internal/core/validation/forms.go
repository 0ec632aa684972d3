package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// Port bounds of an SMTP configuration.
const (
	MinPort = 1
	MaxPort = 65535
)

// Limits of a prompt template.
const (
	PromptNameMax     = 100
	PromptTemplateMin = 10
)

// RegisterForm is the sign-up form. The resume is attached separately.
type RegisterForm struct {
	Username string `json:"username" form:"username" validate:"notblank"`
	Email    string `json:"email" form:"email" validate:"notblank,simple_email"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

func (RegisterForm) FormName() string { return "register" }

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (LoginForm) FormName() string { return "login" }

// JobForm creates a job listing by hand.
type JobForm struct {
	Title            string   `json:"title" validate:"notblank"`
	CompanyName      string   `json:"company_name" validate:"notblank"`
	Location         string   `json:"location"`
	Salary           string   `json:"salary"`
	JobDescription   string   `json:"job_description" validate:"notblank"`
	EmploymentType   string   `json:"employmentType"`
	Responsibilities []string `json:"responsibilities"`
}

func (JobForm) FormName() string { return "job" }

// Input converts the form into the create-job payload.
func (f JobForm) Input() domain.JobInput {
	return domain.JobInput{
		Title:            strings.TrimSpace(f.Title),
		CompanyName:      strings.TrimSpace(f.CompanyName),
		Location:         strings.TrimSpace(f.Location),
		Salary:           strings.TrimSpace(f.Salary),
		JobDescription:   f.JobDescription,
		EmploymentType:   f.EmploymentType,
		Responsibilities: nonBlank(f.Responsibilities),
	}
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DraftForm is the editable subject and body of an application.
type DraftForm struct {
	Subject string `json:"subject" validate:"notblank"`
	Body    string `json:"body" validate:"notblank"`
}

func (DraftForm) FormName() string { return "application" }

// SendForm is the receiver of an application email.
type SendForm struct {
	ReceiverEmail string `json:"receiver_email" validate:"notblank,simple_email"`
}

func (SendForm) FormName() string { return "send" }

// ExtractForm imports a job from its posting URL.
type ExtractForm struct {
	URL string `json:"url" validate:"notblank,http_url"`
}

func (ExtractForm) FormName() string { return "extract" }

// PromptForm creates or updates a prompt template.
type PromptForm struct {
	Name     string `json:"name" validate:"notblank,trimmed_max=100"`
	Template string `json:"template" validate:"notblank,trimmed_min=10"`
	IsActive bool   `json:"is_active"`
}

func (PromptForm) FormName() string { return "prompt" }

// Input converts the form into the prompt payload.
func (f PromptForm) Input() domain.PromptInput {
	return domain.PromptInput{
		Name:     strings.TrimSpace(f.Name),
		Template: strings.TrimSpace(f.Template),
		IsActive: f.IsActive,
	}
}

// SMTPForm creates or updates an SMTP configuration. The password is only
// required when Creating is set; on update an empty password keeps the
// stored one.
type SMTPForm struct {
	Name      string `json:"name" validate:"notblank"`
	Host      string `json:"host" validate:"notblank"`
	Port      int    `json:"port" validate:"min=1,max=65535"`
	Username  string `json:"username" validate:"notblank"`
	Password  string `json:"password"`
	UseTLS    bool   `json:"use_tls"`
	UseSSL    bool   `json:"use_ssl"`
	IsDefault bool   `json:"is_default"`
	Creating  bool   `json:"-"`
}

func (SMTPForm) FormName() string { return "smtp" }

// NewSMTPForm returns a blank create form with the default port.
func NewSMTPForm() SMTPForm {
	return SMTPForm{Port: domain.DefaultSMTPPort, Creating: true}
}

// Input converts the form into the SMTP payload.
func (f SMTPForm) Input() domain.SMTPConfigInput {
	return domain.SMTPConfigInput{
		Name:      strings.TrimSpace(f.Name),
		Host:      strings.TrimSpace(f.Host),
		Port:      f.Port,
		Username:  strings.TrimSpace(f.Username),
		Password:  f.Password,
		UseTLS:    f.UseTLS,
		UseSSL:    f.UseSSL,
		IsDefault: f.IsDefault,
	}
}

func smtpStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(SMTPForm)
	if f.UseTLS && f.UseSSL {
		sl.ReportError(f.UseSSL, "use_ssl", "UseSSL", "tls_ssl_exclusive", "")
	}
	if f.Creating && f.Password == "" {
		sl.ReportError(f.Password, "password", "Password", "required", "")
	}
}

// TestSendForm sends an existing application through a chosen SMTP
// configuration.
type TestSendForm struct {
	ApplicationID int64  `json:"appl_id" validate:"gt=0"`
	ReceiverEmail string `json:"receiver_email" validate:"notblank,simple_email"`
	SMTPConfigID  int64  `json:"smtp_config_id" validate:"gt=0"`
}

func (TestSendForm) FormName() string { return "test send" }

// CheckTestSend validates f and additionally requires the selected SMTP
// configuration to be one of the loaded ones.
func (v *Validator) CheckTestSend(f TestSendForm, loaded []domain.SMTPConfig) error {
	if err := v.Check(f); err != nil {
		return err
	}
	if _, ok := domain.FindSMTPConfig(loaded, f.SMTPConfigID); !ok {
		return v.reject(f.FormName(), map[string]string{
			"smtp_config_id": domain.ErrUnknownSMTPConfig.Error(),
		})
	}
	return nil
}
