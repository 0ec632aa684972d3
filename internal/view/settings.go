package view

import (
	"context"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/operation"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// PromptsView lists the prompt templates.
type PromptsView struct {
	Prompts []domain.PromptTemplate `json:"prompts"`
	Busy    bool                    `json:"busy"`
}

func (v *Views) Prompts(ctx context.Context) (Result, error) {
	prompts, err := v.portal.ListPrompts(ctx)
	if err != nil {
		return Result{}, err
	}
	return render(PromptsView{Prompts: prompts, Busy: v.promptsBusy()}), nil
}

func (v *Views) promptsBusy() bool {
	return v.portal.MutationState(operation.NameCreatePrompt).Pending ||
		v.portal.MutationState(operation.NameUpdatePrompt).Pending ||
		v.portal.MutationState(operation.NameDeletePrompt).Pending
}

func (v *Views) CreatePrompt(ctx context.Context, f validation.PromptForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	if err := v.portal.CreatePrompt(ctx, f.Input()); err != nil {
		return Result{}, err
	}
	return done("Prompt created successfully", "/settings/prompts"), nil
}

func (v *Views) UpdatePrompt(ctx context.Context, id int64, f validation.PromptForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	if err := v.portal.UpdatePrompt(ctx, id, f.Input()); err != nil {
		return Result{}, err
	}
	return done("Prompt updated successfully", "/settings/prompts"), nil
}

func (v *Views) DeletePrompt(ctx context.Context, id int64) (Result, error) {
	if err := v.portal.DeletePrompt(ctx, id); err != nil {
		return Result{}, err
	}
	return done("Prompt deleted", "/settings/prompts"), nil
}

// SMTPView lists the SMTP configurations with a blank create form.
type SMTPView struct {
	Configs []domain.SMTPConfig `json:"configs"`
	NewForm validation.SMTPForm `json:"new_form"`
	Busy    bool                `json:"busy"`
}

func (v *Views) SMTPConfigs(ctx context.Context) (Result, error) {
	configs, err := v.portal.ListSMTPConfigs(ctx)
	if err != nil {
		return Result{}, err
	}
	return render(SMTPView{Configs: configs, NewForm: validation.NewSMTPForm(), Busy: v.smtpBusy()}), nil
}

func (v *Views) smtpBusy() bool {
	return v.portal.MutationState(operation.NameCreateSMTPConfig).Pending ||
		v.portal.MutationState(operation.NameUpdateSMTPConfig).Pending ||
		v.portal.MutationState(operation.NameDeleteSMTPConfig).Pending
}

// CreateSMTPConfig adds a configuration. The password is required.
func (v *Views) CreateSMTPConfig(ctx context.Context, f validation.SMTPForm) (Result, error) {
	f.Creating = true
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	if err := v.portal.CreateSMTPConfig(ctx, f.Input()); err != nil {
		return Result{}, err
	}
	return done("Configuration created", "/settings/smtp"), nil
}

// UpdateSMTPConfig replaces a configuration. An empty password keeps the
// stored one.
func (v *Views) UpdateSMTPConfig(ctx context.Context, id int64, f validation.SMTPForm) (Result, error) {
	f.Creating = false
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	if err := v.portal.UpdateSMTPConfig(ctx, id, f.Input()); err != nil {
		return Result{}, err
	}
	return done("Configuration updated", "/settings/smtp"), nil
}

func (v *Views) DeleteSMTPConfig(ctx context.Context, id int64) (Result, error) {
	if err := v.portal.DeleteSMTPConfig(ctx, id); err != nil {
		return Result{}, err
	}
	return done("Configuration deleted", "/settings/smtp"), nil
}

// TestSend sends an existing application through the selected
// configuration, which must be one of the loaded ones.
func (v *Views) TestSend(ctx context.Context, f validation.TestSendForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	configs, err := v.portal.ListSMTPConfigs(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := v.validate.CheckTestSend(f, configs); err != nil {
		return Result{}, err
	}
	smtpID := f.SMTPConfigID
	req := domain.SendRequest{ApplicationID: f.ApplicationID, ReceiverEmail: f.ReceiverEmail, SMTPConfigID: &smtpID}
	if err := v.portal.SendApplication(ctx, req); err != nil {
		return Result{}, err
	}
	return done("Test email sent", ""), nil
}
