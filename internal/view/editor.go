package view

import (
	"context"
	"errors"
	"strings"

	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/operation"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// EditorView is the application editor of one job.
type EditorView struct {
	JobID int64      `json:"job_id"`
	Form  EditorForm `json:"form"`
	// Generating is set while the draft does not exist yet.
	Generating   bool `json:"generating"`
	Fetching     bool `json:"fetching"`
	Saving       bool `json:"saving"`
	Regenerating bool `json:"regenerating"`
	Sending      bool `json:"sending"`
}

// Busy reports whether any action of the editor is in flight.
func (e EditorView) Busy() bool {
	return e.Generating || e.Fetching || e.Saving || e.Regenerating || e.Sending
}

func (v *Views) editorView(jobID int64, form EditorForm) EditorView {
	snap := v.portal.QueryState(cache.Key(operation.KeyJob, jobID))
	return EditorView{
		JobID:        jobID,
		Form:         form,
		Generating:   v.portal.MutationState(operation.ApplyMutation(jobID)).Pending,
		Fetching:     snap.Fetching,
		Saving:       v.portal.MutationState(operation.NameEditApplication).Pending,
		Regenerating: v.portal.MutationState(operation.NameRegenerate).Pending,
		Sending:      v.portal.MutationState(operation.NameSendEmail).Pending,
	}
}

// load reads the draft of jobID and syncs the working form with it.
func (v *Views) load(ctx context.Context, jobID int64) (EditorForm, error) {
	app, err := v.portal.GetApplication(ctx, jobID)
	if err != nil {
		return EditorForm{}, err
	}
	snap := v.portal.QueryState(cache.Key(operation.KeyJob, jobID))
	return v.forms.Sync(jobID, *app, snap.UpdatedAt), nil
}

// Application renders the editor of jobID. While the draft is still being
// generated the editor is returned empty with Generating set.
func (v *Views) Application(ctx context.Context, jobID int64) (Result, error) {
	form, err := v.load(ctx, jobID)
	if err != nil {
		if v.portal.MutationState(operation.ApplyMutation(jobID)).Pending && draftMissing(err) {
			view := v.editorView(jobID, EditorForm{})
			return Result{View: view, Notice: &Notice{Level: LevelInfo, Message: "Your application is being generated"}}, nil
		}
		return Result{}, err
	}
	return render(v.editorView(jobID, form)), nil
}

func draftMissing(err error) bool {
	var he *domain.HTTPError
	var se *domain.SchemaError
	return (errors.As(err, &he) && he.Status == 404) || errors.As(err, &se)
}

// working returns the form of jobID, loading the draft when there is none.
func (v *Views) working(ctx context.Context, jobID int64) (EditorForm, error) {
	if f, ok := v.forms.Get(jobID); ok {
		return f, nil
	}
	return v.load(ctx, jobID)
}

// UpdateForm applies local edits to the working form. Nothing is sent.
func (v *Views) UpdateForm(ctx context.Context, jobID int64, p FormPatch) (Result, error) {
	if _, err := v.working(ctx, jobID); err != nil {
		return Result{}, err
	}
	form, _ := v.forms.Update(jobID, p.Apply)
	return render(v.editorView(jobID, form)), nil
}

// SaveApplication stores the edited subject and body.
func (v *Views) SaveApplication(ctx context.Context, jobID int64, f validation.DraftForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	form, err := v.working(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	draft := domain.ApplicationDraft{Subject: f.Subject, Body: f.Body, ReceiverEmail: form.ReceiverEmail}
	if err := v.portal.EditApplication(ctx, jobID, draft); err != nil {
		return Result{}, err
	}
	form, _ = v.forms.Update(jobID, func(w *EditorForm) {
		w.Subject = f.Subject
		w.Body = f.Body
	})
	return Result{
		View:   v.editorView(jobID, form),
		Notice: &Notice{Level: LevelSuccess, Message: "Application updated successfully!"},
	}, nil
}

// Regenerate replaces the subject and body of the working form with a new
// draft. The receiver is kept.
func (v *Views) Regenerate(ctx context.Context, jobID int64) (Result, error) {
	if _, err := v.working(ctx, jobID); err != nil {
		return Result{}, err
	}
	app, err := v.portal.RegenerateApplication(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	form, _ := v.forms.Update(jobID, func(w *EditorForm) {
		w.Subject = app.Subject
		w.Body = app.Body
	})
	return Result{
		View:   v.editorView(jobID, form),
		Notice: &Notice{Level: LevelSuccess, Message: "Email content regenerated!"},
	}, nil
}

// Send delivers the application to the receiver in f, or to the working
// form's receiver when f leaves it empty, then returns to the job board.
func (v *Views) Send(ctx context.Context, jobID int64, f validation.SendForm) (Result, error) {
	if strings.TrimSpace(f.ReceiverEmail) == "" {
		if w, ok := v.forms.Get(jobID); ok {
			f.ReceiverEmail = w.ReceiverEmail
		}
	}
	f.ReceiverEmail = strings.TrimSpace(f.ReceiverEmail)
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}

	form, err := v.working(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	req := domain.SendRequest{ApplicationID: form.ApplicationID, ReceiverEmail: f.ReceiverEmail}
	if err := v.portal.SendApplication(ctx, req); err != nil {
		return Result{}, err
	}
	v.forms.Drop(jobID)
	return done("Application sent successfully!", "/joblist"), nil
}
