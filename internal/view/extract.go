package view

import (
	"context"
	"strings"

	"github.com/emailportal/portal-client/internal/core/validation"
)

// Extract imports the job posted at f.URL, starts drafting an application
// for it and opens the editor.
func (v *Views) Extract(ctx context.Context, f validation.ExtractForm) (Result, error) {
	f.URL = strings.TrimSpace(f.URL)
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	job, err := v.portal.ExtractJob(ctx, f.URL)
	if err != nil {
		return Result{}, err
	}
	res := v.Apply(job.ID)
	res.View = cardOf(*job)
	res.Notice = &Notice{Level: LevelSuccess, Message: "Job imported, generating your application"}
	return res, nil
}
