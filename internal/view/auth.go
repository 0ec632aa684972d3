package view

import (
	"context"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// Resume is the optional file attached to a registration.
type Resume struct {
	Filename string
	Content  []byte
}

// Register creates the account and sends the user to the login page.
func (v *Views) Register(ctx context.Context, f validation.RegisterForm, resume *Resume) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	reg := domain.Registration{Username: f.Username, Email: f.Email, Password: f.Password}
	if resume != nil {
		reg.ResumeFilename = resume.Filename
		reg.Resume = resume.Content
	}
	if err := v.portal.Register(ctx, reg); err != nil {
		return Result{}, err
	}
	return done("Registration successful", "/login"), nil
}

// Login persists the session and opens the job list.
func (v *Views) Login(ctx context.Context, f validation.LoginForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	user, err := v.portal.Login(ctx, domain.Credentials{Username: f.Username, Password: f.Password})
	if err != nil {
		return Result{}, err
	}
	v.forms.Clear()
	v.log.Info().Str("user", user.Username).Msg("logged in")

	res := done("Logged in successfully", "/joblist")
	res.View = NavbarFor(user)
	return res, nil
}

// Logout drops the session and returns to the landing page.
func (v *Views) Logout(ctx context.Context) (Result, error) {
	v.forms.Clear()
	if err := v.portal.Logout(ctx); err != nil {
		return Result{}, err
	}
	return done("Logged out successfully!", "/"), nil
}
