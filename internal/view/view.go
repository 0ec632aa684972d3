// Package view turns cached server state and local form state into view
// models, and dispatches the operations behind every user action.
//
// Every exported method returns a Result or an error. Validation runs before
// any write, so a rejected form never reaches the backend.
package view

import (
	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notice is a one-line message shown to the user.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Result is what a view hands back to the surface: a model to render, an
// optional notice and an optional route to navigate to.
type Result struct {
	View     any     `json:"view,omitempty"`
	Notice   *Notice `json:"notice,omitempty"`
	Redirect string  `json:"redirect,omitempty"`
}

func render(model any) Result { return Result{View: model} }

func done(message, redirect string) Result {
	return Result{Notice: &Notice{Level: LevelSuccess, Message: message}, Redirect: redirect}
}

// Views holds what the views share.
type Views struct {
	portal   ports.PortalService
	validate *validation.Validator
	forms    *FormStore
	log      zerolog.Logger
}

// New builds the views over portal. validate checks every form before its
// write is dispatched.
func New(portal ports.PortalService, validate *validation.Validator, log zerolog.Logger) *Views {
	return &Views{
		portal:   portal,
		validate: validate,
		forms:    NewFormStore(),
		log:      log,
	}
}

// Forms exposes the application editor's working forms.
func (v *Views) Forms() *FormStore { return v.forms }
