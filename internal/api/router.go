package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/api/handler"
	"github.com/emailportal/portal-client/internal/api/middleware"
	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/view"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Views     *view.Views
	Sessions  ports.SessionService
	Validator echo.Validator
	// Probes are pinged by the readiness probe, keyed by name.
	Probes map[string]handler.Pinger
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = d.Validator
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Probes)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is session storage up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Views)
	jobHandler := handler.NewJobHandler(d.Views)
	applicationHandler := handler.NewApplicationHandler(d.Views)
	settingsHandler := handler.NewSettingsHandler(d.Views)
	mailHandler := handler.NewMailHandler(d.Views)

	session := middleware.Session(d.Sessions)
	required := []echo.MiddlewareFunc{session, middleware.RequireSession()}

	// --- Public views ---
	e.GET("/", authHandler.Home, session)
	e.POST("/register", authHandler.Register, session)
	e.POST("/login", authHandler.Login, session)
	e.POST("/logout", authHandler.Logout, session)

	// --- Views requiring a session ---
	e.GET("/me", authHandler.Me, required...)
	e.GET("/profile", authHandler.Profile, required...)

	e.GET("/joblist", jobHandler.List, required...)
	e.POST("/joblist/:id/apply", jobHandler.Apply, required...)
	e.POST("/jobform", jobHandler.Create, required...)
	e.GET("/myjobs", jobHandler.Applied, required...)
	e.POST("/extract", jobHandler.Extract, required...)

	e.GET("/jobapplication/:id", applicationHandler.Show, required...)
	e.PATCH("/jobapplication/:id/form", applicationHandler.UpdateForm, required...)
	e.PUT("/jobapplication/:id", applicationHandler.Save, required...)
	e.POST("/jobapplication/:id/regenerate", applicationHandler.Regenerate, required...)
	e.POST("/jobapplication/:id/send", applicationHandler.Send, required...)

	e.GET("/mails", mailHandler.List, required...)

	settings := e.Group("/settings", required...)
	settings.GET("/prompts", settingsHandler.ListPrompts)
	settings.POST("/prompts", settingsHandler.CreatePrompt)
	settings.PATCH("/prompts/:id", settingsHandler.UpdatePrompt)
	settings.DELETE("/prompts/:id", settingsHandler.DeletePrompt)
	settings.GET("/smtp", settingsHandler.ListSMTP)
	settings.POST("/smtp", settingsHandler.CreateSMTP)
	settings.PUT("/smtp/:id", settingsHandler.UpdateSMTP)
	settings.DELETE("/smtp/:id", settingsHandler.DeleteSMTP)
	settings.POST("/smtp/test-send", settingsHandler.TestSend)

	return e
}
