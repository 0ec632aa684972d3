package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/view"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to a status code and a user-facing notice.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the same envelope as successful views: {"view","notice","redirect"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, res := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, res)
	}
}

func notice(message string) *view.Notice {
	return &view.Notice{Level: view.LevelError, Message: message}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, view.Result) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, view.Result{Notice: notice(fmt.Sprintf("%v", he.Message))}
	}

	var (
		ve     *domain.ValidationError
		apiErr *domain.HTTPError
		te     *domain.TransportError
		se     *domain.SchemaError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, view.Result{
			View:   map[string]any{"form": ve.Form, "fields": ve.Fields},
			Notice: notice(strings.Join(ve.Messages(), "; ")),
		}
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, view.Result{Notice: notice("Please log in"), Redirect: "/login"}
	case errors.As(err, &apiErr):
		logBackend(log, c, err)
		msg := apiErr.Message
		if msg == "" {
			msg = "The request failed"
		}
		if apiErr.Status >= 500 {
			return http.StatusBadGateway, view.Result{Notice: notice(msg)}
		}
		return apiErr.Status, view.Result{Notice: notice(msg)}
	case errors.As(err, &te):
		logBackend(log, c, err)
		return http.StatusBadGateway, view.Result{Notice: notice("The server could not be reached")}
	case errors.As(err, &se):
		logBackend(log, c, err)
		return http.StatusBadGateway, view.Result{Notice: notice("The server sent an unexpected response")}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, view.Result{Notice: notice("The request timed out")}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, view.Result{Notice: notice("internal server error")}
}

func logBackend(log zerolog.Logger, c echo.Context, err error) {
	log.Warn().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("backend call failed")
}
