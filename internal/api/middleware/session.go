package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/ports"
)

// UserKey is the context key the session user is stored under.
const UserKey = "user"

// Session loads the session user, if any, and injects it into the context.
// Requests without a session pass through; RequireSession rejects them.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := sessions.CurrentUser(c.Request().Context())
			if err != nil {
				return err
			}
			if user != nil {
				c.Set(UserKey, user)
			}
			return next(c)
		}
	}
}

// User returns the session user injected by Session, or nil.
func User(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}

// RequireSession rejects requests without a session user with
// domain.ErrNoSession.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if User(c) == nil {
				return domain.ErrNoSession
			}
			return next(c)
		}
	}
}
