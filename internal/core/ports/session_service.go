package ports

import (
	"context"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// SessionService owns the persisted login state. It is the only component
// that reads or writes the session entries.
type SessionService interface {
	Login(ctx context.Context, tokens domain.TokenPair, user *domain.User) error
	Logout(ctx context.Context) error
	// CurrentUser returns nil and no error when nobody is logged in.
	CurrentUser(ctx context.Context) (*domain.User, error)
	// AccessToken returns an empty string when nobody is logged in.
	AccessToken(ctx context.Context) (string, error)
	DecodeAccessToken(token string) (*domain.User, error)
}

// TokenSource supplies the bearer token attached to outbound requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}
