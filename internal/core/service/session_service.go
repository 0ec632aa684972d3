package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/ports"
)

// SessionService keeps the token pair and the decoded user in a key/value
// store. It never verifies token signatures; the backend does that.
type SessionService struct {
	store  ports.KeyValueStore
	parser *jwt.Parser
	log    zerolog.Logger
}

func NewSessionService(store ports.KeyValueStore, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, parser: jwt.NewParser(), log: log}
}

// Login persists both tokens and the user. Calling it again overwrites the
// previous session. When user is nil it is decoded from the access token.
func (s *SessionService) Login(ctx context.Context, tokens domain.TokenPair, user *domain.User) error {
	if user == nil {
		decoded, err := s.DecodeAccessToken(tokens.Access)
		if err != nil {
			return err
		}
		user = decoded
	}
	raw, err := json.Marshal(claimsOf(user))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := s.store.Set(ctx, domain.KeyAccessToken, tokens.Access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := s.store.Set(ctx, domain.KeyRefreshToken, tokens.Refresh); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if err := s.store.Set(ctx, domain.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("session started")
	return nil
}

// Logout removes all three entries whether or not they exist.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, domain.KeyAccessToken, domain.KeyRefreshToken, domain.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info().Msg("session cleared")
	return nil
}

// CurrentUser returns nil, nil when nobody is logged in. A stored user that
// cannot be decoded is treated the same way.
func (s *SessionService) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.store.Get(ctx, domain.KeyUser)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var claims map[string]any
	if err := json.Unmarshal([]byte(raw), &claims); err != nil || claims == nil {
		s.log.Warn().Err(err).Msg("ignoring corrupt session user")
		return nil, nil
	}
	return domain.UserFromClaims(claims), nil
}

// AccessToken returns the stored access token or an empty string.
func (s *SessionService) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.store.Get(ctx, domain.KeyAccessToken)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load access token: %w", err)
	}
	return tok, nil
}

// DecodeAccessToken reads the claims of a JWT without checking its signature.
func (s *SessionService) DecodeAccessToken(token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	return domain.UserFromClaims(claims), nil
}

func claimsOf(u *domain.User) map[string]any {
	if u.Claims != nil {
		return u.Claims
	}
	claims := map[string]any{"user_id": u.ID}
	if u.Username != "" {
		claims["username"] = u.Username
	}
	if u.Email != "" {
		claims["email"] = u.Email
	}
	if !u.ExpiresAt.IsZero() {
		claims["exp"] = u.ExpiresAt.Unix()
	}
	return claims
}
