package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// memoryKV is an in-memory ports.KeyValueStore.
type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV { return &memoryKV{data: map[string]string{}} }

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrEntryNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryKV) Ping(context.Context) error { return nil }

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestSessionService_LoginStoresAllEntries(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	svc := NewSessionService(kv, zerolog.Nop())

	exp := time.Now().Add(time.Hour).Unix()
	access := signToken(t, jwt.MapClaims{"user_id": 7, "username": "alice", "exp": exp, "token_type": "access"})
	require.NoError(t, svc.Login(ctx, domain.TokenPair{Access: access, Refresh: "refresh-1"}, nil))

	assert.Equal(t, access, kv.data[domain.KeyAccessToken])
	assert.Equal(t, "refresh-1", kv.data[domain.KeyRefreshToken])
	assert.Contains(t, kv.data[domain.KeyUser], `"token_type":"access"`)

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, exp, user.ExpiresAt.Unix())
	assert.Equal(t, "access", user.Claims["token_type"])

	tok, err := svc.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, tok)
}

func TestSessionService_LoginIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(newMemoryKV(), zerolog.Nop())

	require.NoError(t, svc.Login(ctx, domain.TokenPair{Access: "a1", Refresh: "r1"}, &domain.User{ID: "1", Username: "alice"}))
	require.NoError(t, svc.Login(ctx, domain.TokenPair{Access: "a2", Refresh: "r2"}, &domain.User{ID: "2", Username: "bob"}))

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	tok, _ := svc.AccessToken(ctx)
	assert.Equal(t, "a2", tok)
}

func TestSessionService_LogoutIsUnconditional(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	svc := NewSessionService(kv, zerolog.Nop())

	require.NoError(t, svc.Logout(ctx), "logout without a session")

	require.NoError(t, svc.Login(ctx, domain.TokenPair{Access: "a", Refresh: "r"}, &domain.User{ID: "1"}))
	require.NoError(t, svc.Logout(ctx))
	assert.Empty(t, kv.data)

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	tok, err := svc.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSessionService_CorruptUserIsAbsent(t *testing.T) {
	kv := newMemoryKV()
	kv.data[domain.KeyUser] = "{not json"
	svc := NewSessionService(kv, zerolog.Nop())

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionService_DecodeAccessTokenRejectsGarbage(t *testing.T) {
	svc := NewSessionService(newMemoryKV(), zerolog.Nop())
	_, err := svc.DecodeAccessToken("not-a-jwt")
	assert.Error(t, err)

	err = svc.Login(context.Background(), domain.TokenPair{Access: "not-a-jwt"}, nil)
	assert.Error(t, err)
}
