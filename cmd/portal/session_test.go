package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emailportal/portal-client/internal/core/domain"
)

func newTokenBackend(t *testing.T) *atomic.Int32 {
	t.Helper()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  7,
		"username": "alice",
		"email":    "alice@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/api/token/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "refresh-1"})
	}))
	t.Cleanup(srv.Close)

	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("SESSION_SECRET", "cli-test-secret")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PRETTY", "false")
	return &hits
}

func TestSessionCommands_RoundTrip(t *testing.T) {
	newTokenBackend(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runLogin(ctx, []string{"-username", "alice", "-password", "pw"}, &out); err != nil {
		t.Fatalf("login: %v", err)
	}
	for _, want := range []string{"message: Logged in successfully", "username: alice", "next: /joblist"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("login output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := runWhoami(ctx, nil, &out); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	for _, want := range []string{`user_id: "7"`, "email: alice@example.com", "expired: false"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("whoami output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := runLogout(ctx, nil, &out); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if strings.TrimSpace(out.String()) != "Logged out successfully!" {
		t.Fatalf("unexpected logout output %q", out.String())
	}

	if err := runWhoami(ctx, nil, &out); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestRunLogin_BlankPasswordNeverCallsBackend(t *testing.T) {
	hits := newTokenBackend(t)
	t.Setenv("PORTAL_PASSWORD", "")

	err := runLogin(context.Background(), []string{"-username", "alice"}, &bytes.Buffer{})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("backend was called %d times", hits.Load())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run(context.Background(), "deploy", nil)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
}

func TestIdentityOf_Expired(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	u := &domain.User{ID: "1", ExpiresAt: now.Add(-time.Minute)}

	if !identityOf(u, now).Expired {
		t.Fatalf("expected an expired identity")
	}
	if identityOf(&domain.User{ID: "1"}, now).Expired {
		t.Fatalf("a token without exp never expires")
	}
}
