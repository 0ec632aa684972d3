package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/emailportal/portal-client/internal/core/domain"
)

func TestSessionStore_KeyPrefix(t *testing.T) {
	s := NewSessionStore(nil, "")
	if got := s.key("accessToken"); got != "portal:session:accessToken" {
		t.Fatalf("key = %q", got)
	}
	s = NewSessionStore(nil, "alice")
	if got := s.key("user"); got != "alice:user" {
		t.Fatalf("key = %q", got)
	}
}

// TestSessionStore_RoundTrip runs against a real server when REDIS_ADDR is set.
func TestSessionStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, Config{Addr: addr, Prefix: "portal-test:" + t.Name()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Delete(ctx, "accessToken")
		_ = s.Close()
	})

	if _, err := s.Get(ctx, "accessToken"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if err := s.Set(ctx, "accessToken", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get(ctx, "accessToken")
	if err != nil || v != "tok" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if err := s.Delete(ctx, "accessToken", "user"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "accessToken"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound after delete, got %v", err)
	}
}
