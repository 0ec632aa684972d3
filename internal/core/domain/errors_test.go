package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", &TransportError{Operation: "list jobs", Err: errors.New("dial tcp: refused")}, true},
		{"wrapped transport", fmt.Errorf("query: %w", &TransportError{Err: errors.New("eof")}), true},
		{"server error", &HTTPError{Status: 502}, true},
		{"too many requests", &HTTPError{Status: 429}, true},
		{"not found", &HTTPError{Status: 404}, false},
		{"unauthorized", &HTTPError{Status: 401}, false},
		{"schema", &SchemaError{Reason: "not an array"}, false},
		{"validation", &ValidationError{Form: "prompt"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestValidationError_MessagesSorted(t *testing.T) {
	err := &ValidationError{Form: "smtp", Fields: map[string]string{
		"port": "port must be between 1 and 65535",
		"host": "host is required",
	}}
	want := "smtp: host is required; port must be between 1 and 65535"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUserFromClaims(t *testing.T) {
	u := UserFromClaims(map[string]any{
		"user_id":  float64(7),
		"username": "alice",
		"exp":      float64(1700000000),
	})
	if u.ID != "7" || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.ExpiresAt.Unix() != 1700000000 {
		t.Fatalf("unexpected expiry: %v", u.ExpiresAt)
	}
}

func TestHTTPError_Message(t *testing.T) {
	err := &HTTPError{Operation: "create prompt", Status: 400, Message: "name taken"}
	if err.Error() != "create prompt: request failed with status 400: name taken" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
