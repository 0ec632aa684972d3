package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEntryNotFound is returned by key/value stores for missing keys.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNoSession means a view needs a logged-in user and there is none.
	ErrNoSession = errors.New("no active session")
	// ErrUnknownSMTPConfig means a send referenced a config that is not loaded.
	ErrUnknownSMTPConfig = errors.New("unknown smtp configuration")
)

// ValidationError is raised before dispatch; it never reaches the network.
type ValidationError struct {
	Form   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Form, strings.Join(e.Messages(), "; "))
}

// Messages returns the field messages in a stable order.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return msgs
}

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Operation string
	Status    int
	// Message is the server-provided error text, empty when none was found.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request failed with status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Operation, e.Status, e.Message)
}

// Temporary reports whether retrying may help.
func (e *HTTPError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429
}

// TransportError means the request never produced a response.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError is a 2xx response whose body does not have the declared shape.
type SchemaError struct {
	Operation string
	Path      string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: unexpected response: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: unexpected response at %q: %s", e.Operation, e.Path, e.Reason)
}

// IsRetryable reports whether a failed query may be attempted again.
// Validation, schema and 4xx errors are final.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Temporary()
	}
	return false
}
