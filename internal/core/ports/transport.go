package ports

import (
	"context"
	"net/url"
)

// FilePart is one file field of a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// Multipart is a multipart/form-data request body.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

// Request is a backend call relative to the configured base URL.
type Request struct {
	// Operation names the call in errors, logs and metrics.
	Operation string
	Method    string
	Path      string
	Query     url.Values
	// Body is encoded as JSON when non-nil. Mutually exclusive with Multipart.
	Body      any
	Multipart *Multipart
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status int
	Body   []byte
}

// Transport issues backend calls. Non-2xx statuses are returned as
// *domain.HTTPError and network failures as *domain.TransportError.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
