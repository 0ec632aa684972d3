// Package http is the single binding every backend operation goes through.
// It resolves paths against the configured base URL and attaches the JSON
// content headers, the bearer token of the current session and a request id.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/core/schema"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20
	userAgent      = "portal-client"
)

// Request outcomes reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeClient    = "client_error"
	OutcomeServer    = "server_error"
	OutcomeTransport = "transport_error"
)

// Recorder observes every finished request.
type Recorder interface {
	ObserveRequest(operation, outcome string, elapsed time.Duration)
}

// Config holds the binding settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the number of requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Client implements ports.Transport.
type Client struct {
	base     *url.URL
	http     *http.Client
	tokens   ports.TokenSource
	limiter  *rate.Limiter
	recorder Recorder
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithRecorder reports request outcomes to r.
func WithRecorder(r Recorder) Option { return func(c *Client) { c.recorder = r } }

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

// NewClient builds the binding. tokens may be nil for unauthenticated use.
func NewClient(cfg Config, tokens ports.TokenSource, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		log:    zerolog.Nop(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Do issues req and returns the body of a 2xx response.
func (c *Client) Do(ctx context.Context, req ports.Request) (*ports.Response, error) {
	start := time.Now()
	reqID := uuid.NewString()
	log := c.log.With().
		Str("operation", req.Operation).
		Str("request_id", reqID).
		Logger()

	resp, err := c.do(ctx, req, reqID)
	elapsed := time.Since(start)
	c.record(req.Operation, err, elapsed)

	if err != nil {
		log.Debug().Err(err).Dur("elapsed", elapsed).Msg("backend request failed")
		return nil, err
	}
	log.Debug().Int("status", resp.Status).Dur("elapsed", elapsed).Msg("backend request done")
	return resp, nil
}

func (c *Client) do(ctx context.Context, req ports.Request, reqID string) (*ports.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.TransportError{Operation: req.Operation, Err: err}
		}
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Operation, err)
	}
	httpReq.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: read access token: %w", req.Operation, err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{Operation: req.Operation, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Operation: req.Operation, Err: fmt.Errorf("read body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &domain.HTTPError{
			Operation: req.Operation,
			Status:    res.StatusCode,
			Message:   schema.ServerMessage(body),
		}
	}
	return &ports.Response{Status: res.StatusCode, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, req ports.Request) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + req.Path
	u.RawPath = ""
	u.RawQuery = req.Query.Encode()

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Multipart != nil && req.Body != nil:
		return nil, errors.New("request has both a JSON and a multipart body")
	case req.Multipart != nil:
		buf, ct, err := encodeMultipart(req.Multipart)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodeMultipart(mp *ports.Multipart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range mp.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, f := range mp.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) record(operation string, err error, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	outcome := OutcomeSuccess
	var (
		he *domain.HTTPError
		te *domain.TransportError
	)
	switch {
	case errors.As(err, &he) && he.Status >= 500:
		outcome = OutcomeServer
	case errors.As(err, &he):
		outcome = OutcomeClient
	case errors.As(err, &te):
		outcome = OutcomeTransport
	case err != nil:
		outcome = OutcomeTransport
	}
	c.recorder.ObserveRequest(operation, outcome, elapsed)
}
