package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func multipartRequest(t *testing.T, resume []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("username", "alice"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := w.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(resume); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/register", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestReadResume_Multipart(t *testing.T) {
	e := echo.New()
	c := e.NewContext(multipartRequest(t, []byte("%PDF-1.7")), httptest.NewRecorder())

	resume, err := readResume(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resume == nil || resume.Filename != "cv.pdf" || string(resume.Content) != "%PDF-1.7" {
		t.Fatalf("unexpected resume: %+v", resume)
	}
}

func TestReadResume_TooLarge(t *testing.T) {
	e := echo.New()
	c := e.NewContext(multipartRequest(t, make([]byte, MaxResumeBytes+1)), httptest.NewRecorder())

	_, err := readResume(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %v", err)
	}
}

func TestReadResume_JSONHasNone(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	resume, err := readResume(c)
	if err != nil || resume != nil {
		t.Fatalf("expected no resume, got %+v, %v", resume, err)
	}
}

func TestPathID(t *testing.T) {
	cases := map[string]bool{"42": true, "0": false, "-3": false, "abc": false}
	for raw, ok := range cases {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		id, err := pathID(c, "id")
		if ok && (err != nil || id != 42) {
			t.Fatalf("pathID(%q) = %d, %v", raw, id, err)
		}
		var he *echo.HTTPError
		if !ok && (!errors.As(err, &he) || he.Code != http.StatusBadRequest) {
			t.Fatalf("pathID(%q): expected 400, got %v", raw, err)
		}
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness_Degraded(t *testing.T) {
	h := NewReadinessHandler(map[string]Pinger{
		"session": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	dep := resp.Dependencies["session"]
	if resp.Status != "degraded" || dep.Status != "unhealthy" || dep.Error != "connection refused" {
		t.Fatalf("unexpected readiness payload: %+v", resp)
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected liveness response %d %s", rec.Code, rec.Body.String())
	}
}
