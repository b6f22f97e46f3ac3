package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/observability"
	"github.com/matzehuels/clrfp/pkg/pipeline"
)

const (
	md5Token    = "aabbccddeeff00112233445566778899"
	toolOutput  = "256 SHA256:47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU user@host (ED25519)\n"
	statusOK    = http.StatusOK
	statusUnpro = http.StatusUnprocessableEntity
)

func setupTestServer(t *testing.T) http.Handler {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger).Handler()
}

func TestHealthEndpoint(t *testing.T) {
	h := setupTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != statusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%v'", result["status"])
	}
	if _, ok := result["version"]; !ok {
		t.Error("health response has no version")
	}
}

func TestArtQuery(t *testing.T) {
	h := setupTestServer(t)

	tests := []struct {
		name        string
		url         string
		status      int
		contentType string
		bodyPrefix  string
	}{
		{"text default", "/v1/art?fp=" + md5Token, statusOK, "text/plain; charset=utf-8", "\x1b[1m"},
		{"text plain", "/v1/art?plain=1&fp=" + md5Token, statusOK, "text/plain; charset=utf-8", "+--[ ]"},
		{"png", "/v1/art?format=png&tile=8&fp=" + md5Token, statusOK, "image/png", "\x89PNG"},
		{"svg", "/v1/art?format=svg&tile=8&fp=" + md5Token, statusOK, "image/svg+xml", "<?xml"},
		{"missing fp", "/v1/art", http.StatusBadRequest, "application/json", "{"},
		{"odd token", "/v1/art?fp=abc", statusUnpro, "application/json", "{"},
		{"short token", "/v1/art?fp=aabbcc", statusUnpro, "application/json", "{"},
		{"32 byte token", "/v1/art?plain=1&fp=" + strings.Repeat("ab", 32), statusOK, "text/plain; charset=utf-8", "+--[ ]"},
		{"33 digit token", "/v1/art?fp=a" + strings.Repeat("00", 16), statusUnpro, "application/json", "{"},
		{"bad format", "/v1/art?format=gif&fp=" + md5Token, http.StatusBadRequest, "application/json", "{"},
		{"bad tile", "/v1/art?format=png&tile=x&fp=" + md5Token, http.StatusBadRequest, "application/json", "{"},
		{"bad plain", "/v1/art?plain=maybe&fp=" + md5Token, http.StatusBadRequest, "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", tt.url, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.HasPrefix(w.Body.String(), tt.bodyPrefix) {
				t.Errorf("body starts with %q, want %q", w.Body.String()[:min(20, w.Body.Len())], tt.bodyPrefix)
			}
		})
	}
}

func TestArtBody(t *testing.T) {
	h := setupTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/v1/art?plain=true", strings.NewReader(toolOutput)))
	if w.Code != statusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "+--[ED25519 256]--+") {
		t.Errorf("unexpected header line: %q", strings.SplitN(w.Body.String(), "\n", 2)[0])
	}
	if !strings.Contains(w.Body.String(), "[SHA256]") {
		t.Error("footer should name the digest")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/v1/art", strings.NewReader("hello world")))
	if w.Code != statusUnpro {
		t.Errorf("no fingerprint: status = %d, want 422", w.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != errors.ErrCodeFingerprintNotFound {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.RequestID == "" {
		t.Error("error response has no request id")
	}
}

func TestArtCacheHeader(t *testing.T) {
	h := setupTestServer(t)
	url := "/v1/art?format=png&tile=8&fp=" + md5Token

	var bodies [][]byte
	for i, want := range []string{"MISS", "HIT"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
		if got := w.Header().Get("X-Cache"); got != want {
			t.Errorf("request %d: X-Cache = %q, want %q", i, got, want)
		}
		bodies = append(bodies, w.Body.Bytes())
	}
	if !bytes.Equal(bodies[0], bodies[1]) {
		t.Error("cached body differs from rendered body")
	}
}

func TestRequestID(t *testing.T) {
	h := setupTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if id := w.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a UUID", id)
	}

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if id := w.Header().Get(RequestIDHeader); id != "abc-123" {
		t.Errorf("request id = %q, want client value", id)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupTestServer(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("DELETE", "/v1/art", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeFingerprintNotFound, 422},
		{errors.ErrCodeOddLength, 422},
		{errors.ErrCodeByteLength, 422},
		{errors.ErrCodeBadChar, 422},
		{errors.ErrCodeInputConflict, 400},
		{errors.ErrCodeInvalidOption, 400},
		{errors.ErrCodeInternal, 500},
		{errors.ErrCodeKeyUnavailable, 500},
	}
	for _, tt := range tests {
		if got := StatusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestHealthStats(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	counters := &observability.Counters{}
	observability.Register(counters)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, log.New(io.Discard))
	h := New(runner, log.New(io.Discard), WithCounters(counters)).Handler()

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/art?format=png&fp="+md5Token, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/art?fp=zz", nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	var body struct {
		Stats observability.Snapshot `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := observability.Snapshot{
		Renders:       1,
		ExtractErrors: 1,
		CacheHits:     1,
		CacheMisses:   1,
		Requests:      3,
	}
	got := body.Stats
	got.CacheBytes = 0
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
	if body.Stats.CacheBytes == 0 {
		t.Error("cache bytes not counted")
	}
}
