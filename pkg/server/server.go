// Package server exposes the renderer over HTTP.
//
// Routes:
//
//	GET  /healthz                    build info and status
//	GET  /v1/art?fp=<token>&...      render a bare fingerprint token
//	POST /v1/art?...                 render the fingerprint found in the body
//
// Both art routes accept format (text, png, svg), color (foreground,
// background), plain (bool) and tile (pixels). The server only reads
// fingerprints supplied by the client; it never opens key files.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/clrfp/pkg/buildinfo"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/observability"
	"github.com/matzehuels/clrfp/pkg/pipeline"
)

const (
	// maxBody caps POST bodies; tool output is a single line.
	maxBody = 64 << 10

	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server renders fingerprints on request.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	counters *observability.Counters
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options used for query parameters the client leaves
// out. Input and Source are ignored.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithCounters reports c under "stats" in the health response.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.counters = c }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/art", s.handleArtQuery)
		r.Post("/art", s.handleArtBody)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var stats *observability.Snapshot
	if s.counters != nil {
		snap := s.counters.Snapshot()
		stats = &snap
	}
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
		Stats *observability.Snapshot `json:"stats,omitempty"`
	}{"ok", buildinfo.Get(), stats})
}

func (s *Server) handleArtQuery(w http.ResponseWriter, r *http.Request) {
	fp := r.URL.Query().Get("fp")
	if fp == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidOption, "missing fp parameter"))
		return
	}
	s.render(w, r, fp)
}

func (s *Server) handleArtBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidOption, err, "read body"))
		return
	}
	s.render(w, r, string(body))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, input string) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Render(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// options merges query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Input = pipeline.InputFingerprint
	opts.Source = ""
	opts.Logger = LoggerFrom(r.Context(), s.logger)

	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("color"); v != "" {
		opts.Color = v
	}
	if v := q.Get("plain"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "invalid plain value %q", v)
		}
		opts.Plain = b
	}
	if v := q.Get("tile"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidOption, "invalid tile value %q", v)
		}
		opts.Tile = n
	}
	return opts, opts.ValidateAndSetDefaults()
}

// StatusFor maps an error to an HTTP status.
func StatusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeFingerprintNotFound, errors.IsInvalidFingerprint(err):
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeInputConflict, code == errors.ErrCodeInvalidOption, code == errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := LoggerFrom(r.Context(), s.logger)
	if status >= 500 {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
