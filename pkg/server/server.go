// Package server exposes the family-tree pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe with build version
//	GET  /metrics      Prometheus metrics, when enabled
//	POST /v1/render    CSV body → diagram (?format=svg|png|pdf|dot|json&appearance=record|detailed&rankdir=TB|LR|BT|RL)
//	POST /v1/check     CSV body → JSON summary of persons and households
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with the coded error from package errors:
//
//	{"error": {"code": "FAMILY_INCONSISTENT", "message": "..."}, "request_id": "..."}
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/familytree/pkg/pipeline"
)

// DefaultMaxBodyBytes caps uploaded CSV size.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a [Server].
type Options struct {
	MaxBodyBytes int64
	Timeout      time.Duration

	// Metrics, if set, is served at GET /metrics.
	Metrics http.Handler
}

// Server serves rendering requests through a shared [pipeline.Runner].
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	opts    Options
	handler http.Handler
}

// New builds a server. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/check", s.handleCheck)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
