// Package server exposes the document pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render/{mode}   body: PLMXML document; ?lenient=true, ?detailed=true, ?scale=N
//	GET  /healthz
//	GET  /version
//	GET  /metrics
//
// Document errors answer 422 and caller errors 400, both as JSON
// {"code": ..., "message": ...}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

// keyPrefix separates API cache entries from CLI entries on a shared backend.
const keyPrefix = "api:"

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Cache stores rendered output. Nil disables caching.
	Cache cache.Cache

	// TTL is the lifetime of cached output. Zero means the pipeline default.
	TTL time.Duration

	// MaxBody bounds request documents. Zero means errors.DefaultMaxDocumentSize.
	MaxBody int

	// Lenient is the default for requests that do not pass ?lenient.
	Lenient bool

	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int
	lenient bool
	router  chi.Router
}

// New creates a Server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxBody := opts.MaxBody
	if maxBody <= 0 {
		maxBody = errors.DefaultMaxDocumentSize
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	runner := pipeline.NewRunner(opts.Cache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyPrefix), logger)
	if opts.TTL > 0 {
		runner.TTL = opts.TTL
	}

	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: maxBody,
		lenient: opts.Lenient,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Post("/v1/render/{mode}", s.handleRender)
	r.Get("/healthz", handleHealth)
	r.Get("/version", handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
