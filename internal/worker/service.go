// Package worker provides the HTTP service for the career momentum engine.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/internal/config"
	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/internal/progress"
)

// Service configuration constants
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ReadHeaderTimeout bounds slow clients.
	ReadHeaderTimeout = 10 * time.Second
)

// Dependencies are the collaborators the worker serves.
type Dependencies struct {
	Progress *progress.Service
	Verifier *auth.Verifier
	// Checks are pinged by /api/ready, keyed by dependency name.
	Checks map[string]db.Pinger
}

// Service is the HTTP front of the progress engine.
type Service struct {
	version  string
	config   *config.Config
	progress *progress.Service
	verifier *auth.Verifier
	checks   map[string]db.Pinger
	limiter  *PerClientRateLimiter

	router    *chi.Mux
	server    *http.Server
	startTime time.Time

	wg sync.WaitGroup
}

// NewService creates the worker service and registers its routes.
func NewService(version string, cfg *config.Config, deps Dependencies) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Progress == nil {
		return nil, errors.New("progress service is required")
	}
	if deps.Verifier == nil {
		return nil, errors.New("token verifier is required")
	}

	checks := deps.Checks
	if checks == nil {
		checks = map[string]db.Pinger{}
	}

	svc := &Service{
		version:   version,
		config:    cfg,
		progress:  deps.Progress,
		verifier:  deps.Verifier,
		checks:    checks,
		limiter:   NewPerClientRateLimiter(DefaultRateLimit, DefaultRateBurst),
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}

	svc.setupMiddleware()
	svc.setupRoutes()

	return svc, nil
}

// Handler returns the HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware.
func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(hlog.NewHandler(log.Logger))
	s.router.Use(RequestID)
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
	s.router.Use(SecurityHeaders(s.config.AllowedOrigins))
	s.router.Use(MaxBodySize(s.config.MaxBodyBytes))
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/ready", s.handleReady)

	s.router.Group(func(r chi.Router) {
		r.Use(Authenticate(s.verifier))
		r.Use(PerClientRateLimitMiddleware(s.limiter))
		r.Use(RequireJSONContentType)
		r.Post("/api/progress", s.handleProgress)
	})
}

// Start listens on the configured port and serves in the background.
// It fails fast when the port cannot be bound.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.config.WorkerPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	log.Info().
		Int("port", s.config.WorkerPort).
		Int("pid", os.Getpid()).
		Str("version", s.version).
		Msg("Worker HTTP server started")

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Service) Shutdown(ctx context.Context) error {
	var shutdownErr error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = err
		}
	}

	s.wg.Wait()

	log.Info().Msg("Worker service shutdown complete")
	return shutdownErr
}
