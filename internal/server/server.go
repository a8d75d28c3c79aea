// Package server wires handlers, middleware and routes into an HTTP server.
//
// This is the composition root for HTTP: it receives ready-made collaborators (the
// executor backend, the chat streamer, the token service) and only decides which URL
// reaches which handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/tdd-playground/internal/auth"
	"github.com/sakif/tdd-playground/internal/chat"
	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/handler"
	"github.com/sakif/tdd-playground/internal/middleware"
)

// ShutdownTimeout is how long in-flight requests get once shutdown starts.
const ShutdownTimeout = 30 * time.Second

// Config holds server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	BackendName string
}

// Deps are the collaborators the routes need. Tokens may be nil to disable auth.
type Deps struct {
	Executor executor.Executor
	Streamer *chat.Streamer
	Tokens   *auth.TokenService
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	deps   Deps
	logger *slog.Logger
}

// New creates a new Server with its routes in place.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		deps:   deps,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
// GET    /                 → welcome message
// GET    /healthz          → liveness + backend name
// GET    /metrics          → Prometheus metrics
// POST   /api/v1/code      → run one snippet
// POST   /api/v1/tests     → run tests against an implementation
// POST   /api/v1/execute   → run an arbitrary bundle
// POST   /api/v1/chat      → stream an LLM answer (SSE)
//
// Middleware order matters: CORS answers preflights before auth can reject them.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(middleware.DefaultCORSConfig(s.config.CORSOrigins)))

	s.router.Get("/", handler.HandleRoot)
	s.router.Get("/healthz", handler.Health(s.config.BackendName))
	s.router.Handle("/metrics", promhttp.Handler())

	executeHandler := handler.NewExecuteHandler(s.deps.Executor, s.logger)
	chatHandler := handler.NewChatHandler(s.deps.Streamer, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.deps.Tokens != nil {
			r.Use(auth.RequireAuth(s.deps.Tokens))
		}
		r.Post("/code", executeHandler.HandleCode)
		r.Post("/tests", executeHandler.HandleTests)
		r.Post("/execute", executeHandler.HandleExecute)
		if s.deps.Streamer != nil {
			r.Post("/chat", chatHandler.HandleChat)
		}
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Chat streams lift this per request.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("backend", s.config.BackendName),
			slog.Bool("auth", s.deps.Tokens != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	}
}
