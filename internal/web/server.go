// Package web provides the JSON HTTP API for importing workbooks.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmcgovern/handy-scripts/internal/config"
	"github.com/cmcgovern/handy-scripts/internal/core"
	weblog "github.com/cmcgovern/handy-scripts/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for workbook imports.
type Server struct {
	service     *core.Service
	db          Pinger
	cfg         config.ServerConfig
	maxFileSize int64
	router      *chi.Mux
	server      *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, db Pinger, cfg *config.Config) *Server {
	s := &Server{
		service:     service,
		db:          db,
		cfg:         cfg.Server,
		maxFileSize: cfg.Import.MaxFileSize,
		router:      chi.NewRouter(),
	}
	s.setupMiddleware(cfg.Import.Timeout)
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware(importTimeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	if importTimeout > 0 {
		// Leave room for the response after the import deadline fires.
		s.router.Use(middleware.Timeout(importTimeout + 30*time.Second))
	}
	s.router.Use(noSniff)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/workbooks", s.handleImport)
		r.Post("/workbooks/undo", s.handleUndo)
		r.Get("/imports/status", s.handleImportStatus)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running imports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.service.WaitForImports(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func noSniff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
