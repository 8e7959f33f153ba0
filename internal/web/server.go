// Package web is the thin HTTP boundary over the session manager: upload,
// search, rescue, review, and export as JSON endpoints, with the export
// response carrying the cleaned file as a download.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetsweep/internal/config"
	"sheetsweep/internal/session"
)

// Server is the HTTP server for the cleanup API.
type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	router   *chi.Mux
	server   *http.Server
}

// NewServer wires the router, middleware, and routes around a session manager.
func NewServer(sessions *session.Manager, cfg *config.Config) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(corsMiddleware(s.cfg.Server.CORSOrigins))
	s.router.Use(requestLogger)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/search", s.handleSearch)
			r.Post("/rescue", s.handleRescue)
			r.Post("/queue/clear", s.handleClearQueue)
			r.Get("/pending", s.handlePending)
			r.Get("/export", s.handleExport)
		})
	})
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
