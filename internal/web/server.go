// Package web provides the HTTP API for the ingest service: file upload
// endpoints that feed the pipeline, a quarantine review endpoint, and a
// health check. The handlers stay thin; all ETL behavior lives behind the
// Ingestor interface.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skydeck/aeroload/internal/config"
	"github.com/skydeck/aeroload/internal/pipeline"
	"github.com/skydeck/aeroload/internal/quarantine"
	"github.com/skydeck/aeroload/internal/web/middleware"
)

// Ingestor runs the ETL pipeline over uploaded files.
type Ingestor interface {
	ProcessFile(ctx context.Context, file pipeline.File) (pipeline.FileResult, error)
	ProcessBatch(ctx context.Context, files []pipeline.File) ([]pipeline.FileResult, error)
}

// QuarantineLister reads back quarantined rows for review.
type QuarantineLister interface {
	ListQuarantine(ctx context.Context, limit int) ([]quarantine.Entry, error)
}

// Server is the ingest HTTP server.
type Server struct {
	ingestor   Ingestor
	quarantine QuarantineLister
	cfg        config.ServerConfig
	maxUpload  int64
	router     *chi.Mux
	server     *http.Server
	log        *slog.Logger
}

// NewServer wires the API over the ingestor and quarantine reader.
func NewServer(ingestor Ingestor, q QuarantineLister, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		ingestor:   ingestor,
		quarantine: q,
		cfg:        cfg.Server,
		maxUpload:  cfg.Ingest.MaxFileSize,
		router:     chi.NewRouter(),
		log:        log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/ingest/sales", s.handleIngestSales)
		r.Get("/quarantine", s.handleQuarantine)
	})
}

// Start begins listening for HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.log.Info("http server listening", "addr", addr)
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
