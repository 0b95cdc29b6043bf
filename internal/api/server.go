// Package api exposes the processing pipeline over HTTP: synchronous
// text processing, file uploads, stored-result retrieval, and dataset
// export.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/textstitch/textstitch/internal/config"
	"github.com/textstitch/textstitch/internal/logging"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/pkg/types"
)

// resultCacheSize bounds the in-memory cache of recently fetched
// results. Full results can be large, so this stays small.
const resultCacheSize = 64

// Server wraps the HTTP server instance and its handlers
type Server struct {
	httpServer *http.Server
	store      storage.Store
	defaults   types.ProcessingConfig
	cache      *lru.Cache[string, *storage.StoredResult]
	logger     *log.Logger
}

// NewServer builds and wires all routes
func NewServer(cfg *config.Config, store storage.Store, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cache, err := lru.New[string, *storage.StoredResult](resultCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:    store,
		defaults: cfg.Processing,
		cache:    cache,
		logger:   logger,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/process", s.handleProcess)
		api.Post("/files/upload", s.handleUpload)
		api.Get("/tokenizers", s.handleTokenizers)
		api.Get("/results", s.handleListResults)
		api.Get("/results/{id}", s.handleGetResult)
		api.Delete("/results/{id}", s.handleDeleteResult)
		api.Get("/results/{id}/export", s.handleExportResult)
	})

	return r
}

// Handler returns the configured HTTP handler, used directly by tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
