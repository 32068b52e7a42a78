// Package dashboard serves scan results over HTTP as a small JSON API.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/stamford_scanner/internal/feed"
	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
	"github.com/eddiefleurent/stamford_scanner/internal/storage"
)

// Server exposes stored scans and triggers new ones.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	storage   storage.Interface
	scanner   *scanner.Scanner
	provider  feed.Provider
	logger    *logrus.Logger
	port      int
	authToken string
}

// Config carries the HTTP listener settings.
type Config struct {
	Port      int
	AuthToken string
}

// NewServer wires the API around the given storage, scanner, and feed.
func NewServer(cfg Config, store storage.Interface, sc *scanner.Scanner, provider feed.Provider, logger *logrus.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		storage:   store,
		scanner:   sc,
		provider:  provider,
		logger:    logger,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}

	s.setupRoutes()
	return s
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/scans", s.handleGetScans)
	s.router.Get("/api/scans/{id}", s.handleGetScan)
	s.router.Get("/api/latest", s.handleGetLatest)
	s.router.Get("/api/stats", s.handleGetStats)
	s.router.Post("/api/scan", s.handleRunScan)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	s.logger.Infof("Starting dashboard server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleGetScans(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.storage.GetHistory())
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.storage.GetScan(id)
	if err != nil {
		if errors.Is(err, storage.ErrScanNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		s.logger.WithError(err).Error("Failed to load scan")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.storage.GetLatest()
	if err != nil {
		if errors.Is(err, storage.ErrNoScans) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		s.logger.WithError(err).Error("Failed to load latest scan")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.storage.GetStatistics())
}

func (s *Server) handleRunScan(w http.ResponseWriter, r *http.Request) {
	snap, err := s.provider.Fetch(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch chain snapshot")
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	res, err := s.scanner.Scan(r.Context(), snap.Symbol, snap.Legs, snap.SpotPrice)
	if err != nil {
		s.logger.WithError(err).Error("Scan failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := s.storage.AddScan(res); err != nil {
		s.logger.WithError(err).Error("Failed to persist scan")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
