// File path: internal/api/server.go

// Package api exposes the knowledge base over HTTP. The core stays
// single-threaded: one mutex serializes every handler's access to the base
// and its derived state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/actionatlas/actionatlas/internal/catalog"
	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/config"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/llm"
	"github.com/actionatlas/actionatlas/internal/search"
	"github.com/actionatlas/actionatlas/internal/store"
)

// Version is stamped by the build; the default marks ad hoc builds.
var Version = "dev"

type Server struct {
	router chi.Router
	cfg    config.Config
	logger *slog.Logger

	mu      sync.Mutex
	base    *kb.Base
	store   *store.Store
	catalog *catalog.Store
	index   *search.Index

	provider llm.Provider
	started  time.Time
}

// NewServer wires the handlers around an already-hydrated base. catalog and
// provider may be nil; the affected routes fall back to in-memory answers
// and unenriched documentation.
func NewServer(cfg config.Config, base *kb.Base, st *store.Store, cat *catalog.Store, provider llm.Provider) (*Server, error) {
	if base == nil {
		return nil, errors.New("knowledge base required")
	}
	if st == nil {
		return nil, errors.New("snapshot store required")
	}
	logger := common.Logger()
	srv := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		logger:   logger,
		base:     base,
		store:    st,
		catalog:  cat,
		index:    search.NewIndex(base),
		provider: provider,
		started:  time.Now(),
	}
	srv.routes()
	logger.Info("api: server ready",
		"actions", base.TotalIdentifiers(),
		"catalog", cat != nil,
		"provider", providerName(provider))
	return srv, nil
}

func providerName(p llm.Provider) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on the configured address until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("api: listening", "addr", s.cfg.ListenAddr)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		s.logger.Info("api: stopped")
		return nil
	}
}

func (s *Server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
			s.logger.Debug("request",
				"id", requestID, "method", r.Method, "path", r.URL.Path,
				"dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/ingest", s.handleIngest)
	s.router.Post("/v1/docs", s.handleDocs)
	s.router.Get("/v1/actions", s.handleActions)
	s.router.Get("/v1/actions/{identifier}", s.handleActionDetail)
	s.router.Get("/v1/stats", s.handleStats)
	s.router.Get("/v1/search", s.handleSearch)
	s.router.Get("/v1/export", s.handleExport)
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Method(http.MethodGet, "/debug/vars", expvar.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	actions := s.base.TotalIdentifiers()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        Version,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"actions":        actions,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
