// File path: internal/api/search_handler.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/actionatlas/actionatlas/internal/analysis"
	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/common/telemetry"
	"github.com/actionatlas/actionatlas/internal/export"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing q parameter"))
		return
	}
	limit := queryInt(r, "limit", 5)

	s.mu.Lock()
	index := s.index
	s.mu.Unlock()
	started := time.Now()
	results := index.Search(query, limit)
	telemetry.RecordSearch(time.Since(started))
	s.logger.Debug("api: search", "query", query, "results", len(results))
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "json"
	}

	s.mu.Lock()
	report := analysis.Analyze(s.base, analysis.Options{
		MinPatternFrequency: s.cfg.Analysis.MinPatternFrequency,
		MaxPatternLength:    s.cfg.Analysis.MaxPatternLength,
	})
	data, err := export.Data(s.base, report, format)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	contentType := "application/json"
	if format == "yaml" || format == "yml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "actionatlas_export."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": common.RecentLogs(),
	})
}
