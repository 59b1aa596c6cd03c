// File path: internal/api/ingest_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/actionatlas/actionatlas/internal/docs"
	"github.com/actionatlas/actionatlas/internal/ingest"
	"github.com/actionatlas/actionatlas/internal/search"
)

type ingestRequest struct {
	Paths []string `json:"paths"`
}

type fileErrorView struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type ingestResponse struct {
	RunID          string          `json:"run_id"`
	Processed      int             `json:"processed"`
	Failed         int             `json:"failed"`
	NewIdentifiers []string        `json:"new_identifiers,omitempty"`
	Errors         []fileErrorView `json:"errors,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("api: ingest decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Paths) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("paths is required"))
		return
	}
	files, err := ingest.ExpandPaths(req.Paths, false)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	s.logger.Info("api: ingest requested", "paths", len(req.Paths), "files", len(files))

	s.mu.Lock()
	defer s.mu.Unlock()
	sum, err := ingest.NewDriver(s.base).Run(r.Context(), files)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.Save(s.base); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.catalog != nil {
		if err := s.catalog.Sync(r.Context(), s.base); err != nil {
			s.logger.Warn("api: catalog sync failed", "error", err)
		} else if err := s.catalog.RecordRun(r.Context(), sum); err != nil {
			s.logger.Warn("api: catalog run record failed", "error", err)
		}
	}
	s.index = search.NewIndex(s.base)

	resp := ingestResponse{
		RunID:          sum.RunID,
		Processed:      sum.Processed,
		Failed:         sum.Failed,
		NewIdentifiers: sum.NewIdentifiers,
	}
	for _, fe := range sum.Errors {
		resp.Errors = append(resp.Errors, fileErrorView{Path: fe.Path, Error: fe.Err.Error()})
	}
	s.logger.Info("api: ingest finished",
		"run_id", sum.RunID, "processed", sum.Processed, "failed", sum.Failed)
	writeJSON(w, http.StatusOK, resp)
}

type docsRequest struct {
	Path string `json:"path"`
}

type docsResponse struct {
	Path        string   `json:"path"`
	Preserved   []string `json:"preserved,omitempty"`
	Replaced    []string `json:"replaced,omitempty"`
	Degradation string   `json:"degradation,omitempty"`
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	var req docsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = s.cfg.DocPath
	}
	var opts []docs.RenderOption
	if s.provider != nil {
		opts = append(opts, docs.WithDescriber(s.provider))
	}

	s.mu.Lock()
	result, err := docs.Generate(r.Context(), s.base, path, opts...)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := docsResponse{
		Path:      path,
		Preserved: result.Preserved,
		Replaced:  result.Replaced,
	}
	if result.Degradation != nil {
		resp.Degradation = result.Degradation.Reason
	}
	writeJSON(w, http.StatusOK, resp)
}
