// File path: internal/api/actions_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/actionatlas/actionatlas/internal/analysis"
	"github.com/actionatlas/actionatlas/internal/catalog"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	opts := catalog.QueryOptions{
		Pattern: r.URL.Query().Get("pattern"),
		Limit:   queryInt(r, "limit", 50),
		Offset:  queryInt(r, "offset", 0),
	}
	if s.catalog != nil {
		page, err := s.catalog.ListActions(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}
	s.mu.Lock()
	page := listFromBase(s.base, opts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page)
}

// listFromBase answers the listing straight from memory when no catalog is
// configured, shaped like a catalog page minus the sync timestamps.
func listFromBase(base *kb.Base, opts catalog.QueryOptions) catalog.Page {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	var matched []string
	for _, identifier := range base.KnownIdentifiers() {
		if opts.Pattern != "" && !strings.Contains(identifier, opts.Pattern) {
			continue
		}
		matched = append(matched, identifier)
	}
	page := catalog.Page{
		Items:  []catalog.ActionRow{},
		Total:  len(matched),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	if opts.Offset >= len(matched) {
		return page
	}
	end := min(opts.Offset+opts.Limit, len(matched))
	for _, identifier := range matched[opts.Offset:end] {
		page.Items = append(page.Items, catalog.ActionRow{
			Identifier:       identifier,
			DisplayName:      workflow.DisplayName(identifier),
			CombinationCount: len(base.Combinations(identifier)),
			ShapeCount:       len(base.Shapes(identifier)),
		})
	}
	return page
}

type actionDetail struct {
	Identifier   string             `json:"identifier"`
	DisplayName  string             `json:"display_name"`
	Shapes       []string           `json:"shapes,omitempty"`
	Combinations []map[string]any   `json:"combinations,omitempty"`
	Successors   []string           `json:"successors,omitempty"`
	Versions     []string           `json:"versions,omitempty"`
	Groups       []string           `json:"groups,omitempty"`
	Menus        map[string]kb.Menu `json:"menus,omitempty"`
}

func (s *Server) handleActionDetail(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.base.HasIdentifier(identifier) {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown action %q", identifier))
		return
	}
	detail := actionDetail{
		Identifier:   identifier,
		DisplayName:  workflow.DisplayName(identifier),
		Shapes:       s.base.Shapes(identifier),
		Combinations: s.base.Combinations(identifier),
		Successors:   s.base.DistinctSuccessors(identifier),
		Versions:     s.base.Versions(identifier),
	}
	for _, groupID := range s.base.GroupIDs() {
		for _, member := range s.base.GroupMembers(groupID) {
			if member != identifier {
				continue
			}
			detail.Groups = append(detail.Groups, groupID)
			if menu, ok := s.base.MenuFor(groupID); ok {
				if detail.Menus == nil {
					detail.Menus = make(map[string]kb.Menu)
				}
				detail.Menus[groupID] = menu
			}
			break
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts := analysis.Options{
		MinPatternFrequency: s.cfg.Analysis.MinPatternFrequency,
		MaxPatternLength:    s.cfg.Analysis.MaxPatternLength,
	}
	s.mu.Lock()
	report := analysis.Analyze(s.base, opts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
