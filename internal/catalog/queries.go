// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions filters and pages the action listing. Pattern is a substring
// match on the identifier.
type QueryOptions struct {
	Pattern string
	Limit   int
	Offset  int
}

// ActionRow is one catalog row for an action.
type ActionRow struct {
	Identifier       string `db:"identifier" json:"identifier"`
	DisplayName      string `db:"display_name" json:"display_name"`
	CombinationCount int    `db:"combination_count" json:"combination_count"`
	ShapeCount       int    `db:"shape_count" json:"shape_count"`
	UpdatedAt        string `db:"updated_at" json:"updated_at"`
}

// Page is one page of action rows plus the unpaged total.
type Page struct {
	Items  []ActionRow `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// FlowRow is one aggregated flow edge.
type FlowRow struct {
	Predecessor  string `db:"predecessor" json:"predecessor"`
	Successor    string `db:"successor" json:"successor"`
	Observations int    `db:"observations" json:"observations"`
}

// RunRow is one recorded ingestion run.
type RunRow struct {
	ID         string `db:"id" json:"id"`
	StartedAt  string `db:"started_at" json:"started_at"`
	FinishedAt string `db:"finished_at" json:"finished_at"`
	Processed  int    `db:"processed" json:"processed"`
	NewActions int    `db:"new_actions" json:"new_actions"`
	Errors     int    `db:"errors" json:"errors"`
}

// ListActions returns one page of catalog actions ordered by identifier.
func (s *Store) ListActions(ctx context.Context, opts QueryOptions) (Page, error) {
	if err := s.ensureReady(); err != nil {
		return Page{}, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var filters []string
	var args []interface{}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		filters = append(filters, "identifier LIKE ?")
		args = append(args, "%"+pattern+"%")
	}
	where := ""
	if len(filters) > 0 {
		where = "WHERE " + strings.Join(filters, " AND ")
	}

	query := fmt.Sprintf(`SELECT identifier, display_name, combination_count, shape_count, updated_at,
                COUNT(*) OVER() AS total_rows
                FROM actions
                %s
                ORDER BY identifier
                LIMIT ? OFFSET ?`, where)
	args = append(args, limit, offset)

	rows := []struct {
		ActionRow
		TotalRows int `db:"total_rows"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return Page{}, fmt.Errorf("list actions: %w", err)
	}

	page := Page{Limit: limit, Offset: offset}
	for _, row := range rows {
		page.Items = append(page.Items, row.ActionRow)
		page.Total = row.TotalRows
	}
	return page, nil
}

// TopFlows returns the most-observed flow edges.
func (s *Store) TopFlows(ctx context.Context, limit int) ([]FlowRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	var flows []FlowRow
	query := s.db.Rebind(`SELECT predecessor, successor, observations
                FROM flow_edges
                ORDER BY observations DESC, predecessor, successor
                LIMIT ?`)
	if err := s.db.SelectContext(ctx, &flows, query, limit); err != nil {
		return nil, fmt.Errorf("top flows: %w", err)
	}
	return flows, nil
}

// RecentRuns returns ingestion runs newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	var runs []RunRow
	query := s.db.Rebind(`SELECT id, started_at, finished_at, processed, new_actions, errors
                FROM runs
                ORDER BY started_at DESC, id
                LIMIT ?`)
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}
