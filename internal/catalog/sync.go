// File path: internal/catalog/sync.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/actionatlas/actionatlas/internal/ingest"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

// Sync upserts the current knowledge base facts into the catalog. Existing
// rows are refreshed in place; the operation is idempotent for unchanged
// state.
func (s *Store) Sync(ctx context.Context, base *kb.Base) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	upsertAction := tx.Rebind(`INSERT INTO actions (identifier, display_name, combination_count, shape_count, updated_at)
                VALUES (?, ?, ?, ?, ?)
                ON CONFLICT (identifier) DO UPDATE SET
                        display_name = excluded.display_name,
                        combination_count = excluded.combination_count,
                        shape_count = excluded.shape_count,
                        updated_at = excluded.updated_at`)
	insertVersion := tx.Rebind(`INSERT INTO action_versions (identifier, version)
                VALUES (?, ?)
                ON CONFLICT (identifier, version) DO NOTHING`)
	for _, identifier := range base.KnownIdentifiers() {
		if _, err := tx.ExecContext(ctx, upsertAction,
			identifier,
			workflow.DisplayName(identifier),
			len(base.Combinations(identifier)),
			len(base.Shapes(identifier)),
			now,
		); err != nil {
			return fmt.Errorf("upsert action %s: %w", identifier, err)
		}
		for _, version := range base.Versions(identifier) {
			if _, err := tx.ExecContext(ctx, insertVersion, identifier, version); err != nil {
				return fmt.Errorf("insert version %s %s: %w", identifier, version, err)
			}
		}
	}

	upsertEdge := tx.Rebind(`INSERT INTO flow_edges (predecessor, successor, observations)
                VALUES (?, ?, ?)
                ON CONFLICT (predecessor, successor) DO UPDATE SET
                        observations = excluded.observations`)
	for _, pred := range base.FlowPredecessors() {
		counts := make(map[string]int)
		for _, succ := range base.Successors(pred) {
			counts[succ]++
		}
		for succ, n := range counts {
			if _, err := tx.ExecContext(ctx, upsertEdge, pred, succ, n); err != nil {
				return fmt.Errorf("upsert flow edge %s -> %s: %w", pred, succ, err)
			}
		}
	}

	upsertMenu := tx.Rebind(`INSERT INTO menus (grouping_id, prompt, item_count)
                VALUES (?, ?, ?)
                ON CONFLICT (grouping_id) DO UPDATE SET
                        prompt = excluded.prompt,
                        item_count = excluded.item_count`)
	for _, groupID := range base.MenuGroupIDs() {
		menu, ok := base.MenuFor(groupID)
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, upsertMenu, groupID, menu.Prompt, len(menu.Items)); err != nil {
			return fmt.Errorf("upsert menu %q: %w", groupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

// RecordRun appends one ingestion run to the history table.
func (s *Store) RecordRun(ctx context.Context, sum *ingest.Summary) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if sum == nil {
		return nil
	}
	query := s.db.Rebind(`INSERT INTO runs (id, started_at, finished_at, processed, new_actions, errors)
                VALUES (?, ?, ?, ?, ?, ?)
                ON CONFLICT (id) DO NOTHING`)
	_, err := s.db.ExecContext(ctx, query,
		sum.RunID,
		sum.Started.UTC().Format(time.RFC3339),
		sum.Finished.UTC().Format(time.RFC3339),
		sum.Processed,
		len(sum.NewIdentifiers),
		len(sum.Errors),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", sum.RunID, err)
	}
	return nil
}
