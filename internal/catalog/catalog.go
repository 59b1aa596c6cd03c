// File path: internal/catalog/catalog.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store mirrors knowledge base facts into a SQL catalog so they can be
// queried without loading the snapshot. SQLite is the default backend; a
// postgres:// DSN switches to PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var errNilStore = errors.New("catalog store not initialised")

// Open connects to dsn, migrates the schema, and returns the store. A plain
// file path is treated as a SQLite database location.
func Open(ctx context.Context, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("catalog dsn required")
	}
	driver := "sqlite"
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		driver = "postgres"
	case !strings.HasPrefix(dsn, "file:"):
		abs, err := filepath.Abs(dsn)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog path: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", abs)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureReady() error {
	if s == nil || s.db == nil {
		return errNilStore
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// Catalog timestamps are stored as RFC3339 text so SQLite and PostgreSQL
// rows read back identically.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS actions (
                identifier TEXT PRIMARY KEY,
                display_name TEXT NOT NULL,
                combination_count INTEGER NOT NULL DEFAULT 0,
                shape_count INTEGER NOT NULL DEFAULT 0,
                updated_at TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS action_versions (
                identifier TEXT NOT NULL,
                version TEXT NOT NULL,
                PRIMARY KEY (identifier, version)
        );`,
	`CREATE TABLE IF NOT EXISTS flow_edges (
                predecessor TEXT NOT NULL,
                successor TEXT NOT NULL,
                observations INTEGER NOT NULL DEFAULT 0,
                PRIMARY KEY (predecessor, successor)
        );`,
	`CREATE TABLE IF NOT EXISTS menus (
                grouping_id TEXT PRIMARY KEY,
                prompt TEXT,
                item_count INTEGER NOT NULL DEFAULT 0
        );`,
	`CREATE TABLE IF NOT EXISTS runs (
                id TEXT PRIMARY KEY,
                started_at TEXT NOT NULL,
                finished_at TEXT NOT NULL,
                processed INTEGER NOT NULL DEFAULT 0,
                new_actions INTEGER NOT NULL DEFAULT 0,
                errors INTEGER NOT NULL DEFAULT 0
        );`,
	`CREATE INDEX IF NOT EXISTS idx_actions_updated ON actions(updated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_flow_edges_observations ON flow_edges(observations);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
}
