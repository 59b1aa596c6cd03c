// File path: internal/store/store.go
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/kb"
)

// Store persists Knowledge Base snapshots to a single JSON file. Saves are
// atomic (temp file + rename) and optionally keep timestamped backups of the
// previous snapshot with a bounded retention count.
type Store struct {
	path        string
	backupDir   string
	backupCount int
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBackups enables pre-save backups under dir, keeping at most count
// files per snapshot name.
func WithBackups(dir string, count int) Option {
	return func(s *Store) {
		s.backupDir = strings.TrimSpace(dir)
		s.backupCount = count
	}
}

// WithLogger overrides the shared logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Store bound to path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: common.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot and hydrates a Base from it. An absent file is not
// an error: it means start from empty state.
func (s *Store) Load() (*kb.Base, error) {
	base := kb.New()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("store: no snapshot found, starting fresh", "path", s.path)
			return base, nil
		}
		return nil, &kb.SnapshotError{Op: "read", Path: s.path, Err: err}
	}
	if err := base.LoadSnapshot(data); err != nil {
		var snapErr *kb.SnapshotError
		if errors.As(err, &snapErr) && snapErr.Path == "" {
			snapErr.Path = s.path
		}
		return nil, err
	}
	s.logger.Info("store: snapshot loaded", "path", s.path, "actions", base.TotalIdentifiers())
	return base, nil
}

// Save dumps the base and writes it atomically, backing up the previous
// snapshot first when backups are configured. Backup failures are logged,
// not fatal: the save itself still proceeds.
func (s *Store) Save(base *kb.Base) error {
	data, err := base.DumpSnapshot()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &kb.SnapshotError{Op: "write", Path: s.path, Err: err}
		}
	}
	if s.backupDir != "" {
		s.backupExisting()
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &kb.SnapshotError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return &kb.SnapshotError{Op: "write", Path: s.path, Err: err}
	}
	s.logger.Info("store: snapshot saved", "path", s.path, "actions", base.TotalIdentifiers())
	return nil
}

func (s *Store) backupExisting() {
	if _, err := os.Stat(s.path); err != nil {
		return
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		s.logger.Warn("store: backup dir unavailable", "dir", s.backupDir, "error", err)
		return
	}
	stem, ext := splitName(filepath.Base(s.path))
	stamp := time.Now().Format("20060102_150405")
	target := filepath.Join(s.backupDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
	if err := copyFile(s.path, target); err != nil {
		s.logger.Warn("store: backup failed", "target", target, "error", err)
		return
	}
	s.logger.Info("store: backup created", "target", target)
	s.pruneBackups(stem, ext)
}

// pruneBackups keeps the newest backupCount backups for this snapshot name.
// Backup names embed the timestamp, so lexical order is chronological.
func (s *Store) pruneBackups(stem, ext string) {
	if s.backupCount <= 0 {
		return
	}
	pattern := filepath.Join(s.backupDir, stem+"_*"+ext)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, old := range matches[min(len(matches), s.backupCount):] {
		if err := os.Remove(old); err != nil {
			s.logger.Warn("store: prune failed", "target", old, "error", err)
			continue
		}
		s.logger.Info("store: removed old backup", "target", old)
	}
}

func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
