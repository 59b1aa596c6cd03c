// File path: internal/watch/watch.go

// Package watch ingests Shortcuts workflow exports as they land on disk.
// A filesystem watcher feeds a debounced pending set; once a directory has
// been quiet for the configured interval the set is flushed through an
// ingestion batch, the snapshot is saved, and the documentation is
// regenerated.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/config"
	"github.com/actionatlas/actionatlas/internal/docs"
	"github.com/actionatlas/actionatlas/internal/ingest"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/store"
)

const defaultDebounce = 2 * time.Second

// Watcher ties a filesystem watch to the ingestion pipeline. It owns the
// base for the duration of Run; nothing else may mutate it concurrently.
type Watcher struct {
	base     *kb.Base
	store    *store.Store
	docPath  string
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
}

// New prepares a watcher over dirs. The debounce interval and documentation
// path come from cfg; a non-positive debounce falls back to the default.
func New(cfg config.Config, base *kb.Base, st *store.Store, dirs []string) (*Watcher, error) {
	if base == nil {
		return nil, errors.New("knowledge base required")
	}
	if st == nil {
		return nil, errors.New("snapshot store required")
	}
	if len(dirs) == 0 {
		return nil, errors.New("at least one directory is required")
	}
	debounce := cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		base:     base,
		store:    st,
		docPath:  cfg.DocPath,
		dirs:     dirs,
		debounce: debounce,
		logger:   common.Logger(),
	}, nil
}

// Run watches until ctx is cancelled. Ingestion failures are logged and do
// not stop the watch; only watcher setup problems are returned as errors.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Info("watch: watching directory", "dir", dir, "debounce", w.debounce.String())
	}

	queue := newPending()
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch: stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			queue.add(event.Name)
			w.logger.Debug("watch: change recorded", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.flush(ctx, queue.drain())
		}
	}
}

// flush runs one ingestion batch over paths and persists the results.
func (w *Watcher) flush(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	w.logger.Info("watch: ingesting batch", "files", len(paths))
	sum, err := ingest.NewDriver(w.base).Run(ctx, paths)
	if err != nil {
		w.logger.Error("watch: batch failed", "error", err)
		return
	}
	for _, fileErr := range sum.Errors {
		w.logger.Warn("watch: file skipped", "path", fileErr.Path, "error", fileErr.Err)
	}
	if err := w.store.Save(w.base); err != nil {
		w.logger.Error("watch: snapshot save failed", "error", err)
	}
	if _, err := docs.Generate(ctx, w.base, w.docPath); err != nil {
		w.logger.Error("watch: documentation update failed", "error", err)
	}
	w.logger.Info("watch: batch complete",
		"run", sum.RunID,
		"processed", sum.Processed,
		"failed", sum.Failed,
		"new_actions", len(sum.NewIdentifiers),
	)
}

// relevant reports whether event should schedule an ingestion: creations and
// writes of .json files count, everything else is noise.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return filepath.Ext(event.Name) == ".json"
}

// pending is the debounce buffer: paths seen since the last flush, each at
// most once.
type pending struct {
	paths map[string]struct{}
}

func newPending() *pending {
	return &pending{paths: make(map[string]struct{})}
}

func (p *pending) add(path string) {
	p.paths[path] = struct{}{}
}

func (p *pending) len() int { return len(p.paths) }

// drain returns the buffered paths in sorted order and resets the buffer.
func (p *pending) drain() []string {
	if len(p.paths) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.paths))
	for path := range p.paths {
		out = append(out, path)
	}
	sort.Strings(out)
	p.paths = make(map[string]struct{})
	return out
}
