// File path: internal/ingest/driver.go
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/common/telemetry"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

// FileError pairs a failed input file with the error that stopped it. A
// failing file contributes nothing to the base; other files in the same run
// are unaffected.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// Summary reports a single ingestion run.
type Summary struct {
	RunID          string
	Started        time.Time
	Finished       time.Time
	Processed      int
	Failed         int
	NewIdentifiers []string
	Errors         []FileError
}

// Driver feeds workflow export files into a knowledge base, one file at a
// time, containing failures per file.
type Driver struct {
	base   *kb.Base
	logger *slog.Logger
}

// NewDriver returns a Driver bound to base.
func NewDriver(base *kb.Base) *Driver {
	return &Driver{base: base, logger: common.Logger()}
}

// Run ingests each path in order. Files that cannot be read or parsed are
// recorded in the summary and skipped. NewIdentifiers lists, sorted, the
// identifiers the base had never seen before this run. Run stops early only
// when ctx is done, returning the partial summary alongside ctx's error.
func (d *Driver) Run(ctx context.Context, paths []string) (*Summary, error) {
	sum := &Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	ctx, endSpan := telemetry.StartSpan(ctx, "ingest.run")
	defer func() { endSpan("processed", sum.Processed, "failed", sum.Failed) }()
	before := d.base.KnownSet()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			sum.Finished = time.Now()
			return sum, err
		}
		if err := d.ingestFile(path); err != nil {
			d.logger.Warn("ingest: file failed", "path", path, "error", err)
			sum.Errors = append(sum.Errors, FileError{Path: path, Err: err})
			continue
		}
		sum.Processed++
		d.logger.Info("ingest: file processed", "path", path)
	}
	for _, id := range d.base.KnownIdentifiers() {
		if _, ok := before[id]; !ok {
			sum.NewIdentifiers = append(sum.NewIdentifiers, id)
		}
	}
	sort.Strings(sum.NewIdentifiers)
	sum.Failed = len(sum.Errors)
	sum.Finished = time.Now()
	telemetry.RecordIngestRun(sum.Processed, sum.Failed)
	return sum, nil
}

func (d *Driver) ingestFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := workflow.Parse(path, data)
	if err != nil {
		return err
	}
	d.base.RecordMetadata(doc.Metadata)
	for i, rec := range doc.Actions {
		next := ""
		if i+1 < len(doc.Actions) {
			next = doc.Actions[i+1].Identifier
		}
		d.base.Observe(rec, doc.TotalActions, next)
	}
	return nil
}

// ExpandPaths resolves CLI arguments to concrete workflow files. A directory
// argument expands to its *.json children in sorted order; with recursive
// set, nested directories are walked as well. Plain file arguments pass
// through untouched.
func ExpandPaths(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		if recursive {
			err := filepath.WalkDir(arg, func(path string, entry os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !entry.IsDir() && filepath.Ext(path) == ".json" {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walk %s: %w", arg, err)
			}
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", arg, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}
