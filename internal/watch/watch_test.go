// File path: internal/watch/watch_test.go
package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"

	"github.com/actionatlas/actionatlas/internal/config"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/store"
)

func TestRelevantFiltersEvents(t *testing.T) {
	cases := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create json", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Create}, true},
		{"write json", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Write}, true},
		{"create and write", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Create | fsnotify.Write}, true},
		{"chmod json", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Chmod}, false},
		{"remove json", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Remove}, false},
		{"rename json", fsnotify.Event{Name: "a/export.json", Op: fsnotify.Rename}, false},
		{"write other extension", fsnotify.Event{Name: "a/notes.txt", Op: fsnotify.Write}, false},
		{"write no extension", fsnotify.Event{Name: "a/json", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := relevant(tc.event); got != tc.want {
				t.Fatalf("relevant(%v) = %v, want %v", tc.event, got, tc.want)
			}
		})
	}
}

func TestPendingDrainSortsAndResets(t *testing.T) {
	queue := newPending()
	queue.add("b.json")
	queue.add("a.json")
	queue.add("a.json")
	if queue.len() != 2 {
		t.Fatalf("unexpected pending size: %d", queue.len())
	}
	want := []string{"a.json", "b.json"}
	if diff := cmp.Diff(want, queue.drain()); diff != "" {
		t.Fatalf("drain mismatch (-want +got):\n%s", diff)
	}
	if queue.len() != 0 {
		t.Fatalf("drain did not reset the buffer: %d left", queue.len())
	}
	if got := queue.drain(); got != nil {
		t.Fatalf("empty drain returned %v", got)
	}
}

func TestNewValidation(t *testing.T) {
	cfg := config.Default()
	base := kb.New()
	st := store.New(filepath.Join(t.TempDir(), "snapshot.json"))

	if _, err := New(cfg, nil, st, []string{"dir"}); err == nil {
		t.Fatal("expected error for nil base")
	}
	if _, err := New(cfg, base, nil, []string{"dir"}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(cfg, base, st, nil); err == nil {
		t.Fatal("expected error for missing directories")
	}

	cfg.Watch.Debounce = 0
	w, err := New(cfg, base, st, []string{"dir"})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if w.debounce != defaultDebounce {
		t.Fatalf("unexpected debounce fallback: %v", w.debounce)
	}

	cfg.Watch.Debounce = 250 * time.Millisecond
	w, err = New(cfg, base, st, []string{"dir"})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if w.debounce != 250*time.Millisecond {
		t.Fatalf("unexpected debounce: %v", w.debounce)
	}
}

func TestFlushIngestsAndPersists(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.SnapshotPath = filepath.Join(dir, "snapshot.json")
	cfg.DocPath = filepath.Join(dir, "docs", "shortcuts_documentation.md")

	base := kb.New()
	st := store.New(cfg.SnapshotPath)
	w, err := New(cfg, base, st, []string{dir})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	workflow := `{
	  "WFWorkflowClientVersion": "900",
	  "WFWorkflowActions": [
	    {
	      "WFWorkflowActionIdentifier": "is.workflow.actions.comment",
	      "WFWorkflowActionParameters": {"WFCommentActionText": "hi"}
	    }
	  ]
	}`
	path := filepath.Join(dir, "comment.json")
	if err := os.WriteFile(path, []byte(workflow), 0o644); err != nil {
		t.Fatalf("write workflow: %v", err)
	}

	w.flush(context.Background(), []string{path})

	if !base.HasIdentifier("is.workflow.actions.comment") {
		t.Fatal("flush did not ingest the workflow")
	}
	if _, err := os.Stat(cfg.SnapshotPath); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if _, err := os.Stat(cfg.DocPath); err != nil {
		t.Fatalf("documentation not written: %v", err)
	}

	// An empty flush leaves everything untouched.
	w.flush(context.Background(), nil)
}
