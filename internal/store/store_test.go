// File path: internal/store/store_test.go
package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

func sampleBase(t *testing.T) *kb.Base {
	t.Helper()
	base := kb.New()
	records := []workflow.ActionRecord{
		{
			Identifier: "is.workflow.actions.comment",
			Parameters: map[string]any{"WFCommentActionText": "hello", "UUID": "11AA"},
			Position:   0,
			Version:    workflow.VersionInfo{Client: "900"},
		},
		{
			Identifier: "is.workflow.actions.choosefrommenu",
			Parameters: map[string]any{
				"GroupingIdentifier": "menu-1",
				"WFMenuPrompt":       "Pick one",
				"WFMenuItems":        []any{"First", "Second"},
			},
			Position: 1,
			Version:  workflow.VersionInfo{Client: "900"},
		},
	}
	for i, rec := range records {
		next := ""
		if i+1 < len(records) {
			next = records[i+1].Identifier
		}
		base.Observe(rec, len(records), next)
	}
	base.RecordMetadata(map[string]string{"WFWorkflowMinimumClientVersion": "900"})
	return base
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shortcuts_db.json")
	st := New(path)

	base := sampleBase(t)
	if err := st.Save(base); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, err := base.DumpSnapshot()
	if err != nil {
		t.Fatalf("DumpSnapshot: %v", err)
	}
	got, err := loaded.DumpSnapshot()
	if err != nil {
		t.Fatalf("DumpSnapshot after load: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("snapshot changed across save/load\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestLoadMissingFileReturnsEmptyBase(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent.json"))
	base, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if base.TotalIdentifiers() != 0 {
		t.Fatalf("expected empty base, got %d identifiers", base.TotalIdentifiers())
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := New(path).Load()
	var snapErr *kb.SnapshotError
	if !errors.As(err, &snapErr) {
		t.Fatalf("expected *kb.SnapshotError, got %v", err)
	}
	if snapErr.Path != path {
		t.Fatalf("error path = %q, want %q", snapErr.Path, path)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "db.json")
	if err := New(path).Save(sampleBase(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot missing after save: %v", err)
	}
}

func TestSaveKeepsBoundedBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shortcuts_db.json")
	backupDir := filepath.Join(dir, "backups")
	st := New(path, WithBackups(backupDir, 2))

	if err := st.Save(sampleBase(t)); err != nil {
		t.Fatalf("initial Save: %v", err)
	}
	// Seed stale backups older than anything the store will write.
	for _, name := range []string{
		"shortcuts_db_20200101_000001.json",
		"shortcuts_db_20200101_000002.json",
	} {
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			t.Fatalf("mkdir backups: %v", err)
		}
		if err := os.WriteFile(filepath.Join(backupDir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("seed backup: %v", err)
		}
	}

	if err := st.Save(sampleBase(t)); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(backupDir, "shortcuts_db_*.json"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 retained backups, got %d: %v", len(matches), matches)
	}
	for _, m := range matches {
		if filepath.Base(m) == "shortcuts_db_20200101_000001.json" {
			t.Fatalf("oldest backup should have been pruned, still present: %v", matches)
		}
	}
}

func TestSaveWithoutBackupDirSkipsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	st := New(path)
	if err := st.Save(sampleBase(t)); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := st.Save(sampleBase(t)); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snapshot file, got %d entries", len(entries))
	}
}
