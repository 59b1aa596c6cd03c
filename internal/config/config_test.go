// File path: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapshotPath != "shortcuts_db.json" {
		t.Fatalf("unexpected snapshot path: %q", cfg.SnapshotPath)
	}
	if cfg.BackupCount != 5 {
		t.Fatalf("unexpected backup count: %d", cfg.BackupCount)
	}
	if cfg.Analysis.MinPatternFrequency != 2 || cfg.Analysis.MaxPatternLength != 5 {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Fatalf("unexpected debounce: %v", cfg.Watch.Debounce)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.json")
	body := `{"snapshot_path": "kb.json", "backup_count": 9, "watch": {"debounce": "500ms"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ATLAS_SNAPSHOT", "env.json")
	t.Setenv("ATLAS_LISTEN_ADDR", "0.0.0.0:9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapshotPath != "env.json" {
		t.Fatalf("env should win over file, got %q", cfg.SnapshotPath)
	}
	if cfg.BackupCount != 9 {
		t.Fatalf("file override lost: %d", cfg.BackupCount)
	}
	if cfg.ListenAddr != "0.0.0.0:9999" {
		t.Fatalf("listen addr override lost: %q", cfg.ListenAddr)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Fatalf("debounce override lost: %v", cfg.Watch.Debounce)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for explicitly named missing config")
	}
}

func TestMergeKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{})
	if merged.SnapshotPath != base.SnapshotPath || merged.OutputDir != base.OutputDir {
		t.Fatalf("empty override must not clear fields: %+v", merged)
	}
}
