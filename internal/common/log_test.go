// File path: internal/common/log_test.go
package common

import (
	"testing"
)

func TestLoggerCapturesRecords(t *testing.T) {
	Logger().Info("capture probe", "key", "value")

	var found *LogEntry
	for _, entry := range RecentLogs() {
		if entry.Message == "capture probe" {
			found = &entry
			break
		}
	}
	if found == nil {
		t.Fatal("record not captured")
	}
	if found.Level != "info" {
		t.Fatalf("unexpected level: %s", found.Level)
	}
	if found.Attributes["key"] != "value" {
		t.Fatalf("unexpected attributes: %v", found.Attributes)
	}
}

func TestSetLevelGatesCapture(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("error")
	Logger().Info("gated probe")
	for _, entry := range RecentLogs() {
		if entry.Message == "gated probe" {
			t.Fatal("suppressed record was captured")
		}
	}

	SetLevel("debug")
	Logger().Debug("debug probe")
	seen := false
	for _, entry := range RecentLogs() {
		if entry.Message == "debug probe" {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatal("debug record not captured after lowering the level")
	}
}
