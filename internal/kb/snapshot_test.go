// File path: internal/kb/snapshot_test.go
package kb

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func populatedBase() *Base {
	b := New()
	observeSequence(b, 3,
		record("is.workflow.actions.gettext", 0, map[string]any{
			"WFTextActionText":   "hello",
			"UUID":               "uuid-1",
			"GroupingIdentifier": "grp-1",
		}),
		record(MenuActionIdentifier, 1, map[string]any{
			"GroupingIdentifier": "grp-1",
			"WFMenuPrompt":       "Pick",
			"WFMenuItems":        []any{"One", "Two"},
		}),
		record("is.workflow.actions.showresult", 2, map[string]any{
			"Text": map[string]any{"Value": float64(3)},
		}),
	)
	b.RecordMetadata(map[string]string{
		"WFWorkflowClientVersion": "900",
		"WFWorkflowTypes":         `["NCWidget"]`,
	})
	return b
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := populatedBase()
	dumped, err := b.DumpSnapshot()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	loaded := New()
	if err := loaded.LoadSnapshot(dumped); err != nil {
		t.Fatalf("load: %v", err)
	}
	redumped, err := loaded.DumpSnapshot()
	if err != nil {
		t.Fatalf("redump: %v", err)
	}
	if diff := cmp.Diff(string(dumped), string(redumped)); diff != "" {
		t.Fatalf("round trip not stable (-first +second):\n%s", diff)
	}

	// List-typed fields keep their order.
	if diff := cmp.Diff(b.Successors("is.workflow.actions.gettext"), loaded.Successors("is.workflow.actions.gettext")); diff != "" {
		t.Fatalf("successor order lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(b.GroupMembers("grp-1"), loaded.GroupMembers("grp-1")); diff != "" {
		t.Fatalf("group member order lost (-want +got):\n%s", diff)
	}
	menu, ok := loaded.MenuFor("grp-1")
	if !ok {
		t.Fatal("menu lost in round trip")
	}
	if diff := cmp.Diff([]any{"One", "Two"}, menu.Items); diff != "" {
		t.Fatalf("menu item order lost (-want +got):\n%s", diff)
	}
}

func TestSnapshotKeys(t *testing.T) {
	dumped, err := populatedBase().DumpSnapshot()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(dumped, &raw); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	want := []string{
		"actions_db", "metadata", "known_actions", "uuid_map", "group_map",
		"action_flows", "parameter_types", "action_relationships",
		"menu_structures", "action_versions",
	}
	for _, key := range want {
		if _, ok := raw[key]; !ok {
			t.Fatalf("snapshot missing key %q", key)
		}
	}
	if len(raw) != len(want) {
		t.Fatalf("snapshot has %d keys, want %d", len(raw), len(want))
	}
}

func TestEmptySnapshotUsesEmptyCollections(t *testing.T) {
	dumped, err := New().DumpSnapshot()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	var payload struct {
		Known []string                    `json:"known_actions"`
		DB    map[string][]map[string]any `json:"actions_db"`
	}
	if err := json.Unmarshal(dumped, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Known == nil {
		t.Fatal("known_actions must serialize as [], not null")
	}
	if payload.DB == nil {
		t.Fatal("actions_db must serialize as {}, not null")
	}
}

func TestLoadSnapshotOrderInsensitiveForSets(t *testing.T) {
	body := `{
		"actions_db": {"A": [{"x": 1}]},
		"metadata": {"WFWorkflowTypes": ["b", "a"]},
		"known_actions": ["B", "A"],
		"uuid_map": {},
		"group_map": {},
		"action_flows": {"A": ["B", "B"]},
		"parameter_types": {"A": ["x: number"]},
		"action_relationships": {"A": ["B"]},
		"menu_structures": {},
		"action_versions": {"A": ["900", "411"]}
	}`
	b := New()
	if err := b.LoadSnapshot([]byte(body)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, b.KnownIdentifiers()); diff != "" {
		t.Fatalf("known set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"411", "900"}, b.Versions("A")); diff != "" {
		t.Fatalf("version set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, b.MetadataValues("WFWorkflowTypes")); diff != "" {
		t.Fatalf("metadata set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "B"}, b.Successors("A")); diff != "" {
		t.Fatalf("flow list must keep duplicates (-want +got):\n%s", diff)
	}
}

func TestLoadSnapshotFailureLeavesStateUntouched(t *testing.T) {
	b := populatedBase()
	before, err := b.DumpSnapshot()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	err = b.LoadSnapshot([]byte("{not json"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var snapErr *SnapshotError
	if !errors.As(err, &snapErr) {
		t.Fatalf("expected *SnapshotError, got %T", err)
	}
	after, err := b.DumpSnapshot()
	if err != nil {
		t.Fatalf("redump: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("failed load mutated the base")
	}
}

func TestReingestAfterRoundTripStaysDeduplicated(t *testing.T) {
	b := New()
	rec := record("A", 0, map[string]any{"x": float64(1), "nested": map[string]any{"k": "v"}})
	b.Observe(rec, 1, "")

	dumped, err := b.DumpSnapshot()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	loaded := New()
	if err := loaded.LoadSnapshot(dumped); err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded.Observe(rec, 1, "")
	if got := len(loaded.Combinations("A")); got != 1 {
		t.Fatalf("re-ingest after round trip must not duplicate combinations, got %d", got)
	}
}
