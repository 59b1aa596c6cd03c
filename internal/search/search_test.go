// File path: internal/search/search_test.go
package search

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

func searchBase(t *testing.T) *kb.Base {
	t.Helper()
	base := kb.New()
	base.Observe(workflow.ActionRecord{
		Identifier: "is.workflow.actions.alert",
		Parameters: map[string]any{"WFAlertActionMessage": "backup finished"},
	}, 1, "")
	base.Observe(workflow.ActionRecord{
		Identifier: "is.workflow.actions.gettext",
		Parameters: map[string]any{"WFTextActionText": "draft note"},
	}, 1, "")
	base.Observe(workflow.ActionRecord{
		Identifier: kb.MenuActionIdentifier,
		Parameters: map[string]any{
			"GroupingIdentifier": "menu-1",
			"WFMenuPrompt":       "Pick a destination",
			"WFMenuItems":        []any{"Home", "Work"},
		},
	}, 1, "")
	return base
}

func resultIdentifiers(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, res := range results {
		out = append(out, res.Identifier)
	}
	return out
}

func TestSearchFindsActionByName(t *testing.T) {
	idx := NewIndex(searchBase(t))
	results := idx.Search("alert", 5)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d: %v", len(results), results)
	}
	if results[0].Identifier != "is.workflow.actions.alert" {
		t.Fatalf("unexpected identifier: %s", results[0].Identifier)
	}
	if results[0].DisplayName != "Alert" {
		t.Fatalf("unexpected display name: %s", results[0].DisplayName)
	}
	if results[0].Score <= 0 {
		t.Fatalf("expected positive score, got %f", results[0].Score)
	}
}

func TestSearchMatchesParameterValues(t *testing.T) {
	idx := NewIndex(searchBase(t))

	got := resultIdentifiers(idx.Search("backup finished", 5))
	want := []string{"is.workflow.actions.alert"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value query mismatch (-want +got):\n%s", diff)
	}

	got = resultIdentifiers(idx.Search("destination", 5))
	want = []string{kb.MenuActionIdentifier}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("menu prompt query mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchSharedTermRankingAndLimit(t *testing.T) {
	idx := NewIndex(searchBase(t))

	results := idx.Search("workflow", 10)
	if len(results) != 3 {
		t.Fatalf("expected all three actions, got %d", len(results))
	}
	for i, res := range results {
		if res.Score <= 0 {
			t.Fatalf("result %d has non-positive score: %f", i, res.Score)
		}
		if i > 0 && results[i-1].Score < res.Score {
			t.Fatalf("results out of order at %d: %f < %f", i, results[i-1].Score, res.Score)
		}
	}

	limited := idx.Search("workflow", 2)
	if len(limited) != 2 {
		t.Fatalf("expected limit to trim results, got %d", len(limited))
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := NewIndex(searchBase(t))
	if results := idx.Search("zzzunseen", 5); results != nil {
		t.Fatalf("expected nil for unknown term, got %v", results)
	}
	if results := idx.Search("", 5); results != nil {
		t.Fatalf("expected nil for empty query, got %v", results)
	}
	if results := idx.Search("...", 5); results != nil {
		t.Fatalf("expected nil for punctuation-only query, got %v", results)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	if results := NewIndex(kb.New()).Search("anything", 3); results != nil {
		t.Fatalf("expected nil from empty base, got %v", results)
	}
	if results := NewIndex(nil).Search("anything", 3); results != nil {
		t.Fatalf("expected nil from nil base, got %v", results)
	}
}

func TestSearchChunksLongBodies(t *testing.T) {
	base := kb.New()
	long := strings.Repeat("lorem ipsum dolor ", 120) + "needleword"
	base.Observe(workflow.ActionRecord{
		Identifier: "is.workflow.actions.gettext",
		Parameters: map[string]any{"WFTextActionText": long},
	}, 1, "")

	idx := NewIndex(base)
	got := resultIdentifiers(idx.Search("needleword", 5))
	want := []string{"is.workflow.actions.gettext"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("long body query mismatch (-want +got):\n%s", diff)
	}
}
