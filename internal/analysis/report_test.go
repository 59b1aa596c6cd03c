// File path: internal/analysis/report_test.go
package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

const (
	actGetText  = "is.workflow.actions.gettext"
	actSetVar   = "is.workflow.actions.setvariable"
	actShow     = "is.workflow.actions.showresult"
	actExit     = "is.workflow.actions.exit"
	actNothing  = "is.workflow.actions.nothing"
	actChoose   = "is.workflow.actions.choosefrommenu"
	versionMain = "900"
)

func observeChain(base *kb.Base, version string, steps ...workflow.ActionRecord) {
	for i := range steps {
		steps[i].Position = i
		steps[i].Version = workflow.VersionInfo{Client: version}
		next := ""
		if i+1 < len(steps) {
			next = steps[i+1].Identifier
		}
		base.Observe(steps[i], len(steps), next)
	}
}

func rec(identifier string, params map[string]any) workflow.ActionRecord {
	if params == nil {
		params = map[string]any{}
	}
	return workflow.ActionRecord{Identifier: identifier, Parameters: params}
}

func flowBase() *kb.Base {
	base := kb.New()
	observeChain(base, versionMain,
		rec(actGetText, map[string]any{"WFTextActionText": "one"}),
		rec(actSetVar, nil),
		rec(actShow, nil),
		rec(actExit, nil),
	)
	observeChain(base, versionMain,
		rec(actGetText, map[string]any{"WFTextActionText": "two"}),
		rec(actSetVar, nil),
		rec(actShow, nil),
	)
	observeChain(base, versionMain,
		rec(actGetText, map[string]any{"WFTextActionText": "one"}),
		rec(actSetVar, nil),
	)
	observeChain(base, "901",
		rec(actNothing, nil),
	)
	return base
}

func TestAnalyzeSequencesAndCentrality(t *testing.T) {
	report := Analyze(flowBase(), Options{})

	wantSequences := []Sequence{
		{Actions: []string{actGetText, actSetVar}, Count: 3},
		{Actions: []string{actGetText, actSetVar, actShow}, Count: 2},
		{Actions: []string{actSetVar, actShow}, Count: 2},
	}
	if diff := cmp.Diff(wantSequences, report.Sequences); diff != "" {
		t.Fatalf("sequences mismatch (-want +got):\n%s", diff)
	}

	wantCentral := []CentralAction{
		{Identifier: actSetVar, Degree: 5},
		{Identifier: actGetText, Degree: 3},
		{Identifier: actShow, Degree: 3},
		{Identifier: actExit, Degree: 1},
	}
	if diff := cmp.Diff(wantCentral, report.Central); diff != "" {
		t.Fatalf("central actions mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{actNothing}, report.Isolated); diff != "" {
		t.Fatalf("isolated mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeUsageAndVersions(t *testing.T) {
	report := Analyze(flowBase(), Options{})

	if got := report.ParameterUsage[actGetText]["WFTextActionText"]; got != 2 {
		t.Fatalf("parameter usage for gettext = %d, want 2 (distinct combinations)", got)
	}
	if _, ok := report.ParameterUsage[actExit]; ok {
		t.Fatal("actions without parameters should not appear in usage")
	}

	if diff := cmp.Diff([]string{actNothing}, report.Versions["901"]); diff != "" {
		t.Fatalf("version 901 distribution mismatch (-want +got):\n%s", diff)
	}
	if len(report.Versions[versionMain]) != 4 {
		t.Fatalf("version %s should list 4 identifiers: %v", versionMain, report.Versions[versionMain])
	}

	if report.TotalActions != 5 {
		t.Fatalf("total actions = %d, want 5", report.TotalActions)
	}
	// gettext has two distinct combinations; the rest have one each.
	if report.TotalCombinations != 6 {
		t.Fatalf("total combinations = %d, want 6", report.TotalCombinations)
	}
}

func TestAnalyzeRespectsBounds(t *testing.T) {
	report := Analyze(flowBase(), Options{MinPatternFrequency: 1, MaxPatternLength: 2, TopCentral: 1})

	for _, seq := range report.Sequences {
		if len(seq.Actions) > 2 {
			t.Fatalf("sequence exceeds max length: %v", seq.Actions)
		}
	}
	found := false
	for _, seq := range report.Sequences {
		if len(seq.Actions) == 2 && seq.Actions[0] == actShow && seq.Actions[1] == actExit {
			found = true
		}
	}
	if !found {
		t.Fatal("min frequency 1 should include the single showresult to exit edge")
	}
	if len(report.Central) != 1 || report.Central[0].Identifier != actSetVar {
		t.Fatalf("top-1 central should be setvariable: %v", report.Central)
	}
}

func TestAnalyzeMenuComplexity(t *testing.T) {
	base := flowBase()
	observeChain(base, versionMain,
		rec(actChoose, map[string]any{
			"GroupingIdentifier": "menu-a",
			"WFMenuPrompt":       "First menu",
			"WFMenuItems":        []any{"One", "Two"},
		}),
	)
	observeChain(base, versionMain,
		rec(actChoose, map[string]any{
			"GroupingIdentifier": "menu-b",
			"WFMenuPrompt":       "Second menu",
			"WFMenuItems":        []any{"A", "B", "C", "D"},
		}),
	)

	report := Analyze(base, Options{})
	want := MenuComplexity{Menus: 2, AverageItems: 3, MaxItems: 4}
	if diff := cmp.Diff(want, report.Menus); diff != "" {
		t.Fatalf("menu complexity mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEmptyBase(t *testing.T) {
	report := Analyze(kb.New(), Options{})
	if report.TotalActions != 0 || report.TotalCombinations != 0 {
		t.Fatalf("empty base produced counts: %+v", report)
	}
	if len(report.Sequences) != 0 || len(report.Central) != 0 || len(report.Isolated) != 0 {
		t.Fatalf("empty base produced flow output: %+v", report)
	}
	if report.Menus.Menus != 0 {
		t.Fatalf("empty base produced menus: %+v", report.Menus)
	}
}
