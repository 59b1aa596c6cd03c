// File path: internal/docs/sections_test.go
package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitSectionsRoundTrip(t *testing.T) {
	doc := "# Title\n\nintro line\n\n## First\n\nbody one\n\n### Nested\n\nstill first\n\n## Second\n\nbody two\n"
	preamble, sections := SplitSections(doc)

	if preamble != "# Title\n\nintro line\n\n" {
		t.Fatalf("preamble = %q", preamble)
	}
	var titles []string
	var rebuilt strings.Builder
	rebuilt.WriteString(preamble)
	for _, sec := range sections {
		titles = append(titles, sec.Title)
		rebuilt.WriteString(sec.Raw)
	}
	if diff := cmp.Diff([]string{"First", "Second"}, titles); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
	if rebuilt.String() != doc {
		t.Fatalf("blocks do not concatenate back to the input\nwant: %q\ngot:  %q", doc, rebuilt.String())
	}
	if !strings.Contains(sections[0].Raw, "### Nested") {
		t.Fatalf("third-level heading should stay inside its section: %q", sections[0].Raw)
	}
}

func TestSplitSectionsWithoutTrailingNewline(t *testing.T) {
	doc := "# T\n## Only\nlast line no newline"
	_, sections := SplitSections(doc)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Raw != "## Only\nlast line no newline" {
		t.Fatalf("raw block altered: %q", sections[0].Raw)
	}
}

func TestSplitSectionsWithoutAnyHeading(t *testing.T) {
	doc := "just text\nmore text\n"
	preamble, sections := SplitSections(doc)
	if preamble != doc {
		t.Fatalf("preamble = %q, want whole input", preamble)
	}
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestDegradationReason(t *testing.T) {
	cases := []struct {
		name    string
		prior   string
		degrade bool
	}{
		{"generated document", "# Apple Shortcuts Documentation\n\n## Overview\n", false},
		{"leading blank lines", "\n\n# Title\n", false},
		{"missing top heading", "## Overview\n", true},
		{"plain text", "notes without structure\n", true},
		{"invalid utf8", "# T\n\xff\xfe", true},
		{"blank", "\n\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason := degradationReason(tc.prior)
			if tc.degrade && reason == "" {
				t.Fatal("expected a degradation reason")
			}
			if !tc.degrade && reason != "" {
				t.Fatalf("unexpected degradation: %s", reason)
			}
		})
	}
}
