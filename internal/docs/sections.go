// File path: internal/docs/sections.go
package docs

import (
	"strings"
	"unicode/utf8"
)

const sectionMarker = "## "

// Section is one second-level block of a generated document: the heading
// text plus the exact bytes of the block, heading line included.
type Section struct {
	Title string
	Raw   string
}

// SplitSections breaks doc into the text before the first second-level
// heading and the ordered section blocks. Only lines beginning "## " open a
// section; deeper headings stay inside the enclosing block. Concatenating
// the preamble and every Raw block reproduces doc byte for byte.
func SplitSections(doc string) (string, []Section) {
	var (
		preamble strings.Builder
		sections []Section
		current  *strings.Builder
		title    string
	)
	flush := func() {
		if current != nil {
			sections = append(sections, Section{Title: title, Raw: current.String()})
		}
	}
	for _, line := range splitAfterNewlines(doc) {
		if strings.HasPrefix(line, sectionMarker) {
			flush()
			title = strings.TrimSpace(strings.TrimPrefix(line, sectionMarker))
			current = &strings.Builder{}
			current.WriteString(line)
			continue
		}
		if current != nil {
			current.WriteString(line)
			continue
		}
		preamble.WriteString(line)
	}
	flush()
	return preamble.String(), sections
}

// splitAfterNewlines splits doc into lines that keep their terminators, so
// the pieces concatenate back losslessly.
func splitAfterNewlines(doc string) []string {
	var lines []string
	for start := 0; start < len(doc); {
		idx := strings.IndexByte(doc[start:], '\n')
		if idx < 0 {
			lines = append(lines, doc[start:])
			break
		}
		lines = append(lines, doc[start:start+idx+1])
		start += idx + 1
	}
	return lines
}

// degradationReason reports why prior content cannot be merged section-wise,
// empty when it can. Generated documents always begin with a first-level
// heading, so anything else is treated as foreign matter we cannot split
// safely.
func degradationReason(prior string) string {
	if !utf8.ValidString(prior) {
		return "prior content is not valid UTF-8"
	}
	for _, line := range splitAfterNewlines(prior) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return ""
		}
		return "prior content does not begin with a first-level heading"
	}
	return "prior content is blank"
}
