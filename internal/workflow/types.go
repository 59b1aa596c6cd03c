// File path: internal/workflow/types.go
package workflow

import (
	"strings"
	"unicode"
)

// VersionInfo is the version triple a workflow export declares about itself.
// Any field may be empty; exports in the wild carry different subsets.
type VersionInfo struct {
	Minimum       string
	MinimumString string
	Client        string
}

// Effective returns the version string used for history tracking: the first
// non-empty of client version, minimum client version string, and minimum
// client version. Empty when the document declared none.
func (v VersionInfo) Effective() string {
	if v.Client != "" {
		return v.Client
	}
	if v.MinimumString != "" {
		return v.MinimumString
	}
	return v.Minimum
}

// ActionRecord is one decoded workflow step. Position is the index within
// the raw action list of the originating file, so gaps appear where
// identifier-less actions were skipped.
type ActionRecord struct {
	Identifier string
	Parameters map[string]any
	Position   int
	Version    VersionInfo
}

// Document is the parsed form of one workflow export.
type Document struct {
	Path string

	Version      VersionInfo
	Actions      []ActionRecord
	TotalActions int

	// Metadata holds the tracked document-level fields present in the
	// file, serialized to strings.
	Metadata map[string]string
}

const identifierPrefix = "is.workflow.actions."

// DisplayName renders an action identifier for humans: the shared action
// prefix is dropped and the remaining dot-separated words are title-cased.
func DisplayName(identifier string) string {
	name := strings.ReplaceAll(identifier, identifierPrefix, "")
	words := strings.Split(name, ".")
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
