// File path: internal/export/export.go
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/actionatlas/actionatlas/internal/analysis"
	"github.com/actionatlas/actionatlas/internal/kb"
)

// Payload is the machine-readable view of the knowledge base: every action's
// distinct parameter combinations, the tracked metadata sets, and the
// analysis report computed for this export.
type Payload struct {
	ExportedAt string                      `json:"exported_at" yaml:"exported_at"`
	Actions    map[string][]map[string]any `json:"actions" yaml:"actions"`
	Metadata   map[string][]string         `json:"metadata" yaml:"metadata"`
	Analysis   *analysis.Report            `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// BuildPayload assembles the export payload from current state.
func BuildPayload(base *kb.Base, report *analysis.Report) *Payload {
	payload := &Payload{
		ExportedAt: time.Now().Format(time.RFC3339),
		Actions:    make(map[string][]map[string]any),
		Metadata:   make(map[string][]string),
		Analysis:   report,
	}
	for _, identifier := range base.KnownIdentifiers() {
		payload.Actions[identifier] = base.Combinations(identifier)
	}
	for _, key := range base.MetadataKeys() {
		payload.Metadata[key] = base.MetadataValues(key)
	}
	return payload
}

// Data serializes the export payload. Supported formats are "json" and
// "yaml" (or "yml"); anything else is an error.
func Data(base *kb.Base, report *analysis.Report, format string) ([]byte, error) {
	payload := BuildPayload(base, report)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		return data, nil
	case "yaml", "yml":
		data, err := yaml.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
