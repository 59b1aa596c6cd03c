// File path: internal/workflow/parser.go
package workflow

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Top-level keys of a workflow export.
const (
	actionsKey    = "WFWorkflowActions"
	identifierKey = "WFWorkflowActionIdentifier"
	parametersKey = "WFWorkflowActionParameters"

	clientVersionKey        = "WFWorkflowClientVersion"
	minimumVersionStringKey = "WFWorkflowMinimumClientVersionString"
	minimumVersionKey       = "WFWorkflowMinimumClientVersion"
)

// metadataKeys are the document-level fields tracked across ingests.
var metadataKeys = []string{
	minimumVersionKey,
	minimumVersionStringKey,
	clientVersionKey,
	"WFWorkflowIcon",
	"WFWorkflowTypes",
	"WFWorkflowOutputContentItemClasses",
	"WFQuickActionSurfaces",
}

// ParseError reports a structurally invalid workflow document. It is scoped
// to one source path so batch callers can record it and move on.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes one workflow export. The document must be a JSON object
// whose WFWorkflowActions value is a list; anything else is a *ParseError.
// Actions without an identifier carry no addressable information and are
// skipped rather than reported.
func Parse(path string, data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	rawActions, ok := raw[actionsKey]
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing required key %s", actionsKey)}
	}
	list, ok := rawActions.([]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s is not a list", actionsKey)}
	}

	version := VersionInfo{
		Minimum:       stringify(raw[minimumVersionKey]),
		MinimumString: stringify(raw[minimumVersionStringKey]),
		Client:        stringify(raw[clientVersionKey]),
	}
	doc := &Document{
		Path:         path,
		Version:      version,
		TotalActions: len(list),
		Metadata:     extractMetadata(raw),
	}
	for index, item := range list {
		action, ok := item.(map[string]any)
		if !ok {
			continue
		}
		identifier, _ := action[identifierKey].(string)
		if identifier == "" {
			continue
		}
		params, _ := action[parametersKey].(map[string]any)
		if params == nil {
			params = map[string]any{}
		}
		doc.Actions = append(doc.Actions, ActionRecord{
			Identifier: identifier,
			Parameters: params,
			Position:   index,
			Version:    version,
		})
	}
	return doc, nil
}

func extractMetadata(raw map[string]any) map[string]string {
	values := make(map[string]string)
	for _, key := range metadataKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		values[key] = stringify(value)
	}
	return values
}

// stringify renders a decoded JSON value for set-style storage: scalars in
// their plain string form, composites as compact JSON.
func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	}
}
