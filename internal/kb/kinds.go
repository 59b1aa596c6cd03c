// File path: internal/kb/kinds.go
package kb

import (
	"encoding/json"
	"fmt"
)

// ValueKind is the coarse semantic tag of a parameter value. The set is
// closed: every value a JSON document can carry maps onto exactly one tag.
type ValueKind string

const (
	KindText    ValueKind = "text"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
	KindList    ValueKind = "list"
	KindMapping ValueKind = "mapping"
	KindNull    ValueKind = "null"
)

// KindOf inspects a decoded JSON value and returns its semantic kind.
func KindOf(value any) ValueKind {
	switch value.(type) {
	case nil:
		return KindNull
	case string:
		return KindText
	case bool:
		return KindBoolean
	case float64, json.Number:
		return KindNumber
	case []any:
		return KindList
	case map[string]any:
		return KindMapping
	default:
		return KindText
	}
}

// ShapeOf renders the stored form of one parameter shape.
func ShapeOf(name string, value any) string {
	return fmt.Sprintf("%s: %s", name, KindOf(value))
}
