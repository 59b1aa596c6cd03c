// File path: internal/kb/snapshot.go
package kb

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SnapshotError reports persisted state that could not be read, decoded, or
// written. A failed load never leaves the receiving Base partially mutated.
type SnapshotError struct {
	Op   string
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("snapshot %s: %v", e.Op, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// snapshot is the persisted wire form of a Base. Set-typed fields serialize
// as sorted arrays and are rebuilt as sets on load; list-typed fields keep
// their stored order end to end.
type snapshot struct {
	Actions       map[string][]map[string]any `json:"actions_db"`
	Metadata      map[string][]string         `json:"metadata"`
	Known         []string                    `json:"known_actions"`
	UUIDs         map[string]string           `json:"uuid_map"`
	Groups        map[string][]string         `json:"group_map"`
	Flows         map[string][]string         `json:"action_flows"`
	Shapes        map[string][]string         `json:"parameter_types"`
	Relationships map[string][]string         `json:"action_relationships"`
	Menus         map[string]Menu             `json:"menu_structures"`
	Versions      map[string][]string         `json:"action_versions"`
}

// DumpSnapshot serializes the entire aggregate state as indented JSON.
func (b *Base) DumpSnapshot() ([]byte, error) {
	payload := snapshot{
		Actions:       b.combinations,
		Metadata:      sortedSets(b.metadata),
		Known:         sortedSlice(b.known),
		UUIDs:         b.uuids,
		Groups:        b.groups,
		Flows:         b.flows,
		Shapes:        sortedSets(b.shapes),
		Relationships: sortedSets(b.relationships),
		Menus:         b.menus,
		Versions:      sortedSets(b.versions),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, &SnapshotError{Op: "encode", Err: err}
	}
	return data, nil
}

// LoadSnapshot replaces the receiver's state with the snapshot's. On decode
// failure the receiver is untouched and a *SnapshotError is returned.
func (b *Base) LoadSnapshot(data []byte) error {
	var payload snapshot
	if err := json.Unmarshal(data, &payload); err != nil {
		return &SnapshotError{Op: "decode", Err: err}
	}

	next := New()
	for _, identifier := range payload.Known {
		next.known[identifier] = struct{}{}
	}
	for identifier, combos := range payload.Actions {
		for _, combo := range combos {
			if combo == nil {
				combo = map[string]any{}
			}
			next.recordCombination(identifier, combo)
		}
	}
	for key, values := range payload.Metadata {
		for _, value := range values {
			addToSet(next.metadata, key, value)
		}
	}
	for uuid, identifier := range payload.UUIDs {
		next.uuids[uuid] = identifier
	}
	for groupID, members := range payload.Groups {
		if len(members) > 0 {
			next.groups[groupID] = copyStrings(members)
		}
	}
	for identifier, successors := range payload.Flows {
		if len(successors) > 0 {
			next.flows[identifier] = copyStrings(successors)
		}
	}
	for identifier, shapes := range payload.Shapes {
		for _, shape := range shapes {
			addToSet(next.shapes, identifier, shape)
		}
	}
	for identifier, related := range payload.Relationships {
		for _, successor := range related {
			addToSet(next.relationships, identifier, successor)
		}
	}
	for groupID, menu := range payload.Menus {
		if menu.Items == nil {
			menu.Items = []any{}
		}
		next.menus[groupID] = menu
	}
	for identifier, versions := range payload.Versions {
		for _, version := range versions {
			addToSet(next.versions, identifier, version)
		}
	}

	*b = *next
	return nil
}

func sortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func sortedSets(sets map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(sets))
	for key, set := range sets {
		out[key] = sortedSlice(set)
	}
	return out
}
