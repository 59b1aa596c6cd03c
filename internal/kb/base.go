// File path: internal/kb/base.go
package kb

import (
	"encoding/json"
	"sort"

	"github.com/actionatlas/actionatlas/internal/workflow"
)

// MenuActionIdentifier is the action kind that carries a user-facing menu.
const MenuActionIdentifier = "is.workflow.actions.choosefrommenu"

// Parameter keys with aggregate meaning.
const (
	paramUUID     = "UUID"
	paramGrouping = "GroupingIdentifier"

	paramMenuPrompt = "WFMenuPrompt"
	paramMenuItems  = "WFMenuItems"
)

// Menu is one recorded menu hierarchy, keyed in the base by the grouping
// identifier of the action that declared it.
type Menu struct {
	Prompt string `json:"prompt"`
	Items  []any  `json:"items"`
}

// Base is the cross-file aggregate of everything observed about workflow
// actions. It is the sole mutable state of the system and only grows: there
// is no removal operation. Base is not safe for concurrent use; callers
// that share one across goroutines serialize access themselves.
type Base struct {
	known         map[string]struct{}
	combinations  map[string][]map[string]any
	shapes        map[string]map[string]struct{}
	flows         map[string][]string
	relationships map[string]map[string]struct{}
	groups        map[string][]string
	menus         map[string]Menu
	uuids         map[string]string
	versions      map[string]map[string]struct{}
	metadata      map[string]map[string]struct{}

	// comboKeys holds the canonical serialization of every stored
	// combination. Derived state: rebuilt on snapshot load, never persisted.
	comboKeys map[string]map[string]struct{}
}

// New returns an empty Base.
func New() *Base {
	return &Base{
		known:         make(map[string]struct{}),
		combinations:  make(map[string][]map[string]any),
		shapes:        make(map[string]map[string]struct{}),
		flows:         make(map[string][]string),
		relationships: make(map[string]map[string]struct{}),
		groups:        make(map[string][]string),
		menus:         make(map[string]Menu),
		uuids:         make(map[string]string),
		versions:      make(map[string]map[string]struct{}),
		metadata:      make(map[string]map[string]struct{}),
		comboKeys:     make(map[string]map[string]struct{}),
	}
}

// Observe merges one action record into the aggregate state. total is the
// raw action count of the originating file; next is the identifier of the
// following record in the same file, empty when none exists. The side
// effects happen in a fixed order so re-ingestion behaves deterministically.
func (b *Base) Observe(rec workflow.ActionRecord, total int, next string) {
	identifier := rec.Identifier
	if identifier == "" {
		return
	}
	b.known[identifier] = struct{}{}
	if version := rec.Version.Effective(); version != "" {
		addToSet(b.versions, identifier, version)
	}

	for name, value := range rec.Parameters {
		addToSet(b.shapes, identifier, ShapeOf(name, value))
	}

	if uuid, ok := rec.Parameters[paramUUID].(string); ok && uuid != "" {
		// Instance UUIDs are workflow-local; a later workflow reusing the
		// same string overwrites the mapping.
		b.uuids[uuid] = identifier
	}
	groupID, _ := rec.Parameters[paramGrouping].(string)
	if groupID != "" {
		b.groups[groupID] = append(b.groups[groupID], identifier)
	}

	if identifier == MenuActionIdentifier {
		b.menus[groupID] = menuFromParameters(rec.Parameters)
	}

	if rec.Position < total-1 && next != "" {
		b.flows[identifier] = append(b.flows[identifier], next)
		addToSet(b.relationships, identifier, next)
	}

	b.recordCombination(identifier, rec.Parameters)
}

// RecordMetadata merges one document's metadata values into the aggregate
// metadata sets.
func (b *Base) RecordMetadata(values map[string]string) {
	for key, value := range values {
		addToSet(b.metadata, key, value)
	}
}

// recordCombination appends params to the identifier's distinct-combination
// list unless a structurally equal combination is already present. Equality
// is canonical JSON equality; encoding/json sorts map keys at every level.
func (b *Base) recordCombination(identifier string, params map[string]any) {
	key, err := json.Marshal(params)
	if err != nil {
		// A value that cannot be serialized cannot be deduplicated or
		// persisted, so it is not recorded.
		return
	}
	if _, dup := b.comboKeys[identifier][string(key)]; dup {
		return
	}
	addToSet(b.comboKeys, identifier, string(key))
	b.combinations[identifier] = append(b.combinations[identifier], params)
}

func menuFromParameters(params map[string]any) Menu {
	menu := Menu{Items: []any{}}
	if prompt, ok := params[paramMenuPrompt].(string); ok {
		menu.Prompt = prompt
	}
	if items, ok := params[paramMenuItems].([]any); ok {
		menu.Items = items
	}
	return menu
}

// KnownIdentifiers returns every identifier ever observed, sorted.
func (b *Base) KnownIdentifiers() []string {
	return setToSorted(b.known)
}

// KnownSet returns a copy of the known-identifier set.
func (b *Base) KnownSet() map[string]struct{} {
	out := make(map[string]struct{}, len(b.known))
	for id := range b.known {
		out[id] = struct{}{}
	}
	return out
}

// HasIdentifier reports whether the identifier has ever been observed.
func (b *Base) HasIdentifier(identifier string) bool {
	_, ok := b.known[identifier]
	return ok
}

// Combinations returns the distinct parameter combinations observed for the
// identifier, in first-observation order.
func (b *Base) Combinations(identifier string) []map[string]any {
	combos := b.combinations[identifier]
	if len(combos) == 0 {
		return nil
	}
	out := make([]map[string]any, len(combos))
	copy(out, combos)
	return out
}

// Shapes returns the sorted parameter shapes observed for the identifier.
func (b *Base) Shapes(identifier string) []string {
	return setToSorted(b.shapes[identifier])
}

// Successors returns the identifier's flow successors in observation order,
// duplicates included.
func (b *Base) Successors(identifier string) []string {
	return copyStrings(b.flows[identifier])
}

// DistinctSuccessors returns the identifier's distinct successors, sorted.
func (b *Base) DistinctSuccessors(identifier string) []string {
	return setToSorted(b.relationships[identifier])
}

// FlowPredecessors returns every identifier that has at least one recorded
// successor, sorted.
func (b *Base) FlowPredecessors() []string {
	out := make([]string, 0, len(b.flows))
	for id := range b.flows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GroupIDs returns every grouping identifier with members, sorted.
func (b *Base) GroupIDs() []string {
	out := make([]string, 0, len(b.groups))
	for id := range b.groups {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GroupMembers returns the member identifiers of a group in observation
// order, duplicates included.
func (b *Base) GroupMembers(groupID string) []string {
	return copyStrings(b.groups[groupID])
}

// MenuGroupIDs returns every grouping identifier with a recorded menu,
// sorted.
func (b *Base) MenuGroupIDs() []string {
	out := make([]string, 0, len(b.menus))
	for id := range b.menus {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MenuFor returns the recorded menu for a grouping identifier.
func (b *Base) MenuFor(groupID string) (Menu, bool) {
	menu, ok := b.menus[groupID]
	return menu, ok
}

// Versions returns the sorted version history of the identifier.
func (b *Base) Versions(identifier string) []string {
	return setToSorted(b.versions[identifier])
}

// IdentifierForUUID resolves an instance UUID to its owning identifier.
func (b *Base) IdentifierForUUID(uuid string) (string, bool) {
	identifier, ok := b.uuids[uuid]
	return identifier, ok
}

// MetadataKeys returns the tracked document-level keys seen so far, sorted.
func (b *Base) MetadataKeys() []string {
	out := make([]string, 0, len(b.metadata))
	for key := range b.metadata {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// MetadataValues returns the sorted observed values for a metadata key.
func (b *Base) MetadataValues(key string) []string {
	return setToSorted(b.metadata[key])
}

// TotalIdentifiers returns the number of known identifiers.
func (b *Base) TotalIdentifiers() int {
	return len(b.known)
}

// TotalCombinations returns the number of distinct parameter combinations
// across all identifiers.
func (b *Base) TotalCombinations() int {
	total := 0
	for _, combos := range b.combinations {
		total += len(combos)
	}
	return total
}

func addToSet(sets map[string]map[string]struct{}, key, value string) {
	set, ok := sets[key]
	if !ok {
		set = make(map[string]struct{})
		sets[key] = set
	}
	set[value] = struct{}{}
}

func setToSorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func copyStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
