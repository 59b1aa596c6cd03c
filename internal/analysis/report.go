// File path: internal/analysis/report.go
package analysis

import (
	"sort"
	"strings"

	"github.com/actionatlas/actionatlas/internal/kb"
)

// Options bound the pattern mining.
type Options struct {
	// MinPatternFrequency is the observation count every hop of a reported
	// sequence must reach.
	MinPatternFrequency int
	// MaxPatternLength caps the number of actions in a reported sequence.
	MaxPatternLength int
	// TopCentral caps the central-actions list.
	TopCentral int
}

func (o Options) normalized() Options {
	if o.MinPatternFrequency <= 0 {
		o.MinPatternFrequency = 2
	}
	if o.MaxPatternLength <= 1 {
		o.MaxPatternLength = 5
	}
	if o.TopCentral <= 0 {
		o.TopCentral = 10
	}
	return o
}

// Sequence is a chain of actions observed in order. Count is the observation
// count of the chain's weakest hop.
type Sequence struct {
	Actions []string `json:"actions"`
	Count   int      `json:"count"`
}

// CentralAction pairs an identifier with its flow degree, counting every
// observed inbound and outbound edge.
type CentralAction struct {
	Identifier string `json:"identifier"`
	Degree     int    `json:"degree"`
}

// MenuComplexity summarizes the recorded menu structures.
type MenuComplexity struct {
	Menus        int     `json:"menus"`
	AverageItems float64 `json:"average_items"`
	MaxItems     int     `json:"max_items"`
}

// Report is the full analysis output.
type Report struct {
	TotalActions      int                       `json:"total_actions"`
	TotalCombinations int                       `json:"total_combinations"`
	Sequences         []Sequence                `json:"flow_sequences"`
	Central           []CentralAction           `json:"central_actions"`
	Isolated          []string                  `json:"isolated_actions"`
	ParameterUsage    map[string]map[string]int `json:"parameter_usage"`
	Versions          map[string][]string       `json:"version_distribution"`
	Menus             MenuComplexity            `json:"menu_complexity"`
}

// Analyze computes flow, parameter, version, and menu metrics from current
// knowledge base state.
func Analyze(base *kb.Base, opts Options) *Report {
	opts = opts.normalized()
	report := &Report{
		TotalActions:      base.TotalIdentifiers(),
		TotalCombinations: base.TotalCombinations(),
		ParameterUsage:    make(map[string]map[string]int),
		Versions:          make(map[string][]string),
	}

	edges := edgeCounts(base)
	report.Sequences = mineSequences(edges, opts)
	report.Central, report.Isolated = centrality(base, edges, opts.TopCentral)

	for _, identifier := range base.KnownIdentifiers() {
		usage := make(map[string]int)
		for _, combo := range base.Combinations(identifier) {
			for name := range combo {
				usage[name]++
			}
		}
		if len(usage) > 0 {
			report.ParameterUsage[identifier] = usage
		}
		for _, version := range base.Versions(identifier) {
			report.Versions[version] = append(report.Versions[version], identifier)
		}
	}
	for _, identifiers := range report.Versions {
		sort.Strings(identifiers)
	}

	report.Menus = menuComplexity(base)
	return report
}

func edgeCounts(base *kb.Base) map[string]map[string]int {
	edges := make(map[string]map[string]int)
	for _, pred := range base.FlowPredecessors() {
		for _, succ := range base.Successors(pred) {
			inner := edges[pred]
			if inner == nil {
				inner = make(map[string]int)
				edges[pred] = inner
			}
			inner[succ]++
		}
	}
	return edges
}

// mineSequences grows every sufficiently frequent edge into longer chains.
// A chain is reported with the count of its least-observed hop, so a chain's
// count never exceeds any of its edges.
func mineSequences(edges map[string]map[string]int, opts Options) []Sequence {
	var out []Sequence
	var extend func(chain []string, count int)
	extend = func(chain []string, count int) {
		out = append(out, Sequence{Actions: chain, Count: count})
		if len(chain) >= opts.MaxPatternLength {
			return
		}
		last := chain[len(chain)-1]
		for succ, c := range edges[last] {
			if c < opts.MinPatternFrequency {
				continue
			}
			next := make([]string, len(chain)+1)
			copy(next, chain)
			next[len(chain)] = succ
			if c < count {
				extend(next, c)
			} else {
				extend(next, count)
			}
		}
	}
	for pred, succs := range edges {
		for succ, count := range succs {
			if count < opts.MinPatternFrequency {
				continue
			}
			extend([]string{pred, succ}, count)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Join(out[i].Actions, "\x00") < strings.Join(out[j].Actions, "\x00")
	})
	return out
}

func centrality(base *kb.Base, edges map[string]map[string]int, top int) ([]CentralAction, []string) {
	degree := make(map[string]int)
	for pred, succs := range edges {
		for succ, count := range succs {
			degree[pred] += count
			degree[succ] += count
		}
	}

	central := make([]CentralAction, 0, len(degree))
	for identifier, d := range degree {
		central = append(central, CentralAction{Identifier: identifier, Degree: d})
	}
	sort.Slice(central, func(i, j int) bool {
		if central[i].Degree != central[j].Degree {
			return central[i].Degree > central[j].Degree
		}
		return central[i].Identifier < central[j].Identifier
	})
	if len(central) > top {
		central = central[:top]
	}

	var isolated []string
	for _, identifier := range base.KnownIdentifiers() {
		if _, ok := degree[identifier]; !ok {
			isolated = append(isolated, identifier)
		}
	}
	return central, isolated
}

func menuComplexity(base *kb.Base) MenuComplexity {
	var mc MenuComplexity
	groupIDs := base.MenuGroupIDs()
	if len(groupIDs) == 0 {
		return mc
	}
	total := 0
	for _, groupID := range groupIDs {
		menu, ok := base.MenuFor(groupID)
		if !ok {
			continue
		}
		mc.Menus++
		items := len(menu.Items)
		total += items
		if items > mc.MaxItems {
			mc.MaxItems = items
		}
	}
	if mc.Menus > 0 {
		mc.AverageItems = float64(total) / float64(mc.Menus)
	}
	return mc
}
