// File path: internal/search/search.go

// Package search provides a lexical TF-IDF index over the actions held in a
// knowledge base. The index is immutable once built; callers rebuild it after
// ingesting new workflows.
package search

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
	defaultLimit = 5
)

var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// Result is one scored match.
type Result struct {
	Identifier  string  `json:"identifier"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

type entry struct {
	identifier string
	vector     map[string]float64
	norm       float64
}

// Index holds per-chunk term vectors and corpus-wide document frequencies.
type Index struct {
	entries []entry
	df      map[string]int
	total   int
}

// NewIndex builds the index from every action the base knows. Each action
// contributes one document assembled from its display name, identifier,
// parameter shapes, grouping identifiers, menu prompts, and observed
// parameter combinations; documents longer than the chunk size are split so
// a single action with large example payloads does not dominate the term
// statistics.
func NewIndex(base *kb.Base) *Index {
	idx := &Index{df: make(map[string]int)}
	if base == nil {
		return idx
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators(chunkSeparators),
	)
	groupsByMember := memberGroups(base)
	for _, identifier := range base.KnownIdentifiers() {
		body := actionText(base, identifier, groupsByMember[identifier])
		for _, chunk := range splitBody(splitter, body) {
			terms := tokenize(chunk)
			if len(terms) == 0 {
				continue
			}
			tf := make(map[string]float64)
			for _, term := range terms {
				tf[term]++
			}
			for term := range tf {
				idx.df[term]++
			}
			idx.entries = append(idx.entries, entry{identifier: identifier, vector: tf})
		}
	}
	idx.total = len(idx.entries)
	for i := range idx.entries {
		var norm float64
		for term, freq := range idx.entries[i].vector {
			weight := idx.weight(term, freq)
			idx.entries[i].vector[term] = weight
			norm += weight * weight
		}
		idx.entries[i].norm = math.Sqrt(norm)
	}
	return idx
}

// Search scores the query against every indexed chunk by TF-IDF cosine
// similarity and returns the best-scoring actions, one result per
// identifier. Ties break toward the lexically smaller identifier. A
// non-positive limit selects a small default.
func (idx *Index) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = defaultLimit
	}
	terms := tokenize(query)
	if len(terms) == 0 || idx.total == 0 {
		return nil
	}
	qtf := make(map[string]float64)
	for _, term := range terms {
		qtf[term]++
	}
	var qnorm float64
	for term, freq := range qtf {
		weight := idx.weight(term, freq)
		qtf[term] = weight
		qnorm += weight * weight
	}
	qnorm = math.Sqrt(qnorm)
	if qnorm == 0 {
		return nil
	}
	best := make(map[string]float64)
	for _, ent := range idx.entries {
		if ent.norm == 0 {
			continue
		}
		var dot float64
		for term, weight := range qtf {
			dot += weight * ent.vector[term]
		}
		if dot <= 0 {
			continue
		}
		score := dot / (qnorm * ent.norm)
		if score > best[ent.identifier] {
			best[ent.identifier] = score
		}
	}
	results := make([]Result, 0, len(best))
	for identifier, score := range best {
		results = append(results, Result{
			Identifier:  identifier,
			DisplayName: workflow.DisplayName(identifier),
			Score:       score,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Identifier < results[j].Identifier
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (idx *Index) weight(term string, freq float64) float64 {
	df := float64(idx.df[term])
	if df == 0 {
		return 0
	}
	idf := math.Log((float64(idx.total)+1)/(df+1)) + 1
	return freq * idf
}

// actionText assembles the searchable body for one identifier. Combinations
// serialize compactly; their parameter names and values are what make
// value-level queries land.
func actionText(base *kb.Base, identifier string, groups []string) string {
	var b strings.Builder
	b.WriteString(workflow.DisplayName(identifier))
	b.WriteByte('\n')
	b.WriteString(identifier)
	b.WriteByte('\n')
	for _, shape := range base.Shapes(identifier) {
		b.WriteString(shape)
		b.WriteByte('\n')
	}
	for _, groupID := range groups {
		b.WriteString(groupID)
		b.WriteByte('\n')
		if menu, ok := base.MenuFor(groupID); ok && menu.Prompt != "" {
			b.WriteString(menu.Prompt)
			b.WriteByte('\n')
		}
	}
	for _, combo := range base.Combinations(identifier) {
		data, err := json.Marshal(combo)
		if err != nil {
			continue
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

// memberGroups inverts the base's group membership: identifier to the sorted
// grouping identifiers it appears under.
func memberGroups(base *kb.Base) map[string][]string {
	out := make(map[string][]string)
	for _, groupID := range base.GroupIDs() {
		seen := make(map[string]struct{})
		for _, member := range base.GroupMembers(groupID) {
			if _, dup := seen[member]; dup {
				continue
			}
			seen[member] = struct{}{}
			out[member] = append(out[member], groupID)
		}
	}
	return out
}

func splitBody(splitter textsplitter.TextSplitter, body string) []string {
	if len(body) <= chunkSize {
		return []string{body}
	}
	chunks, err := splitter.SplitText(body)
	if err != nil || len(chunks) == 0 {
		return []string{body}
	}
	return chunks
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	replacer := strings.NewReplacer(
		".", " ",
		",", " ",
		"\n", " ",
		"\t", " ",
		":", " ",
		";", " ",
		"-", " ",
		"_", " ",
		"(", " ",
		")", " ",
		"{", " ",
		"}", " ",
		"[", " ",
		"]", " ",
		"'", " ",
		"\"", " ",
	)
	return strings.Fields(replacer.Replace(text))
}
