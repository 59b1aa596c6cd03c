// File path: internal/docs/render.go
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

const (
	headerLine   = "# Apple Shortcuts Documentation"
	timestampFmt = "2006-01-02 15:04:05"
)

// Describer supplies an optional one-line description for a catalog entry.
type Describer interface {
	Describe(ctx context.Context, identifier string, shapes []string) (string, error)
}

// Renderer turns knowledge base state into the owned document sections.
type Renderer struct {
	base     *kb.Base
	now      func() time.Time
	describe Describer
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithClock overrides the freshness timestamp source.
func WithClock(now func() time.Time) RenderOption {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDescriber enables per-action description lines in the catalog.
func WithDescriber(d Describer) RenderOption {
	return func(r *Renderer) { r.describe = d }
}

// NewRenderer returns a Renderer over base.
func NewRenderer(base *kb.Base, opts ...RenderOption) *Renderer {
	r := &Renderer{base: base, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rendered is a freshly generated document broken into its preamble and the
// owned section blocks, each block carrying its "## " heading line.
type Rendered struct {
	Preamble string
	Sections map[string]string
}

// Document assembles the owned-only document in canonical section order.
func (r *Rendered) Document() string {
	var b strings.Builder
	b.WriteString(r.Preamble)
	for _, heading := range ownedHeadings {
		b.WriteString(r.Sections[heading])
	}
	return b.String()
}

// Render generates the preamble and every owned section from current state.
// No body line of any owned section begins with "## ", so the output splits
// back into the same blocks under SplitSections.
func (r *Renderer) Render(ctx context.Context) *Rendered {
	return &Rendered{
		Preamble: r.renderPreamble(),
		Sections: map[string]string{
			HeadingOverview:      r.renderOverview(),
			HeadingMetadata:      r.renderMetadata(),
			HeadingActionCatalog: r.renderCatalog(ctx),
			HeadingMenus:         r.renderMenus(),
		},
	}
}

func (r *Renderer) renderPreamble() string {
	var b strings.Builder
	b.WriteString(headerLine)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Generated on %s\n\n", r.now().Format(timestampFmt)))
	return b.String()
}

func (r *Renderer) renderOverview() string {
	var b strings.Builder
	b.WriteString("## Overview\n\n")
	b.WriteString(fmt.Sprintf("- **Total Actions**: %d\n", r.base.TotalIdentifiers()))
	b.WriteString(fmt.Sprintf("- **Total Parameter Variations**: %d\n", r.base.TotalCombinations()))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) renderMetadata() string {
	var b strings.Builder
	b.WriteString("## Metadata\n\n")
	keys := r.base.MetadataKeys()
	if len(keys) == 0 {
		b.WriteString("- None\n\n")
		return b.String()
	}
	for _, key := range keys {
		values := r.base.MetadataValues(key)
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", key, strings.Join(values, ", ")))
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) renderCatalog(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("## Action Catalog\n\n")
	identifiers := r.base.KnownIdentifiers()
	if len(identifiers) == 0 {
		b.WriteString("- None\n\n")
		return b.String()
	}
	for _, identifier := range identifiers {
		r.renderAction(ctx, &b, identifier)
	}
	return b.String()
}

func (r *Renderer) renderAction(ctx context.Context, b *strings.Builder, identifier string) {
	b.WriteString(fmt.Sprintf("### %s\n\n", workflow.DisplayName(identifier)))
	b.WriteString(fmt.Sprintf("**Identifier**: `%s`\n\n", identifier))
	if versions := r.base.Versions(identifier); len(versions) > 0 {
		b.WriteString(fmt.Sprintf("**Versions**: %s\n\n", strings.Join(versions, ", ")))
	}

	shapes := r.base.Shapes(identifier)
	if r.describe != nil {
		desc, err := r.describe.Describe(ctx, identifier, shapes)
		if err != nil {
			common.Logger().Debug("docs: description unavailable", "identifier", identifier, "error", err)
		} else if desc = strings.TrimSpace(desc); desc != "" {
			b.WriteString(desc)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("#### Parameters\n\n")
	if len(shapes) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, shape := range shapes {
			b.WriteString(fmt.Sprintf("- %s\n", shape))
		}
		b.WriteString("\n")
	}

	b.WriteString("#### Examples\n\n")
	combos := r.base.Combinations(identifier)
	if len(combos) == 0 {
		b.WriteString("- None\n\n")
		return
	}
	for _, combo := range combos {
		encoded, err := json.MarshalIndent(combo, "", "  ")
		if err != nil {
			continue
		}
		b.WriteString("```json\n")
		b.Write(encoded)
		b.WriteString("\n```\n\n")
	}
}

func (r *Renderer) renderMenus() string {
	var b strings.Builder
	b.WriteString("## Menu Structures\n\n")
	groupIDs := r.base.MenuGroupIDs()
	if len(groupIDs) == 0 {
		b.WriteString("- None\n\n")
		return b.String()
	}
	for _, groupID := range groupIDs {
		menu, ok := r.base.MenuFor(groupID)
		if !ok {
			continue
		}
		label := groupID
		if label == "" {
			label = "(ungrouped)"
		}
		b.WriteString(fmt.Sprintf("### Menu %s\n\n", label))
		prompt := menu.Prompt
		if prompt == "" {
			prompt = "(none)"
		}
		b.WriteString(fmt.Sprintf("**Prompt**: %s\n\n", prompt))
		b.WriteString(fmt.Sprintf("**Items** (%d):\n\n", len(menu.Items)))
		if len(menu.Items) == 0 {
			b.WriteString("- None\n\n")
			continue
		}
		for _, item := range menu.Items {
			b.WriteString(fmt.Sprintf("- %s\n", menuItemLabel(item)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// menuItemLabel renders a menu item for the document. Items are usually
// plain strings; anything else shows as compact JSON.
func menuItemLabel(item any) string {
	if s, ok := item.(string); ok {
		return s
	}
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprintf("%v", item)
	}
	return string(encoded)
}
