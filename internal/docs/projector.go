// File path: internal/docs/projector.go
package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/common/telemetry"
	"github.com/actionatlas/actionatlas/internal/kb"
)

// Owned second-level headings, in canonical emission order.
const (
	HeadingOverview      = "Overview"
	HeadingMetadata      = "Metadata"
	HeadingActionCatalog = "Action Catalog"
	HeadingMenus         = "Menu Structures"
)

var ownedHeadings = []string{HeadingOverview, HeadingMetadata, HeadingActionCatalog, HeadingMenus}

// Degradation reports that prior document content could not be split into
// sections and was discarded in favor of a fresh owned-only document. It is
// result data, not an error: projection still succeeds.
type Degradation struct {
	Reason string
}

func (d *Degradation) String() string { return d.Reason }

// ProjectionResult carries the merged document plus what happened to the
// prior content during the merge.
type ProjectionResult struct {
	Doc         string
	Preserved   []string
	Replaced    []string
	Degradation *Degradation
}

// Project merges fresh owned sections over prior document content. Owned
// sections are replaced wholesale; every foreign section keeps its original
// bytes and follows the owned block in its original relative order. Prior
// content that cannot be split degrades to a fresh owned-only document.
func Project(prior string, fresh *Rendered) *ProjectionResult {
	res := &ProjectionResult{}
	if prior != "" {
		if reason := degradationReason(prior); reason != "" {
			res.Degradation = &Degradation{Reason: reason}
			res.Doc = fresh.Document()
			return res
		}
	}

	owned := make(map[string]struct{}, len(ownedHeadings))
	for _, heading := range ownedHeadings {
		owned[heading] = struct{}{}
	}

	var out strings.Builder
	out.WriteString(fresh.Document())
	_, sections := SplitSections(prior)
	for _, sec := range sections {
		if _, ok := owned[sec.Title]; ok {
			res.Replaced = append(res.Replaced, sec.Title)
			continue
		}
		out.WriteString(sec.Raw)
		res.Preserved = append(res.Preserved, sec.Title)
	}
	res.Doc = out.String()
	return res
}

// Generate renders documentation for base, merges it with whatever already
// exists at path, and writes the merged document back atomically. A missing
// prior file means fresh generation, not degradation.
func Generate(ctx context.Context, base *kb.Base, path string, opts ...RenderOption) (*ProjectionResult, error) {
	prior, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read prior documentation %s: %w", path, err)
	}

	fresh := NewRenderer(base, opts...).Render(ctx)
	res := Project(string(prior), fresh)
	if res.Degradation != nil {
		common.Logger().Warn("docs: prior content discarded", "path", path, "reason", res.Degradation.Reason)
	}
	if err := writeDoc(path, res.Doc); err != nil {
		return nil, err
	}
	telemetry.RecordProjection(res.Degradation != nil)
	return res, nil
}

func writeDoc(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create documentation dir: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write documentation: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize documentation: %w", err)
	}
	return nil
}
