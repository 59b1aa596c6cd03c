// File path: internal/llm/local.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/actionatlas/actionatlas/internal/workflow"
)

// LocalProvider builds descriptions from the observed data alone. It is
// deterministic and always available.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Name() string { return "local" }

func (l *LocalProvider) Describe(_ context.Context, identifier string, shapes []string) (string, error) {
	display := workflow.DisplayName(identifier)
	if len(shapes) == 0 {
		return fmt.Sprintf("The %s action has been observed without parameters.", display), nil
	}
	names := make([]string, 0, len(shapes))
	for _, shape := range shapes {
		name, _, _ := strings.Cut(shape, ":")
		names = append(names, strings.TrimSpace(name))
	}
	return fmt.Sprintf("The %s action has been observed with the parameters %s.",
		display, strings.Join(names, ", ")), nil
}
