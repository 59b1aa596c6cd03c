// File path: internal/llm/llm.go

// Package llm supplies natural-language descriptions of workflow actions.
// Descriptions are decorative: callers treat a failed provider as a reason
// to fall back, never as a reason to stop.
package llm

import (
	"context"
	"strings"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/config"
)

// Provider produces a short prose description of one action given its
// identifier and the parameter shapes observed for it.
type Provider interface {
	Name() string
	Describe(ctx context.Context, identifier string, shapes []string) (string, error)
}

// NewProvider selects the enrichment backend. With an API key configured the
// OpenAI provider serves, wrapped so request failures degrade to the local
// provider's text. Without a key the local provider serves directly.
func NewProvider(cfg config.OpenAIConfig) Provider {
	logger := common.Logger()
	if strings.TrimSpace(cfg.APIKey) != "" {
		logger.Info("llm: openai provider selected", "model", cfg.Model)
		return WithFallback(NewOpenAIProvider(cfg), NewLocalProvider())
	}
	logger.Debug("llm: no api key configured, using local provider")
	return NewLocalProvider()
}

type fallbackProvider struct {
	primary Provider
	standby Provider
}

// WithFallback returns a provider that answers from primary and, when
// primary fails, from standby.
func WithFallback(primary, standby Provider) Provider {
	return &fallbackProvider{primary: primary, standby: standby}
}

func (f *fallbackProvider) Name() string { return f.primary.Name() }

func (f *fallbackProvider) Describe(ctx context.Context, identifier string, shapes []string) (string, error) {
	text, err := f.primary.Describe(ctx, identifier, shapes)
	if err == nil {
		return text, nil
	}
	common.Logger().Warn("llm: provider failed, falling back",
		"provider", f.primary.Name(), "identifier", identifier, "error", err)
	return f.standby.Describe(ctx, identifier, shapes)
}
