// File path: internal/llm/openai.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/config"
	"github.com/actionatlas/actionatlas/internal/workflow"
)

const systemPrompt = "You document Apple Shortcuts actions. Answer with one or two " +
	"plain sentences describing what the action does and how its parameters are " +
	"used. No markdown, no lists."

// OpenAIProvider describes actions through the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if endpoint := strings.TrimSpace(cfg.BaseURL); endpoint != "" {
		common.Logger().Info("llm: using custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Describe(ctx context.Context, identifier string, shapes []string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: requesting description", "model", p.model, "identifier", identifier)
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(describeRequest(identifier, shapes)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func describeRequest(identifier string, shapes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s (identifier %s)\n", workflow.DisplayName(identifier), identifier)
	if len(shapes) == 0 {
		b.WriteString("No parameters have been observed for it.")
		return b.String()
	}
	b.WriteString("Observed parameter shapes:\n")
	for _, shape := range shapes {
		b.WriteString("- ")
		b.WriteString(shape)
		b.WriteByte('\n')
	}
	return b.String()
}
