package llm

import (
	"context"
	"strings"

	"forum-companion/internal/domain"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicGenerator fulfills the generation contract with the Anthropic
// Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicGenerator constructs a generator for the given API key and model.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
	}
}

// Generate sends the prompt as a single user message and returns the text
// of the first content block.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	temperature := float32(0.7)
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: g.model,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, domain.NewGenerationError("anthropic", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.GetText())
	}

	return &domain.LLMResponse{
		Text: strings.TrimSpace(sb.String()),
		Done: resp.StopReason != "",
	}, nil
}

// Version returns the wrapped model name.
func (g *AnthropicGenerator) Version() string {
	return string(g.model)
}

var _ domain.LLMClient = (*AnthropicGenerator)(nil)
