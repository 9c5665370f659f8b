package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// AnthropicCompleter implements llm.Completer for Anthropic Claude models.
type AnthropicCompleter struct {
	client *anthropic.LLM
}

// NewAnthropicCompleter creates an Anthropic-backed completer. The API key
// falls back to ANTHROPIC_API_KEY when not configured.
func NewAnthropicCompleter(cfg llm.ProviderConfig) (*AnthropicCompleter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.LLM_COMPLETION_FAILED, "anthropic: missing API key")
	}

	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "anthropic: failed to create client", err)
	}

	return &AnthropicCompleter{client: client}, nil
}

func (c *AnthropicCompleter) Name() string {
	return "anthropic"
}

func (c *AnthropicCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return generate(ctx, c.Name(), c.client, messages)
}
