package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// OpenAICompleter implements llm.Completer for OpenAI models.
type OpenAICompleter struct {
	client *openai.LLM
}

// NewOpenAICompleter creates an OpenAI-backed completer. The API key falls
// back to OPENAI_API_KEY when not configured.
func NewOpenAICompleter(cfg llm.ProviderConfig) (*OpenAICompleter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.LLM_COMPLETION_FAILED, "openai: missing API key")
	}

	opts := []openai.Option{openai.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "openai: failed to create client", err)
	}

	return &OpenAICompleter{client: client}, nil
}

func (c *OpenAICompleter) Name() string {
	return "openai"
}

func (c *OpenAICompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return generate(ctx, c.Name(), c.client, messages)
}
