package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// OllamaCompleter implements llm.Completer for local Ollama models.
type OllamaCompleter struct {
	client *ollama.LLM
}

// NewOllamaCompleter creates an Ollama-backed completer against the local
// server unless BaseURL overrides it.
func NewOllamaCompleter(cfg llm.ProviderConfig) (*OllamaCompleter, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}

	opts := []ollama.Option{ollama.WithServerURL(serverURL)}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "ollama: failed to create client", err)
	}

	return &OllamaCompleter{client: client}, nil
}

func (c *OllamaCompleter) Name() string {
	return "ollama"
}

func (c *OllamaCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return generate(ctx, c.Name(), c.client, messages)
}
