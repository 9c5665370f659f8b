// Package providers implements llm.Completer over langchaingo clients.
package providers

import (
	"fmt"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// NewCompleter creates a completer for the configured provider type.
func NewCompleter(cfg llm.ProviderConfig) (llm.Completer, error) {
	switch cfg.Type {
	case llm.ProviderOpenAI:
		return NewOpenAICompleter(cfg)
	case llm.ProviderAnthropic:
		return NewAnthropicCompleter(cfg)
	case llm.ProviderOllama:
		return NewOllamaCompleter(cfg)
	case llm.ProviderMock:
		return NewMockCompleter("mock response"), nil
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown provider type: %s", cfg.Type))
	}
}
