package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// toContent converts engine messages to langchaingo message content.
func toContent(messages []llm.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role schema.ChatMessageType
		switch m.Role {
		case llm.RoleSystem:
			role = schema.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = schema.ChatMessageTypeAI
		default:
			role = schema.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	return content
}

// generate runs a completion against a langchaingo model and returns the
// first choice's text. Failures are retryable: completion faults are
// transient from the engine's point of view.
func generate(ctx context.Context, provider string, model llms.Model, messages []llm.Message) (string, error) {
	resp, err := model.GenerateContent(ctx, toContent(messages))
	if err != nil {
		return "", types.WrapRetryableError(types.LLM_COMPLETION_FAILED,
			fmt.Sprintf("%s completion failed", provider), err)
	}
	if len(resp.Choices) == 0 {
		return "", types.NewRetryableError(types.LLM_COMPLETION_FAILED,
			fmt.Sprintf("%s returned no choices", provider))
	}
	return resp.Choices[0].Content, nil
}
