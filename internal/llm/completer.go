// Package llm abstracts the plan-decomposition collaborator: a completion
// service that turns prompts into raw text the planner defensively parses.
package llm

import "context"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a completion conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Completer is the external completion service. Implementations live in the
// providers subpackage; the planner only sees this interface.
type Completer interface {
	// Name returns the provider name (e.g. "openai", "anthropic", "ollama").
	Name() string

	// Complete sends the conversation and returns the model's raw text
	// response. The response may be markdown-fenced; callers must parse
	// defensively (see ExtractJSON).
	Complete(ctx context.Context, messages []Message) (string, error)
}
