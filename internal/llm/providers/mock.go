package providers

import (
	"context"
	"sync"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// MockCompleter replays canned responses in order, repeating the last one
// once exhausted. Used by tests and by the "mock" provider type.
type MockCompleter struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     [][]llm.Message
}

// NewMockCompleter creates a mock that cycles through the given responses.
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{responses: responses}
}

// FailWith makes every Complete call return err instead of a response.
func (m *MockCompleter) FailWith(err error) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockCompleter) Name() string {
	return "mock"
}

func (m *MockCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", types.NewRetryableError(types.LLM_COMPLETION_FAILED, "mock has no responses")
	}

	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// Calls returns the message sets passed to Complete, in call order.
func (m *MockCompleter) Calls() [][]llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]llm.Message(nil), m.calls...)
}
