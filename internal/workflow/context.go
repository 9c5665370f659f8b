package workflow

import (
	"sync"
	"time"
)

// HistoryEntry is one record in the execution context's append-only log.
type HistoryEntry struct {
	StepID    string         `json:"step_id"`
	Timestamp time.Time      `json:"timestamp"`
	Result    map[string]any `json:"result,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// ExecutionContext is the mutable state scoped to one orchestration run.
// Ownership is structural: the orchestrator and executor write state and
// history; tools only read the working directory and environment snapshot.
// It is never shared across concurrent runs.
type ExecutionContext struct {
	workingDir string
	env        map[string]string

	// Timeout bounds each execution attempt; zero means the executor's
	// default applies.
	Timeout time.Duration

	mu      sync.Mutex
	state   map[string]any
	history []HistoryEntry
}

// NewExecutionContext creates a run-scoped context. The environment map is
// copied so later mutation by the caller cannot leak into the run.
func NewExecutionContext(workingDir string, env map[string]string) *ExecutionContext {
	snapshot := make(map[string]string, len(env))
	for k, v := range env {
		snapshot[k] = v
	}
	return &ExecutionContext{
		workingDir: workingDir,
		env:        snapshot,
		state:      make(map[string]any),
	}
}

// WorkingDir returns the run's working directory.
func (c *ExecutionContext) WorkingDir() string {
	return c.workingDir
}

// Env returns the value of an environment key from the read-only snapshot.
func (c *ExecutionContext) Env(key string) (string, bool) {
	v, ok := c.env[key]
	return v, ok
}

// Environment returns a copy of the environment snapshot.
func (c *ExecutionContext) Environment() map[string]string {
	out := make(map[string]string, len(c.env))
	for k, v := range c.env {
		out[k] = v
	}
	return out
}

// SetState records a step output under key. Keys are conventionally written
// once per run, by the orchestrator only.
func (c *ExecutionContext) SetState(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state[key] = value
}

// State returns the value stored under key.
func (c *ExecutionContext) State(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.state[key]
	return v, ok
}

// AppendHistory appends an entry to the run's execution log.
func (c *ExecutionContext) AppendHistory(entry HistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, entry)
}

// History returns a copy of the execution log in append order.
func (c *ExecutionContext) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]HistoryEntry(nil), c.history...)
}
