package tool

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/louipr/spark/internal/types"
)

// Registry maps tool names to capabilities. Registration is last-write-wins:
// re-registering a name silently replaces the prior capability. All
// registration happens at orchestrator construction, before any concurrent
// use; the lock protects concurrent reads and metric updates during a run.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	metrics map[string]*Metrics
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		metrics: make(map[string]*Metrics),
	}
}

// Register adds a capability under its declared name, overwriting any prior
// registration of the same name. Metrics for an overwritten tool are reset.
func (r *Registry) Register(t Tool) {
	if t == nil || t.Name() == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
	r.metrics[t.Name()] = &Metrics{}
}

// Get retrieves a tool by name. Returns a TOOL_NOT_FOUND error when absent.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tools[name]
	if !exists {
		return nil, types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("Tool not found: %s", name))
	}
	return t, nil
}

// List returns all registered tools, sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record tracks one execution outcome for a tool's metrics. Unknown names
// are ignored so an unregistered-tool failure does not create phantom rows.
func (r *Registry) Record(name string, d time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.metrics[name]
	if !exists {
		return
	}
	if success {
		m.recordSuccess(d)
	} else {
		m.recordFailure(d)
	}
}

// Metrics returns a copy of the execution metrics for a tool.
func (r *Registry) Metrics(name string) (Metrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.metrics[name]
	if !exists {
		return Metrics{}, types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("Tool not found: %s", name))
	}
	return *m, nil
}
