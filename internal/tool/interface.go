package tool

import (
	"context"

	"github.com/louipr/spark/internal/workflow"
)

// Tool is a pluggable capability: an atomic, stateless unit of work behind a
// uniform validate/execute contract. Tools read the execution context's
// working directory and environment but never mutate its state or history;
// outputs travel back through the returned map.
type Tool interface {
	// Name returns the unique registry key for this tool.
	Name() string

	// Description returns a human-readable summary of what the tool does.
	Description() string

	// Tags returns labels for categorization and discovery.
	Tags() []string

	// Validate reports whether params are acceptable for Execute. A false
	// return is a caller error and is never retried.
	Validate(params map[string]any) bool

	// Execute runs the tool. Context carries cancellation and the
	// per-attempt deadline; failures should be typed SparkErrors so the
	// failure policy can classify them without string matching.
	Execute(ctx context.Context, params map[string]any, ec *workflow.ExecutionContext) (map[string]any, error)
}
