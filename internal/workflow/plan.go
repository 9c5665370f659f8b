package workflow

import (
	"time"

	"github.com/louipr/spark/internal/types"
)

// Plan is a dependency-annotated set of steps derived from a natural-language
// goal. It is created by the planner, validated once, then consumed read-only
// by the orchestrator; execution state lives in ExecutionContext and
// TaskResults, never on the plan itself.
type Plan struct {
	ID    types.ID `json:"id"`
	Goal  string   `json:"goal"`
	Steps []Step   `json:"steps"`

	// EstimatedDuration is advisory only, in minutes.
	EstimatedDuration float64 `json:"estimated_duration"`

	CreatedAt time.Time `json:"created_at"`
}

// StepByID returns the step with the given id, or false if absent.
func (p *Plan) StepByID(id string) (Step, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// StepIDs returns the ids of all steps in plan order.
func (p *Plan) StepIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// ValidationResult reports the outcome of plan graph validation. Issues
// accumulate: a plan can simultaneously contain a cycle, dangling references,
// and unknown tools. IsValid is true iff Issues is empty.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
}
