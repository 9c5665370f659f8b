package orchestrator

import (
	"time"

	"github.com/louipr/spark/internal/workflow"
)

// OutputResult is the aggregate outcome of one ProcessRequest run.
type OutputResult struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Plan      *workflow.Plan        `json:"plan,omitempty"`
	Results   []workflow.TaskResult `json:"results,omitempty"`
	Artifacts []string              `json:"artifacts,omitempty"`
	Duration  time.Duration         `json:"duration"`
	Timestamp time.Time             `json:"timestamp"`
}

// collectArtifacts scans successful results for the conventional output
// shapes tools emit: a generic artifact field, a filesystem creation marker,
// and document/PRD content. Best effort, not a typed contract.
func collectArtifacts(results []workflow.TaskResult) []string {
	var artifacts []string
	for _, r := range results {
		if !r.Success || r.Result == nil {
			continue
		}
		for _, key := range []string{"artifact", "file_created", "document", "prd"} {
			if v, ok := r.Result[key].(string); ok && v != "" {
				artifacts = append(artifacts, v)
			}
		}
	}
	return artifacts
}
