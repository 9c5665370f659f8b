package planner

import (
	"encoding/json"
	"fmt"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// stepDescriptor is the loosely-typed shape the collaborator returns.
type stepDescriptor struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tool         string         `json:"tool"`
	Params       map[string]any `json:"params"`
	Dependencies []string       `json:"dependencies"`
}

// parseSteps extracts a step array from a raw, possibly markdown-fenced
// response. Both a bare array and a {"steps": [...]} wrapper are accepted.
// Missing fields are defaulted: id becomes step_<index+1>, name falls back
// to the id, tool to "unknown", params and dependencies to empty.
func parseSteps(response string) ([]workflow.Step, error) {
	raw, err := llm.ExtractJSON(response)
	if err != nil {
		return nil, types.WrapError(types.LLM_RESPONSE_UNPARSABLE, "response contains no JSON", err)
	}

	var descriptors []stepDescriptor
	if err := json.Unmarshal([]byte(raw), &descriptors); err != nil {
		var wrapper struct {
			Steps []stepDescriptor `json:"steps"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil || wrapper.Steps == nil {
			return nil, types.WrapError(types.LLM_RESPONSE_UNPARSABLE, "response does not parse as a step array", err)
		}
		descriptors = wrapper.Steps
	}

	steps := make([]workflow.Step, 0, len(descriptors))
	for i, d := range descriptors {
		step := workflow.Step{
			ID:           d.ID,
			Name:         d.Name,
			Tool:         d.Tool,
			Params:       d.Params,
			Dependencies: d.Dependencies,
		}
		if step.ID == "" {
			step.ID = fmt.Sprintf("step_%d", i+1)
		}
		if step.Name == "" {
			step.Name = step.ID
		}
		if step.Tool == "" {
			step.Tool = "unknown"
		}
		if step.Params == nil {
			step.Params = make(map[string]any)
		}
		if step.Dependencies == nil {
			step.Dependencies = []string{}
		}
		steps = append(steps, step)
	}
	return steps, nil
}
