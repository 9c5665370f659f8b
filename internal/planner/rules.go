package planner

import "github.com/louipr/spark/internal/workflow"

// InferenceRule guesses an unstated ordering constraint for a step. Rules
// are applied in order to every step after parsing; a rule returning ok adds
// the returned id as a dependency unless the step already declares it.
// These are heuristics, not guarantees: they can both miss real dependencies
// and invent false ones, which is why the set is pluggable and tested in
// isolation.
type InferenceRule struct {
	// Name identifies the rule in logs.
	Name string

	// Infer examines steps[i] in the context of the whole parsed list and
	// returns the id of an implied dependency, or ok=false.
	Infer func(i int, steps []workflow.Step) (string, bool)
}

// fsCreationActions are the filesystem actions that materialize something a
// later step could depend on.
var fsCreationActions = map[string]bool{
	"create_directory": true,
	"write_file":       true,
}

// DefaultInferenceRules returns the built-in rule set:
//
//  1. a shell step implicitly depends on the nearest preceding
//     filesystem-creation step, and
//  2. a filesystem write implicitly depends on the nearest preceding
//     directory-creation step.
func DefaultInferenceRules() []InferenceRule {
	return []InferenceRule{
		{
			Name: "shell-after-filesystem-creation",
			Infer: func(i int, steps []workflow.Step) (string, bool) {
				if steps[i].Tool != "shell" {
					return "", false
				}
				for j := i - 1; j >= 0; j-- {
					if steps[j].Tool != "filesystem" {
						continue
					}
					action, _ := steps[j].Params["action"].(string)
					if fsCreationActions[action] {
						return steps[j].ID, true
					}
				}
				return "", false
			},
		},
		{
			Name: "write-after-create-directory",
			Infer: func(i int, steps []workflow.Step) (string, bool) {
				if steps[i].Tool != "filesystem" {
					return "", false
				}
				if action, _ := steps[i].Params["action"].(string); action != "write_file" {
					return "", false
				}
				for j := i - 1; j >= 0; j-- {
					if steps[j].Tool != "filesystem" {
						continue
					}
					if action, _ := steps[j].Params["action"].(string); action == "create_directory" {
						return steps[j].ID, true
					}
				}
				return "", false
			},
		},
	}
}
