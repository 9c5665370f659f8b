package workflow

// Step is an immutable unit of work: one invocation of a named tool with a
// parameter map. Dependencies reference other step IDs in the same plan and
// must all complete before the step runs.
type Step struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tool         string         `json:"tool"`
	Params       map[string]any `json:"params,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
}

// DependsOn reports whether the step declares a direct dependency on stepID.
func (s Step) DependsOn(stepID string) bool {
	for _, dep := range s.Dependencies {
		if dep == stepID {
			return true
		}
	}
	return false
}
