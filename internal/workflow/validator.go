package workflow

// Graph validation and ordering for plan steps. A step's dependencies are
// edges from the dependency to the step; the step set must form a DAG with
// referentially intact edges before execution.

// DetectCycle runs a depth-first search with color marking over the step
// graph (white = unvisited, gray = on the current recursion path, black =
// done). Hitting a gray step signals a back edge; the returned slice is the
// cycle path in dependency order, or nil when the graph is acyclic.
// Dependencies on ids not present in steps are ignored here; MissingDependencies
// reports those separately.
func DetectCycle(steps []Step) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	index := make(map[string]Step, len(steps))
	for _, s := range steps {
		index[s.ID] = s
	}

	color := make(map[string]int, len(steps))
	parent := make(map[string]string, len(steps))

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray

		for _, dep := range index[id].Dependencies {
			if _, exists := index[dep]; !exists {
				continue
			}
			switch color[dep] {
			case white:
				parent[dep] = id
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			case gray:
				// Back edge: walk parents back to the repeated step.
				cycle := []string{dep}
				for cur := id; cur != dep; cur = parent[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				return append([]string{dep}, cycle...)
			}
		}

		color[id] = black
		return nil
	}

	for _, s := range steps {
		if color[s.ID] == white {
			if cycle := visit(s.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// MissingDependency is one dangling reference: a step depending on an id not
// present among the plan's steps.
type MissingDependency struct {
	StepID string
	DepID  string
}

// MissingDependencies returns every dangling dependency reference, one entry
// per reference, in plan order.
func MissingDependencies(steps []Step) []MissingDependency {
	known := make(map[string]bool, len(steps))
	for _, s := range steps {
		known[s.ID] = true
	}

	var missing []MissingDependency
	for _, s := range steps {
		for _, dep := range s.Dependencies {
			if !known[dep] {
				missing = append(missing, MissingDependency{StepID: s.ID, DepID: dep})
			}
		}
	}
	return missing
}

// ExecutionOrder returns a deterministic topological order: a depth-first
// post-order traversal that visits each step's dependencies before emitting
// the step, taking the input list in its given order as traversal roots.
// Steps with no dependencies therefore appear before anything that depends on
// them, and ties among independent steps preserve input order.
//
// The input must already be validated: dangling references are skipped and a
// gray (on-path) step is not revisited, so a cyclic input yields a partial
// order rather than infinite recursion.
func ExecutionOrder(steps []Step) []Step {
	index := make(map[string]Step, len(steps))
	for _, s := range steps {
		index[s.ID] = s
	}

	visited := make(map[string]bool, len(steps))
	onPath := make(map[string]bool, len(steps))
	ordered := make([]Step, 0, len(steps))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] || onPath[id] {
			return
		}
		step, exists := index[id]
		if !exists {
			return
		}
		onPath[id] = true
		for _, dep := range step.Dependencies {
			visit(dep)
		}
		onPath[id] = false
		visited[id] = true
		ordered = append(ordered, step)
	}

	for _, s := range steps {
		visit(s.ID)
	}
	return ordered
}
