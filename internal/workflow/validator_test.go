package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(id string, deps ...string) Step {
	return Step{ID: id, Name: id, Tool: "filesystem", Dependencies: deps}
}

func TestDetectCycle(t *testing.T) {
	tests := []struct {
		name      string
		steps     []Step
		wantCycle bool
	}{
		{
			name:      "empty graph",
			steps:     nil,
			wantCycle: false,
		},
		{
			name:      "linear chain",
			steps:     []Step{step("a"), step("b", "a"), step("c", "b")},
			wantCycle: false,
		},
		{
			name:      "tree shape",
			steps:     []Step{step("root"), step("left", "root"), step("right", "root")},
			wantCycle: false,
		},
		{
			name:      "two step cycle",
			steps:     []Step{step("a", "b"), step("b", "a")},
			wantCycle: true,
		},
		{
			name:      "self dependency",
			steps:     []Step{step("a", "a")},
			wantCycle: true,
		},
		{
			name:      "cycle behind valid prefix",
			steps:     []Step{step("a"), step("b", "a", "d"), step("c", "b"), step("d", "c")},
			wantCycle: true,
		},
		{
			name:      "dangling reference is not a cycle",
			steps:     []Step{step("a", "ghost")},
			wantCycle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle := DetectCycle(tt.steps)
			if tt.wantCycle {
				require.NotEmpty(t, cycle)
				// The path closes on the repeated step.
				assert.Equal(t, cycle[0], cycle[len(cycle)-1])
			} else {
				assert.Empty(t, cycle)
			}
		})
	}
}

func TestMissingDependencies(t *testing.T) {
	steps := []Step{
		step("a"),
		step("b", "a", "ghost"),
		step("c", "phantom", "ghost"),
	}

	missing := MissingDependencies(steps)
	require.Len(t, missing, 3)
	assert.Equal(t, MissingDependency{StepID: "b", DepID: "ghost"}, missing[0])
	assert.Equal(t, MissingDependency{StepID: "c", DepID: "phantom"}, missing[1])
	assert.Equal(t, MissingDependency{StepID: "c", DepID: "ghost"}, missing[2])
}

func TestExecutionOrder_DependenciesFirst(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		want  []string
	}{
		{
			name:  "input order preserved for independent steps",
			steps: []Step{step("a"), step("b"), step("c")},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "dependency pulled ahead of dependent",
			steps: []Step{step("b", "a"), step("a")},
			want:  []string{"a", "b"},
		},
		{
			name: "diamond",
			steps: []Step{
				step("d", "b", "c"),
				step("b", "a"),
				step("c", "a"),
				step("a"),
			},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name:  "dangling dependency skipped",
			steps: []Step{step("a", "ghost"), step("b")},
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered := ExecutionOrder(tt.steps)
			got := make([]string, len(ordered))
			for i, s := range ordered {
				got[i] = s.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutionOrder_TopologicalProperty(t *testing.T) {
	steps := []Step{
		step("setup"),
		step("build", "setup"),
		step("test", "build"),
		step("docs", "setup"),
		step("release", "test", "docs"),
	}

	ordered := ExecutionOrder(steps)
	require.Len(t, ordered, len(steps))

	position := make(map[string]int, len(ordered))
	for i, s := range ordered {
		position[s.ID] = i
	}
	for _, s := range steps {
		for _, dep := range s.Dependencies {
			assert.Less(t, position[dep], position[s.ID],
				"dependency %s must precede %s", dep, s.ID)
		}
	}
}
