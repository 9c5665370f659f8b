package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louipr/spark/internal/llm/providers"
	"github.com/louipr/spark/internal/workflow"
)

var testTools = []string{"command", "document", "filesystem", "shell"}

func TestCreatePlan_FromCollaborator(t *testing.T) {
	mock := providers.NewMockCompleter("```json\n" + `[
		{"id": "s1", "name": "Make dir", "tool": "filesystem", "params": {"action": "create_directory", "path": "app"}},
		{"id": "s2", "name": "Write file", "tool": "filesystem", "params": {"action": "write_file", "path": "app/main.go", "content": "x"}, "dependencies": ["s1"]}
	]` + "\n```")

	p := NewWorkflowPlanner(testTools, WithCompleter(mock))
	plan, err := p.CreatePlan(context.Background(), "scaffold an app")
	require.NoError(t, err)

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "scaffold an app", plan.Goal)
	assert.False(t, plan.ID.IsZero())
	assert.Greater(t, plan.EstimatedDuration, 0.0)
	assert.Equal(t, []string{"s1"}, plan.Steps[1].Dependencies)
	assert.Len(t, mock.Calls(), 1)
}

func TestCreatePlan_FallbackOnCollaboratorFailure(t *testing.T) {
	mock := providers.NewMockCompleter().FailWith(errors.New("service unavailable"))
	p := NewWorkflowPlanner(testTools, WithCompleter(mock))

	plan, err := p.CreatePlan(context.Background(), "some goal")
	require.NoError(t, err)

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "step_1", plan.Steps[0].ID)
	assert.Equal(t, "document", plan.Steps[0].Tool)
	assert.Equal(t, "step_2", plan.Steps[1].ID)
	assert.Equal(t, "filesystem", plan.Steps[1].Tool)
	assert.Equal(t, []string{"step_1"}, plan.Steps[1].Dependencies)

	// The fallback plan must itself be valid and executable.
	assert.True(t, p.ValidatePlan(plan).IsValid)
}

func TestCreatePlan_FallbackOnUnparsableResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose only", response: "I would suggest doing this manually."},
		{name: "json object without steps", response: `{"answer": 42}`},
		{name: "empty array", response: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWorkflowPlanner(testTools, WithCompleter(providers.NewMockCompleter(tt.response)))
			plan, err := p.CreatePlan(context.Background(), "goal")
			require.NoError(t, err)
			require.Len(t, plan.Steps, 2, "fallback plan expected")
			assert.Equal(t, "step_1", plan.Steps[0].ID)
		})
	}
}

func TestCreatePlan_NoCompleterUsesFallback(t *testing.T) {
	p := NewWorkflowPlanner(testTools)
	plan, err := p.CreatePlan(context.Background(), "goal")
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 2)
}

func TestParseSteps_Defaulting(t *testing.T) {
	steps, err := parseSteps(`[{"tool": "shell"}, {"id": "named", "name": "Named step"}]`)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, "step_1", steps[0].ID)
	assert.Equal(t, "step_1", steps[0].Name)
	assert.Equal(t, "shell", steps[0].Tool)
	assert.NotNil(t, steps[0].Params)
	assert.Empty(t, steps[0].Dependencies)

	assert.Equal(t, "named", steps[1].ID)
	assert.Equal(t, "Named step", steps[1].Name)
	assert.Equal(t, "unknown", steps[1].Tool)
}

func TestParseSteps_ObjectWrapper(t *testing.T) {
	steps, err := parseSteps(`{"steps": [{"id": "a", "tool": "document"}]}`)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "a", steps[0].ID)
}

func TestInferDependencies_ShellAfterFilesystem(t *testing.T) {
	mock := providers.NewMockCompleter(`[
		{"id": "s1", "tool": "filesystem", "params": {"action": "create_directory", "path": "app"}},
		{"id": "s2", "tool": "shell", "params": {"command": "ls app"}}
	]`)
	p := NewWorkflowPlanner(testTools, WithCompleter(mock))

	plan, err := p.CreatePlan(context.Background(), "goal")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, plan.Steps[1].Dependencies,
		"shell step should gain an implicit dependency on the preceding filesystem creation")
}

func TestInferDependencies_WriteAfterCreateDirectory(t *testing.T) {
	steps := []workflow.Step{
		{ID: "mk", Tool: "filesystem", Params: map[string]any{"action": "create_directory", "path": "out"}},
		{ID: "other", Tool: "command", Params: map[string]any{"task": "x"}},
		{ID: "wr", Tool: "filesystem", Params: map[string]any{"action": "write_file", "path": "out/a", "content": "c"}},
	}

	p := NewWorkflowPlanner(testTools)
	p.inferDependencies(steps)

	assert.Equal(t, []string{"mk"}, steps[2].Dependencies)
	assert.Empty(t, steps[1].Dependencies)
}

func TestInferDependencies_NoDuplicateEdges(t *testing.T) {
	steps := []workflow.Step{
		{ID: "mk", Tool: "filesystem", Params: map[string]any{"action": "create_directory", "path": "out"}},
		{ID: "sh", Tool: "shell", Params: map[string]any{"command": "ls"}, Dependencies: []string{"mk"}},
	}

	p := NewWorkflowPlanner(testTools)
	p.inferDependencies(steps)

	assert.Equal(t, []string{"mk"}, steps[1].Dependencies, "explicit dependency must not be duplicated")
}

func TestValidatePlan(t *testing.T) {
	p := NewWorkflowPlanner(testTools)

	tests := []struct {
		name       string
		steps      []workflow.Step
		wantValid  bool
		wantIssues int
	}{
		{
			name: "valid linear plan",
			steps: []workflow.Step{
				{ID: "a", Tool: "filesystem"},
				{ID: "b", Tool: "shell", Dependencies: []string{"a"}},
			},
			wantValid: true,
		},
		{
			name: "cycle",
			steps: []workflow.Step{
				{ID: "a", Tool: "shell", Dependencies: []string{"b"}},
				{ID: "b", Tool: "shell", Dependencies: []string{"a"}},
			},
			wantValid:  false,
			wantIssues: 1,
		},
		{
			name: "missing reference per dangling id",
			steps: []workflow.Step{
				{ID: "a", Tool: "shell", Dependencies: []string{"ghost", "phantom"}},
			},
			wantValid:  false,
			wantIssues: 2,
		},
		{
			name: "unknown tool",
			steps: []workflow.Step{
				{ID: "a", Tool: "teleport"},
			},
			wantValid:  false,
			wantIssues: 1,
		},
		{
			name: "multiple issue kinds accumulate",
			steps: []workflow.Step{
				{ID: "a", Tool: "teleport", Dependencies: []string{"b"}},
				{ID: "b", Tool: "shell", Dependencies: []string{"a", "ghost"}},
			},
			wantValid:  false,
			wantIssues: 3, // cycle + missing ref + unknown tool
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.ValidatePlan(&workflow.Plan{Steps: tt.steps})
			assert.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				assert.Len(t, result.Issues, tt.wantIssues)
			} else {
				assert.Empty(t, result.Issues)
			}
		})
	}
}

func TestValidatePlan_CycleIssueMentionsCircular(t *testing.T) {
	p := NewWorkflowPlanner(testTools)
	result := p.ValidatePlan(&workflow.Plan{Steps: []workflow.Step{
		{ID: "a", Tool: "shell", Dependencies: []string{"b"}},
		{ID: "b", Tool: "shell", Dependencies: []string{"a"}},
	}})
	require.False(t, result.IsValid)
	assert.Contains(t, result.Issues[0], "circular")
}

func TestEstimateDuration(t *testing.T) {
	steps := []workflow.Step{
		{Tool: "document", Params: map[string]any{"title": "x"}},          // 2.0 + 0.1
		{Tool: "filesystem", Params: map[string]any{"a": 1, "b": 2}},      // 0.5 + 0.2
		{Tool: "mystery"},                                                  // 1.0
	}
	assert.InDelta(t, 3.8, EstimateDuration(steps), 1e-9)
}
