package builtins

import (
	"context"
	"strings"

	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/workflow"
)

// commandHints maps task keywords to suggested command lines, checked in
// order so more specific phrases win over generic ones.
var commandHints = []struct {
	keywords   []string
	suggestion string
}{
	{[]string{"git", "init"}, "git init"},
	{[]string{"git", "commit"}, "git add -A && git commit"},
	{[]string{"install", "dependencies"}, "npm install"},
	{[]string{"run", "tests"}, "npm test"},
	{[]string{"build"}, "npm run build"},
	{[]string{"list", "files"}, "ls -la"},
	{[]string{"disk", "usage"}, "du -sh ."},
}

// CommandTool suggests a shell command for a natural-language task. It never
// executes anything; pairing the suggestion with a shell step is the
// planner's job.
type CommandTool struct{}

// NewCommandTool creates the builtin command-suggestion tool.
func NewCommandTool() tool.Tool {
	return &CommandTool{}
}

func (t *CommandTool) Name() string {
	return "command"
}

func (t *CommandTool) Description() string {
	return "Suggest a shell command for a described task without executing it."
}

func (t *CommandTool) Tags() []string {
	return []string{"command", "suggest"}
}

// Validate requires a non-empty task description.
func (t *CommandTool) Validate(params map[string]any) bool {
	task, _ := params["task"].(string)
	return strings.TrimSpace(task) != ""
}

func (t *CommandTool) Execute(ctx context.Context, params map[string]any, _ *workflow.ExecutionContext) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	task := strings.ToLower(params["task"].(string))

	for _, hint := range commandHints {
		if matchesAll(task, hint.keywords) {
			return map[string]any{"suggestion": hint.suggestion, "matched": true}, nil
		}
	}

	// No hint matched; echo the task back so the caller sees what was asked.
	return map[string]any{"suggestion": "", "matched": false, "task": task}, nil
}

func matchesAll(task string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(task, kw) {
			return false
		}
	}
	return true
}
