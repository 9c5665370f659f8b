package builtins

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// ShellTool runs a command line through the system shell in the run's
// working directory with the context's environment snapshot.
type ShellTool struct {
	shell string
}

// NewShellTool creates the builtin shell tool using /bin/sh.
func NewShellTool() tool.Tool {
	return &ShellTool{shell: "/bin/sh"}
}

func (t *ShellTool) Name() string {
	return "shell"
}

func (t *ShellTool) Description() string {
	return "Execute a shell command in the run's working directory."
}

func (t *ShellTool) Tags() []string {
	return []string{"shell", "exec"}
}

// Validate requires a non-empty command string.
func (t *ShellTool) Validate(params map[string]any) bool {
	command, _ := params["command"].(string)
	return strings.TrimSpace(command) != ""
}

func (t *ShellTool) Execute(ctx context.Context, params map[string]any, ec *workflow.ExecutionContext) (map[string]any, error) {
	command := params["command"].(string)

	cmd := exec.CommandContext(ctx, t.shell, "-c", command)
	cmd.Dir = ec.WorkingDir()
	for k, v := range ec.Environment() {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	output := map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}

	if err == nil {
		return output, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, classifyShellError(command, stderr.String(), err)
}

// classifyShellError maps a failed command to a typed code. Exit status 127
// (or the shell's "command not found" diagnostic) is a configuration problem
// the failure policy skips over; other non-zero exits are retryable faults.
func classifyShellError(command, stderr string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == 127 || strings.Contains(stderr, "command not found") || strings.Contains(stderr, "not found") {
			return types.WrapError(types.SHELL_COMMAND_NOT_FOUND, fmt.Sprintf("command not found: %s", command), err)
		}
		return types.WrapRetryableError(types.TOOL_EXECUTION_FAILED,
			fmt.Sprintf("command exited with status %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr)), err)
	}
	return types.WrapRetryableError(types.TOOL_EXECUTION_FAILED, fmt.Sprintf("failed to run command: %s", command), err)
}
