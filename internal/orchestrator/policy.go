package orchestrator

import (
	"strings"

	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// Decision is the outcome of the failure policy for one failed step.
type Decision string

const (
	// DecisionContinue proceeds to the next step without marking the failed
	// step complete; dependents will fail their dependency check.
	DecisionContinue Decision = "continue"
	// DecisionRetry re-executes the step once immediately. If the retry also
	// fails, the run proceeds as for DecisionContinue.
	DecisionRetry Decision = "retry"
	// DecisionSkip marks the failed step complete anyway, unblocking
	// dependents without a real result.
	DecisionSkip Decision = "skip"
	// DecisionAbort stops the run; remaining steps are not executed.
	DecisionAbort Decision = "abort"
)

// FailurePolicy maps a failed step to a Decision.
type FailurePolicy interface {
	Decide(step workflow.Step, result workflow.TaskResult) Decision
}

// CodePolicy decides on the typed error code carried by the result, falling
// back to error-text matching for untyped failures from external tools.
type CodePolicy struct {
	byCode map[types.ErrorCode]Decision
}

// DefaultPolicy skips steps whose command is simply absent on the host and
// aborts on permission failures, which will not resolve on their own.
func DefaultPolicy() *CodePolicy {
	return &CodePolicy{
		byCode: map[types.ErrorCode]Decision{
			types.SHELL_COMMAND_NOT_FOUND: DecisionSkip,
			types.FS_PERMISSION_DENIED:    DecisionAbort,
		},
	}
}

func (p *CodePolicy) Decide(step workflow.Step, result workflow.TaskResult) Decision {
	if d, ok := p.byCode[result.ErrorCode]; ok {
		return d
	}
	return p.fallback(step, result)
}

// fallback matches error text for failures that carry no typed code.
func (p *CodePolicy) fallback(step workflow.Step, result workflow.TaskResult) Decision {
	msg := strings.ToLower(result.Error)
	switch step.Tool {
	case "shell":
		if strings.Contains(msg, "command not found") {
			return DecisionSkip
		}
	case "filesystem":
		if strings.Contains(msg, "permission denied") {
			return DecisionAbort
		}
	}
	return DecisionContinue
}
