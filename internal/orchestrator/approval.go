package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// ApprovalService gates plan execution on an external approve/reject
// decision. Implementations must honor ctx cancellation while waiting.
type ApprovalService interface {
	RequestApproval(ctx context.Context, plan *workflow.Plan) (bool, error)
}

// AutoApprover approves every plan. Used for unattended runs.
type AutoApprover struct{}

func (AutoApprover) RequestApproval(context.Context, *workflow.Plan) (bool, error) {
	return true, nil
}

// ConsoleApprover prints the plan and blocks on a y/n answer. The read runs
// in its own goroutine so ctx cancellation is not held hostage by stdin.
type ConsoleApprover struct {
	In  io.Reader
	Out io.Writer
}

func (a *ConsoleApprover) RequestApproval(ctx context.Context, plan *workflow.Plan) (bool, error) {
	fmt.Fprintf(a.Out, "Plan for %q (%d steps, ~%.1f min):\n", plan.Goal, len(plan.Steps), plan.EstimatedDuration)
	for i, step := range plan.Steps {
		deps := ""
		if len(step.Dependencies) > 0 {
			deps = " (after " + strings.Join(step.Dependencies, ", ") + ")"
		}
		fmt.Fprintf(a.Out, "  %d. [%s] %s%s\n", i+1, step.Tool, step.Name, deps)
	}
	fmt.Fprint(a.Out, "Proceed? [y/N] ")

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(a.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, types.WrapError(types.APPROVAL_TIMEOUT, "approval wait cancelled", ctx.Err())
	case ans := <-ch:
		if ans.err != nil && ans.err != io.EOF {
			return false, types.WrapError(types.APPROVAL_DENIED, "reading approval answer failed", ans.err)
		}
		reply := strings.ToLower(strings.TrimSpace(ans.line))
		return reply == "y" || reply == "yes", nil
	}
}
