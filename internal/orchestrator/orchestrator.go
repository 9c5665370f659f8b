// Package orchestrator drives one workflow run end to end: planning,
// validation, optional human approval, dependency-ordered execution with a
// per-failure decision policy, and artifact aggregation.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louipr/spark/internal/executor"
	"github.com/louipr/spark/internal/planner"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// Stage names one phase of the run state machine.
type Stage string

const (
	StagePlanning    Stage = "planning"
	StageValidating  Stage = "validating"
	StageApproval    Stage = "approval"
	StageExecuting   Stage = "executing"
	StageAggregating Stage = "aggregating"
	StageAborted     Stage = "aborted"
)

// WorkflowOrchestrator owns the Planning -> Validating -> Approval ->
// Executing -> Aggregating state machine for a single request.
type WorkflowOrchestrator struct {
	planner  *planner.WorkflowPlanner
	executor *executor.TaskExecutor
	approver ApprovalService
	policy   FailurePolicy

	requireApproval bool
	parallel        bool
	workingDir      string
	env             map[string]string

	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a WorkflowOrchestrator.
type Option func(*WorkflowOrchestrator)

// WithApprover sets the approval collaborator and enables the approval gate.
func WithApprover(a ApprovalService) Option {
	return func(o *WorkflowOrchestrator) {
		o.approver = a
		o.requireApproval = true
	}
}

// WithPolicy overrides the failure-decision policy.
func WithPolicy(p FailurePolicy) Option {
	return func(o *WorkflowOrchestrator) { o.policy = p }
}

// WithParallel enables batched execution of mutually-independent steps.
func WithParallel(enabled bool) Option {
	return func(o *WorkflowOrchestrator) { o.parallel = enabled }
}

// WithWorkingDir sets the working directory for the run's execution context.
func WithWorkingDir(dir string) Option {
	return func(o *WorkflowOrchestrator) { o.workingDir = dir }
}

// WithEnvironment sets the environment snapshot handed to tools.
func WithEnvironment(env map[string]string) Option {
	return func(o *WorkflowOrchestrator) { o.env = env }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *WorkflowOrchestrator) { o.logger = l }
}

// WithTracer sets the tracer; nil disables span creation.
func WithTracer(t trace.Tracer) Option {
	return func(o *WorkflowOrchestrator) { o.tracer = t }
}

// NewWorkflowOrchestrator wires the orchestrator. The approval gate is on by
// default but backed by AutoApprover, so unattended runs proceed; WithApprover
// swaps in a real collaborator.
func NewWorkflowOrchestrator(p *planner.WorkflowPlanner, e *executor.TaskExecutor, opts ...Option) *WorkflowOrchestrator {
	o := &WorkflowOrchestrator{
		planner:         p,
		executor:        e,
		approver:        AutoApprover{},
		policy:          DefaultPolicy(),
		requireApproval: true,
		workingDir:      ".",
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessRequest runs one goal through the full state machine and returns
// the aggregate outcome. The returned OutputResult is never nil; run-level
// failures are reported through Success/Message rather than an error.
func (o *WorkflowOrchestrator) ProcessRequest(ctx context.Context, input string) *OutputResult {
	start := time.Now()

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "workflow.process",
			trace.WithAttributes(attribute.String("workflow.goal", input)),
		)
		defer span.End()
	}

	o.logger.Info("processing request", "stage", StagePlanning, "goal", input)
	plan, err := o.planner.CreatePlan(ctx, input)
	if err != nil {
		return o.finish(span, start, &OutputResult{
			Success: false,
			Message: fmt.Sprintf("planning failed: %v", err),
		})
	}

	o.logger.Info("validating plan", "stage", StageValidating, "plan_id", plan.ID, "steps", len(plan.Steps))
	if validation := o.planner.ValidatePlan(plan); !validation.IsValid {
		return o.finish(span, start, &OutputResult{
			Success: false,
			Message: "plan validation failed: " + strings.Join(validation.Issues, "; "),
			Plan:    plan,
		})
	}

	if o.requireApproval {
		o.logger.Info("awaiting approval", "stage", StageApproval, "plan_id", plan.ID)
		approved, err := o.approver.RequestApproval(ctx, plan)
		if err != nil {
			return o.finish(span, start, &OutputResult{
				Success: false,
				Message: fmt.Sprintf("approval failed: %v", err),
				Plan:    plan,
			})
		}
		if !approved {
			return o.finish(span, start, &OutputResult{
				Success: false,
				Message: "User cancelled execution",
				Plan:    plan,
			})
		}
	}

	ec := workflow.NewExecutionContext(o.workingDir, o.env)
	o.logger.Info("executing plan", "stage", StageExecuting, "plan_id", plan.ID, "parallel", o.parallel)

	var results []workflow.TaskResult
	var aborted bool
	if o.parallel {
		results, aborted = o.executeBatched(ctx, plan, ec)
	} else {
		results, aborted = o.executeSerial(ctx, plan, ec)
	}

	o.logger.Info("aggregating results", "stage", StageAggregating, "plan_id", plan.ID, "results", len(results))
	out := &OutputResult{
		Plan:      plan,
		Results:   results,
		Artifacts: collectArtifacts(results),
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	switch {
	case aborted:
		out.Message = fmt.Sprintf("execution aborted: %d of %d steps failed", failed, len(plan.Steps))
	case failed > 0:
		out.Message = fmt.Sprintf("%d of %d steps failed", failed, len(plan.Steps))
	default:
		out.Success = true
		out.Message = fmt.Sprintf("completed %d steps", len(results))
	}
	return o.finish(span, start, out)
}

// executeSerial attempts steps strictly in topological order, gating each on
// the completed set. Returns the per-step results and whether the run was
// aborted before attempting every step.
func (o *WorkflowOrchestrator) executeSerial(ctx context.Context, plan *workflow.Plan, ec *workflow.ExecutionContext) ([]workflow.TaskResult, bool) {
	ordered := o.planner.ExecutionOrder(plan.Steps)
	completed := make(map[string]bool, len(ordered))
	results := make([]workflow.TaskResult, 0, len(ordered))

	for _, step := range ordered {
		if !o.executor.CheckDependencies(step, completed) {
			results = append(results, o.unsatisfiedResult(step))
			continue
		}

		result := o.executor.Execute(ctx, step, ec)
		results = append(results, result)

		if result.Success {
			o.markCompleted(step, result, completed, ec)
			continue
		}
		if o.handleFailure(ctx, step, result, completed, &results, ec) == DecisionAbort {
			return results, true
		}
	}
	return results, false
}

// executeBatched repeatedly dispatches the ready frontier in parallel.
// Batches are dependency-independent by construction of ExecutableSteps.
func (o *WorkflowOrchestrator) executeBatched(ctx context.Context, plan *workflow.Plan, ec *workflow.ExecutionContext) ([]workflow.TaskResult, bool) {
	ordered := o.planner.ExecutionOrder(plan.Steps)
	completed := make(map[string]bool, len(ordered))
	attempted := make(map[string]bool, len(ordered))
	results := make([]workflow.TaskResult, 0, len(ordered))

	for len(attempted) < len(ordered) {
		var pending []workflow.Step
		for _, step := range ordered {
			if !attempted[step.ID] {
				pending = append(pending, step)
			}
		}

		batch := o.executor.ExecutableSteps(pending, completed)
		if len(batch) == 0 {
			// Everything left is blocked on a failed dependency.
			for _, step := range pending {
				results = append(results, o.unsatisfiedResult(step))
				attempted[step.ID] = true
			}
			break
		}

		batchResults := o.executor.ExecuteParallel(ctx, batch, ec)
		for i, result := range batchResults {
			step := batch[i]
			attempted[step.ID] = true
			results = append(results, result)

			if result.Success {
				o.markCompleted(step, result, completed, ec)
				continue
			}
			if o.handleFailure(ctx, step, result, completed, &results, ec) == DecisionAbort {
				return results, true
			}
		}
	}
	return results, false
}

// handleFailure applies the failure policy to one failed step. For
// DecisionRetry the step is re-executed once immediately; a failed retry is
// then treated as DecisionContinue.
func (o *WorkflowOrchestrator) handleFailure(ctx context.Context, step workflow.Step, result workflow.TaskResult, completed map[string]bool, results *[]workflow.TaskResult, ec *workflow.ExecutionContext) Decision {
	decision := o.policy.Decide(step, result)
	o.logger.Warn("step failed",
		"step_id", step.ID,
		"tool", step.Tool,
		"error", result.Error,
		"decision", decision,
	)
	switch decision {
	case DecisionAbort:
		o.logger.Error("aborting run", "stage", StageAborted, "step_id", step.ID)
	case DecisionSkip:
		completed[step.ID] = true
	case DecisionRetry:
		retried := o.executor.Execute(ctx, step, ec)
		*results = append(*results, retried)
		if retried.Success {
			o.markCompleted(step, retried, completed, ec)
		}
	}
	return decision
}

func (o *WorkflowOrchestrator) markCompleted(step workflow.Step, result workflow.TaskResult, completed map[string]bool, ec *workflow.ExecutionContext) {
	completed[step.ID] = true
	ec.SetState(step.ID, result.Result)
}

// unsatisfiedResult synthesizes the failure recorded for a step whose
// dependencies never completed; the executor is not called.
func (o *WorkflowOrchestrator) unsatisfiedResult(step workflow.Step) workflow.TaskResult {
	err := types.NewError(types.DEPENDENCY_UNSATISFIED,
		fmt.Sprintf("dependencies not satisfied for step: %s", step.ID))
	o.logger.Warn("skipping step with unsatisfied dependencies", "step_id", step.ID)
	return workflow.FailureResult(step, err, 0)
}

func (o *WorkflowOrchestrator) finish(span trace.Span, start time.Time, out *OutputResult) *OutputResult {
	out.Duration = time.Since(start)
	out.Timestamp = time.Now()
	if span != nil {
		span.SetAttributes(
			attribute.Bool("workflow.success", out.Success),
			attribute.Int("workflow.artifacts", len(out.Artifacts)),
		)
		if out.Success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, out.Message)
		}
	}
	o.logger.Info("request finished",
		"success", out.Success,
		"message", out.Message,
		"duration", out.Duration,
	)
	return out
}
