// Package executor runs individual workflow steps against registered tools
// with per-attempt timeouts, bounded retry with backoff, and settle-all
// parallel dispatch for independent batches.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// DefaultStepTimeout bounds each execution attempt when the execution
// context does not set its own.
const DefaultStepTimeout = 30 * time.Second

// TaskExecutor executes one workflow step at a time: it resolves the tool,
// validates parameters, races execution against a timeout, and retries
// transient failures per the configured policy. Results are recorded into
// the shared execution history and the registry's per-tool metrics.
type TaskExecutor struct {
	registry       *tool.Registry
	policy         workflow.RetryPolicy
	defaultTimeout time.Duration
	logger         *slog.Logger
	tracer         trace.Tracer
}

// Option is a functional option for configuring a TaskExecutor.
type Option func(*TaskExecutor)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p workflow.RetryPolicy) Option {
	return func(e *TaskExecutor) {
		e.policy = p
	}
}

// WithDefaultTimeout overrides the default per-attempt timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *TaskExecutor) {
		e.defaultTimeout = d
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *TaskExecutor) {
		e.logger = l
	}
}

// WithTracer configures the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *TaskExecutor) {
		e.tracer = t
	}
}

// NewTaskExecutor creates a TaskExecutor over the given registry.
// Defaults: DefaultRetryPolicy, 30s per-attempt timeout, slog.Default().
func NewTaskExecutor(registry *tool.Registry, opts ...Option) *TaskExecutor {
	e := &TaskExecutor{
		registry:       registry,
		policy:         workflow.DefaultRetryPolicy(),
		defaultTimeout: DefaultStepTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one step to a TaskResult. Tool resolution and parameter
// validation failures are caller errors and are never retried; execution and
// timeout faults are retried up to MaxRetries additional attempts, with
// backoff between attempts, and the last error wins.
func (e *TaskExecutor) Execute(ctx context.Context, step workflow.Step, ec *workflow.ExecutionContext) workflow.TaskResult {
	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "step.execute",
			trace.WithAttributes(
				attribute.String("step.id", step.ID),
				attribute.String("step.tool", step.Tool),
			),
		)
		defer span.End()
	}

	capability, err := e.registry.Get(step.Tool)
	if err != nil {
		e.logger.Warn("tool not found", "step_id", step.ID, "tool", step.Tool)
		return e.fail(span, step, err, 0)
	}

	if !capability.Validate(step.Params) {
		err := types.NewError(types.TOOL_INVALID_PARAMS, fmt.Sprintf("Invalid params for tool: %s", step.Tool))
		e.logger.Warn("invalid tool params", "step_id", step.ID, "tool", step.Tool)
		return e.fail(span, step, err, 0)
	}

	timeout := ec.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= e.policy.MaxRetries; attempt++ {
		attemptStart := time.Now()
		output, attemptErr := e.attempt(ctx, capability, step, ec, timeout)
		e.registry.Record(step.Tool, time.Since(attemptStart), attemptErr == nil)

		if attemptErr == nil {
			duration := time.Since(start)
			ec.AppendHistory(workflow.HistoryEntry{
				StepID:    step.ID,
				Timestamp: time.Now(),
				Result:    output,
				Duration:  duration,
			})
			if span != nil {
				span.SetStatus(codes.Ok, "step completed")
				span.SetAttributes(attribute.Int("step.attempts", attempt+1))
			}
			e.logger.Info("step succeeded",
				"step_id", step.ID,
				"tool", step.Tool,
				"attempt", attempt+1,
				"duration", duration,
			)
			return workflow.SuccessResult(step, output, duration)
		}

		lastErr = attemptErr
		e.logger.Warn("step attempt failed",
			"step_id", step.ID,
			"tool", step.Tool,
			"attempt", attempt+1,
			"error", attemptErr,
		)

		if !types.IsRetryable(attemptErr) {
			break
		}
		if attempt < e.policy.MaxRetries {
			if err := e.backoff(ctx, attempt); err != nil {
				lastErr = err
				break
			}
		}
	}

	return e.fail(span, step, lastErr, time.Since(start))
}

// attempt races one tool execution against the per-attempt timeout. The tool
// goroutine is not forcibly stopped on timeout; the executor merely stops
// waiting, which is why the result channel is buffered.
func (e *TaskExecutor) attempt(ctx context.Context, capability tool.Tool, step workflow.Step, ec *workflow.ExecutionContext, timeout time.Duration) (map[string]any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		output map[string]any
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: types.NewError(types.TOOL_EXECUTION_FAILED, fmt.Sprintf("tool panicked: %v", r))}
			}
		}()
		output, err := capability.Execute(attemptCtx, step.Params, ec)
		done <- outcome{output: output, err: err}
	}()

	select {
	case out := <-done:
		return out.output, out.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// The run itself was cancelled, not just this attempt.
			return nil, ctx.Err()
		}
		return nil, types.NewRetryableError(types.TASK_TIMEOUT,
			fmt.Sprintf("Task timeout after %dms", timeout.Milliseconds()))
	}
}

// backoff waits the policy delay for the given attempt index, aborting early
// on context cancellation.
func (e *TaskExecutor) backoff(ctx context.Context, attemptIndex int) error {
	delay := e.policy.Delay(attemptIndex)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *TaskExecutor) fail(span trace.Span, step workflow.Step, err error, duration time.Duration) workflow.TaskResult {
	if span != nil {
		span.SetStatus(codes.Error, "step failed")
		span.RecordError(err)
	}
	return workflow.FailureResult(step, err, duration)
}

// ExecuteParallel dispatches Execute concurrently for each step with
// settle-all semantics: every input step yields exactly one TaskResult in
// input order, and one step's failure (or panic) never contaminates the
// others. The caller is responsible for ensuring the batch is
// dependency-independent; no dependency checking happens here.
func (e *TaskExecutor) ExecuteParallel(ctx context.Context, steps []workflow.Step, ec *workflow.ExecutionContext) []workflow.TaskResult {
	results := make([]workflow.TaskResult, len(steps))
	var wg sync.WaitGroup

	for i, step := range steps {
		wg.Add(1)
		go func(i int, step workflow.Step) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = workflow.FailureResult(step,
						types.NewError(types.TOOL_EXECUTION_FAILED, fmt.Sprintf("parallel execution failed: %v", r)), 0)
				}
			}()
			results[i] = e.Execute(ctx, step, ec)
		}(i, step)
	}

	wg.Wait()
	return results
}

// CheckDependencies reports whether every dependency of step is in the
// completed set. Vacuously true for steps with no dependencies.
func (e *TaskExecutor) CheckDependencies(step workflow.Step, completed map[string]bool) bool {
	for _, dep := range step.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// ExecutableSteps returns the ready frontier: steps not yet completed whose
// dependencies are all satisfied, in input order. The orchestrator uses this
// to discover the next batch for parallel dispatch.
func (e *TaskExecutor) ExecutableSteps(steps []workflow.Step, completed map[string]bool) []workflow.Step {
	var frontier []workflow.Step
	for _, step := range steps {
		if completed[step.ID] {
			continue
		}
		if e.CheckDependencies(step, completed) {
			frontier = append(frontier, step)
		}
	}
	return frontier
}
