// Package planner turns a natural-language goal into a validated, ordered
// workflow plan. Decomposition is delegated to the external completion
// collaborator; everything it returns is parsed defensively and the planner
// always falls back to a fixed minimal plan rather than propagating
// decomposition failures.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// WorkflowPlanner creates and validates workflow plans.
type WorkflowPlanner struct {
	completer  llm.Completer
	rules      []InferenceRule
	knownTools []string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option is a functional option for configuring a WorkflowPlanner.
type Option func(*WorkflowPlanner)

// WithCompleter sets the decomposition collaborator. A nil completer is
// allowed; every plan then comes from the fallback.
func WithCompleter(c llm.Completer) Option {
	return func(p *WorkflowPlanner) {
		p.completer = c
	}
}

// WithInferenceRules replaces the implicit-dependency rule set.
func WithInferenceRules(rules []InferenceRule) Option {
	return func(p *WorkflowPlanner) {
		p.rules = rules
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *WorkflowPlanner) {
		p.logger = l
	}
}

// WithTracer configures the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(p *WorkflowPlanner) {
		p.tracer = t
	}
}

// NewWorkflowPlanner creates a planner that plans over the given tool
// allow-list.
func NewWorkflowPlanner(knownTools []string, opts ...Option) *WorkflowPlanner {
	p := &WorkflowPlanner{
		rules:      DefaultInferenceRules(),
		knownTools: append([]string(nil), knownTools...),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreatePlan decomposes goal into a plan. Collaborator failures and
// unparsable responses are recovered locally with the fallback plan; the
// only error returned is the caller's own context cancellation.
func (p *WorkflowPlanner) CreatePlan(ctx context.Context, goal string) (*workflow.Plan, error) {
	var span trace.Span
	if p.tracer != nil {
		ctx, span = p.tracer.Start(ctx, "plan.generate",
			trace.WithAttributes(attribute.String("plan.goal", goal)),
		)
		defer span.End()
	}

	steps, err := p.decompose(ctx, goal)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("plan decomposition failed, using fallback plan", "error", err)
		steps = fallbackSteps(goal)
	}

	p.inferDependencies(steps)

	plan := &workflow.Plan{
		ID:                types.NewID(),
		Goal:              goal,
		Steps:             steps,
		EstimatedDuration: EstimateDuration(steps),
		CreatedAt:         time.Now(),
	}

	p.logger.Info("plan created",
		"plan_id", plan.ID,
		"steps", len(plan.Steps),
		"estimated_minutes", plan.EstimatedDuration,
	)
	return plan, nil
}

// decompose queries the collaborator and parses its raw response.
func (p *WorkflowPlanner) decompose(ctx context.Context, goal string) ([]workflow.Step, error) {
	if p.completer == nil {
		return nil, types.NewError(types.PLAN_GENERATION_FAILED, "no decomposition collaborator configured")
	}

	messages := []llm.Message{
		llm.NewSystemMessage(buildSystemPrompt(p.knownTools)),
		llm.NewUserMessage(buildUserPrompt(goal)),
	}

	response, err := p.completer.Complete(ctx, messages)
	if err != nil {
		return nil, types.WrapError(types.PLAN_GENERATION_FAILED, "decomposition request failed", err)
	}

	steps, err := parseSteps(response)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, types.NewError(types.LLM_RESPONSE_UNPARSABLE, "decomposition produced no steps")
	}
	return steps, nil
}

// inferDependencies applies the rule set in order, adding implied
// dependencies not already declared.
func (p *WorkflowPlanner) inferDependencies(steps []workflow.Step) {
	for i := range steps {
		for _, rule := range p.rules {
			depID, ok := rule.Infer(i, steps)
			if !ok || depID == steps[i].ID || steps[i].DependsOn(depID) {
				continue
			}
			p.logger.Debug("inferred implicit dependency",
				"rule", rule.Name,
				"step_id", steps[i].ID,
				"depends_on", depID,
			)
			steps[i].Dependencies = append(steps[i].Dependencies, depID)
		}
	}
}

// ValidatePlan checks the plan's graph integrity, accumulating issues rather
// than stopping at the first: dependency cycles, dangling step references,
// and tools outside the planner's allow-list.
func (p *WorkflowPlanner) ValidatePlan(plan *workflow.Plan) workflow.ValidationResult {
	var issues []string

	if cycle := workflow.DetectCycle(plan.Steps); len(cycle) > 0 {
		issues = append(issues, fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")))
	}

	for _, missing := range workflow.MissingDependencies(plan.Steps) {
		issues = append(issues, fmt.Sprintf("step %q depends on missing step %q", missing.StepID, missing.DepID))
	}

	known := make(map[string]bool, len(p.knownTools))
	for _, name := range p.knownTools {
		known[name] = true
	}
	for _, step := range plan.Steps {
		if !known[step.Tool] {
			issues = append(issues, fmt.Sprintf("step %q uses unknown tool %q", step.ID, step.Tool))
		}
	}

	return workflow.ValidationResult{IsValid: len(issues) == 0, Issues: issues}
}

// ExecutionOrder returns the deterministic topological order for steps; see
// workflow.ExecutionOrder for the ordering guarantees.
func (p *WorkflowPlanner) ExecutionOrder(steps []workflow.Step) []workflow.Step {
	return workflow.ExecutionOrder(steps)
}

// toolBaseMinutes is the advisory per-tool cost used by EstimateDuration.
var toolBaseMinutes = map[string]float64{
	"command":    0.5,
	"document":   2.0,
	"shell":      1.0,
	"filesystem": 0.5,
}

// EstimateDuration returns the advisory duration estimate in minutes: a
// per-tool base cost plus a small penalty proportional to each step's
// parameter count. Unknown tools cost one minute.
func EstimateDuration(steps []workflow.Step) float64 {
	var total float64
	for _, step := range steps {
		base, ok := toolBaseMinutes[step.Tool]
		if !ok {
			base = 1.0
		}
		total += base + 0.1*float64(len(step.Params))
	}
	return total
}

// fallbackSteps is the fixed minimal plan used when decomposition fails:
// generate an artifact describing the goal, then create the structure to
// hold it.
func fallbackSteps(goal string) []workflow.Step {
	return []workflow.Step{
		{
			ID:   "step_1",
			Name: "Generate artifact",
			Tool: "document",
			Params: map[string]any{
				"title":   goal,
				"type":    "notes",
				"content": goal,
			},
		},
		{
			ID:   "step_2",
			Name: "Create structure",
			Tool: "filesystem",
			Params: map[string]any{
				"action": "create_directory",
				"path":   "output",
			},
			Dependencies: []string{"step_1"},
		},
	}
}
