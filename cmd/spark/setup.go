package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/louipr/spark/internal/config"
	"github.com/louipr/spark/internal/executor"
	"github.com/louipr/spark/internal/llm/providers"
	"github.com/louipr/spark/internal/observability"
	"github.com/louipr/spark/internal/orchestrator"
	"github.com/louipr/spark/internal/planner"
	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/tool/builtins"
	"github.com/louipr/spark/internal/workflow"
)

// app holds the wired component graph for one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *tool.Registry
	planner  *planner.WorkflowPlanner
	executor *executor.TaskExecutor
	orch     *orchestrator.WorkflowOrchestrator
	shutdown func(context.Context) error
}

// newApp loads configuration and wires the registry, planner, executor, and
// orchestrator. Flags layer over config: --verbose forces debug logging.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	tp, shutdown, err := observability.InitTracing(ctx, os.Stderr, traceSpans)
	if err != nil {
		return nil, err
	}
	tracer := tp.Tracer("spark")

	registry := tool.NewRegistry()
	builtins.RegisterBuiltins(registry)

	completer, err := providers.NewCompleter(cfg.Provider)
	if err != nil {
		return nil, err
	}

	p := planner.NewWorkflowPlanner(registry.Names(),
		planner.WithCompleter(completer),
		planner.WithLogger(logger),
		planner.WithTracer(tracer),
	)
	e := executor.NewTaskExecutor(registry,
		executor.WithDefaultTimeout(cfg.Execution.StepTimeout),
		executor.WithRetryPolicy(workflow.RetryPolicy{
			MaxRetries:  cfg.Execution.MaxRetries,
			Backoff:     cfg.Execution.RetryBackoff,
			Exponential: cfg.Execution.Exponential,
		}),
		executor.WithLogger(logger),
		executor.WithTracer(tracer),
	)

	orchOpts := []orchestrator.Option{
		orchestrator.WithParallel(cfg.Execution.Parallel),
		orchestrator.WithWorkingDir(cfg.Execution.WorkingDir),
		orchestrator.WithEnvironment(envSnapshot()),
		orchestrator.WithLogger(logger),
		orchestrator.WithTracer(tracer),
	}
	if cfg.Execution.RequireApproval {
		orchOpts = append(orchOpts, orchestrator.WithApprover(&orchestrator.ConsoleApprover{
			In:  os.Stdin,
			Out: os.Stderr,
		}))
	}
	o := orchestrator.NewWorkflowOrchestrator(p, e, orchOpts...)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		planner:  p,
		executor: e,
		orch:     o,
		shutdown: shutdown,
	}, nil
}

func envSnapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return env
}
