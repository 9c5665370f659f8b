package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	traceSpans bool
)

var rootCmd = &cobra.Command{
	Use:   "spark",
	Short: "Spark - goal-driven workflow runner",
	Long: `Spark turns a natural-language goal into a validated plan of tool
invocations and executes it in dependency order with retry, timeout,
and failure-policy semantics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "spark.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "Export trace spans to stderr")
}
