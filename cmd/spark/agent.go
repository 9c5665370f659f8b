package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent <goal>",
	Short: "Plan and execute a goal end to end",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	goal := strings.Join(args, " ")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.shutdown(ctx)

	out := a.orch.ProcessRequest(ctx, goal)

	if out.Plan != nil {
		cmd.Printf("Plan: %s (%d steps)\n", out.Plan.Goal, len(out.Plan.Steps))
	}
	for _, r := range out.Results {
		status := "ok"
		if !r.Success {
			status = "failed: " + r.Error
		}
		cmd.Printf("  %s [%s] %s (%s)\n", r.StepID, r.Tool, status, r.Duration.Round(time.Millisecond))
	}
	if len(out.Artifacts) > 0 {
		cmd.Println("Artifacts:")
		for _, artifact := range out.Artifacts {
			cmd.Printf("  %s\n", artifact)
		}
	}
	cmd.Printf("%s (%s)\n", out.Message, out.Duration.Round(time.Millisecond))

	if !out.Success {
		return fmt.Errorf("run failed: %s", out.Message)
	}
	return nil
}
