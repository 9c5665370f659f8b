package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Generate and print a plan without executing it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "text", "Output format: text, json, or yaml")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	goal := strings.Join(args, " ")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.shutdown(ctx)

	plan, err := a.planner.CreatePlan(ctx, goal)
	if err != nil {
		return err
	}

	if validation := a.planner.ValidatePlan(plan); !validation.IsValid {
		for _, issue := range validation.Issues {
			fmt.Fprintf(os.Stderr, "issue: %s\n", issue)
		}
		return types.NewError(types.PLAN_INVALID, "generated plan failed validation")
	}

	switch planOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(plan)
	case "text":
		printPlan(cmd, plan)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", planOutput)
	}
}

func printPlan(cmd *cobra.Command, plan *workflow.Plan) {
	cmd.Printf("Plan %s: %s\n", plan.ID, plan.Goal)
	cmd.Printf("Estimated duration: %.1f min\n\n", plan.EstimatedDuration)
	for i, step := range plan.Steps {
		cmd.Printf("%d. %s: %s [%s]\n", i+1, step.ID, step.Name, step.Tool)
		if len(step.Dependencies) > 0 {
			cmd.Printf("   depends on: %s\n", strings.Join(step.Dependencies, ", "))
		}
		for k, v := range step.Params {
			cmd.Printf("   %s: %v\n", k, v)
		}
	}
}
