package planner

import (
	"fmt"
	"strings"
)

// buildSystemPrompt instructs the collaborator on the expected output format
// and the tools it may plan with.
func buildSystemPrompt(knownTools []string) string {
	var sb strings.Builder

	sb.WriteString("You are a workflow planning assistant. ")
	sb.WriteString("Decompose the user's goal into an ordered list of tool invocations.\n\n")

	sb.WriteString("# Available Tools\n\n")
	for _, name := range knownTools {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	sb.WriteString("\n")

	sb.WriteString("# Output Format\n\n")
	sb.WriteString("Respond with a JSON array of steps following this exact schema:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString("[\n")
	sb.WriteString("  {\n")
	sb.WriteString("    \"id\": \"step_1\",\n")
	sb.WriteString("    \"name\": \"human readable label\",\n")
	sb.WriteString("    \"tool\": \"one of the available tools\",\n")
	sb.WriteString("    \"params\": {},\n")
	sb.WriteString("    \"dependencies\": []\n")
	sb.WriteString("  }\n")
	sb.WriteString("]\n")
	sb.WriteString("```\n\n")

	sb.WriteString("## Guidelines\n\n")
	sb.WriteString("- Break the goal into small, atomic steps\n")
	sb.WriteString("- Use only the available tools\n")
	sb.WriteString("- The dependencies field lists ids of steps that must complete first\n")
	sb.WriteString("- Steps without dependency edges between them may run in parallel\n")

	return sb.String()
}

// buildUserPrompt wraps the goal for the collaborator.
func buildUserPrompt(goal string) string {
	var sb strings.Builder
	sb.WriteString("# Goal\n\n")
	sb.WriteString(goal)
	sb.WriteString("\n\nRespond ONLY with the JSON array - no additional explanation.")
	return sb.String()
}
