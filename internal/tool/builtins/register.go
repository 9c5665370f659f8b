// Package builtins provides the built-in tools registered with every
// orchestrator: command suggestion, document generation, shell execution,
// and filesystem operations.
package builtins

import "github.com/louipr/spark/internal/tool"

// RegisterBuiltins registers all builtin tools with the given registry.
// Called once at orchestrator construction.
func RegisterBuiltins(registry *tool.Registry) {
	registry.Register(NewCommandTool())
	registry.Register(NewDocumentTool())
	registry.Register(NewShellTool())
	registry.Register(NewFilesystemTool())
}

// BuiltinNames returns the names of all builtin tools in sorted order. The
// planner uses this as its tool allow-list.
func BuiltinNames() []string {
	return []string{"command", "document", "filesystem", "shell"}
}
