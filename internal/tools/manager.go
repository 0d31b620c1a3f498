package tools

import (
	"context"
	"errors"
	"fmt"
)

// Dispatch failures the orchestrator converts into textual tool results
// instead of aborting the conversation.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Manager holds the registry of available tools.
type Manager struct {
	tools map[string]ToolExecutor
}

func NewManager() *Manager {
	return &Manager{tools: make(map[string]ToolExecutor)}
}

// Register adds a tool under its definition name.
func (m *Manager) Register(tool ToolExecutor) {
	m.tools[tool.Definition().Function.Name] = tool
}

// Definitions returns the schemas of every registered tool, for the LLM call.
func (m *Manager) Definitions() []Tool {
	defs := make([]Tool, 0, len(m.tools))
	for _, tool := range m.tools {
		defs = append(defs, tool.Definition())
	}
	return defs
}

// Execute runs a tool by name with the given serialized arguments.
func (m *Manager) Execute(ctx context.Context, name, arguments string) (string, error) {
	tool, ok := m.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return tool.Execute(ctx, arguments)
}

// Count returns the number of registered tools.
func (m *Manager) Count() int {
	return len(m.tools)
}
