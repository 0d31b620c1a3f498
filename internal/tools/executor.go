package tools

import "context"

// ToolExecutor is the contract every registered tool satisfies. Execute
// receives the arguments as the JSON string generated by the LLM and returns
// plain text suitable for a tool turn in the conversation.
type ToolExecutor interface {
	Definition() Tool
	Execute(ctx context.Context, arguments string) (string, error)
}
