// Package llm provides the chat client for OpenAI-compatible tool-calling
// endpoints and the internal conversation message types.
package llm

import (
	"context"

	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
)

// Role identifies the originator of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single turn in the conversation history. An assistant turn
// carrying tool calls marshals with null content on the wire; a tool turn
// must reference the tool call it answers via ToolCallID.
type Message struct {
	Role       Role             `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []tools.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

// Result is the complete output of one chat completion call: either textual
// content, one or more tool call requests, or both.
type Result struct {
	Content   string
	ToolCalls []tools.ToolCall
}

// ChatClient is the collaborator contract for the model endpoint. The full
// sanitized history and tool schemas are sent on every call; the endpoint
// holds no session state.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, availableTools []tools.Tool) (*Result, error)
}
