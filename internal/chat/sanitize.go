// Package chat implements the tool-calling conversation engine: message
// sanitization, the orchestration loop, and the fallback policy.
package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sumanth-CBRE/Weatherbot/internal/llm"
	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
)

// Sanitize normalizes a conversation history to the structural invariants of
// the tool-calling wire protocol. It is pure, never fails, and idempotent:
// Sanitize(Sanitize(x)) equals Sanitize(x).
//
// Rules, in order:
//  1. assistant turns carrying tool calls lose their content (the client
//     marshals such turns with content: null);
//  2. tool call arguments are re-serialized as a canonical JSON object
//     string; calls whose arguments cannot be represented as key/value data
//     are dropped;
//  3. assistant turns with neither tool calls nor non-blank content are
//     dropped, as are turns with unknown roles;
//  4. tool turns must reference a tool call id introduced earlier in the
//     history, otherwise they are dropped.
func Sanitize(messages []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	seenCallIDs := make(map[string]bool)

	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleUser, llm.RoleSystem:
			out = append(out, llm.Message{Role: msg.Role, Content: msg.Content})

		case llm.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				calls := sanitizeToolCalls(msg.ToolCalls)
				if len(calls) == 0 {
					continue
				}
				for _, call := range calls {
					seenCallIDs[call.ID] = true
				}
				out = append(out, llm.Message{Role: llm.RoleAssistant, ToolCalls: calls})
				continue
			}
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: msg.Content})

		case llm.RoleTool:
			if msg.ToolCallID == "" || !seenCallIDs[msg.ToolCallID] {
				continue
			}
			out = append(out, llm.Message{
				Role:       llm.RoleTool,
				Content:    msg.Content,
				ToolCallID: msg.ToolCallID,
			})
		}
	}
	return out
}

func sanitizeToolCalls(calls []tools.ToolCall) []tools.ToolCall {
	kept := make([]tools.ToolCall, 0, len(calls))
	for _, call := range calls {
		args, ok := canonicalArguments(call.Function.Arguments)
		if !ok {
			continue
		}
		kept = append(kept, tools.ToolCall{
			ID:   call.ID,
			Type: tools.ToolTypeFunction,
			Function: tools.ToolCallFunction{
				Name:      call.Function.Name,
				Arguments: args,
			},
		})
	}
	return kept
}

// canonicalArguments normalizes an arguments payload to a deterministic JSON
// object string. Empty input becomes "{}"; anything that does not parse as a
// JSON object is rejected.
func canonicalArguments(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "{}", true
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return "", false
	}
	if obj == nil {
		// A literal null means the model sent no arguments.
		return "{}", true
	}
	normalized, err := json.Marshal(obj)
	if err != nil {
		return "", false
	}
	return string(normalized), true
}

// Stringify coerces any tool output into plain text. Strings pass through;
// lists and records get a stable JSON rendering. It never fails.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	rendered, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(rendered)
}
