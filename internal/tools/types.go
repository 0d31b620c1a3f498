// Package tools defines the fixed set of weather tools the model can invoke
// and the provider-agnostic structures used to describe them on the wire.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool is the schema for a function as it is described to the LLM.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function carries the name, description, and parameter schema of a callable
// tool. The description is what the model uses to decide when to call it.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is a typed subset of JSON Schema sufficient for tool parameters.
// The top-level node is always an "object".
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a request from the LLM to execute a named tool. The ID links the
// eventual tool result back to this request in the conversation history.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the target function name and its arguments.
// Arguments is always a serialized JSON object string, never a raw value;
// the consuming protocol is schema-strict about this key.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewFunctionTool builds a Tool with the correct "function" type set.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
