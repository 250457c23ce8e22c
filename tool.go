package agentwire

import "encoding/json"

// Tool defines a function the model may call. A tool name must be unique
// within a run's combined frontend/backend namespace.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`
	// Description explains what the tool does (helps the model decide when to use it).
	Description string `json:"description"`
	// Parameters is a JSON Schema object defining the function arguments.
	Parameters json.RawMessage `json:"parameters"`
}

// FunctionCall is the name/arguments pair inside a ToolCall.
type FunctionCall struct {
	Name string `json:"name"`
	// Arguments is a JSON-encoded string of the call arguments.
	Arguments string `json:"arguments"`
}

// ToolCall is a request from the model to invoke a tool. Its ID correlates
// the call with its eventual result and is unique within a run.
type ToolCall struct {
	ID string `json:"id"`
	// Type is always "function".
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// NewToolCall creates a function tool call.
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{
		ID:   id,
		Type: "function",
		Function: FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// ToolResult is the outcome of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content.
	Content string `json:"content"`
	// IsError indicates the result represents an execution failure.
	IsError bool `json:"isError,omitempty"`
}
