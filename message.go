package agentwire

import "github.com/google/uuid"

// Role identifies the sender of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single entry in a conversation transcript. The Role field is
// the variant tag: assistant messages may carry ToolCalls, tool messages
// carry the ToolCallID they answer. Messages are immutable once constructed;
// a transcript is append-only within a run.
type Message struct {
	// ID uniquely identifies the message. It is stable for the lifetime of
	// a run and across snapshot re-emission.
	ID   string `json:"id"`
	Role Role   `json:"role"`
	// Content is the text content, if any.
	Content string `json:"content,omitempty"`
	// Name is an optional author name.
	Name string `json:"name,omitempty"`
	// ToolCalls contains tool invocation requests from an assistant message.
	// Only populated when Role is RoleAssistant.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolCallID matches the ToolCall this message answers.
	// Only populated when Role is RoleTool.
	ToolCallID string `json:"toolCallId,omitempty"`
}

// NewSystemMessage creates a system message with a generated ID.
func NewSystemMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with a generated ID.
func NewAssistantMessage(content string, toolCalls ...ToolCall) Message {
	return Message{ID: GenerateMessageID(), Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// NewToolMessage creates a tool result message with a generated ID.
func NewToolMessage(toolCallID, content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// GenerateThreadID creates a unique thread identifier.
func GenerateThreadID() string {
	return "thread-" + uuid.New().String()
}

// GenerateRunID creates a unique run identifier.
func GenerateRunID() string {
	return "run-" + uuid.New().String()
}

// GenerateToolCallID creates a unique tool call identifier.
func GenerateToolCallID() string {
	return "call-" + uuid.New().String()
}

// Usage contains accumulated token usage for a run.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add accumulates another usage sample into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
