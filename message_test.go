package agentwire

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedIDPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateMessageID(), "msg-"))
	assert.True(t, strings.HasPrefix(GenerateThreadID(), "thread-"))
	assert.True(t, strings.HasPrefix(GenerateRunID(), "run-"))
	assert.True(t, strings.HasPrefix(GenerateToolCallID(), "call-"))

	assert.NotEqual(t, GenerateMessageID(), GenerateMessageID())
}

func TestMessageConstructors(t *testing.T) {
	m := NewUserMessage("hi")
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "hi", m.Content)
	assert.NotEmpty(t, m.ID)

	call := NewToolCall("call-1", "lookup", `{"q":"x"}`)
	m = NewAssistantMessage("checking", call)
	assert.Equal(t, RoleAssistant, m.Role)
	require.Len(t, m.ToolCalls, 1)
	assert.Equal(t, "function", m.ToolCalls[0].Type)

	m = NewToolMessage("call-1", "42")
	assert.Equal(t, RoleTool, m.Role)
	assert.Equal(t, "call-1", m.ToolCallID)
}

func TestMessageWireShape(t *testing.T) {
	m := Message{
		ID:         "m1",
		Role:       RoleTool,
		Content:    "42",
		ToolCallID: "call-1",
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "call-1", fields["toolCallId"])
	assert.NotContains(t, fields, "toolCalls", "empty tool calls are omitted")
	assert.NotContains(t, fields, "name")
}

func TestToolCallWireShape(t *testing.T) {
	call := NewToolCall("call-1", "lookup", `{"q":"x"}`)
	data, err := json.Marshal(call)
	require.NoError(t, err)

	var decoded ToolCall
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, call, decoded)
	assert.Contains(t, string(data), `"function":{`)
}

func TestUsageAdd(t *testing.T) {
	u := Usage{InputTokens: 10, OutputTokens: 5}
	u.Add(Usage{InputTokens: 3, OutputTokens: 2})
	assert.Equal(t, Usage{InputTokens: 13, OutputTokens: 7}, u)
}

func TestRunAgentInputFrontendToolNames(t *testing.T) {
	in := RunAgentInput{Tools: []Tool{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, []string{"a", "b"}, in.FrontendToolNames())

	assert.Nil(t, RunAgentInput{}.FrontendToolNames())
}
