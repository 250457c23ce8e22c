package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/agentwire/agentwire"
)

func TestTextMessageContentWireShape(t *testing.T) {
	data, err := NewTextMessageContentEvent("msg-1", "Hello").ToJSON()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "TEXT_MESSAGE_CONTENT", m["type"])
	assert.Equal(t, "msg-1", m["messageId"])
	assert.Equal(t, "Hello", m["delta"])
	assert.Contains(t, m, "timestamp")
}

func TestTextMessageStartDefaultsToAssistantRole(t *testing.T) {
	e := NewTextMessageStartEvent("msg-1")
	assert.Equal(t, "assistant", e.Role)

	e = NewTextMessageStartEvent("msg-1", WithRole("tool"))
	assert.Equal(t, "tool", e.Role)
}

func TestToolCallStartParentMessageID(t *testing.T) {
	data, err := NewToolCallStartEvent("call-1", "lookup").ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "parentMessageId")

	data, err = NewToolCallStartEvent("call-1", "lookup", WithParentMessageID("msg-1")).ToJSON()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "msg-1", m["parentMessageId"])
}

func TestRunErrorCode(t *testing.T) {
	data, err := NewRunErrorEvent("boom").ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"code"`)

	data, err = NewRunErrorEvent("boom", WithCode("provider_error")).ToJSON()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "boom", m["message"])
	assert.Equal(t, "provider_error", m["code"])
}

func TestStateDeltaWireShape(t *testing.T) {
	e := NewStateDeltaEvent([]JSONPatchOperation{
		{Op: PatchOpReplace, Path: "/title", Value: "New"},
		{Op: PatchOpRemove, Path: "/draft"},
	})
	data, err := e.ToJSON()
	require.NoError(t, err)

	var m struct {
		Type  string `json:"type"`
		Delta []struct {
			Op    string `json:"op"`
			Path  string `json:"path"`
			Value any    `json:"value"`
		} `json:"delta"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "STATE_DELTA", m.Type)
	require.Len(t, m.Delta, 2)
	assert.Equal(t, "replace", m.Delta[0].Op)
	assert.Equal(t, "/title", m.Delta[0].Path)
	assert.Equal(t, "New", m.Delta[0].Value)
	assert.Equal(t, "remove", m.Delta[1].Op)
	// remove carries no value
	assert.NotContains(t, string(data), `"value":null`)
}

func TestMessagesSnapshotCarriesTranscript(t *testing.T) {
	msgs := []wire.Message{
		wire.NewUserMessage("hi"),
		wire.NewAssistantMessage("hello"),
	}
	data, err := NewMessagesSnapshotEvent(msgs).ToJSON()
	require.NoError(t, err)

	var m struct {
		Messages []wire.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Len(t, m.Messages, 2)
	assert.Equal(t, wire.RoleUser, m.Messages[0].Role)
	assert.Equal(t, "hello", m.Messages[1].Content)
}

func TestDecodeEventRoundTrip(t *testing.T) {
	cases := []Event{
		NewRunStartedEvent("thread-1", "run-1"),
		NewRunFinishedEvent("thread-1", "run-1"),
		NewRunErrorEvent("failed", WithCode("internal")),
		NewStepStartedEvent("plan"),
		NewStepFinishedEvent("plan"),
		NewTextMessageStartEvent("msg-1"),
		NewTextMessageContentEvent("msg-1", "chunk"),
		NewTextMessageEndEvent("msg-1"),
		NewToolCallStartEvent("call-1", "lookup", WithParentMessageID("msg-1")),
		NewToolCallArgsEvent("call-1", `{"q":"x"}`),
		NewToolCallEndEvent("call-1"),
		NewStateSnapshotEvent(map[string]any{"count": 1}),
		NewStateDeltaEvent([]JSONPatchOperation{{Op: PatchOpAdd, Path: "/x", Value: 1}}),
		NewMessagesSnapshotEvent([]wire.Message{wire.NewUserMessage("hi")}),
		NewCustomEvent("progress", 0.5),
		NewRawEvent(map[string]any{"k": "v"}, WithSource("legacy")),
	}

	for _, ev := range cases {
		t.Run(string(ev.Type()), func(t *testing.T) {
			data, err := ev.ToJSON()
			require.NoError(t, err)

			decoded, err := DecodeEvent(data)
			require.NoError(t, err)
			assert.Equal(t, ev.Type(), decoded.Type())
			require.NotNil(t, decoded.Timestamp())
		})
	}
}

func TestDecodeEventRejectsUnknownType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"NOT_A_THING"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_A_THING")

	_, err = DecodeEvent([]byte(`{"no":"type"}`))
	require.Error(t, err)
}
