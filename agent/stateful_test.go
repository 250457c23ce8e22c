package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
)

type counterState struct {
	Count int    `json:"count"`
	Label string `json:"label,omitempty"`
}

// execProvider issues scripted tool calls and resolves them through the
// run's executor, the way a real backend invokes tools mid-generation.
type execProvider struct {
	calls   []wire.ToolCall
	results []wire.ToolResult
}

func (p *execProvider) Stream(ctx context.Context, req wire.StreamRequest) (<-chan wire.StreamChunk, error) {
	out := make(chan wire.StreamChunk, 2*len(p.calls)+1)
	go func() {
		defer close(out)
		for _, call := range p.calls {
			out <- toolCallChunk(wire.GenerateMessageID(), call)
			if req.Executor == nil || !req.Executor.Has(call.Function.Name) {
				continue
			}
			res, err := req.Executor.Execute(ctx, call)
			if err != nil {
				out <- wire.StreamChunk{Err: err}
				return
			}
			p.results = append(p.results, res)
			out <- toolResultChunk(wire.GenerateMessageID(), res)
		}
	}()
	return out, nil
}

func (p *execProvider) Extract(ctx context.Context, req wire.ExtractionRequest) (json.RawMessage, error) {
	return nil, errors.New("unsupported")
}

func collectStateful[T any](t *testing.T, s *StatefulAgent[T], input wire.RunAgentInput) []events.Event {
	t.Helper()
	var got []events.Event
	for ev := range s.Stream(context.Background(), input) {
		got = append(got, ev)
	}
	return got
}

func findEvent[E events.Event](evs []events.Event) (E, bool) {
	for _, ev := range evs {
		if e, ok := ev.(E); ok {
			return e, true
		}
	}
	var zero E
	return zero, false
}

func TestStatefulRequiresSystemMessage(t *testing.T) {
	_, err := NewStateful(&execProvider{}, nil, counterState{})
	require.ErrorIs(t, err, ErrSystemMessageRequired)
}

func TestStatefulEmitsSnapshotAtRunStart(t *testing.T) {
	s, err := NewStateful(&execProvider{}, nil, counterState{Count: 1},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	got := collectStateful(t, s, runInput(wire.NewUserMessage("hi")))

	require.Equal(t, []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeStateSnapshot,
		events.EventTypeRunFinished,
	}, eventTypes(got))

	snapshot := got[1].(*events.StateSnapshotEvent)
	raw, ok := snapshot.Snapshot.(json.RawMessage)
	require.True(t, ok)

	var state counterState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, 1, state.Count)
}

func TestStatefulUpdateEmitsDelta(t *testing.T) {
	provider := &execProvider{calls: []wire.ToolCall{
		wire.NewToolCall("call-1", "update_state", `{"state":{"count":2}}`),
	}}

	s, err := NewStateful(provider, nil, counterState{Count: 1},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	got := collectStateful(t, s, runInput(wire.NewUserMessage("bump the counter")))

	delta, ok := findEvent[*events.StateDeltaEvent](got)
	require.True(t, ok, "a state change must produce a STATE_DELTA")
	require.Len(t, delta.Delta, 1)
	assert.Equal(t, events.PatchOpReplace, delta.Delta[0].Op)
	assert.Equal(t, "/count", delta.Delta[0].Path)

	assert.Equal(t, 2, s.State().Count)

	_, ok = findEvent[*events.MessagesSnapshotEvent](got)
	assert.True(t, ok, "the tool result re-synchronizes the transcript")
	assert.Equal(t, events.EventTypeRunFinished, got[len(got)-1].Type())
}

func TestStatefulNoopUpdateIsSilent(t *testing.T) {
	provider := &execProvider{calls: []wire.ToolCall{
		wire.NewToolCall("call-1", "update_state", `{"state":{"count":1}}`),
	}}

	s, err := NewStateful(provider, nil, counterState{Count: 1},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	got := collectStateful(t, s, runInput(wire.NewUserMessage("no change")))

	_, ok := findEvent[*events.StateDeltaEvent](got)
	assert.False(t, ok, "an update that changes nothing emits no delta")

	require.Len(t, provider.results, 1)
	assert.Equal(t, "State is unchanged.", provider.results[0].Content)
}

func TestStatefulRetrieveReturnsCurrentState(t *testing.T) {
	provider := &execProvider{calls: []wire.ToolCall{
		wire.NewToolCall("call-1", "retrieve_state", `{}`),
	}}

	s, err := NewStateful(provider, nil, counterState{Count: 7, Label: "lucky"},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	collectStateful(t, s, runInput(wire.NewUserMessage("what is the state?")))

	require.Len(t, provider.results, 1)
	var state counterState
	require.NoError(t, json.Unmarshal([]byte(provider.results[0].Content), &state))
	assert.Equal(t, 7, state.Count)
	assert.Equal(t, "lucky", state.Label)
}

func TestStatefulAdoptsInputState(t *testing.T) {
	s, err := NewStateful(&execProvider{}, nil, counterState{Count: 1},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	input := runInput(wire.NewUserMessage("hi"))
	input.State = json.RawMessage(`{"count": 9}`)

	got := collectStateful(t, s, input)

	snapshot, ok := findEvent[*events.StateSnapshotEvent](got)
	require.True(t, ok)

	var state counterState
	require.NoError(t, json.Unmarshal(snapshot.Snapshot.(json.RawMessage), &state))
	assert.Equal(t, 9, state.Count)
	assert.Equal(t, 9, s.State().Count)
}

func TestStatefulMalformedInputStateKeepsHeld(t *testing.T) {
	s, err := NewStateful(&execProvider{}, nil, counterState{Count: 3},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	for _, raw := range []string{`"not an object"`, `{broken`, `[1,2]`} {
		input := runInput(wire.NewUserMessage("hi"))
		input.State = json.RawMessage(raw)

		collectStateful(t, s, input)
		assert.Equal(t, 3, s.State().Count, "input %q must not replace held state", raw)
	}
}

func TestStatefulHiddenStateToolsStillEmitDeltas(t *testing.T) {
	provider := &execProvider{calls: []wire.ToolCall{
		wire.NewToolCall("call-1", "update_state", `{"state":{"count":5}}`),
	}}

	s, err := NewStateful(provider, nil, counterState{Count: 1},
		WithSystemMessage("You are a counter."),
		WithStateToolVisibility(false))
	require.NoError(t, err)

	got := collectStateful(t, s, runInput(wire.NewUserMessage("bump")))
	types := eventTypes(got)

	assert.NotContains(t, types, events.EventTypeToolCallStart, "hidden state tools leave no tool call trace")
	assert.NotContains(t, types, events.EventTypeMessagesSnapshot)
	assert.Contains(t, types, events.EventTypeStateDelta, "the delta is emitted regardless of tool visibility")
	assert.Equal(t, 5, s.State().Count)
}

func TestStatefulSystemMessageFraming(t *testing.T) {
	s, err := NewStateful(&execProvider{}, nil, counterState{},
		WithSystemMessage("You are a counter."))
	require.NoError(t, err)

	opts := ApplyOptions(s.runOptions()...)
	content := opts.PrepareSystemMessage(runInput(), "You are a counter.", nil)

	assert.Contains(t, content, "You are a counter.")
	assert.Contains(t, content, `"retrieve_state"`)
	assert.Contains(t, content, `"update_state"`)
}
