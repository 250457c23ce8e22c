package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
	"github.com/agentwire/agentwire/tool"
)

// statefulSystemMessage frames the operator-provided persona with the state
// collaboration protocol. The model is told to consult and mutate the shared
// state only through the dedicated tools.
const statefulSystemMessage = `%s

You maintain a shared state document that both you and the user interface can read and modify.

Rules for working with the shared state:
- Call the %q tool whenever you need the current value of the shared state.
- Call the %q tool with a complete replacement value whenever the conversation requires the state to change.
- Never describe the state from memory. It can change between your turns, so always retrieve it before reasoning about it.
- Apply the smallest change that satisfies the request and preserve every field you were not asked to modify.`

// stateToolSchema describes the single argument of the state update tool.
// The value is an arbitrary JSON document supplied by the model.
var stateToolSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"state": {
			"description": "The complete new value of the shared state."
		}
	},
	"required": ["state"]
}`)

// emptyToolSchema is the parameter schema for tools that take no arguments.
var emptyToolSchema = json.RawMessage(`{"type": "object", "properties": {}}`)

// StatefulAgent layers shared-state synchronization over the run engine. It
// holds a typed state document across runs, announces it with a
// STATE_SNAPSHOT at the start of every run, and publishes subsequent
// mutations as STATE_DELTA patches.
//
// The state is exposed to the model through two backend tools, so state
// reads and writes participate in the normal generation loop. Like Agent, a
// StatefulAgent must not serve concurrent runs.
type StatefulAgent[T any] struct {
	provider wire.ModelProvider
	registry *tool.Registry
	opts     *Options
	userOpts []Option
	state    T
	usage    wire.Usage
}

// NewStateful creates a stateful agent holding initial as its state
// document. A system message is mandatory because the state collaboration
// rules are injected through it; without one the model would never learn
// the state tools' contract.
func NewStateful[T any](provider wire.ModelProvider, registry *tool.Registry, initial T, opts ...Option) (*StatefulAgent[T], error) {
	applied := ApplyOptions(opts...)
	if applied.SystemMessage == "" {
		return nil, ErrSystemMessageRequired
	}
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &StatefulAgent[T]{
		provider: provider,
		registry: registry,
		opts:     applied,
		userOpts: opts,
		state:    initial,
	}, nil
}

// State returns the current state document.
func (s *StatefulAgent[T]) State() T {
	return s.state
}

// SetState replaces the state document outside a run.
func (s *StatefulAgent[T]) SetState(state T) {
	s.state = state
}

// Usage returns the token usage accumulated across all runs served by this
// agent.
func (s *StatefulAgent[T]) Usage() wire.Usage {
	return s.usage
}

// Stream executes one run and returns a channel of protocol events, closed
// when the run ends. See Agent.Stream for the channel contract.
func (s *StatefulAgent[T]) Stream(ctx context.Context, input wire.RunAgentInput) <-chan events.Event {
	out := make(chan events.Event, s.opts.ChannelBuffer)

	go func() {
		defer close(out)
		err := s.Run(ctx, input, out)
		if err == nil || !s.opts.EmitRunErrorEvents || ctx.Err() != nil {
			return
		}
		select {
		case out <- events.NewRunErrorEvent(err.Error()):
		case <-ctx.Done():
		}
	}()

	return out
}

// Run executes one run against the held state. If the input carries a state
// document it replaces the held one before the run begins, so a frontend
// that mutated the state between runs wins over the server's copy.
func (s *StatefulAgent[T]) Run(ctx context.Context, input wire.RunAgentInput, out chan<- events.Event) error {
	s.adoptInputState(input.State)

	emit := func(ev events.Event) error {
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	runReg := s.registry.Clone()
	if err := runReg.Register(wire.Tool{
		Name:        s.opts.StateRetrievalToolName,
		Description: s.opts.StateRetrievalToolDescription,
		Parameters:  emptyToolSchema,
	}, s.retrieveState); err != nil {
		return err
	}
	if err := runReg.Register(wire.Tool{
		Name:        s.opts.StateUpdateToolName,
		Description: s.opts.StateUpdateToolDescription,
		Parameters:  stateToolSchema,
	}, s.updateStateHandler(emit)); err != nil {
		return err
	}

	inner := New(s.provider, runReg, s.runOptions()...)
	err := inner.Run(ctx, input, out)
	s.usage.Add(inner.Usage())
	return err
}

// runOptions derives the inner engine's configuration for one run: the
// caller's options plus the state announcement at run start, the state
// collaboration framing in the system message, and the state tools'
// visibility policy.
func (s *StatefulAgent[T]) runOptions() []Option {
	baseStarted := s.opts.OnRunStarted
	basePrepare := s.opts.PrepareSystemMessage
	baseFilter := s.opts.ToolCallFilter

	opts := make([]Option, 0, len(s.userOpts)+3)
	opts = append(opts, s.userOpts...)

	opts = append(opts, WithRunStartedHook(func(ctx context.Context, input wire.RunAgentInput, emit EmitFunc) error {
		if baseStarted != nil {
			if err := baseStarted(ctx, input, emit); err != nil {
				return err
			}
		} else if err := emit(events.NewRunStartedEvent(input.ThreadID, input.RunID)); err != nil {
			return err
		}
		snapshot, err := json.Marshal(s.state)
		if err != nil {
			return fmt.Errorf("marshal state snapshot: %w", err)
		}
		return emit(events.NewStateSnapshotEvent(json.RawMessage(snapshot)))
	}))

	opts = append(opts, WithSystemMessagePreparer(func(input wire.RunAgentInput, systemMessage string, items []wire.Context) string {
		inner := systemMessage
		if basePrepare != nil {
			inner = basePrepare(input, systemMessage, items)
		} else {
			inner = defaultSystemMessage(s.opts, systemMessage, items)
		}
		return fmt.Sprintf(statefulSystemMessage, inner, s.opts.StateRetrievalToolName, s.opts.StateUpdateToolName)
	}))

	// State tool traffic is backend plumbing unless the operator opted
	// into surfacing it.
	opts = append(opts, WithToolCallFilter(func(name string) bool {
		if !s.opts.EmitStateToolCalls && (name == s.opts.StateRetrievalToolName || name == s.opts.StateUpdateToolName) {
			return false
		}
		if baseFilter != nil {
			return baseFilter(name)
		}
		return true
	}))

	return opts
}

// adoptInputState replaces the held state with the input's document when it
// carries a parseable JSON object. Anything else keeps the held state, so a
// frontend that sends nothing or garbage never wipes server state.
func (s *StatefulAgent[T]) adoptInputState(raw json.RawMessage) {
	if !isJSONObject(raw) {
		return
	}
	var next T
	if err := json.Unmarshal(raw, &next); err != nil {
		return
	}
	s.state = next
}

func (s *StatefulAgent[T]) retrieveState(ctx context.Context, call wire.ToolCall) (string, error) {
	serialized, err := json.Marshal(s.state)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(serialized), nil
}

// updateStateHandler builds the update tool's handler for one run. The
// handler diffs the held state against the proposed one and publishes the
// patch; a proposal identical to the held state produces no event at all.
func (s *StatefulAgent[T]) updateStateHandler(emit EmitFunc) tool.Handler {
	return func(ctx context.Context, call wire.ToolCall) (string, error) {
		var args struct {
			State json.RawMessage `json:"state"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "", fmt.Errorf("parse update arguments: %w", err)
		}
		var next T
		if err := json.Unmarshal(args.State, &next); err != nil {
			return "", fmt.Errorf("parse new state: %w", err)
		}

		patch, err := jsondiff.Compare(s.state, next)
		if err != nil {
			return "", fmt.Errorf("diff state: %w", err)
		}
		if len(patch) == 0 {
			return "State is unchanged.", nil
		}

		s.state = next

		delta := make([]events.JSONPatchOperation, len(patch))
		for i, op := range patch {
			delta[i] = events.JSONPatchOperation{
				Op:    events.PatchOp(op.Type),
				Path:  op.Path,
				Value: op.Value,
			}
		}
		if err := emit(events.NewStateDeltaEvent(delta)); err != nil {
			return "", err
		}
		return "State updated.", nil
	}
}

// isJSONObject reports whether raw holds a JSON object, tolerating leading
// whitespace.
func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
