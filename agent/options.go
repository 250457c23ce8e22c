package agent

import (
	"context"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
)

// EmitFunc sends one protocol event to the run's event channel. It blocks
// until the event is accepted or the run context is cancelled.
type EmitFunc func(ev events.Event) error

// ContextPreparer resolves the context items to use for a run. The default
// passes the input context through, optionally performing AI-assisted
// extraction when the agent is configured for it.
type ContextPreparer func(ctx context.Context, input wire.RunAgentInput) ([]wire.Context, error)

// SystemMessagePreparer produces the final system message for a run. It is
// only consulted when the agent overrides the system message.
type SystemMessagePreparer func(input wire.RunAgentInput, systemMessage string, items []wire.Context) string

// ToolPreparer customizes the tool set for a run before streaming begins.
type ToolPreparer func(ctx context.Context, tools []wire.Tool, input wire.RunAgentInput) ([]wire.Tool, error)

// ToolCallFilter decides per tool name whether backend tool call data is
// emitted to the frontend. It is only consulted when backend tool call
// emission is enabled at all.
type ToolCallFilter func(name string) bool

// RunStartedHook handles the start of a run. The default emits RUN_STARTED;
// overrides must do the same before emitting anything else.
type RunStartedHook func(ctx context.Context, input wire.RunAgentInput, emit EmitFunc) error

// SnapshotMode controls when backend tool results become visible to the
// frontend as transcript state.
type SnapshotMode int

const (
	// SnapshotAtRunEnd batches the transcript resynchronization into a
	// single MESSAGES_SNAPSHOT before RUN_FINISHED. This avoids
	// destabilizing a frontend mid-render and is the default.
	SnapshotAtRunEnd SnapshotMode = iota
	// SnapshotPerToolResult emits a MESSAGES_SNAPSHOT immediately after
	// each backend tool result is appended to the transcript.
	SnapshotPerToolResult
)

// Options contains configuration for agent execution.
type Options struct {
	// SystemMessage, when non-empty, fully replaces all inbound system
	// messages for the run.
	SystemMessage string

	// PreserveSystemMessages keeps inbound system messages when no
	// overriding SystemMessage is set. Default is true.
	PreserveSystemMessages bool

	// ExtractContext enables a single auxiliary structured-extraction
	// request that merges context from inbound system messages with the
	// input context. Extraction failures fall back silently to the input
	// context. Default is false.
	ExtractContext bool

	// IncludeContextInSystemMessage appends a serialized view of the
	// resolved context to the overriding system message. Default is false.
	IncludeContextInSystemMessage bool

	// StripSystemMessagesInSnapshots removes system messages from emitted
	// message snapshots. Default is true.
	StripSystemMessagesInSnapshots bool

	// EmitBackendToolCalls reveals backend tool calls and their results to
	// the frontend. Default is true.
	EmitBackendToolCalls bool

	// ToolCallFilter is a per-name override consulted when
	// EmitBackendToolCalls is enabled. If nil, every backend tool call is
	// emitted.
	ToolCallFilter ToolCallFilter

	// SnapshotMode controls when transcript resynchronization happens.
	// Default is SnapshotAtRunEnd.
	SnapshotMode SnapshotMode

	// ChannelBuffer is the capacity of the event channel owned by Stream.
	// Default is 64.
	ChannelBuffer int

	// EmitRunErrorEvents converts a run failure inside Stream into a
	// RUN_ERROR event before the channel closes. By default a failed run
	// simply closes the channel without a terminal event.
	EmitRunErrorEvents bool

	// PrepareContext overrides context resolution entirely.
	PrepareContext ContextPreparer

	// PrepareSystemMessage overrides system message assembly.
	PrepareSystemMessage SystemMessagePreparer

	// PrepareFrontendTools customizes the frontend tool set for a run.
	PrepareFrontendTools ToolPreparer

	// PrepareBackendTools customizes the backend tool set for a run.
	PrepareBackendTools ToolPreparer

	// OnRunStarted overrides run-start handling.
	OnRunStarted RunStartedHook

	// State collaboration tool configuration, used by stateful agents.
	StateRetrievalToolName        string
	StateRetrievalToolDescription string
	StateUpdateToolName           string
	StateUpdateToolDescription    string

	// EmitStateToolCalls controls whether the state collaboration tools'
	// calls and results are revealed to the frontend, independently of
	// other backend tools. Default is true.
	EmitStateToolCalls bool
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// ApplyOptions applies functional options over the defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		PreserveSystemMessages:         true,
		StripSystemMessagesInSnapshots: true,
		EmitBackendToolCalls:           true,
		ChannelBuffer:                  64,
		StateRetrievalToolName:         "retrieve_state",
		StateRetrievalToolDescription:  "Retrieves the current shared state of the agent.",
		StateUpdateToolName:            "update_state",
		StateUpdateToolDescription:     "Updates the current shared state of the agent.",
		EmitStateToolCalls:             true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSystemMessage sets a system message that replaces all inbound system
// messages for the run.
func WithSystemMessage(s string) Option {
	return func(o *Options) { o.SystemMessage = s }
}

// WithPreserveSystemMessages controls whether inbound system messages are
// kept when no overriding system message is set. Default is true.
func WithPreserveSystemMessages(preserve bool) Option {
	return func(o *Options) { o.PreserveSystemMessages = preserve }
}

// WithContextExtraction enables AI-assisted context extraction from inbound
// system messages.
func WithContextExtraction(enabled bool) Option {
	return func(o *Options) { o.ExtractContext = enabled }
}

// WithContextInSystemMessage appends the resolved context to the overriding
// system message.
func WithContextInSystemMessage(include bool) Option {
	return func(o *Options) { o.IncludeContextInSystemMessage = include }
}

// WithStripSystemMessagesInSnapshots controls whether message snapshots
// strip system messages. Default is true.
func WithStripSystemMessagesInSnapshots(strip bool) Option {
	return func(o *Options) { o.StripSystemMessagesInSnapshots = strip }
}

// WithEmitBackendToolCalls controls whether backend tool calls and results
// are revealed to the frontend. Default is true.
func WithEmitBackendToolCalls(emit bool) Option {
	return func(o *Options) { o.EmitBackendToolCalls = emit }
}

// WithToolCallFilter sets a per-name visibility override for backend tool
// calls.
func WithToolCallFilter(filter ToolCallFilter) Option {
	return func(o *Options) { o.ToolCallFilter = filter }
}

// WithSnapshotMode selects when transcript resynchronization happens.
func WithSnapshotMode(mode SnapshotMode) Option {
	return func(o *Options) { o.SnapshotMode = mode }
}

// WithChannelBuffer sets the event channel capacity used by Stream.
func WithChannelBuffer(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.ChannelBuffer = n
		}
	}
}

// WithRunErrorEvents converts run failures inside Stream into RUN_ERROR
// events before the channel closes.
func WithRunErrorEvents(emit bool) Option {
	return func(o *Options) { o.EmitRunErrorEvents = emit }
}

// WithContextPreparer overrides context resolution for the run.
func WithContextPreparer(p ContextPreparer) Option {
	return func(o *Options) { o.PrepareContext = p }
}

// WithSystemMessagePreparer overrides system message assembly.
func WithSystemMessagePreparer(p SystemMessagePreparer) Option {
	return func(o *Options) { o.PrepareSystemMessage = p }
}

// WithFrontendToolPreparer customizes the frontend tool set for a run.
func WithFrontendToolPreparer(p ToolPreparer) Option {
	return func(o *Options) { o.PrepareFrontendTools = p }
}

// WithBackendToolPreparer customizes the backend tool set for a run.
func WithBackendToolPreparer(p ToolPreparer) Option {
	return func(o *Options) { o.PrepareBackendTools = p }
}

// WithRunStartedHook overrides run-start handling.
func WithRunStartedHook(h RunStartedHook) Option {
	return func(o *Options) { o.OnRunStarted = h }
}

// WithStateRetrievalTool renames the state retrieval tool.
func WithStateRetrievalTool(name, description string) Option {
	return func(o *Options) {
		if name != "" {
			o.StateRetrievalToolName = name
		}
		if description != "" {
			o.StateRetrievalToolDescription = description
		}
	}
}

// WithStateUpdateTool renames the state update tool.
func WithStateUpdateTool(name, description string) Option {
	return func(o *Options) {
		if name != "" {
			o.StateUpdateToolName = name
		}
		if description != "" {
			o.StateUpdateToolDescription = description
		}
	}
}

// WithStateToolVisibility controls whether the state collaboration tools are
// revealed to the frontend, independently of other backend tools. Default is
// true.
func WithStateToolVisibility(emit bool) Option {
	return func(o *Options) { o.EmitStateToolCalls = emit }
}
