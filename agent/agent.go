package agent

import (
	"context"
	"strings"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
	"github.com/agentwire/agentwire/tool"
)

// Agent drives exactly one run from start to finish, translating the
// generation backend's content stream into protocol events. The emitted
// sequence is always well formed regardless of how the backend chunks its
// output.
//
// An Agent owns mutable per-run working state and must be used for exactly
// one concurrent run. It is not safe for reuse across runs without a fresh
// instance.
type Agent struct {
	provider wire.ModelProvider
	registry *tool.Registry
	opts     *Options
	usage    wire.Usage
}

// New creates an Agent over the given provider and tool registry. The
// registry's backend tools are available to every run; frontend tools come
// from each run's input.
func New(provider wire.ModelProvider, registry *tool.Registry, opts ...Option) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{
		provider: provider,
		registry: registry,
		opts:     ApplyOptions(opts...),
	}
}

// Usage returns the token usage accumulated during the run, for post-run
// inspection. Usage statistics are never emitted as protocol events.
func (a *Agent) Usage() wire.Usage {
	return a.usage
}

// Stream executes one run and returns a channel of protocol events. The
// channel is closed when the run completes, fails, or is cancelled; a
// channel that closes without a RUN_FINISHED event signals a failed run.
// With WithRunErrorEvents, failures produce a RUN_ERROR event first.
func (a *Agent) Stream(ctx context.Context, input wire.RunAgentInput) <-chan events.Event {
	out := make(chan events.Event, a.opts.ChannelBuffer)

	go func() {
		defer close(out)
		err := a.Run(ctx, input, out)
		if err == nil || !a.opts.EmitRunErrorEvents || ctx.Err() != nil {
			return
		}
		select {
		case out <- events.NewRunErrorEvent(err.Error()):
		case <-ctx.Done():
		}
	}()

	return out
}

// Run executes one run, writing protocol events to out. The channel is owned
// by the caller and is never closed by Run. A nil return means the run
// completed normally and RUN_FINISHED was the last event written;
// configuration errors are returned before any event is written.
func (a *Agent) Run(ctx context.Context, input wire.RunAgentInput, out chan<- events.Event) error {
	emit := func(ev events.Event) error {
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Tool preparation: the registry's backend tools plus the input's
	// frontend tools, each overridable per run.
	backendTools, err := a.prepareBackendTools(ctx, input)
	if err != nil {
		return err
	}
	frontendTools, err := a.prepareFrontendTools(ctx, input)
	if err != nil {
		return err
	}

	router, err := newToolRouter(toolNames(frontendTools), toolNames(backendTools))
	if err != nil {
		return err
	}

	items, err := a.prepareContext(ctx, input)
	if err != nil {
		return err
	}
	messages := a.resolveMessages(input, items)

	// The provider resolves backend tools through a run-scoped registry so
	// frontend definitions are visible but never executable.
	runReg := a.registry.Clone()
	for _, t := range frontendTools {
		if err := runReg.RegisterFrontendTool(t); err != nil {
			return err
		}
	}

	if err := a.runStarted(ctx, input, emit); err != nil {
		return err
	}

	// The transcript copy used for snapshot re-emission. It may diverge
	// from the input as text and tool calls are produced; inbound system
	// messages are stripped per configuration since the frontend
	// re-communicates those on subsequent runs.
	snapshot := make([]wire.Message, 0, len(input.Messages))
	for _, m := range input.Messages {
		if a.opts.StripSystemMessagesInSnapshots && m.Role == wire.RoleSystem {
			continue
		}
		snapshot = append(snapshot, m)
	}
	needsSync := false

	allTools := make([]wire.Tool, 0, len(backendTools)+len(frontendTools))
	allTools = append(allTools, backendTools...)
	allTools = append(allTools, frontendTools...)

	stream, err := a.provider.Stream(ctx, wire.StreamRequest{
		Messages: messages,
		Tools:    allTools,
		Executor: runReg,
	})
	if err != nil {
		return err
	}

	// Text framing state: nil when no text message is open.
	var current *openText

	closeText := func() error {
		if current == nil {
			return nil
		}
		if err := emit(events.NewTextMessageEndEvent(current.id)); err != nil {
			return err
		}
		snapshot = append(snapshot, wire.Message{
			ID:      current.id,
			Role:    wire.RoleAssistant,
			Content: current.content.String(),
		})
		current = nil
		return nil
	}

	for {
		var chunk wire.StreamChunk
		var ok bool
		select {
		case chunk, ok = <-stream:
		case <-ctx.Done():
			return ctx.Err()
		}
		if !ok {
			break
		}
		if chunk.Err != nil {
			return chunk.Err
		}

		for _, item := range chunk.Items {
			switch item.Kind {
			case wire.ChunkText:
				// A chunk for a different message ends the current text
				// frame before a new one opens.
				if current != nil && chunk.MessageID != "" && chunk.MessageID != current.id {
					if err := closeText(); err != nil {
						return err
					}
				}
				if current == nil {
					id := chunk.MessageID
					if id == "" {
						id = wire.GenerateMessageID()
					}
					current = &openText{id: id}
					if err := emit(events.NewTextMessageStartEvent(id)); err != nil {
						return err
					}
				}
				// Empty deltas are a chunking artifact, not an error.
				if item.Text != "" {
					if err := emit(events.NewTextMessageContentEvent(current.id, item.Text)); err != nil {
						return err
					}
					current.content.WriteString(item.Text)
				}

			case wire.ChunkToolCall:
				if item.ToolCall == nil {
					continue
				}
				tc := *item.ToolCall
				name := tc.Function.Name

				// A tool call always terminates the current text stream.
				if err := closeText(); err != nil {
					return err
				}

				switch router.classify(name) {
				case toolKindFrontend:
					// Track the call so its result is never forwarded from
					// this side; the frontend reports it on a later run.
					router.trackFrontendCall(tc.ID, name)
				default:
					// Unknown names are forwarded as backend calls rather
					// than silently dropped; disjointness was validated at
					// setup.
					router.trackBackendCall(tc.ID, name)
					if !a.shouldEmitToolCall(name) {
						// Suppressed: recorded so the eventual result is
						// suppressed consistently, but no events and no
						// snapshot entry.
						continue
					}
				}

				var startOpts []events.ToolCallStartOption
				if chunk.MessageID != "" {
					startOpts = append(startOpts, events.WithParentMessageID(chunk.MessageID))
				}
				if err := emit(events.NewToolCallStartEvent(tc.ID, name, startOpts...)); err != nil {
					return err
				}
				// Arguments arrive fully assembled from the provider, so
				// they are dispatched as one complete delta.
				if err := emit(events.NewToolCallArgsEvent(tc.ID, tc.Function.Arguments)); err != nil {
					return err
				}
				if err := emit(events.NewToolCallEndEvent(tc.ID)); err != nil {
					return err
				}

				parentID := chunk.MessageID
				if parentID == "" {
					parentID = wire.GenerateMessageID()
				}
				snapshot = append(snapshot, wire.Message{
					ID:        parentID,
					Role:      wire.RoleAssistant,
					ToolCalls: []wire.ToolCall{tc},
				})

			case wire.ChunkToolResult:
				if item.ToolResult == nil {
					continue
				}
				res := *item.ToolResult

				// Frontend results never originate server-side within the
				// run that issued the call.
				if _, ok := router.frontendCall(res.ToolCallID); ok {
					continue
				}
				name, tracked := router.backendCall(res.ToolCallID)
				if !tracked {
					return &UntrackedToolCallError{ToolCallID: res.ToolCallID}
				}
				if !a.shouldEmitToolCall(name) {
					continue
				}

				if err := closeText(); err != nil {
					return err
				}

				id := chunk.MessageID
				if id == "" {
					id = wire.GenerateMessageID()
				}
				snapshot = append(snapshot, wire.Message{
					ID:         id,
					Role:       wire.RoleTool,
					Content:    res.Content,
					ToolCallID: res.ToolCallID,
				})

				if a.opts.SnapshotMode == SnapshotPerToolResult {
					if err := emit(events.NewMessagesSnapshotEvent(cloneMessages(snapshot))); err != nil {
						return err
					}
				} else {
					needsSync = true
				}

			case wire.ChunkUsage:
				if item.Usage != nil {
					a.usage.Add(*item.Usage)
				}

			default:
				// Unsupported content, ignore.
			}
		}
	}

	if err := closeText(); err != nil {
		return err
	}

	// The single point where backend tool results become visible to the
	// frontend as transcript state.
	if needsSync {
		if err := emit(events.NewMessagesSnapshotEvent(cloneMessages(snapshot))); err != nil {
			return err
		}
	}

	return emit(events.NewRunFinishedEvent(input.ThreadID, input.RunID))
}

// openText tracks the in-progress assistant text message.
type openText struct {
	id      string
	content strings.Builder
}

func (a *Agent) runStarted(ctx context.Context, input wire.RunAgentInput, emit EmitFunc) error {
	if a.opts.OnRunStarted != nil {
		return a.opts.OnRunStarted(ctx, input, emit)
	}
	return emit(events.NewRunStartedEvent(input.ThreadID, input.RunID))
}

func (a *Agent) prepareBackendTools(ctx context.Context, input wire.RunAgentInput) ([]wire.Tool, error) {
	tools := make([]wire.Tool, 0, a.registry.Len())
	for _, name := range a.registry.BackendToolNames() {
		if t, ok := a.registry.GetTool(name); ok {
			tools = append(tools, t)
		}
	}
	if a.opts.PrepareBackendTools != nil {
		return a.opts.PrepareBackendTools(ctx, tools, input)
	}
	return tools, nil
}

func (a *Agent) prepareFrontendTools(ctx context.Context, input wire.RunAgentInput) ([]wire.Tool, error) {
	if a.opts.PrepareFrontendTools != nil {
		return a.opts.PrepareFrontendTools(ctx, input.Tools, input)
	}
	return input.Tools, nil
}

// shouldEmitToolCall applies the backend tool visibility policy for a name.
func (a *Agent) shouldEmitToolCall(name string) bool {
	if !a.opts.EmitBackendToolCalls {
		return false
	}
	if a.opts.ToolCallFilter != nil {
		return a.opts.ToolCallFilter(name)
	}
	return true
}

func toolNames(tools []wire.Tool) []string {
	if len(tools) == 0 {
		return nil
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

func cloneMessages(messages []wire.Message) []wire.Message {
	cloned := make([]wire.Message, len(messages))
	copy(cloned, messages)
	return cloned
}
