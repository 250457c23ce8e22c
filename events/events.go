package events

import (
	"encoding/json"
	"time"

	wire "github.com/agentwire/agentwire"
)

// EventType discriminates event kinds on the wire.
type EventType string

// Run lifecycle events
const (
	EventTypeRunStarted  EventType = "RUN_STARTED"
	EventTypeRunFinished EventType = "RUN_FINISHED"
	EventTypeRunError    EventType = "RUN_ERROR"
)

// Step lifecycle events
const (
	EventTypeStepStarted  EventType = "STEP_STARTED"
	EventTypeStepFinished EventType = "STEP_FINISHED"
)

// Text message streaming events
const (
	EventTypeTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTypeTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTypeTextMessageEnd     EventType = "TEXT_MESSAGE_END"
)

// Tool call streaming events
const (
	EventTypeToolCallStart EventType = "TOOL_CALL_START"
	EventTypeToolCallArgs  EventType = "TOOL_CALL_ARGS"
	EventTypeToolCallEnd   EventType = "TOOL_CALL_END"
)

// State and transcript synchronization events
const (
	EventTypeStateSnapshot    EventType = "STATE_SNAPSHOT"
	EventTypeStateDelta       EventType = "STATE_DELTA"
	EventTypeMessagesSnapshot EventType = "MESSAGES_SNAPSHOT"
)

// Escape hatches
const (
	EventTypeCustom EventType = "CUSTOM"
	EventTypeRaw    EventType = "RAW"
)

// Event is the interface implemented by all protocol events.
type Event interface {
	// Type returns the wire discriminator for the event.
	Type() EventType
	// Timestamp returns the emission time in milliseconds since epoch,
	// or nil if the event carries no timestamp.
	Timestamp() *int64
	// ToJSON serializes the event to its wire form.
	ToJSON() ([]byte, error)
}

// BaseEvent carries the fields common to every event. Concrete event types
// embed it.
type BaseEvent struct {
	EventType   EventType `json:"type"`
	TimestampMs *int64    `json:"timestamp,omitempty"`
}

// Type returns the wire discriminator for the event.
func (b *BaseEvent) Type() EventType { return b.EventType }

// Timestamp returns the emission time in milliseconds since epoch.
func (b *BaseEvent) Timestamp() *int64 { return b.TimestampMs }

func newBaseEvent(t EventType) *BaseEvent {
	ts := time.Now().UnixMilli()
	return &BaseEvent{EventType: t, TimestampMs: &ts}
}

// RunStartedEvent signals the start of an agent run. It is always the first
// event of a run.
type RunStartedEvent struct {
	*BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// NewRunStartedEvent creates a RUN_STARTED event.
func NewRunStartedEvent(threadID, runID string) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent: newBaseEvent(EventTypeRunStarted),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// ToJSON serializes the event to its wire form.
func (e *RunStartedEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// RunFinishedEvent signals normal completion of an agent run. It is the last
// event of a successful run.
type RunFinishedEvent struct {
	*BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// NewRunFinishedEvent creates a RUN_FINISHED event.
func NewRunFinishedEvent(threadID, runID string) *RunFinishedEvent {
	return &RunFinishedEvent{
		BaseEvent: newBaseEvent(EventTypeRunFinished),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// ToJSON serializes the event to its wire form.
func (e *RunFinishedEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// RunErrorEvent signals an unrecoverable run failure.
type RunErrorEvent struct {
	*BaseEvent
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewRunErrorEvent creates a RUN_ERROR event.
func NewRunErrorEvent(message string, opts ...RunErrorOption) *RunErrorEvent {
	e := &RunErrorEvent{
		BaseEvent: newBaseEvent(EventTypeRunError),
		Message:   message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunErrorOption customizes a RunErrorEvent.
type RunErrorOption func(*RunErrorEvent)

// WithCode attaches an error code to a RUN_ERROR event.
func WithCode(code string) RunErrorOption {
	return func(e *RunErrorEvent) { e.Code = code }
}

// ToJSON serializes the event to its wire form.
func (e *RunErrorEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// StepStartedEvent signals the start of a named step within a run.
type StepStartedEvent struct {
	*BaseEvent
	StepName string `json:"stepName"`
}

// NewStepStartedEvent creates a STEP_STARTED event.
func NewStepStartedEvent(stepName string) *StepStartedEvent {
	return &StepStartedEvent{
		BaseEvent: newBaseEvent(EventTypeStepStarted),
		StepName:  stepName,
	}
}

// ToJSON serializes the event to its wire form.
func (e *StepStartedEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// StepFinishedEvent signals the completion of a named step within a run.
type StepFinishedEvent struct {
	*BaseEvent
	StepName string `json:"stepName"`
}

// NewStepFinishedEvent creates a STEP_FINISHED event.
func NewStepFinishedEvent(stepName string) *StepFinishedEvent {
	return &StepFinishedEvent{
		BaseEvent: newBaseEvent(EventTypeStepFinished),
		StepName:  stepName,
	}
}

// ToJSON serializes the event to its wire form.
func (e *StepFinishedEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// TextMessageStartEvent opens a streamed assistant text message.
type TextMessageStartEvent struct {
	*BaseEvent
	MessageID string `json:"messageId"`
	Role      string `json:"role"`
}

// TextMessageStartOption customizes a TextMessageStartEvent.
type TextMessageStartOption func(*TextMessageStartEvent)

// WithRole sets the role on a TEXT_MESSAGE_START event. The default is
// "assistant".
func WithRole(role string) TextMessageStartOption {
	return func(e *TextMessageStartEvent) { e.Role = role }
}

// NewTextMessageStartEvent creates a TEXT_MESSAGE_START event.
func NewTextMessageStartEvent(messageID string, opts ...TextMessageStartOption) *TextMessageStartEvent {
	e := &TextMessageStartEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageStart),
		MessageID: messageID,
		Role:      string(wire.RoleAssistant),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToJSON serializes the event to its wire form.
func (e *TextMessageStartEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// TextMessageContentEvent carries one non-empty text delta of a streamed
// message.
type TextMessageContentEvent struct {
	*BaseEvent
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// NewTextMessageContentEvent creates a TEXT_MESSAGE_CONTENT event.
func NewTextMessageContentEvent(messageID, delta string) *TextMessageContentEvent {
	return &TextMessageContentEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageContent),
		MessageID: messageID,
		Delta:     delta,
	}
}

// ToJSON serializes the event to its wire form.
func (e *TextMessageContentEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// TextMessageEndEvent closes a streamed text message.
type TextMessageEndEvent struct {
	*BaseEvent
	MessageID string `json:"messageId"`
}

// NewTextMessageEndEvent creates a TEXT_MESSAGE_END event.
func NewTextMessageEndEvent(messageID string) *TextMessageEndEvent {
	return &TextMessageEndEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageEnd),
		MessageID: messageID,
	}
}

// ToJSON serializes the event to its wire form.
func (e *TextMessageEndEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// ToolCallStartEvent opens a tool call frame.
type ToolCallStartEvent struct {
	*BaseEvent
	ToolCallID      string `json:"toolCallId"`
	ToolCallName    string `json:"toolCallName"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
}

// ToolCallStartOption customizes a ToolCallStartEvent.
type ToolCallStartOption func(*ToolCallStartEvent)

// WithParentMessageID links a tool call to the message it belongs to.
func WithParentMessageID(messageID string) ToolCallStartOption {
	return func(e *ToolCallStartEvent) { e.ParentMessageID = messageID }
}

// NewToolCallStartEvent creates a TOOL_CALL_START event.
func NewToolCallStartEvent(toolCallID, toolCallName string, opts ...ToolCallStartOption) *ToolCallStartEvent {
	e := &ToolCallStartEvent{
		BaseEvent:    newBaseEvent(EventTypeToolCallStart),
		ToolCallID:   toolCallID,
		ToolCallName: toolCallName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToJSON serializes the event to its wire form.
func (e *ToolCallStartEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// ToolCallArgsEvent carries the JSON-encoded arguments of a tool call as a
// single complete delta.
type ToolCallArgsEvent struct {
	*BaseEvent
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// NewToolCallArgsEvent creates a TOOL_CALL_ARGS event.
func NewToolCallArgsEvent(toolCallID, delta string) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{
		BaseEvent:  newBaseEvent(EventTypeToolCallArgs),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// ToJSON serializes the event to its wire form.
func (e *ToolCallArgsEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// ToolCallEndEvent closes a tool call frame.
type ToolCallEndEvent struct {
	*BaseEvent
	ToolCallID string `json:"toolCallId"`
}

// NewToolCallEndEvent creates a TOOL_CALL_END event.
func NewToolCallEndEvent(toolCallID string) *ToolCallEndEvent {
	return &ToolCallEndEvent{
		BaseEvent:  newBaseEvent(EventTypeToolCallEnd),
		ToolCallID: toolCallID,
	}
}

// ToJSON serializes the event to its wire form.
func (e *ToolCallEndEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// StateSnapshotEvent carries a full value of the shared state object.
type StateSnapshotEvent struct {
	*BaseEvent
	Snapshot any `json:"snapshot"`
}

// NewStateSnapshotEvent creates a STATE_SNAPSHOT event.
func NewStateSnapshotEvent(snapshot any) *StateSnapshotEvent {
	return &StateSnapshotEvent{
		BaseEvent: newBaseEvent(EventTypeStateSnapshot),
		Snapshot:  snapshot,
	}
}

// ToJSON serializes the event to its wire form.
func (e *StateSnapshotEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// PatchOp identifies a JSON Patch operation kind.
type PatchOp string

const (
	PatchOpAdd     PatchOp = "add"
	PatchOpRemove  PatchOp = "remove"
	PatchOpReplace PatchOp = "replace"
)

// JSONPatchOperation is one RFC 6902 patch operation at a structural path.
type JSONPatchOperation struct {
	Op    PatchOp `json:"op"`
	Path  string  `json:"path"`
	Value any     `json:"value,omitempty"`
}

// StateDeltaEvent carries an ordered list of patch operations describing the
// difference between two successive shared-state values.
type StateDeltaEvent struct {
	*BaseEvent
	Delta []JSONPatchOperation `json:"delta"`
}

// NewStateDeltaEvent creates a STATE_DELTA event.
func NewStateDeltaEvent(delta []JSONPatchOperation) *StateDeltaEvent {
	return &StateDeltaEvent{
		BaseEvent: newBaseEvent(EventTypeStateDelta),
		Delta:     delta,
	}
}

// ToJSON serializes the event to its wire form.
func (e *StateDeltaEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// MessagesSnapshotEvent carries the full ordered transcript of a run.
type MessagesSnapshotEvent struct {
	*BaseEvent
	Messages []wire.Message `json:"messages"`
}

// NewMessagesSnapshotEvent creates a MESSAGES_SNAPSHOT event.
func NewMessagesSnapshotEvent(messages []wire.Message) *MessagesSnapshotEvent {
	return &MessagesSnapshotEvent{
		BaseEvent: newBaseEvent(EventTypeMessagesSnapshot),
		Messages:  messages,
	}
}

// ToJSON serializes the event to its wire form.
func (e *MessagesSnapshotEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// CustomEvent carries an application-defined name/value pair.
type CustomEvent struct {
	*BaseEvent
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// NewCustomEvent creates a CUSTOM event.
func NewCustomEvent(name string, value any) *CustomEvent {
	return &CustomEvent{
		BaseEvent: newBaseEvent(EventTypeCustom),
		Name:      name,
		Value:     value,
	}
}

// ToJSON serializes the event to its wire form.
func (e *CustomEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }

// RawEvent wraps an opaque event from another system.
type RawEvent struct {
	*BaseEvent
	Event  any    `json:"event"`
	Source string `json:"source,omitempty"`
}

// RawEventOption customizes a RawEvent.
type RawEventOption func(*RawEvent)

// WithSource records the originating system of a RAW event.
func WithSource(source string) RawEventOption {
	return func(e *RawEvent) { e.Source = source }
}

// NewRawEvent creates a RAW event.
func NewRawEvent(event any, opts ...RawEventOption) *RawEvent {
	e := &RawEvent{
		BaseEvent: newBaseEvent(EventTypeRaw),
		Event:     event,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToJSON serializes the event to its wire form.
func (e *RawEvent) ToJSON() ([]byte, error) { return json.Marshal(e) }
