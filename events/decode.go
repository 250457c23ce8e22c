package events

import (
	"encoding/json"
	"fmt"
)

// DecodeEvent parses a wire-form event into its concrete type, switching on
// the "type" discriminator. Unknown type tags are an explicit error rather
// than a silent fallback.
func DecodeEvent(data []byte) (Event, error) {
	var probe struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var ev Event
	switch probe.Type {
	case EventTypeRunStarted:
		ev = &RunStartedEvent{BaseEvent: &BaseEvent{}}
	case EventTypeRunFinished:
		ev = &RunFinishedEvent{BaseEvent: &BaseEvent{}}
	case EventTypeRunError:
		ev = &RunErrorEvent{BaseEvent: &BaseEvent{}}
	case EventTypeStepStarted:
		ev = &StepStartedEvent{BaseEvent: &BaseEvent{}}
	case EventTypeStepFinished:
		ev = &StepFinishedEvent{BaseEvent: &BaseEvent{}}
	case EventTypeTextMessageStart:
		ev = &TextMessageStartEvent{BaseEvent: &BaseEvent{}}
	case EventTypeTextMessageContent:
		ev = &TextMessageContentEvent{BaseEvent: &BaseEvent{}}
	case EventTypeTextMessageEnd:
		ev = &TextMessageEndEvent{BaseEvent: &BaseEvent{}}
	case EventTypeToolCallStart:
		ev = &ToolCallStartEvent{BaseEvent: &BaseEvent{}}
	case EventTypeToolCallArgs:
		ev = &ToolCallArgsEvent{BaseEvent: &BaseEvent{}}
	case EventTypeToolCallEnd:
		ev = &ToolCallEndEvent{BaseEvent: &BaseEvent{}}
	case EventTypeStateSnapshot:
		ev = &StateSnapshotEvent{BaseEvent: &BaseEvent{}}
	case EventTypeStateDelta:
		ev = &StateDeltaEvent{BaseEvent: &BaseEvent{}}
	case EventTypeMessagesSnapshot:
		ev = &MessagesSnapshotEvent{BaseEvent: &BaseEvent{}}
	case EventTypeCustom:
		ev = &CustomEvent{BaseEvent: &BaseEvent{}}
	case EventTypeRaw:
		ev = &RawEvent{BaseEvent: &BaseEvent{}}
	default:
		return nil, fmt.Errorf("decode event: unknown event type %q", probe.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", probe.Type, err)
	}
	return ev, nil
}
