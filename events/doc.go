// Package events defines the protocol event model: the closed set of event
// kinds exchanged between agent and frontend, discriminated by a "type" tag
// on the wire.
//
// Events are immutable, timestamped records. They are produced by the run
// engine in a strict order and consumed exactly once by a transport; an
// event is never retracted, so correctness is append-only.
//
// Every event kind has a constructor that stamps the current time:
//
//	ev := events.NewTextMessageContentEvent("msg-1", "Hello")
//	data, _ := ev.ToJSON()
//	// {"type":"TEXT_MESSAGE_CONTENT","timestamp":...,"messageId":"msg-1","delta":"Hello"}
//
// [DecodeEvent] performs the reverse mapping for consumers that read the
// wire form, with an explicit error for unknown type tags.
package events
