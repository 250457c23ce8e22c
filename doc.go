// Package agentwire standardizes communication between a backend agent and a
// frontend client over a single event protocol. An agent consumes a run
// input (transcript, tools, context, shared state) and produces a strictly
// ordered stream of protocol events that a frontend can render
// incrementally: text message frames, tool call frames, state snapshots and
// deltas, and run lifecycle markers.
//
// The root package holds the domain nouns: messages, tools, tool calls,
// context items, run input, and the [ModelProvider] boundary behind which a
// concrete generation backend lives. Subpackages build on these:
//
//   - events: the protocol event model (the wire contract)
//   - tool: the backend/frontend tool registry
//   - agent: the run engine translating a provider stream into events
//   - sse: an HTTP Server-Sent Events transport for the event stream
//
// # A minimal run
//
//	reg := tool.NewRegistry()
//	a := agent.New(provider, reg)
//
//	for ev := range a.Stream(ctx, input) {
//	    // deliver ev to the frontend
//	}
//
// The engine guarantees the event sequence is well formed regardless of how
// the provider chunks its output: RUN_STARTED first, balanced
// TEXT_MESSAGE_START/END pairs, complete TOOL_CALL_START/ARGS/END triples,
// and RUN_FINISHED last on normal completion.
//
// One agent instance drives exactly one run at a time; instances are not
// safe for concurrent reuse across runs.
package agentwire
