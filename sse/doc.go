// Package sse streams agent runs to browser frontends over Server-Sent
// Events.
//
// Handler accepts a POST with a RunAgentInput body and answers with one SSE
// frame per protocol event:
//
//	event: TEXT_MESSAGE_CONTENT
//	data: {"type":"TEXT_MESSAGE_CONTENT","messageId":"msg-1","delta":"Hello"}
//
// Wiring it up:
//
//	a := agent.New(provider, registry, agent.WithRunErrorEvents(true))
//	mux := http.NewServeMux()
//	mux.Handle("/api/agent", sse.CORS(sse.NewHandler(a, slog.Default())))
//
// The handler stops streaming when the run's channel closes. Client
// disconnects cancel the run through the request context.
package sse
