package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
)

// Runner is the engine side of the transport: anything that can execute a
// run and stream its protocol events. Both agent.Agent and
// agent.StatefulAgent satisfy it. A stream that closes without a
// RUN_FINISHED event signals a failed run.
type Runner interface {
	Stream(ctx context.Context, input wire.RunAgentInput) <-chan events.Event
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, input wire.RunAgentInput) <-chan events.Event

func (f RunnerFunc) Stream(ctx context.Context, input wire.RunAgentInput) <-chan events.Event {
	return f(ctx, input)
}

// Handler serves agent runs over Server-Sent Events. Each POST carries one
// RunAgentInput; the response streams the run's events as SSE frames until
// the run ends or the client disconnects.
type Handler struct {
	runner Runner
	log    *slog.Logger
}

// NewHandler creates an SSE handler for the given runner. A nil logger
// falls back to slog.Default.
func NewHandler(runner Runner, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{runner: runner, log: log}
}

// ServeHTTP handles POST requests to run the agent and stream events via SSE.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.log.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input wire.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if input.ThreadID == "" {
		input.ThreadID = wire.GenerateThreadID()
	}
	if input.RunID == "" {
		input.RunID = wire.GenerateRunID()
	}

	log := h.log.With("run_id", input.RunID, "thread_id", input.ThreadID)
	log.Info("request started", "message_count", len(input.Messages), "frontend_tools", len(input.Tools))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	stream := h.runner.Stream(ctx, input)

	var eventCount int
	var finished bool
	for ev := range stream {
		eventCount++
		if err := writeEvent(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
			// Drain so the run goroutine can exit.
			for range stream {
			}
			return
		}
		if ev.Type() == events.EventTypeRunFinished {
			// RUN_FINISHED is the terminal event of a successful run;
			// nothing after it belongs on the wire.
			finished = true
			break
		}
	}
	for range stream {
	}

	duration := time.Since(start)
	if finished {
		log.Info("request completed", "duration_ms", duration.Milliseconds(), "events_sent", eventCount)
	} else {
		log.Warn("run ended without completion", "duration_ms", duration.Milliseconds(), "events_sent", eventCount)
	}
}

// writeEvent writes one protocol event as an SSE frame.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, ev events.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	// SSE frame: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// CORS wraps a handler with permissive cross-origin headers for browser
// frontends. Preflight OPTIONS requests are answered directly.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
