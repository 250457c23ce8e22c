// Package main provides a reference HTTP server that exposes an agent over
// the protocol's Server-Sent Events transport.
//
// The server runs against a built-in echo backend, so it needs no API keys
// and works as a local target for protocol frontends like CopilotKit.
//
// Configuration is via environment variables:
//
//	AGENTWIRE_PORT             - Server port (default: 8000)
//	AGENTWIRE_LOG_LEVEL        - debug, info, warn, or error (default: info)
//	AGENTWIRE_SYSTEM_MESSAGE   - System message for the agent
//	AGENTWIRE_STATEFUL         - Serve a shared-state agent (default: false)
//	AGENTWIRE_DEMO_TOOLS       - Enable demo tools (default: true)
//	AGENTWIRE_RUN_ERROR_EVENTS - Emit RUN_ERROR on failures (default: true)
//
// Usage:
//
//	go run ./cmd/aguiserver
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/agent"
	"github.com/agentwire/agentwire/events"
	"github.com/agentwire/agentwire/sse"
	"github.com/agentwire/agentwire/tool"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	registry := tool.NewRegistry()
	if cfg.EnableDemoTools {
		SetupDemoTools(registry)
		logger.Info("registered demo tools", "count", registry.Len())
	}

	runner, err := buildRunner(cfg, registry)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/agent", sse.CORS(sse.NewHandler(runner, logger)))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server starting",
		"port", cfg.Port,
		"stateful", cfg.Stateful,
		"endpoint", "POST http://localhost:"+cfg.Port+"/api/agent",
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("server stopped")
}

// buildRunner assembles the engine behind the SSE endpoint. The plain agent
// is created fresh per run since it carries per-run framing state; the
// stateful variant is shared so its state document survives across runs,
// and serialized because a shared agent must not serve concurrent runs.
func buildRunner(cfg *Config, registry *tool.Registry) (sse.Runner, error) {
	opts := []agent.Option{
		agent.WithSystemMessage(cfg.SystemMessage),
		agent.WithRunErrorEvents(cfg.EmitRunErrors),
		agent.WithChannelBuffer(cfg.ChannelBuffer),
	}

	if cfg.Stateful {
		s, err := agent.NewStateful(EchoProvider{}, registry, map[string]any{}, opts...)
		if err != nil {
			return nil, err
		}
		return sse.Serialize(s), nil
	}

	return sse.RunnerFunc(func(ctx context.Context, input wire.RunAgentInput) <-chan events.Event {
		return agent.New(EchoProvider{}, registry, opts...).Stream(ctx, input)
	}), nil
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
