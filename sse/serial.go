package sse

import (
	"context"
	"sync"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/events"
)

// Serialize wraps a runner so at most one run executes at a time. Agents
// carry per-run working state and are not safe for concurrent runs; mounting
// one shared instance on an HTTP handler needs this wrapper so simultaneous
// requests queue instead of racing on it. Runs that arrive while another is
// in flight wait their turn; a waiter whose request context is cancelled
// before its turn comes produces no events.
func Serialize(runner Runner) Runner {
	var mu sync.Mutex
	return RunnerFunc(func(ctx context.Context, input wire.RunAgentInput) <-chan events.Event {
		out := make(chan events.Event)
		go func() {
			defer close(out)

			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return
			}

			stream := runner.Stream(ctx, input)
			for ev := range stream {
				select {
				case out <- ev:
				case <-ctx.Done():
					// Drain so the run goroutine can exit.
					for range stream {
					}
					return
				}
			}
		}()
		return out
	})
}
