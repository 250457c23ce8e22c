package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSystemMessageRequired is returned when a stateful agent is constructed
// without a configured system message.
var ErrSystemMessageRequired = errors.New("agent: system message must be configured for a stateful agent")

// ToolConflictError is a fatal configuration error: one or more tool names
// appear in both the frontend and backend tool sets for a run. It is
// detected before any event is emitted.
type ToolConflictError struct {
	Names []string
}

// Error returns a formatted message naming the conflicting tools.
func (e *ToolConflictError) Error() string {
	return fmt.Sprintf(
		"agent: frontend and backend tools conflict by name: %s",
		strings.Join(e.Names, ", "),
	)
}

// UntrackedToolCallError is a protocol invariant violation: the provider
// emitted a result for a tool call the run never observed. It aborts the
// streaming loop.
type UntrackedToolCallError struct {
	ToolCallID string
}

// Error returns a formatted message including the untracked call id.
func (e *UntrackedToolCallError) Error() string {
	return fmt.Sprintf("agent: tool result for untracked tool call %q", e.ToolCallID)
}
