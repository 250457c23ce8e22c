package agentwire

import "encoding/json"

// Context is an out-of-band fact supplied to a run, injected into the
// generation backend's prompt.
type Context struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// RunAgentInput is the request for a single agent run. It is immutable for
// the duration of the run.
type RunAgentInput struct {
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
	// State is the opaque shared-state value held by the frontend, if any.
	State json.RawMessage `json:"state,omitempty"`
	// Messages is the conversation transcript so far.
	Messages []Message `json:"messages"`
	// Tools are the frontend tool definitions for this run. They are never
	// executable server-side; the engine only announces their calls.
	Tools []Tool `json:"tools,omitempty"`
	// Context items supply out-of-band facts for the run.
	Context []Context `json:"context,omitempty"`
	// ForwardedProps is opaque data passed through from the frontend.
	ForwardedProps json.RawMessage `json:"forwardedProps,omitempty"`
}

// FrontendToolNames returns the names of the frontend tools in the input.
func (in RunAgentInput) FrontendToolNames() []string {
	if len(in.Tools) == 0 {
		return nil
	}
	names := make([]string, len(in.Tools))
	for i, t := range in.Tools {
		names[i] = t.Name
	}
	return names
}
