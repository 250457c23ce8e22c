package agentwire

import (
	"context"
	"encoding/json"
)

// ChunkKind identifies the content carried by a ChunkItem.
type ChunkKind string

const (
	ChunkText       ChunkKind = "text"
	ChunkToolCall   ChunkKind = "tool_call"
	ChunkToolResult ChunkKind = "tool_result"
	ChunkUsage      ChunkKind = "usage"
)

// ChunkItem is one content item inside a StreamChunk. Kind is the variant
// tag; items of an unrecognized kind are ignored by consumers.
type ChunkItem struct {
	Kind       ChunkKind
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
	Usage      *Usage
}

// StreamChunk is one update from a streaming generation request. A chunk
// belongs to a message and carries zero or more content items.
type StreamChunk struct {
	// MessageID identifies the message this chunk belongs to. May be empty
	// if the provider does not assign message identifiers.
	MessageID string
	Items     []ChunkItem
	// Err carries a stream failure. When set the stream terminates and no
	// further chunks follow.
	Err error
}

// ToolExecutor resolves and invokes backend tools on behalf of a provider.
// Frontend tools are not resolvable through an executor; their calls are
// announced to the frontend and answered on a subsequent run.
type ToolExecutor interface {
	// Has reports whether the named tool has a backend handler.
	Has(name string) bool
	// Execute invokes the named backend tool.
	Execute(ctx context.Context, call ToolCall) (ToolResult, error)
}

// StreamRequest describes one streaming generation request.
type StreamRequest struct {
	Messages []Message
	// Tools holds every tool definition the model may call, frontend and
	// backend alike.
	Tools []Tool
	// Executor resolves backend tools. Providers must invoke a tool through
	// the executor when Has reports true and surface the outcome as a
	// ChunkToolResult item; calls the executor cannot resolve are emitted
	// as ChunkToolCall items only.
	Executor ToolExecutor
}

// ExtractionRequest describes a single-shot structured completion, used for
// auxiliary extraction tasks outside the streaming loop.
type ExtractionRequest struct {
	Messages []Message
	// Schema is the JSON Schema the response must validate against.
	Schema json.RawMessage
}

// ModelProvider is the generation backend boundary. Implementations adapt a
// concrete model API to an ordered, cancellable stream of content chunks.
type ModelProvider interface {
	// Stream starts a generation request. The returned channel is closed
	// when the stream completes; a chunk with Err set terminates it.
	Stream(ctx context.Context, req StreamRequest) (<-chan StreamChunk, error)

	// Extract performs a schema-validated single-shot completion and
	// returns the raw structured result.
	Extract(ctx context.Context, req ExtractionRequest) (json.RawMessage, error)
}
