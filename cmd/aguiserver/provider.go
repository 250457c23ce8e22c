package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	wire "github.com/agentwire/agentwire"
)

// EchoProvider is a self-contained generation backend for demos and local
// frontend development. It streams the last user message back word by word
// and triggers a tool call when the message starts with "call <tool>".
// It needs no API key and produces a fully valid event stream.
type EchoProvider struct{}

func (EchoProvider) Stream(ctx context.Context, req wire.StreamRequest) (<-chan wire.StreamChunk, error) {
	prompt := lastUserMessage(req.Messages)
	out := make(chan wire.StreamChunk, 8)

	go func() {
		defer close(out)

		messageID := wire.GenerateMessageID()
		send := func(chunk wire.StreamChunk) bool {
			select {
			case out <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if name, args, ok := parseToolCommand(prompt, req.Tools); ok {
			call := wire.NewToolCall(wire.GenerateToolCallID(), name, args)
			if !send(wire.StreamChunk{
				MessageID: messageID,
				Items:     []wire.ChunkItem{{Kind: wire.ChunkToolCall, ToolCall: &call}},
			}) {
				return
			}

			// Backend tools run here; frontend tools are announce-only and
			// the frontend reports their result on the next run.
			if req.Executor != nil && req.Executor.Has(name) {
				result, err := req.Executor.Execute(ctx, call)
				if err != nil {
					send(wire.StreamChunk{Err: err})
					return
				}
				if !send(wire.StreamChunk{
					MessageID: wire.GenerateMessageID(),
					Items:     []wire.ChunkItem{{Kind: wire.ChunkToolResult, ToolResult: &result}},
				}) {
					return
				}
				if !send(wire.StreamChunk{
					MessageID: wire.GenerateMessageID(),
					Items:     []wire.ChunkItem{{Kind: wire.ChunkText, Text: "Tool " + name + " returned: " + result.Content}},
				}) {
					return
				}
			}
		} else {
			reply := "You said: " + prompt
			if prompt == "" {
				reply = "Hello! Send a message and I will echo it back."
			}
			for _, word := range strings.SplitAfter(reply, " ") {
				if !send(wire.StreamChunk{
					MessageID: messageID,
					Items:     []wire.ChunkItem{{Kind: wire.ChunkText, Text: word}},
				}) {
					return
				}
			}
		}

		send(wire.StreamChunk{
			Items: []wire.ChunkItem{{Kind: wire.ChunkUsage, Usage: &wire.Usage{
				InputTokens:  len(strings.Fields(prompt)),
				OutputTokens: len(strings.Fields(prompt)) + 3,
			}}},
		})
	}()

	return out, nil
}

func (EchoProvider) Extract(ctx context.Context, req wire.ExtractionRequest) (json.RawMessage, error) {
	return nil, errors.New("echo provider does not support extraction")
}

func lastUserMessage(messages []wire.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == wire.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// parseToolCommand recognizes "call <tool> [json args]" prompts against the
// advertised tool set.
func parseToolCommand(prompt string, tools []wire.Tool) (name, args string, ok bool) {
	fields := strings.Fields(prompt)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "call") {
		return "", "", false
	}
	for _, t := range tools {
		if t.Name != fields[1] {
			continue
		}
		args = "{}"
		if len(fields) > 2 {
			rest := strings.Join(fields[2:], " ")
			if json.Valid([]byte(rest)) {
				args = rest
			} else {
				args = fmt.Sprintf(`{"input":%q}`, rest)
			}
		}
		return t.Name, args, true
	}
	return "", "", false
}
