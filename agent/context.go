package agent

import (
	"context"
	"encoding/json"
	"strings"

	wire "github.com/agentwire/agentwire"
)

// contextItemsSchema is the JSON Schema for the structured extraction result.
var contextItemsSchema = json.RawMessage(`{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"description": {"type": "string"},
			"value": {"type": "string"}
		},
		"required": ["description", "value"]
	}
}`)

const extractionPrompt = `<persona>
You are an expert at extracting context from a provided system message.
</persona>

<rules>
- You MUST always respond in JSON according to the provided schema.
- You MUST correlate and deduplicate context from the provided system message and any existing context.
- You MUST preserve the ` + "`description`" + ` and ` + "`value`" + ` properties of the context VERBATIM wherever possible.
</rules>

<existingContext>
` + "```json\n%EXISTING%\n```" + `
</existingContext>

<providedSystemMessage>
%SYSTEM%
</providedSystemMessage>`

// prepareContext resolves the context items for a run. The default passes
// the input context through; with extraction enabled and system messages
// present, a single structured-extraction request merges context from the
// system messages with the existing context. Extraction failures fall back
// silently to the input context; only cancellation is propagated.
func (a *Agent) prepareContext(ctx context.Context, input wire.RunAgentInput) ([]wire.Context, error) {
	if a.opts.PrepareContext != nil {
		items, err := a.opts.PrepareContext(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return input.Context, nil
		}
		return items, nil
	}

	if !a.opts.ExtractContext {
		return input.Context, nil
	}

	var systemContents []string
	for _, m := range input.Messages {
		if m.Role == wire.RoleSystem {
			systemContents = append(systemContents, m.Content)
		}
	}
	if len(systemContents) == 0 {
		return input.Context, nil
	}

	existing, err := json.Marshal(input.Context)
	if err != nil {
		return input.Context, nil
	}

	prompt := strings.NewReplacer(
		"%EXISTING%", string(existing),
		"%SYSTEM%", strings.Join(systemContents, "\n"),
	).Replace(extractionPrompt)

	raw, err := a.provider.Extract(ctx, wire.ExtractionRequest{
		Messages: []wire.Message{wire.NewSystemMessage(prompt)},
		Schema:   contextItemsSchema,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return input.Context, nil
	}

	var items []wire.Context
	if err := json.Unmarshal(raw, &items); err != nil {
		// Malformed extraction result, keep the context as-is.
		return input.Context, nil
	}
	return items, nil
}
