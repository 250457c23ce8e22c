package agent

import (
	"encoding/json"

	wire "github.com/agentwire/agentwire"
)

// resolveMessages maps the run input transcript into the representation
// handed to the generation backend: the effective system message is
// resolved per configuration and developer messages are dropped, since
// providers have no representation for them.
func (a *Agent) resolveMessages(input wire.RunAgentInput, items []wire.Context) []wire.Message {
	var resolved []wire.Message

	switch {
	// An agent-specific system message overrides any inbound system
	// messages regardless of the preserve setting.
	case a.opts.SystemMessage != "":
		content := a.prepareSystemMessage(input, a.opts.SystemMessage, items)
		resolved = append(resolved, wire.NewSystemMessage(content))
		resolved = append(resolved, withoutRole(input.Messages, wire.RoleSystem)...)

	case !a.opts.PreserveSystemMessages:
		resolved = withoutRole(input.Messages, wire.RoleSystem)

	default:
		resolved = input.Messages
	}

	return withoutRole(resolved, wire.RoleDeveloper)
}

// prepareSystemMessage produces the final overriding system message,
// honouring the configured preparer and the context-inclusion setting.
func (a *Agent) prepareSystemMessage(input wire.RunAgentInput, systemMessage string, items []wire.Context) string {
	if a.opts.PrepareSystemMessage != nil {
		return a.opts.PrepareSystemMessage(input, systemMessage, items)
	}
	return defaultSystemMessage(a.opts, systemMessage, items)
}

func defaultSystemMessage(opts *Options, systemMessage string, items []wire.Context) string {
	if !opts.IncludeContextInSystemMessage || len(items) == 0 {
		return systemMessage
	}
	serialized, err := json.Marshal(items)
	if err != nil {
		return systemMessage
	}
	return systemMessage + "\n\nThe following context is available to you:\n```" + string(serialized) + "```"
}

// withoutRole filters messages of the given role out of a transcript.
func withoutRole(messages []wire.Message, role wire.Role) []wire.Message {
	filtered := make([]wire.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == role {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}
