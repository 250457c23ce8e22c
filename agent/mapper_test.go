package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/agentwire/agentwire"
)

func TestResolveMessagesPreservesByDefault(t *testing.T) {
	a := New(&scriptProvider{}, nil)
	input := runInput(
		wire.NewSystemMessage("keep me"),
		wire.NewUserMessage("hi"),
	)

	resolved := a.resolveMessages(input, nil)

	require.Len(t, resolved, 2)
	assert.Equal(t, wire.RoleSystem, resolved[0].Role)
	assert.Equal(t, "keep me", resolved[0].Content)
}

func TestResolveMessagesStripsWhenNotPreserving(t *testing.T) {
	a := New(&scriptProvider{}, nil, WithPreserveSystemMessages(false))
	input := runInput(
		wire.NewSystemMessage("drop me"),
		wire.NewUserMessage("hi"),
	)

	resolved := a.resolveMessages(input, nil)

	require.Len(t, resolved, 1)
	assert.Equal(t, wire.RoleUser, resolved[0].Role)
}

func TestResolveMessagesOverrideWinsOverPreserve(t *testing.T) {
	a := New(&scriptProvider{}, nil, WithSystemMessage("override"))
	input := runInput(
		wire.NewSystemMessage("inbound"),
		wire.NewUserMessage("hi"),
	)

	resolved := a.resolveMessages(input, nil)

	require.Len(t, resolved, 2)
	assert.Equal(t, "override", resolved[0].Content)
	assert.Equal(t, wire.RoleUser, resolved[1].Role)
}

func TestResolveMessagesDropsDeveloperRole(t *testing.T) {
	a := New(&scriptProvider{}, nil)
	input := runInput(
		wire.Message{ID: "m1", Role: wire.RoleDeveloper, Content: "debug note"},
		wire.NewUserMessage("hi"),
	)

	resolved := a.resolveMessages(input, nil)

	require.Len(t, resolved, 1)
	assert.Equal(t, wire.RoleUser, resolved[0].Role)
}

func TestSystemMessageContextInclusion(t *testing.T) {
	a := New(&scriptProvider{}, nil,
		WithSystemMessage("base"),
		WithContextInSystemMessage(true),
	)
	items := []wire.Context{{Description: "user name", Value: "Ada"}}

	content := a.prepareSystemMessage(runInput(), "base", items)

	assert.Contains(t, content, "base")
	assert.Contains(t, content, "user name")
	assert.Contains(t, content, "Ada")
}

func TestSystemMessagePreparerOverride(t *testing.T) {
	a := New(&scriptProvider{}, nil,
		WithSystemMessage("base"),
		WithSystemMessagePreparer(func(input wire.RunAgentInput, systemMessage string, items []wire.Context) string {
			return systemMessage + " [prepared]"
		}),
	)

	content := a.prepareSystemMessage(runInput(), "base", nil)
	assert.Equal(t, "base [prepared]", content)
}
