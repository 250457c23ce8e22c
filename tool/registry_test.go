package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/agentwire/agentwire"
)

func echoTool() wire.Tool {
	return wire.Tool{
		Name:        "echo",
		Description: "Echoes input",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}
}

func echoHandler(ctx context.Context, call wire.ToolCall) (string, error) {
	return call.Function.Arguments, nil
}

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool(), echoHandler))

	call := wire.NewToolCall("call-1", "echo", `{"x":1}`)
	result, err := r.Execute(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, "call-1", result.ToolCallID)
	assert.Equal(t, `{"x":1}`, result.Content)
	assert.False(t, result.IsError)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool(), echoHandler))

	err := r.Register(echoTool(), echoHandler)
	var dup *ErrToolAlreadyRegistered
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Name)
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), wire.NewToolCall("call-1", "nope", "{}"))

	var notFound *ErrToolNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestExecuteHandlerErrorBecomesResult(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool(), func(ctx context.Context, call wire.ToolCall) (string, error) {
		return "", errors.New("backend exploded")
	}))

	result, err := r.Execute(context.Background(), wire.NewToolCall("call-1", "echo", "{}"))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "backend exploded", result.Content)
}

func TestFrontendToolsAreNotExecutable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterFrontendTool(wire.Tool{Name: "confirm_dialog"}))

	assert.True(t, r.IsFrontendTool("confirm_dialog"))
	assert.False(t, r.Has("confirm_dialog"))

	_, err := r.Execute(context.Background(), wire.NewToolCall("call-1", "confirm_dialog", "{}"))
	var frontend *ErrFrontendTool
	require.ErrorAs(t, err, &frontend)
}

func TestBackendAndFrontendNameSplit(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool(), echoHandler))
	require.NoError(t, r.RegisterFrontendTools([]wire.Tool{
		{Name: "pick_theme"},
		{Name: "confirm_dialog"},
	}))

	assert.ElementsMatch(t, []string{"echo"}, r.BackendToolNames())
	assert.ElementsMatch(t, []string{"pick_theme", "confirm_dialog"}, r.FrontendToolNames())
	assert.Equal(t, 3, r.Len())
}

func TestCloneIsolation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool(), echoHandler))

	clone := r.Clone()
	require.NoError(t, clone.Register(wire.Tool{Name: "extra"}, echoHandler))

	assert.True(t, clone.Has("extra"))
	assert.False(t, r.Has("extra"), "clone registration must not leak into the source")
}

func TestRegisterFuncTypedArguments(t *testing.T) {
	type args struct {
		City string `json:"city"`
	}

	r := NewRegistry()
	require.NoError(t, RegisterFunc(r, wire.Tool{Name: "weather"}, func(ctx context.Context, a args) (string, error) {
		return "sunny in " + a.City, nil
	}))

	result, err := r.Execute(context.Background(), wire.NewToolCall("call-1", "weather", `{"city":"Paris"}`))
	require.NoError(t, err)
	assert.Equal(t, "sunny in Paris", result.Content)

	// Malformed arguments surface as a recoverable tool error.
	result, err = r.Execute(context.Background(), wire.NewToolCall("call-2", "weather", `not json`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
