// Package tool provides the tool registry shared by the agent engine and
// generation-backend providers.
//
// A registry holds two kinds of tools. Backend tools carry a [Handler] and
// are executed server-side; frontend tools are definitions only, announced
// to the frontend which executes them out of band and reports results on a
// subsequent run.
//
//	registry := tool.NewRegistry()
//	registry.MustRegister(wire.Tool{
//	    Name:        "lookup",
//	    Description: "Look up a fact",
//	    Parameters:  json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`),
//	}, func(ctx context.Context, call wire.ToolCall) (string, error) {
//	    return doLookup(call.Function.Arguments)
//	})
//
// Registry is safe for concurrent use. Per-run augmentation (e.g. a run
// input's frontend tools) should go through [Registry.Clone] so concurrent
// runs never observe each other's tools.
package tool
