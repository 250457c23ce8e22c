package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	wire "github.com/agentwire/agentwire"
	"github.com/agentwire/agentwire/tool"
)

// SetupDemoTools registers demo tools for exercising the server. They are
// enabled by default (AGENTWIRE_DEMO_TOOLS=true).
func SetupDemoTools(registry *tool.Registry) {
	// Weather tool, the classic demo
	must(tool.RegisterFunc(registry, wire.Tool{
		Name:        "get_weather",
		Description: "Get the current weather for a location",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"location": {"type": "string", "description": "City name, e.g. Paris"}
			},
			"required": ["location"]
		}`),
	}, func(ctx context.Context, args struct {
		Location string `json:"location"`
	}) (string, error) {
		return fmt.Sprintf(`{"location": %q, "temperature": 22, "conditions": "Sunny", "unit": "celsius"}`, args.Location), nil
	}))

	// Time tool
	must(tool.RegisterFunc(registry, wire.Tool{
		Name:        "get_time",
		Description: "Get the current time",
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, args struct{}) (string, error) {
		return fmt.Sprintf(`{"time": %q, "timezone": "UTC"}`, time.Now().UTC().Format(time.RFC3339)), nil
	}))

	// Echo tool, useful for testing
	must(tool.RegisterFunc(registry, wire.Tool{
		Name:        "echo",
		Description: "Echo back the input message (useful for testing)",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"input": {"type": "string", "description": "Message to echo back"}
			},
			"required": ["input"]
		}`),
	}, func(ctx context.Context, args struct {
		Input string `json:"input"`
	}) (string, error) {
		return fmt.Sprintf(`{"echo": %q}`, args.Input), nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
