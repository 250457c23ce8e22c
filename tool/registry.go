package tool

import (
	"context"
	"encoding/json"
	"sync"

	wire "github.com/agentwire/agentwire"
)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool       wire.Tool
	handler    Handler
	isFrontend bool // true for frontend tools that have no server-side handler
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a backend tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(tool wire.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool wire.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// RegisterFrontendTool registers a tool definition without a handler.
// Frontend tools are executed by the frontend, not the backend. When the
// engine encounters a call to a frontend tool it announces the call but
// never executes it locally.
func (r *Registry) RegisterFrontendTool(tool wire.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:       tool,
		isFrontend: true,
	}
	return nil
}

// RegisterFrontendTools registers multiple frontend tool definitions.
func (r *Registry) RegisterFrontendTools(tools []wire.Tool) error {
	for _, t := range tools {
		if err := r.RegisterFrontendTool(t); err != nil {
			return err
		}
	}
	return nil
}

// IsFrontendTool returns true if the named tool is a frontend tool.
func (r *Registry) IsFrontendTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	return ok && rt.isFrontend
}

// Unregister removes a tool from the registry.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a handler by tool name.
// Returns the handler and true if found, or nil and false if not found.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// GetTool retrieves a tool definition by name.
// Returns the tool and true if found, or empty tool and false if not found.
func (r *Registry) GetTool(name string) (wire.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return wire.Tool{}, false
	}
	return rt.tool, true
}

// Tools returns all registered tool definitions, frontend and backend alike.
func (r *Registry) Tools() []wire.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]wire.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	return tools
}

// BackendToolNames returns the names of all registered backend tools.
func (r *Registry) BackendToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, rt := range r.tools {
		if !rt.isFrontend {
			names = append(names, name)
		}
	}
	return names
}

// FrontendToolNames returns the names of all registered frontend tools.
func (r *Registry) FrontendToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, rt := range r.tools {
		if rt.isFrontend {
			names = append(names, name)
		}
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Clone returns a shallow copy of the registry. Use it to augment a registry
// with run-scoped tools without mutating the shared instance.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	for name, rt := range r.tools {
		clone.tools[name] = rt
	}
	return clone
}

// Has reports whether the named tool has a backend handler.
// Has is part of the [wire.ToolExecutor] contract.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	return ok && !rt.isFrontend
}

// Execute runs the handler for a tool call and returns a ToolResult.
// If the tool is not found, returns ErrToolNotFound.
// If the tool is a frontend tool, returns ErrFrontendTool.
// If the handler returns an error, the error is captured in ToolResult.IsError
// and the error message is returned as the content (allowing the model to recover).
func (r *Registry) Execute(ctx context.Context, call wire.ToolCall) (wire.ToolResult, error) {
	name := call.Function.Name

	r.mu.RLock()
	rt, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return wire.ToolResult{}, &ErrToolNotFound{Name: name}
	}

	if rt.isFrontend {
		return wire.ToolResult{}, &ErrFrontendTool{Name: name}
	}

	content, err := rt.handler(ctx, call)
	if err != nil {
		// Return the error as a tool result so the model can recover
		return wire.ToolResult{
			ToolCallID: call.ID,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}

	return wire.ToolResult{
		ToolCallID: call.ID,
		Content:    content,
	}, nil
}

// RegisterFunc registers a backend tool with a typed handler that unmarshals
// the arguments JSON into T before invocation.
func RegisterFunc[T any](r *Registry, tool wire.Tool, fn TypedHandler[T]) error {
	handler := func(ctx context.Context, call wire.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
	return r.Register(tool, handler)
}
