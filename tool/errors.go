package tool

import "fmt"

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrFrontendTool is returned when execution is attempted on a frontend tool,
// which has no server-side handler.
type ErrFrontendTool struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrFrontendTool) Error() string {
	return fmt.Sprintf("tool: %s is a frontend tool and cannot be executed server-side", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
