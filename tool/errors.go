package tool

import (
	"errors"
	"fmt"
)

// Code categorizes tool failures.
type Code string

const (
	// CodeUnknownTool marks a call naming a tool that is not registered.
	CodeUnknownTool Code = "UNKNOWN_TOOL"
	// CodeArgument marks an argument bundle that failed decoding or schema validation.
	CodeArgument Code = "ARGUMENT_ERROR"
	// CodeExecution marks a failure raised by the tool function itself.
	CodeExecution Code = "EXECUTION_ERROR"
)

var (
	// ErrUnknownTool matches any *ToolError with CodeUnknownTool.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrArgument matches any *ToolError with CodeArgument.
	ErrArgument = errors.New("invalid tool arguments")
	// ErrToolExecution matches any *ToolError with CodeExecution.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrDuplicateTool matches any *DuplicateToolError.
	ErrDuplicateTool = errors.New("duplicate tool")
)

// ToolError represents errors that occur while resolving or executing a tool call.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    Code   `json:"code"`    // Error code for categorization
	Err     error  `json:"-"`       // Underlying cause, if any
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ToolError) Unwrap() error { return e.Err }

// Is maps the error code onto the package sentinels.
func (e *ToolError) Is(target error) bool {
	switch target {
	case ErrUnknownTool:
		return e.Code == CodeUnknownTool
	case ErrArgument:
		return e.Code == CodeArgument
	case ErrToolExecution:
		return e.Code == CodeExecution
	}
	return false
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message string, code Code) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// DuplicateToolError is returned when registering a name twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// Is reports whether target is ErrDuplicateTool.
func (e *DuplicateToolError) Is(target error) bool { return target == ErrDuplicateTool }

// panicError converts a recovered panic value to an error.
type panicError struct{ val any }

func (p *panicError) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }
