// Package tool implements the function / tool calling subsystem that lets agents
// invoke structured capabilities (computations, side effects) with schema
// validated arguments, consistent error handling and descriptions for LLM guidance.
package tool

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a JSON schema for their parameters
//   - Return errors instead of panicking
//   - Document any side effect they perform
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when and how to use the tool.
	Description() string

	// Parameters returns the JSON schema describing the expected arguments.
	// The registry validates every call against it before Call runs.
	Parameters() *jsonschema.Schema

	// Call executes the tool with already decoded and validated arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Definition is the descriptor of a tool surfaced to the model for tool selection.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// DefinitionOf builds the Definition of a tool.
func DefinitionOf(t Tool) Definition {
	return Definition{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
}

// Result lets a tool return text together with a structured signal. Tools may
// also return plain strings or any JSON-serializable value.
type Result struct {
	Text   string `json:"text"`
	Signal string `json:"signal,omitempty"`
}

// String returns the result text.
func (r Result) String() string { return r.Text }
