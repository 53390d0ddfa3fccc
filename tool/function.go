package tool

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/hupe1980/agentgraph/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds the JSON schema describing accepted arguments
//   - Invokes the wrapped function with arguments the Registry already validated
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction and is safe for
//	concurrent use. Side effects live in whatever the wrapped function closes over.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// JSON schema describing accepted arguments
	parameters *jsonschema.Schema
	// User supplied implementation
	fn func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and function.
//
// Example:
//
//	echo := NewFunctionTool(
//	  "echo",
//	  "Repeat the given text",
//	  &jsonschema.Schema{
//	    Type:       "object",
//	    Properties: map[string]*jsonschema.Schema{"text": {Type: "string"}},
//	    Required:   []string{"text"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return args["text"], nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters *jsonschema.Schema,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	if parameters == nil {
		parameters = util.EmptyObjectSchema()
	}
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewTypedTool derives the parameter schema from the argument type T and
// decodes validated arguments into a T before calling fn. Field names follow
// the json tags; the jsonschema tag supplies per-field descriptions.
//
// Example:
//
//	type pair struct {
//	  A int `json:"a" jsonschema:"first operand"`
//	  B int `json:"b" jsonschema:"second operand"`
//	}
//
//	add, err := NewTypedTool("add", "Adds two numbers together",
//	  func(_ context.Context, p pair) (any, error) { return p.A + p.B, nil })
func NewTypedTool[T any](
	name, description string,
	fn func(ctx context.Context, args T) (any, error),
) (*FunctionTool, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("derive schema for tool %s: %w", name, err)
	}

	return NewFunctionTool(name, description, schema, func(ctx context.Context, raw map[string]any) (any, error) {
		var args T
		if err := util.Remarshal(raw, &args); err != nil {
			return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeArgument, Err: err}
		}
		return fn(ctx, args)
	}), nil
}

// MustNewTypedTool is like NewTypedTool but panics on schema derivation errors.
// Intended for package level tool tables built from static types.
func MustNewTypedTool[T any](
	name, description string,
	fn func(ctx context.Context, args T) (any, error),
) *FunctionTool {
	t, err := NewTypedTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the unique tool name used in tool call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() *jsonschema.Schema { return t.parameters }

// Call invokes the underlying function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}
