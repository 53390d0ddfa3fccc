package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	A int `json:"a" jsonschema:"first operand"`
	B int `json:"b" jsonschema:"second operand"`
}

func addTool(t *testing.T) Tool {
	t.Helper()
	add, err := NewTypedTool("add", "Adds two numbers together", func(_ context.Context, p pair) (any, error) {
		return p.A + p.B, nil
	})
	require.NoError(t, err)
	return add
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))

	err := r.Register(addTool(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)

	var dup *DuplicateToolError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "add", dup.Name)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DefinitionsKeepOrder(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, map[string]any) (any, error) { return "ok", nil }
	require.NoError(t, r.RegisterAll(
		NewFunctionTool("b", "second", nil, noop),
		NewFunctionTool("a", "first", nil, noop),
	))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
	assert.NotNil(t, defs[1].Parameters)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))

	got, ok := r.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, "Adds two numbers together", got.Description())

	_, ok = r.Lookup("")
	assert.False(t, ok)
}

func TestRegistry_ExecuteNamelessCall(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))

	res := r.Execute(context.Background(), core.ToolCall{ID: "c1", Arguments: `{}`})
	assert.True(t, res.IsError)
	assert.Equal(t, "c1", res.CallID)
	assert.Contains(t, res.Content, string(CodeUnknownTool))
}

func TestRegistry_InvokeSuccess(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))

	res, err := r.Invoke(context.Background(), "add", `{"a": 40, "b": 12}`)
	require.NoError(t, err)
	assert.Equal(t, "52", res.Text)
}

func TestRegistry_InvokeErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))
	require.NoError(t, r.Register(NewFunctionTool("fail", "Fails", nil, func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("boom")
	})))
	require.NoError(t, r.Register(NewFunctionTool("panic", "Panics", nil, func(context.Context, map[string]any) (any, error) {
		panic("kaboom")
	})))

	tests := []struct {
		name     string
		tool     string
		args     string
		sentinel error
		code     Code
	}{
		{"unknown tool", "divide", `{}`, ErrUnknownTool, CodeUnknownTool},
		{"missing argument", "add", `{"a": 1}`, ErrArgument, CodeArgument},
		{"wrong type", "add", `{"a": "one", "b": 2}`, ErrArgument, CodeArgument},
		{"not json", "add", `[1,2]`, ErrArgument, CodeArgument},
		{"function error", "fail", ``, ErrToolExecution, CodeExecution},
		{"panic", "panic", ``, ErrToolExecution, CodeExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Invoke(context.Background(), tt.tool, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var toolErr *ToolError
			require.True(t, errors.As(err, &toolErr))
			assert.Equal(t, tt.code, toolErr.Code)
			assert.Equal(t, tt.tool, toolErr.Tool)
		})
	}
}

func TestRegistry_InvokeRepairsArguments(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(addTool(t)))

	res, err := r.Invoke(context.Background(), "add", `{"a": 2, "b": 3,}`)
	require.NoError(t, err)
	assert.Equal(t, "5", res.Text)
}

func TestRegistry_ExecuteAbsorbsErrors(t *testing.T) {
	r := NewRegistry()

	msg := r.Execute(context.Background(), core.ToolCall{ID: "call-1", Name: "nope", Arguments: `{}`})
	assert.True(t, msg.IsError)
	assert.Equal(t, "call-1", msg.CallID)
	assert.Equal(t, "nope", msg.Name)
	assert.Contains(t, msg.Content, string(CodeUnknownTool))
}

func TestRegistry_ExecuteCarriesSignal(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewFunctionTool("save", "Saves", nil, func(context.Context, map[string]any) (any, error) {
		return Result{Text: "saved", Signal: "done"}, nil
	})))

	msg := r.Execute(context.Background(), core.ToolCall{ID: "c", Name: "save"})
	assert.False(t, msg.IsError)
	assert.Equal(t, "saved", msg.Content)
	assert.Equal(t, "done", msg.Signal)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{312, "312"},
		{map[string]int{"x": 1}, `{"x":1}`},
		{&Result{Text: "ptr"}, "ptr"},
		{errors.New("as text"), "as text"},
	}
	for _, tt := range tests {
		got, err := normalize(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Text)
	}
}

func TestNewTypedTool_Schema(t *testing.T) {
	add := addTool(t)
	schema := add.Parameters()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "a")
	assert.Contains(t, schema.Properties, "b")
	assert.ElementsMatch(t, []string{"a", "b"}, schema.Required)
	assert.Equal(t, "first operand", schema.Properties["a"].Description)
}

func TestToolError(t *testing.T) {
	err := NewToolError("x", "bad", CodeArgument)
	assert.Equal(t, "tool error [ARGUMENT_ERROR] in x: bad", err.Error())
	assert.ErrorIs(t, err, ErrArgument)
	assert.NotErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(NewFunctionTool("", "unnamed", nil, nil)))
	assert.Equal(t, 0, r.Len())
}
