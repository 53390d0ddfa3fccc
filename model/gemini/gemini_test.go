package gemini

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/hupe1980/agentgraph/core"
)

func TestBuildContents(t *testing.T) {
	contents := buildContents([]core.Message{
		core.SystemMessage{Content: "sys"},
		core.UserMessage{Content: "multiply"},
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "c1", Name: "multiply", Arguments: `{"a":52,"b":6}`}}},
		core.ToolResultMessage{CallID: "c1", Name: "multiply", Content: "312"},
		core.ToolResultMessage{CallID: "c2", Name: "divide", Content: "boom", IsError: true},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, roleUser, contents[0].Role)
	assert.Equal(t, roleModel, contents[1].Role)

	fc := contents[1].Parts[0].FunctionCall
	require.NotNil(t, fc)
	assert.Equal(t, "multiply", fc.Name)
	assert.Equal(t, "c1", fc.ID)
	assert.EqualValues(t, 52, fc.Args["a"])

	require.Len(t, contents[2].Parts, 2)
	assert.Equal(t, "312", contents[2].Parts[0].FunctionResponse.Response["output"])
	assert.Equal(t, "boom", contents[2].Parts[1].FunctionResponse.Response["error"])
}

func TestConvertParts(t *testing.T) {
	msg, err := convertParts([]*genai.Part{
		{Text: "thinking", Thought: true},
		{Text: "answer"},
		{FunctionCall: &genai.FunctionCall{ID: "x", Name: "add", Args: map[string]any{"a": 1}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	assert.JSONEq(t, `{"a":1}`, msg.ToolCalls[0].Arguments)
}

func TestConvertSchema(t *testing.T) {
	gs := convertSchema(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"a":    {Type: "integer", Description: "first"},
			"tags": {Types: []string{"null", "array"}, Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"a"},
	})
	assert.Equal(t, genai.TypeObject, gs.Type)
	assert.Equal(t, genai.TypeInteger, gs.Properties["a"].Type)
	assert.Equal(t, "first", gs.Properties["a"].Description)
	assert.Equal(t, genai.TypeArray, gs.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, gs.Properties["tags"].Items.Type)
	assert.Equal(t, []string{"a"}, gs.Required)

	assert.Equal(t, genai.TypeObject, convertSchema(nil).Type)
}
