package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/tool"
)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages([]core.Message{
		core.SystemMessage{Content: "sys"},
		core.UserMessage{Content: "add 1 and 2"},
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}}},
		core.ToolResultMessage{CallID: "c1", Name: "add", Content: "3"},
		core.AssistantMessage{Content: "3"},
	})
	require.Len(t, msgs, 5)

	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)

	require.NotNil(t, msgs[2].OfAssistant)
	require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "c1", msgs[2].OfAssistant.ToolCalls[0].ID)
	assert.Equal(t, "add", msgs[2].OfAssistant.ToolCalls[0].Function.Name)

	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)

	require.NotNil(t, msgs[4].OfAssistant)
	assert.Empty(t, msgs[4].OfAssistant.ToolCalls)
}

func TestBuildTools(t *testing.T) {
	add := tool.MustNewTypedTool("add", "Adds", func(_ context.Context, p struct {
		A int `json:"a"`
		B int `json:"b"`
	}) (any, error) {
		return p.A + p.B, nil
	})

	tools, err := buildTools([]tool.Definition{tool.DefinitionOf(add)})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "add", tools[0].Function.Name)
	assert.Equal(t, "object", tools[0].Function.Parameters["type"])
	assert.Contains(t, tools[0].Function.Parameters, "properties")
}

func TestOrderedCalls(t *testing.T) {
	calls := orderedCalls(map[int64]*aggCall{
		1: {id: "b", name: "multiply", args: "{}"},
		0: {id: "a", name: "add", args: "{}"},
	})
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].ID)
	assert.Equal(t, "b", calls[1].ID)
	assert.Nil(t, orderedCalls(nil))
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-test"
		o.APIKey = "sk-test"
	})
	assert.Equal(t, "gpt-test", m.Info().Name)
	assert.Equal(t, "openai", m.Info().Provider)
}
