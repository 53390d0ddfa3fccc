package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

func TestBuildMessages(t *testing.T) {
	msgs, err := buildMessages([]core.Message{
		core.SystemMessage{Content: "sys"},
		core.UserMessage{Content: "hi"},
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}}},
		core.ToolResultMessage{CallID: "c1", Name: "add", Content: "3"},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	require.Len(t, msgs[2].ToolCalls, 1)
	assert.Equal(t, "add", msgs[2].ToolCalls[0].Function.Name)
	assert.Equal(t, "tool", msgs[3].Role)
	assert.Equal(t, "c1", msgs[3].ToolCallID)
}

func TestBuildTools(t *testing.T) {
	echo := tool.NewFunctionTool("echo", "Echoes", nil, nil)
	tools, err := buildTools([]tool.Definition{tool.DefinitionOf(echo)})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Function.Name)
	assert.Equal(t, "Echoes", tools[0].Function.Description)

	none, err := buildTools(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGenerate_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"test-model","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"add","arguments":{"a":40,"b":12}}}]},"done":true,"done_reason":"stop","prompt_eval_count":10,"eval_count":5}`)
	}))
	defer srv.Close()

	m, err := NewModel(func(o *Options) {
		o.Model = "test-model"
		o.BaseURL = srv.URL
	})
	require.NoError(t, err)

	msg, err := model.NewInvoker(m).Invoke(context.Background(), model.Request{
		Messages: []core.Message{core.UserMessage{Content: "add 40 and 12"}},
	})
	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "add", msg.ToolCalls[0].Name)
	assert.JSONEq(t, `{"a":40,"b":12}`, msg.ToolCalls[0].Arguments)
	assert.NotEmpty(t, msg.ToolCalls[0].ID)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"model not loaded"}`)
	}))
	defer srv.Close()

	m, err := NewModel(func(o *Options) { o.BaseURL = srv.URL })
	require.NoError(t, err)

	_, err = model.NewInvoker(m).Invoke(context.Background(), model.Request{
		Messages: []core.Message{core.UserMessage{Content: "hi"}},
	})
	assert.ErrorIs(t, err, model.ErrInvocation)
}
