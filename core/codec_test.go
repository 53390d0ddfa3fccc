package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalState_RoundTrip(t *testing.T) {
	st, err := NewConversationState(
		SystemMessage{Content: "sys"},
		UserMessage{Content: "add 1 and 2"},
		AssistantMessage{ToolCalls: []ToolCall{{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}}},
		ToolResultMessage{CallID: "c1", Name: "add", Content: "3"},
		ToolResultMessage{CallID: "c2", Name: "save", Content: "saved", Signal: SignalDocumentSaved},
		ToolResultMessage{CallID: "c3", Content: "Error: unknown", IsError: true},
		AssistantMessage{Content: "3"},
	)
	require.NoError(t, err)

	raw, err := MarshalState(st)
	require.NoError(t, err)

	back, err := UnmarshalState(raw)
	require.NoError(t, err)
	assert.Equal(t, st.ID, back.ID)
	assert.True(t, st.Created.Equal(back.Created))
	assert.Equal(t, st.Messages(), back.Messages())
}

func TestUnmarshalState_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing id", `{"messages":[]}`},
		{"unknown role", `{"id":"x","messages":[{"role":"narrator","content":"once"}]}`},
		{"result without call id", `{"id":"x","messages":[{"role":"tool","content":"3"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalState([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
