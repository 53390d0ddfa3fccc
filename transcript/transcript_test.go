package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
)

func TestRender(t *testing.T) {
	msgs := []core.Message{
		core.SystemMessage{Content: "be nice"},
		core.UserMessage{Content: "hi"},
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "1", Name: "add"}}},
		core.ToolResultMessage{CallID: "1", Name: "add", Content: "52"},
		core.AssistantMessage{Content: "hello"},
		core.UserMessage{Content: "bye"},
	}

	want := "Your Conversation Log:\n" +
		"You: hi\n" +
		"AI: hello\n\n" +
		"You: bye\n" +
		"End of Conversation"
	assert.Equal(t, want, Render(msgs))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "Your Conversation Log:\nEnd of Conversation", Render(nil))
}

func TestSave(t *testing.T) {
	store := artifact.NewInMemoryStore()
	ctx := context.Background()

	loc, err := Save(ctx, store, "", []core.Message{core.UserMessage{Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultName, loc)

	data, err := store.Get(ctx, DefaultName)
	require.NoError(t, err)
	assert.Equal(t, "Your Conversation Log:\nYou: hi\nEnd of Conversation", string(data))
}
