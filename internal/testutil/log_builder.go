package testutil

import (
	"fmt"
	"testing"

	"github.com/hupe1980/agentgraph/core"
)

// LogBuilder provides a fluent helper for constructing conversation histories.
// Example:
//
//	msgs := NewLogBuilder().User("hi").Call("add", `{"a":1,"b":2}`).Result("3").Assistant("3").Messages()
//
// Call ids are generated as call_1, call_2, ... and Result answers the most
// recent call.
type LogBuilder struct {
	msgs     []core.Message
	calls    int
	lastCall core.ToolCall
}

// NewLogBuilder creates an empty builder.
func NewLogBuilder() *LogBuilder { return &LogBuilder{} }

// System appends a system message (chainable).
func (b *LogBuilder) System(text string) *LogBuilder {
	b.msgs = append(b.msgs, core.SystemMessage{Content: text})
	return b
}

// User appends a user message (chainable).
func (b *LogBuilder) User(text string) *LogBuilder {
	b.msgs = append(b.msgs, core.UserMessage{Content: text})
	return b
}

// Assistant appends a text-only assistant message (chainable).
func (b *LogBuilder) Assistant(text string) *LogBuilder {
	b.msgs = append(b.msgs, core.AssistantMessage{Content: text})
	return b
}

// Call appends an assistant message carrying one tool call (chainable).
func (b *LogBuilder) Call(name, args string) *LogBuilder {
	b.calls++
	b.lastCall = core.ToolCall{ID: fmt.Sprintf("call_%d", b.calls), Name: name, Arguments: args}
	b.msgs = append(b.msgs, core.AssistantMessage{ToolCalls: []core.ToolCall{b.lastCall}})
	return b
}

// Result appends a successful result for the most recent call (chainable).
func (b *LogBuilder) Result(content string) *LogBuilder {
	return b.result(core.ToolResultMessage{Content: content})
}

// ErrorResult appends an error result for the most recent call (chainable).
func (b *LogBuilder) ErrorResult(content string) *LogBuilder {
	return b.result(core.ToolResultMessage{Content: content, IsError: true})
}

// SignalResult appends a result carrying a structured signal (chainable).
func (b *LogBuilder) SignalResult(content, signal string) *LogBuilder {
	return b.result(core.ToolResultMessage{Content: content, Signal: signal})
}

func (b *LogBuilder) result(r core.ToolResultMessage) *LogBuilder {
	r.CallID = b.lastCall.ID
	if r.CallID == "" {
		b.calls++
		r.CallID = fmt.Sprintf("call_%d", b.calls)
	}
	r.Name = b.lastCall.Name
	b.msgs = append(b.msgs, r)
	return b
}

// Messages returns the built messages.
func (b *LogBuilder) Messages() []core.Message {
	return append([]core.Message(nil), b.msgs...)
}

// State builds a ConversationState seeded with the messages, failing the test
// on malformed input.
func (b *LogBuilder) State(t testing.TB) *core.ConversationState {
	t.Helper()
	s, err := core.NewConversationState(b.msgs...)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	return s
}
