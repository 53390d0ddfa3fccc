package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/tool"
)

var _ session.Input = (*Console)(nil)

func TestConsole_Next(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("hello\r\nexit\n"), &out, func(o *Options) { o.Echo = true })
	ctx := context.Background()

	line, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exit", line)

	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, session.ErrInputClosed)

	assert.Contains(t, out.String(), "Enter: ")
	assert.Contains(t, out.String(), "USER: hello")
	assert.NotContains(t, out.String(), "USER: exit")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestConsole_ReadError(t *testing.T) {
	c := New(failingReader{}, io.Discard)
	_, err := c.Next(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrInputClosed)
}

func TestConsole_NextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c := New(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsole_LineAfterCancelIsKept(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c := New(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = pw.Write([]byte("later\n")) }()

	line, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "later", line)
}

func TestConsole_CloseStopsReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	c := New(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, c.Close())
	go func() { _, _ = pw.Write([]byte("a\nb\nc\n")) }()

	assert.Eventually(t, func() bool {
		select {
		case <-c.stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	_, err = c.Next(context.Background())
	assert.ErrorIs(t, err, session.ErrInputClosed)
}

func TestConsole_Callbacks(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	reg := tool.NewRegistry()
	require.NoError(t, reg.Register(tool.NewFunctionTool("add", "Adds", nil,
		func(context.Context, map[string]any) (any, error) { return 52, nil })))

	m := model.NewMockModel("mock", "mock")
	m.Enqueue(
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "1", Name: "add"}, {ID: "2", Name: "nope"}}},
		core.AssistantMessage{Content: "It is 52."},
	)
	eng, err := engine.New(m, reg, func(o *engine.Options) { o.Callbacks = c.Callbacks() })
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "USING TOOLS: add, nope")
	assert.Contains(t, s, "TOOL RESULT: 52")
	assert.Contains(t, s, "TOOL ERROR:")
	assert.Contains(t, s, "AI: It is 52.")
}

func TestConsole_Printers(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.Banner("DRAFTER")
	c.Info("saved to %s", "x.txt")
	c.Error(errors.New("boom"))
	c.Reply(core.AssistantMessage{})

	s := out.String()
	assert.Contains(t, s, "===== DRAFTER =====")
	assert.Contains(t, s, "saved to x.txt")
	assert.Contains(t, s, "ERROR: boom")
	assert.Contains(t, s, "AI:")
}
