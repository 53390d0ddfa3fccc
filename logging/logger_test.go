package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewLogger_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf, Component: "engine"})

	l.Info("hidden")
	l.Warn("visible", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf})

	LogToolCall(l, "add", "c1", time.Millisecond, nil)
	LogToolCall(l, "add", "c2", time.Millisecond, errors.New("boom"))
	LogLLMCall(l, "mock", 12, time.Millisecond, nil)

	out := buf.String()
	assert.Contains(t, out, "tool.call.success")
	assert.Contains(t, out, "tool.call.error")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "token_count=12")
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	With(l, "conversation_id", "abc").Info("session.turn", "messages", 2)
	assert.Contains(t, buf.String(), `"conversation_id":"abc"`)
	assert.Contains(t, buf.String(), `"messages":2`)

	assert.IsType(t, NoOpLogger{}, With(NoOpLogger{}, "k", "v"))
	assert.IsType(t, NoOpLogger{}, With(nil, "k", "v"))
}
