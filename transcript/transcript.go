// Package transcript renders a conversation log into the plain text format
// written at the end of an interactive session.
package transcript

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
)

const (
	// DefaultName is the artifact name sessions save their transcript under.
	DefaultName = "chatbot-conversation.txt"

	header  = "Your Conversation Log:\n"
	trailer = "End of Conversation"
)

// Write renders msgs to w. Only user and assistant text is included; system
// instructions, tool results and tool-call-only assistant turns are skipped.
func Write(w io.Writer, msgs []core.Message) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	for _, m := range msgs {
		switch v := m.(type) {
		case core.UserMessage:
			if _, err := bw.WriteString("You: " + v.Content + "\n"); err != nil {
				return err
			}
		case core.AssistantMessage:
			if v.Content == "" {
				continue
			}
			if _, err := bw.WriteString("AI: " + v.Content + "\n\n"); err != nil {
				return err
			}
		case core.SystemMessage, core.ToolResultMessage:
		}
	}
	if _, err := bw.WriteString(trailer); err != nil {
		return err
	}
	return bw.Flush()
}

// Render returns the transcript as a string.
func Render(msgs []core.Message) string {
	var buf bytes.Buffer
	_ = Write(&buf, msgs)
	return buf.String()
}

// Save stores the transcript under name (DefaultName when empty) and returns
// its location.
func Save(ctx context.Context, store artifact.Store, name string, msgs []core.Message) (string, error) {
	if name == "" {
		name = DefaultName
	}
	if err := store.Save(ctx, name, []byte(Render(msgs))); err != nil {
		return "", err
	}
	return artifact.LocationOf(store, name), nil
}
