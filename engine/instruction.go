package engine

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
)

// InstructionProvider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the conversation, external
// objects such as a document, the environment, etc.
type InstructionProvider interface {
	Instruction(ctx context.Context, state *core.ConversationState) (string, error)
}

// InstructionFunc is a functional adapter to allow ordinary functions to be used as providers.
type InstructionFunc func(ctx context.Context, state *core.ConversationState) (string, error)

// Instruction implements InstructionProvider.
func (f InstructionFunc) Instruction(ctx context.Context, state *core.ConversationState) (string, error) {
	return f(ctx, state)
}

// Instruction represents either a static system prompt or a dynamic provider.
// It is resolved before every model call and prepended to the request; it is
// never stored in the log.
type Instruction struct {
	text     string
	provider InstructionProvider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p InstructionProvider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(ctx context.Context, state *core.ConversationState) (string, error)) Instruction {
	return Instruction{provider: InstructionFunc(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// IsZero reports whether no instruction is configured.
func (i Instruction) IsZero() bool { return i.provider == nil && i.text == "" }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(ctx context.Context, state *core.ConversationState) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(ctx, state)
	}
	return i.text, nil
}

// Prompter supplies the user message that opens an LLM turn. Returning an
// error ends the run with that error.
type Prompter interface {
	Prompt(ctx context.Context, state *core.ConversationState) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, state *core.ConversationState) (string, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, state *core.ConversationState) (string, error) {
	return f(ctx, state)
}
