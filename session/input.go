package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/engine"
)

// ExitCommand ends the outer session loop when entered on its own.
const ExitCommand = "exit"

var (
	// ErrInputClosed is returned by an Input that has no more utterances.
	ErrInputClosed = fmt.Errorf("session: input closed: %w", engine.ErrStopped)
	// ErrExit is returned by prompters when the user typed ExitCommand.
	ErrExit = fmt.Errorf("session: exit requested: %w", engine.ErrStopped)
)

// Input supplies the next user utterance. Implementations return
// ErrInputClosed once exhausted.
type Input interface {
	Next(ctx context.Context) (string, error)
}

// IsExit reports whether an utterance is the exit sentinel.
func IsExit(line string) bool { return strings.TrimSpace(line) == ExitCommand }

// IsEnd reports whether err is a normal end of the outer loop.
func IsEnd(err error) bool { return errors.Is(err, ErrExit) || errors.Is(err, ErrInputClosed) }

// ScriptedInput replays a fixed list of utterances. It is used by tests and
// for non-interactive runs.
type ScriptedInput struct {
	mu    sync.Mutex
	lines []string
}

// NewScriptedInput creates an Input over lines.
func NewScriptedInput(lines ...string) *ScriptedInput {
	return &ScriptedInput{lines: append([]string(nil), lines...)}
}

// Next implements Input.
func (s *ScriptedInput) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return "", ErrInputClosed
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// PrompterOptions configures NewPrompter.
type PrompterOptions struct {
	// Opening is used as the first user message when the log is empty instead
	// of reading from the input.
	Opening string
	// OnInput observes every utterance read from the input.
	OnInput func(line string)
}

// NewPrompter adapts an Input into an engine.Prompter for graphs that read a
// new utterance on every LLM turn. Typing ExitCommand yields ErrExit.
func NewPrompter(in Input, optFns ...func(o *PrompterOptions)) engine.Prompter {
	opts := PrompterOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return engine.PrompterFunc(func(ctx context.Context, state *core.ConversationState) (string, error) {
		if opts.Opening != "" && state.Log.Len() == 0 {
			return opts.Opening, nil
		}
		line, err := in.Next(ctx)
		if err != nil {
			return "", err
		}
		if IsExit(line) {
			return "", ErrExit
		}
		if opts.OnInput != nil {
			opts.OnInput(line)
		}
		return line, nil
	})
}
