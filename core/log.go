package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMalformedMessage is returned by Log.Append for entries that cannot be
// part of a valid conversation.
var ErrMalformedMessage = errors.New("malformed message")

// Log is the ordered, append-only conversation history of a run.
//
// Contract:
//   - Append adds to the end; there is no delete, truncate or reorder operation
//   - Stored messages are deep copies and are never modified afterwards
//   - Snapshot returns an independent copy safe to hand to a model provider
//
// Log is safe for concurrent use, although a run is expected to own its log
// exclusively.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog returns a log seeded with the given messages. Malformed seeds are
// rejected with ErrMalformedMessage.
func NewLog(seed ...Message) (*Log, error) {
	l := &Log{messages: make([]Message, 0, len(seed))}
	for _, m := range seed {
		if err := l.Append(m); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append validates and stores a message at the end of the log.
func (l *Log) Append(m Message) error {
	if err := Validate(m); err != nil {
		return err
	}
	m = cloneMessage(m)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
	return nil
}

// Snapshot returns a read-only ordered copy of the history.
func (l *Log) Snapshot() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

// Len returns the number of stored messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return nil, false
	}
	return cloneMessage(l.messages[len(l.messages)-1]), true
}

// LastAssistant returns the most recent assistant message, skipping over any
// later tool results.
func (l *Log) LastAssistant() (AssistantMessage, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.messages) - 1; i >= 0; i-- {
		if am, ok := l.messages[i].(AssistantMessage); ok {
			return cloneMessage(am).(AssistantMessage), true
		}
	}
	return AssistantMessage{}, false
}

// Validate checks the structural invariants of a message.
func Validate(m Message) error {
	switch v := m.(type) {
	case nil:
		return fmt.Errorf("%w: nil message", ErrMalformedMessage)
	case SystemMessage, UserMessage:
		return nil
	case AssistantMessage:
		// A call naming no tool is kept; the registry answers it with an
		// UNKNOWN_TOOL result the model can correct.
		for i, c := range v.ToolCalls {
			if c.ID == "" {
				return fmt.Errorf("%w: tool call %d (%q) has no id", ErrMalformedMessage, i, c.Name)
			}
		}
		return nil
	case ToolResultMessage:
		if v.CallID == "" {
			return fmt.Errorf("%w: tool result for %q has no call id", ErrMalformedMessage, v.Name)
		}
		return nil
	case *SystemMessage:
		if v == nil {
			return fmt.Errorf("%w: nil message", ErrMalformedMessage)
		}
		return nil
	case *UserMessage:
		if v == nil {
			return fmt.Errorf("%w: nil message", ErrMalformedMessage)
		}
		return nil
	case *AssistantMessage:
		if v == nil {
			return fmt.Errorf("%w: nil message", ErrMalformedMessage)
		}
		return Validate(*v)
	case *ToolResultMessage:
		if v == nil {
			return fmt.Errorf("%w: nil message", ErrMalformedMessage)
		}
		return Validate(*v)
	default:
		return fmt.Errorf("%w: unsupported message type %T", ErrMalformedMessage, m)
	}
}
