package core

import (
	"time"

	"github.com/google/uuid"
)

// ConversationState owns the message log of a single run. It is created at
// run start (empty or seeded), mutated only by appending to Log, and handed
// back to the caller when the run ends.
type ConversationState struct {
	ID      string    `json:"id"`
	Log     *Log      `json:"-"`
	Created time.Time `json:"created"`
}

// NewConversationState creates a state with a fresh identifier and a log
// seeded with the given messages.
func NewConversationState(seed ...Message) (*ConversationState, error) {
	l, err := NewLog(seed...)
	if err != nil {
		return nil, err
	}
	return &ConversationState{
		ID:      uuid.NewString(),
		Log:     l,
		Created: time.Now(),
	}, nil
}

// Append adds a message to the state's log.
func (s *ConversationState) Append(m Message) error { return s.Log.Append(m) }

// Messages returns a snapshot of the log.
func (s *ConversationState) Messages() []Message { return s.Log.Snapshot() }
