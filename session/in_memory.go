package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// ErrConversationNotFound is returned by Store.Get for unknown ids.
var ErrConversationNotFound = errors.New("session: conversation not found")

// Store keeps conversation states by id.
type Store interface {
	// Get returns the state or an error wrapping ErrConversationNotFound.
	Get(ctx context.Context, id string) (*core.ConversationState, error)
	Put(ctx context.Context, state *core.ConversationState) error
	Delete(ctx context.Context, id string) error
}

// InMemoryStore is a volatile Store backed by a process local map. It is safe
// for concurrent access and best suited for tests. States are stored by
// pointer; callers must not run two graphs on the same state concurrently.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]*core.ConversationState
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*core.ConversationState)}
}

// Get returns the state stored under id.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrConversationNotFound, id)
	}
	return st, nil
}

// Put stores state under its id, replacing any previous entry.
func (s *InMemoryStore) Put(_ context.Context, state *core.ConversationState) error {
	if state == nil {
		return errors.New("session: nil state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = state
	return nil
}

// Delete removes the state stored under id.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; !ok {
		return fmt.Errorf("%w: %q", ErrConversationNotFound, id)
	}
	delete(s.states, id)
	return nil
}

// Len returns the number of stored states.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
