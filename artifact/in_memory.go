package artifact

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a trivial in-process Store useful for tests, examples and
// single-process prototypes. Data is copied on save and retrieval so callers
// cannot mutate stored buffers.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes under name.
func (a *InMemoryStore) Save(_ context.Context, name string, data []byte) error {
	key, err := CleanName(name)
	if err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.artifacts[key] = cp
	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	key, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.artifacts[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the stored names in lexical order.
func (a *InMemoryStore) List(_ context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.artifacts))
	for name := range a.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(_ context.Context, name string) error {
	key, err := CleanName(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.artifacts[key]; !ok {
		return ErrNotFound
	}
	delete(a.artifacts, key)
	return nil
}
