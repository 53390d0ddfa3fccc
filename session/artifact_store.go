package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
)

// ConversationDir is the artifact folder holding persisted conversations.
const ConversationDir = "conversations"

// ArtifactStore persists conversation states as JSON documents in an
// artifact.Store, one per id, so a later process can resume them.
type ArtifactStore struct {
	store artifact.Store
}

// NewArtifactStore wraps an artifact store.
func NewArtifactStore(store artifact.Store) *ArtifactStore {
	return &ArtifactStore{store: store}
}

// Name returns the artifact name a conversation id is stored under.
func (s *ArtifactStore) Name(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("session: invalid conversation id %q", id)
	}
	return ConversationDir + "/" + id + ".json", nil
}

// Get loads and decodes a conversation.
func (s *ArtifactStore) Get(ctx context.Context, id string) (*core.ConversationState, error) {
	name, err := s.Name(id)
	if err != nil {
		return nil, err
	}
	raw, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrConversationNotFound, id)
		}
		return nil, fmt.Errorf("session: load conversation %q: %w", id, err)
	}
	return core.UnmarshalState(raw)
}

// Put encodes and saves a conversation, replacing an earlier version.
func (s *ArtifactStore) Put(ctx context.Context, state *core.ConversationState) error {
	if state == nil {
		return errors.New("session: nil state")
	}
	name, err := s.Name(state.ID)
	if err != nil {
		return err
	}
	raw, err := core.MarshalState(state)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, name, raw); err != nil {
		return fmt.Errorf("session: save conversation %q: %w", state.ID, err)
	}
	return nil
}

// Delete removes a persisted conversation.
func (s *ArtifactStore) Delete(ctx context.Context, id string) error {
	name, err := s.Name(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, name); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrConversationNotFound, id)
		}
		return err
	}
	return nil
}
