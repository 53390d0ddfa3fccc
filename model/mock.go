package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

type scripted struct {
	msg core.AssistantMessage
	err error
}

// MockModel is a lightweight in-memory Model useful for tests and offline runs.
//
// Scripted turns queued with Enqueue / EnqueueError are replayed first, in
// order. Once the script is exhausted the model answers with a canned
// response registered via AddResponse for the latest user text, or echoes it.
type MockModel struct {
	info Info

	mu        sync.Mutex
	script    []scripted
	responses map[string]string
	requests  []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends scripted assistant turns.
func (m *MockModel) Enqueue(msgs ...core.AssistantMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.script = append(m.script, scripted{msg: msg})
	}
}

// EnqueueError scripts a failing turn.
func (m *MockModel) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
}

// Requests returns every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Pending reports how many scripted turns have not been consumed.
func (m *MockModel) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

// Generate implements Model; emits optional streaming char chunks then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var next *scripted
	if len(m.script) > 0 {
		next = &m.script[0]
		m.script = m.script[1:]
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if next != nil && next.err != nil {
			errCh <- next.err
			return
		}

		var final core.AssistantMessage
		if next != nil {
			final = next.msg
		} else {
			text, err := m.fallback(req)
			if err != nil {
				errCh <- err
				return
			}
			final = core.AssistantMessage{Content: text}
		}

		if req.Stream {
			for _, r := range final.Content {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Message: core.AssistantMessage{Content: string(r)}}:
				}
			}
		}

		finish := "stop"
		if final.HasToolCalls() {
			finish = "tool_calls"
		}
		respCh <- Response{Message: final, FinishReason: finish}
	}()

	return respCh, errCh
}

func (m *MockModel) fallback(req Request) (string, error) {
	var input string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role() == core.RoleUser {
			input = req.Messages[i].Text()
			break
		}
	}
	if input == "" {
		return "", fmt.Errorf("no user message provided")
	}

	m.mu.Lock()
	full := m.responses[input]
	m.mu.Unlock()
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", input)
	}
	return full, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
