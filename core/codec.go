package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the wire form of a Message: the role selects the variant.
type envelope struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CallID    string     `json:"call_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	IsError   bool       `json:"is_error,omitempty"`
	Signal    string     `json:"signal,omitempty"`
}

type stateRecord struct {
	ID       string     `json:"id"`
	Created  time.Time  `json:"created"`
	Messages []envelope `json:"messages"`
}

func toEnvelope(m Message) (envelope, error) {
	switch v := cloneMessage(m).(type) {
	case SystemMessage:
		return envelope{Role: RoleSystem, Content: v.Content}, nil
	case UserMessage:
		return envelope{Role: RoleUser, Content: v.Content}, nil
	case AssistantMessage:
		return envelope{Role: RoleAssistant, Content: v.Content, ToolCalls: v.ToolCalls}, nil
	case ToolResultMessage:
		return envelope{Role: RoleTool, Content: v.Content, CallID: v.CallID, Name: v.Name, IsError: v.IsError, Signal: v.Signal}, nil
	default:
		return envelope{}, fmt.Errorf("%w: unsupported message type %T", ErrMalformedMessage, m)
	}
}

func (e envelope) message() (Message, error) {
	switch e.Role {
	case RoleSystem:
		return SystemMessage{Content: e.Content}, nil
	case RoleUser:
		return UserMessage{Content: e.Content}, nil
	case RoleAssistant:
		return AssistantMessage{Content: e.Content, ToolCalls: e.ToolCalls}, nil
	case RoleTool:
		return ToolResultMessage{CallID: e.CallID, Name: e.Name, Content: e.Content, IsError: e.IsError, Signal: e.Signal}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrMalformedMessage, e.Role)
	}
}

// MarshalState encodes a conversation state, id and full log included.
func MarshalState(s *ConversationState) ([]byte, error) {
	msgs := s.Messages()
	rec := stateRecord{ID: s.ID, Created: s.Created, Messages: make([]envelope, 0, len(msgs))}
	for _, m := range msgs {
		e, err := toEnvelope(m)
		if err != nil {
			return nil, err
		}
		rec.Messages = append(rec.Messages, e)
	}
	return json.Marshal(rec)
}

// UnmarshalState decodes a state written by MarshalState. Every message is
// validated as if appended.
func UnmarshalState(data []byte) (*ConversationState, error) {
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode conversation state: %w", err)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("decode conversation state: missing id")
	}

	seed := make([]Message, 0, len(rec.Messages))
	for _, e := range rec.Messages {
		m, err := e.message()
		if err != nil {
			return nil, err
		}
		seed = append(seed, m)
	}
	l, err := NewLog(seed...)
	if err != nil {
		return nil, err
	}
	return &ConversationState{ID: rec.ID, Log: l, Created: rec.Created}, nil
}
