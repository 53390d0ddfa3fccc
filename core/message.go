package core

// Role identifies the author of a conversation entry.
type Role string

const (
	// RoleSystem marks instructions for the model.
	RoleSystem Role = "system"
	// RoleUser marks human input.
	RoleUser Role = "user"
	// RoleAssistant marks model output.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool results fed back to the model.
	RoleTool Role = "tool"
)

// String returns the role name.
func (r Role) String() string { return string(r) }

// Message is a single conversation entry. The set of implementations is closed:
// SystemMessage, UserMessage, AssistantMessage and ToolResultMessage. Code that
// branches on the message kind should use an exhaustive type switch over those
// four types.
type Message interface {
	Role() Role
	// Text returns the textual content (may be empty for tool-call-only
	// assistant messages).
	Text() string
	isMessage()
}

// SystemMessage carries instructions for the model.
type SystemMessage struct {
	Content string `json:"content"`
}

// Role implements Message.
func (SystemMessage) Role() Role { return RoleSystem }

// Text implements Message.
func (m SystemMessage) Text() string { return m.Content }

func (SystemMessage) isMessage() {}

// UserMessage carries one human utterance.
type UserMessage struct {
	Content string `json:"content"`
}

// Role implements Message.
func (UserMessage) Role() Role { return RoleUser }

// Text implements Message.
func (m UserMessage) Text() string { return m.Content }

func (UserMessage) isMessage() {}

// ToolCall is a model request to execute a registered tool.
type ToolCall struct {
	ID        string `json:"id"`                  // Correlates the call with its ToolResultMessage
	Name      string `json:"name"`                // Registered tool name
	Arguments string `json:"arguments,omitempty"` // Raw JSON argument bundle
}

// AssistantMessage is one model turn. It carries text, tool calls, or both.
type AssistantMessage struct {
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Role implements Message.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Text implements Message.
func (m AssistantMessage) Text() string { return m.Content }

// HasToolCalls reports whether the model requested any tool execution.
func (m AssistantMessage) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// ToolNames returns the requested tool names in call order.
func (m AssistantMessage) ToolNames() []string {
	names := make([]string, len(m.ToolCalls))
	for i, c := range m.ToolCalls {
		names[i] = c.Name
	}
	return names
}

func (AssistantMessage) isMessage() {}

// SignalDocumentSaved is the Signal a document save tool attaches to its
// successful result.
const SignalDocumentSaved = "document.saved"

// ToolResultMessage feeds the outcome of one ToolCall back into the conversation.
type ToolResultMessage struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
	// Signal is an optional structured marker set by the tool (e.g. a
	// completion flag) so routing does not depend on parsing Content.
	Signal string `json:"signal,omitempty"`
}

// Role implements Message.
func (ToolResultMessage) Role() Role { return RoleTool }

// Text implements Message.
func (m ToolResultMessage) Text() string { return m.Content }

func (ToolResultMessage) isMessage() {}

// NewUserText is a small helper building a UserMessage.
func NewUserText(text string) UserMessage { return UserMessage{Content: text} }

// cloneMessage returns a deep copy so stored history cannot be changed through
// slices shared with the caller.
func cloneMessage(m Message) Message {
	switch v := m.(type) {
	case AssistantMessage:
		if v.ToolCalls != nil {
			calls := make([]ToolCall, len(v.ToolCalls))
			copy(calls, v.ToolCalls)
			v.ToolCalls = calls
		}
		return v
	case *AssistantMessage:
		return cloneMessage(*v)
	case *SystemMessage:
		return *v
	case *UserMessage:
		return *v
	case *ToolResultMessage:
		return *v
	default:
		return m
	}
}
