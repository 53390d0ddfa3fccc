package model

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/tool"
)

// Request captures the normalized model input produced by the engine.
// Messages is a snapshot of the conversation, system instructions first.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []tool.Definition `json:"tools,omitempty"`
	Stream   bool              `json:"stream,omitempty"`
}

// SystemPrompt concatenates the text of all system messages in the request.
func (r Request) SystemPrompt() string {
	var out string
	for _, m := range r.Messages {
		if m.Role() != core.RoleSystem {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += m.Text()
	}
	return out
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. Exactly one
// non-partial response terminates a successful generation.
type Response struct {
	ID           string                `json:"id"`
	Partial      bool                  `json:"partial"`
	Message      core.AssistantMessage `json:"message"`
	FinishReason string                `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage           `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "gemini", "ollama", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the engine to drive generation.
//
// Generate must close both channels when done. Errors are delivered on the
// error channel (buffered, at most one value).
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}
