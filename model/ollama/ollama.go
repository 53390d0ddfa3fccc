// Package ollama implements model.Model for a local or remote Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

// Options configures the Ollama model adapter.
type Options struct {
	Model       string
	Temperature float64
	NumPredict  int
	// BaseURL overrides OLLAMA_HOST.
	BaseURL    string
	HTTPClient *http.Client
}

// Model drives api.Client.Chat behind model.Model.
type Model struct {
	client *api.Client
	opts   Options
}

// NewModel creates a client from BaseURL, or from the environment when empty.
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := Options{
		Model:      "llama3.1",
		NumPredict: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.BaseURL == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return &Model{client: client, opts: opts}, nil
	}

	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Model{client: api.NewClient(u, httpClient), opts: opts}, nil
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		messages, err := buildMessages(req.Messages)
		if err != nil {
			errCh <- err
			return
		}
		tools, err := buildTools(req.Tools)
		if err != nil {
			errCh <- err
			return
		}

		stream := req.Stream
		chatReq := &api.ChatRequest{
			Model:    m.opts.Model,
			Messages: messages,
			Tools:    tools,
			Stream:   &stream,
			Options: map[string]any{
				"temperature": m.opts.Temperature,
				"num_predict": m.opts.NumPredict,
			},
		}

		var (
			text  strings.Builder
			calls []core.ToolCall
		)
		err = m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				text.WriteString(resp.Message.Content)
				if stream {
					out <- model.Response{Partial: true, Message: core.AssistantMessage{Content: resp.Message.Content}}
				}
			}
			for _, tc := range resp.Message.ToolCalls {
				args, err := json.Marshal(tc.Function.Arguments)
				if err != nil {
					return fmt.Errorf("encode tool call arguments: %w", err)
				}
				calls = append(calls, core.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: string(args)})
			}
			if resp.Done {
				out <- model.Response{
					Message:      core.AssistantMessage{Content: text.String(), ToolCalls: calls},
					FinishReason: resp.DoneReason,
					Usage: &model.TokenUsage{
						PromptTokens:     resp.PromptEvalCount,
						CompletionTokens: resp.EvalCount,
						TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
					},
				}
			}
			return nil
		})
		if err != nil {
			errCh <- fmt.Errorf("ollama chat error: %w", err)
		}
	}()

	return out, errCh
}

func buildMessages(msgs []core.Message) ([]api.Message, error) {
	out := make([]api.Message, 0, len(msgs))
	for _, msg := range msgs {
		switch v := msg.(type) {
		case core.SystemMessage, core.UserMessage:
			out = append(out, api.Message{Role: string(v.Role()), Content: v.Text()})
		case core.AssistantMessage:
			am := api.Message{Role: string(core.RoleAssistant), Content: v.Content}
			for _, tc := range v.ToolCalls {
				args, err := toolCallArguments(tc.Arguments)
				if err != nil {
					return nil, fmt.Errorf("tool call %s: %w", tc.ID, err)
				}
				am.ToolCalls = append(am.ToolCalls, api.ToolCall{
					ID:       tc.ID,
					Function: api.ToolCallFunction{Name: tc.Name, Arguments: args},
				})
			}
			out = append(out, am)
		case core.ToolResultMessage:
			out = append(out, api.Message{Role: string(core.RoleTool), Content: v.Content, ToolCallID: v.CallID})
		}
	}
	return out, nil
}

// toolCallArguments goes through JSON since the SDK argument type is opaque.
func toolCallArguments(raw string) (api.ToolCallFunctionArguments, error) {
	var args api.ToolCallFunctionArguments
	decoded, err := util.DecodeArguments(raw)
	if err != nil {
		decoded = map[string]any{}
	}
	if err := util.Remarshal(decoded, &args); err != nil {
		return args, err
	}
	return args, nil
}

func buildTools(defs []tool.Definition) (api.Tools, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	raw := make([]map[string]any, 0, len(defs))
	for _, def := range defs {
		params, err := util.SchemaToMap(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("convert schema for tool %s: %w", def.Name, err)
		}
		raw = append(raw, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        def.Name,
				"description": def.Description,
				"parameters":  params,
			},
		})
	}
	var tools api.Tools
	if err := util.Remarshal(raw, &tools); err != nil {
		return nil, fmt.Errorf("convert tools: %w", err)
	}
	return tools, nil
}

// Info returns metadata describing this Ollama model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "ollama",
		SupportsTools: true,
	}
}
