// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	BaseURL     string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions(optFns...)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)
	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	return &Model{client: client, opts: defaultOptions(optFns...)}
}

// Generate adapts the Messages API (with tool use) into model.Response events.
// Streaming requests are served by a single final response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := anthropic.MessageNewParams{
			Model:       m.opts.Model,
			Messages:    buildMessages(req.Messages),
			MaxTokens:   m.opts.MaxTokens,
			Temperature: anthropic.Float(m.opts.Temperature),
		}
		if system := req.SystemPrompt(); system != "" {
			params.System = []anthropic.TextBlockParam{{Text: system}}
		}
		if len(req.Tools) > 0 {
			tools, err := buildTools(req.Tools)
			if err != nil {
				errCh <- err
				return
			}
			params.Tools = tools
		}

		resp, err := m.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		var (
			text strings.Builder
			msg  core.AssistantMessage
		)
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text.WriteString(block.AsText().Text)
			case "tool_use":
				tu := block.AsToolUse()
				args := ""
				if tu.Input != nil {
					if b, err := json.Marshal(tu.Input); err == nil {
						args = string(b)
					}
				}
				msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
					ID:        tu.ID,
					Name:      tu.Name,
					Arguments: args,
				})
			}
		}
		msg.Content = text.String()

		finishReason := "stop"
		if resp.StopReason != "" {
			finishReason = string(resp.StopReason)
		}

		out <- model.Response{
			ID:           resp.ID,
			Message:      msg,
			FinishReason: finishReason,
			Usage: &model.TokenUsage{
				PromptTokens:     int(resp.Usage.InputTokens),
				CompletionTokens: int(resp.Usage.OutputTokens),
				TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
			},
		}
	}()

	return out, errCh
}

// buildMessages converts core messages to the Anthropic format. System
// messages travel in params.System. Tool results are user turns; consecutive
// results are merged so they answer one assistant turn together.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var (
		messages    []anthropic.MessageParam
		pendingTool []anthropic.ContentBlockParamUnion
	)
	flush := func() {
		if len(pendingTool) > 0 {
			messages = append(messages, anthropic.NewUserMessage(pendingTool...))
			pendingTool = nil
		}
	}

	for _, msg := range msgs {
		switch v := msg.(type) {
		case core.SystemMessage:
			continue
		case core.UserMessage:
			flush()
			if v.Content != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(v.Content)))
			}
		case core.AssistantMessage:
			flush()
			if content := assistantContent(v); len(content) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(content...))
			}
		case core.ToolResultMessage:
			pendingTool = append(pendingTool, anthropic.NewToolResultBlock(v.CallID, v.Content, v.IsError))
		}
	}
	flush()
	return messages
}

func assistantContent(msg core.AssistantMessage) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion
	if msg.Content != "" {
		content = append(content, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		var input any = map[string]any{}
		if tc.Arguments != "" {
			if args, err := util.DecodeArguments(tc.Arguments); err == nil {
				input = args
			}
		}
		content = append(content, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	return content
}

// buildTools converts tool definitions to Anthropic tool params.
func buildTools(defs []tool.Definition) ([]anthropic.ToolUnionParam, error) {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		params, err := util.SchemaToMap(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("convert schema for tool %s: %w", def.Name, err)
		}
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: params["properties"],
			Required:   util.RequiredFields(def.Parameters),
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" && tools[i].OfTool != nil {
			tools[i].OfTool.Description = anthropic.String(def.Description)
		}
	}
	return tools, nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
