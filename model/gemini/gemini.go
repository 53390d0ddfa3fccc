// Package gemini implements model.Model on top of the Google GenAI SDK
// (Gemini API and Vertex AI backends).
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// Options configures the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
	Backend         genai.Backend
}

// Model wraps client.Models.GenerateContent behind model.Model.
type Model struct {
	client *genai.Client
	opts   Options
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:           "gemini-2.0-flash",
		MaxOutputTokens: 4096,
		Backend:         genai.BackendGeminiAPI,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// NewModel creates a client for the configured backend. An empty APIKey lets
// the SDK read GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions(optFns...)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: opts.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient wraps an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	return &Model{client: client, opts: defaultOptions(optFns...)}
}

// Generate implements model.Model. Streaming requests are served by a single
// final response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		cfg := m.buildConfig(req)
		contents := buildContents(req.Messages)
		if len(contents) == 0 {
			errCh <- errors.New("no contents")
			return
		}

		resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, cfg)
		if err != nil {
			errCh <- fmt.Errorf("gemini api error: %w", err)
			return
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			errCh <- errors.New("no candidates")
			return
		}

		cand := resp.Candidates[0]
		msg, err := convertParts(cand.Content.Parts)
		if err != nil {
			errCh <- err
			return
		}

		r := model.Response{
			Message:      msg,
			FinishReason: strings.ToLower(string(cand.FinishReason)),
		}
		if u := resp.UsageMetadata; u != nil {
			r.Usage = &model.TokenUsage{
				PromptTokens:     int(u.PromptTokenCount),
				CompletionTokens: int(u.CandidatesTokenCount),
				TotalTokens:      int(u.TotalTokenCount),
			}
		}
		out <- r
	}()

	return out, errCh
}

func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	temp := m.opts.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}
	if system := req.SystemPrompt(); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(system)}}
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: buildDeclarations(req.Tools)}}
	}
	return cfg
}

func buildDeclarations(defs []tool.Definition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  convertSchema(def.Parameters),
		})
	}
	return decls
}

// buildContents maps core messages onto user / model contents, merging
// consecutive entries with the same role.
func buildContents(msgs []core.Message) []*genai.Content {
	var (
		contents []*genai.Content
		last     *genai.Content
	)
	push := func(role string, parts ...*genai.Part) {
		if len(parts) == 0 {
			return
		}
		if last != nil && last.Role == role {
			last.Parts = append(last.Parts, parts...)
			return
		}
		last = &genai.Content{Role: role, Parts: parts}
		contents = append(contents, last)
	}

	for _, msg := range msgs {
		switch v := msg.(type) {
		case core.SystemMessage:
			continue
		case core.UserMessage:
			push(roleUser, genai.NewPartFromText(v.Content))
		case core.AssistantMessage:
			var parts []*genai.Part
			if v.Content != "" {
				parts = append(parts, genai.NewPartFromText(v.Content))
			}
			for _, tc := range v.ToolCalls {
				var args map[string]any
				if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
					args = map[string]any{}
				}
				part := genai.NewPartFromFunctionCall(tc.Name, args)
				part.FunctionCall.ID = tc.ID
				parts = append(parts, part)
			}
			push(roleModel, parts...)
		case core.ToolResultMessage:
			key := "output"
			if v.IsError {
				key = "error"
			}
			part := genai.NewPartFromFunctionResponse(v.Name, map[string]any{key: v.Content})
			part.FunctionResponse.ID = v.CallID
			push(roleUser, part)
		}
	}
	return contents
}

func convertParts(parts []*genai.Part) (core.AssistantMessage, error) {
	var (
		text strings.Builder
		msg  core.AssistantMessage
	)
	for _, p := range parts {
		if p == nil {
			continue
		}
		if p.Text != "" && !p.Thought {
			text.WriteString(p.Text)
		}
		if fc := p.FunctionCall; fc != nil {
			args, err := json.Marshal(fc.Args)
			if err != nil {
				return core.AssistantMessage{}, fmt.Errorf("encode function call args: %w", err)
			}
			msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{ID: fc.ID, Name: fc.Name, Arguments: string(args)})
		}
	}
	msg.Content = text.String()
	return msg, nil
}

func convertSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Required:    schema.Required,
	}
	for _, v := range schema.Enum {
		gs.Enum = append(gs.Enum, fmt.Sprintf("%v", v))
	}
	if schema.Items != nil {
		gs.Items = convertSchema(schema.Items)
	}
	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convertSchema(prop)
		}
	}

	typ := schema.Type
	if typ == "" {
		for _, t := range schema.Types {
			if t != "null" {
				typ = t
				break
			}
		}
	}
	switch typ {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
