package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/document"
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/tool"
)

// DrafterOpening is the user message of the first drafting turn.
const DrafterOpening = "I'm ready to help you update a document. What would you like to create?"

// DrafterInstruction is rendered before every model call with the current
// document content.
const DrafterInstruction = `You are Drafter, a helpful writing assistant. You are going to help the user update and modify documents.

- If the user wants to update or modify content, use the 'update' tool with the complete updated content.
- If the user wants to save and finish, you need to use the 'save' tool.
- Make sure to always show the current document state after modifications.

The current document content is:{{ .document }}`

var drafterPrompt = util.MustParsePrompt("drafter", DrafterInstruction)

// documentInstruction renders the drafter prompt around the live document.
type documentInstruction struct {
	doc *document.Document
}

func (d documentInstruction) Instruction(context.Context, *core.ConversationState) (string, error) {
	text, err := drafterPrompt.Render(map[string]any{"document": d.doc.Content()})
	if err != nil {
		return "", fmt.Errorf("render drafter instruction: %w", err)
	}
	return text, nil
}

// DrafterOptions configures NewDrafter.
type DrafterOptions struct {
	Options
	// Predicate replaces the default save sentinel.
	Predicate engine.Predicate
	// OnInput observes every utterance read from the input.
	OnInput func(line string)
}

// NewDrafter builds the drafting loop: every LLM turn reads an utterance from
// in, every tool turn runs the requested edits, and the run ends once the
// document has been saved to store.
func NewDrafter(m model.Model, store artifact.Store, in session.Input, optFns ...func(o *DrafterOptions)) (*Agent, error) {
	opts := DrafterOptions{Options: Options{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	base := opts.Options

	doc := document.New(store, func(o *document.Options) { o.Logger = base.Logger })

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = base.Logger })
	if err := registry.RegisterAll(doc.Tools()...); err != nil {
		return nil, err
	}

	instruction := engine.NewInstructionFromProvider(documentInstruction{doc: doc})

	prompter := session.NewPrompter(in, func(o *session.PrompterOptions) {
		o.Opening = DrafterOpening
		o.OnInput = opts.OnInput
	})

	withGraph := base.engineOptions(engine.TopologyDrafting, instruction)
	eng, err := engine.New(m, registry, func(eo *engine.Options) {
		withGraph(eo)
		eo.Prompter = prompter
		eo.Predicate = opts.Predicate
	})
	if err != nil {
		return nil, err
	}

	return &Agent{
		name:          "drafter",
		description:   "Drafts a document and saves it",
		engine:        eng,
		registry:      registry,
		mode:          session.ModeRetained,
		selfPrompting: true,
		document:      doc,
	}, nil
}
