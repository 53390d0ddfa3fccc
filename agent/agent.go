package agent

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/document"
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/tool"
)

// Options carries the engine settings shared by all variants.
type Options struct {
	// Instruction overrides the variant's default system instruction.
	Instruction *engine.Instruction
	MaxTurns    int
	MaxParallel int
	Stream      bool
	OnPartial   func(model.Response)
	Limiter     *rate.Limiter
	Callbacks   *engine.CallbackManager
	Logger      logging.Logger
}

// Agent is a configured engine plus the facts a session needs to drive it.
type Agent struct {
	name        string
	description string
	engine      *engine.Engine
	registry    *tool.Registry
	mode        session.Mode
	// selfPrompting agents read their own input on every LLM turn.
	selfPrompting bool
	document      *document.Document
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Description returns a one line summary.
func (a *Agent) Description() string { return a.description }

// Engine returns the underlying engine.
func (a *Agent) Engine() *engine.Engine { return a.engine }

// Registry returns the tool registry (empty for tool-less variants).
func (a *Agent) Registry() *tool.Registry { return a.registry }

// Mode returns the history mode sessions should use.
func (a *Agent) Mode() session.Mode { return a.mode }

// Document returns the drafted document, nil for other variants.
func (a *Agent) Document() *document.Document { return a.document }

// Run drives state through the graph.
func (a *Agent) Run(ctx context.Context, state *core.ConversationState) (*core.ConversationState, error) {
	return a.engine.Run(ctx, state)
}

// Ask runs the graph once on a conversation seeded with question.
func (a *Agent) Ask(ctx context.Context, question string) (*core.ConversationState, error) {
	state, err := core.NewConversationState(core.NewUserText(question))
	if err != nil {
		return nil, err
	}
	return a.engine.Run(ctx, state)
}

// NewSession wraps the agent in an outer session loop reading from in.
func (a *Agent) NewSession(in session.Input, optFns ...func(o *session.Options)) *session.Session {
	fns := append([]func(o *session.Options){func(o *session.Options) { o.Mode = a.mode }}, optFns...)
	return session.New(a, in, fns...)
}

// Start runs the agent interactively: self-prompting agents perform a single
// graph run, the others loop per utterance.
func (a *Agent) Start(ctx context.Context, in session.Input, optFns ...func(o *session.Options)) (*session.Result, error) {
	s := a.NewSession(in, optFns...)
	if a.selfPrompting {
		return s.RunOnce(ctx)
	}
	return s.Loop(ctx)
}

func defaultOptions(optFns []func(o *Options)) Options {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// engineOptions maps agent options onto engine options.
func (o Options) engineOptions(topology engine.Topology, instruction engine.Instruction) func(eo *engine.Options) {
	if o.Instruction != nil {
		instruction = *o.Instruction
	}
	return func(eo *engine.Options) {
		eo.Topology = topology
		eo.Instruction = instruction
		eo.MaxTurns = o.MaxTurns
		eo.MaxParallel = o.MaxParallel
		eo.Stream = o.Stream
		eo.OnPartial = o.OnPartial
		eo.Limiter = o.Limiter
		eo.Callbacks = o.Callbacks
		eo.Logger = o.Logger
	}
}
