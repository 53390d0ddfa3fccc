package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

// ErrTurnLimit is returned when a run exceeds Options.MaxTurns model turns.
var ErrTurnLimit = core.ErrTurnLimit

// ErrStopped is wrapped by prompter errors that mean "the user is done"
// rather than a failure. Run still returns the error, but logs it as a stop
// and skips the OnError callbacks.
var ErrStopped = errors.New("run stopped")

// Options configures an Engine using the functional options pattern.
//
// Example:
//
//	eng, err := engine.New(m, registry, func(o *engine.Options) {
//	    o.Topology = engine.TopologyDrafting
//	    o.Instruction = engine.NewInstructionFromText("You are a writer.")
//	    o.Prompter = console
//	})
type Options struct {
	// Topology selects the edge set. Defaults to TopologyReasoning.
	Topology Topology

	// Predicate replaces the default predicate on the topology's
	// conditional edge (ToolCallPolicy or SentinelResultPolicy).
	Predicate Predicate

	// Instruction is resolved before every model call and sent as the
	// leading system message.
	Instruction Instruction

	// Prompter, when set, supplies a user message at the start of every LLM turn.
	Prompter Prompter

	// MaxTurns bounds model turns per run. 0 means unlimited.
	MaxTurns int

	// MaxParallel bounds concurrent tool calls in a TOOL_TURN. Results are
	// appended in request order regardless.
	MaxParallel int

	// Stream requests streamed model output; chunks reach OnPartial.
	Stream    bool
	OnPartial func(model.Response)

	// Limiter throttles model calls.
	Limiter *rate.Limiter

	// Callbacks observe the run.
	Callbacks *CallbackManager

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine drives a conversation state through the agent graph.
//
// Core Responsibilities:
//   - Walk the transition table of the configured Topology from START to END
//   - LLM_TURN: prompt, resolve instruction, invoke the model, append one assistant message
//   - TOOL_TURN: execute the latest assistant message's tool calls, append results in order
//   - Stop at the first model failure and hand back the partial state
//
// Concurrency Model:
//
//	Steps run strictly one after another. An Engine holds no per-run state and
//	may serve several runs concurrently as long as each run owns its
//	ConversationState.
type Engine struct {
	invoker     *model.Invoker
	tools       ToolRunner
	definitions []tool.Definition
	table       transitions
	exec        *executor
	opts        Options
	logger      logging.Logger
}

// New builds an engine around a model and a tool registry. The registry may
// be nil for tool-less topologies.
func New(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*Engine, error) {
	if m == nil {
		return nil, errors.New("engine requires a model")
	}

	opts := Options{
		Topology: TopologyReasoning,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	table, err := buildTransitions(opts.Topology, opts.Predicate)
	if err != nil {
		return nil, err
	}

	if registry == nil {
		registry = tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = logger })
	}

	invoker := model.NewInvoker(m, func(o *model.InvokerOptions) {
		o.Logger = logger
		o.Limiter = opts.Limiter
		o.OnPartial = opts.OnPartial
	})

	return &Engine{
		invoker:     invoker,
		tools:       registry,
		definitions: registry.Definitions(),
		table:       table,
		exec:        newExecutor(ExecutorConfig{MaxParallel: opts.MaxParallel, Logger: logger}),
		opts:        opts,
		logger:      logger,
	}, nil
}

// Topology returns the configured topology.
func (e *Engine) Topology() Topology { return e.opts.Topology }

// Run drives state from START to END and returns it. A nil state starts an
// empty conversation.
//
// Error Semantics:
//
//	model failure        -> state as of the failure, *model.InvocationError
//	instruction failure  -> state, *model.InvocationError wrapping the cause
//	turn limit exceeded  -> state, error wrapping ErrTurnLimit
//	prompter error       -> state, the prompter's error
//	callback error       -> state, the callback's error
//	context cancellation -> state, ctx.Err()
//
// Tool failures never surface here; they are recorded as error results.
func (e *Engine) Run(ctx context.Context, state *core.ConversationState) (*core.ConversationState, error) {
	if state == nil {
		var err error
		if state, err = core.NewConversationState(); err != nil {
			return nil, err
		}
	}

	runStart := time.Now()
	turns := core.NewTurnLimiter(e.opts.MaxTurns)
	current := StateStart

	e.logger.Info("engine.run.start", "state_id", state.ID, "topology", e.opts.Topology.String(), "messages", state.Log.Len())

	for current != StateEnd {
		if err := ctx.Err(); err != nil {
			return state, e.fail(ctx, state, current, err)
		}

		var err error
		switch current {
		case StateLLMTurn:
			err = e.llmTurn(ctx, state, turns)
		case StateToolTurn:
			err = e.toolTurn(ctx, state)
		}
		if err != nil {
			return state, e.fail(ctx, state, current, err)
		}

		next, err := e.next(current, state)
		if err != nil {
			return state, e.fail(ctx, state, current, err)
		}

		e.logger.Debug("engine.step", "state_id", state.ID, "from", current.String(), "to", next.String())
		if err := e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackOnTransition, &CallbackContext{
			State: state, From: current, To: next,
		}); err != nil {
			return state, e.fail(ctx, state, current, err)
		}
		current = next
	}

	e.logger.Info(
		"engine.run.complete",
		"state_id", state.ID,
		"messages", state.Log.Len(),
		"turns", turns.Count(),
		"duration_ms", time.Since(runStart).Milliseconds(),
	)
	return state, nil
}

// next follows the outgoing edge of from.
func (e *Engine) next(from State, state *core.ConversationState) (State, error) {
	ed, ok := e.table[from]
	if !ok {
		return StateEnd, fmt.Errorf("no transition from %s in %s topology", from, e.opts.Topology)
	}
	if !ed.conditional() {
		return ed.to, nil
	}
	decision := ed.predicate.Decide(state)
	e.logger.Debug("engine.decision", "state_id", state.ID, "from", from.String(), "decision", decision.String())
	if decision == End {
		return ed.onEnd, nil
	}
	return ed.onContinue, nil
}

func (e *Engine) llmTurn(ctx context.Context, state *core.ConversationState, turns *core.TurnLimiter) error {
	if err := turns.Increment(); err != nil {
		return err
	}

	if e.opts.Prompter != nil {
		text, err := e.opts.Prompter.Prompt(ctx, state)
		if err != nil {
			return err
		}
		if err := state.Append(core.UserMessage{Content: text}); err != nil {
			return err
		}
	}

	if err := e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackBeforeModel, &CallbackContext{
		State: state, From: StateLLMTurn,
	}); err != nil {
		return err
	}

	req, err := e.buildRequest(ctx, state)
	if err != nil {
		return err
	}

	msg, err := e.invoker.Invoke(ctx, req)
	if err != nil {
		return err
	}
	if err := state.Append(msg); err != nil {
		return err
	}

	e.logger.Debug("engine.llm.turn", "state_id", state.ID, "tool_calls", len(msg.ToolCalls), "text_len", len(msg.Content))

	return e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackAfterModel, &CallbackContext{
		State: state, From: StateLLMTurn, Message: msg,
	})
}

// buildRequest snapshots the log and prepends the resolved instruction.
func (e *Engine) buildRequest(ctx context.Context, state *core.ConversationState) (model.Request, error) {
	history := state.Messages()
	msgs := make([]core.Message, 0, len(history)+1)

	if !e.opts.Instruction.IsZero() {
		text, err := e.opts.Instruction.Resolve(ctx, state)
		if err != nil {
			// the request never reached the model, but the turn failed the same way
			return model.Request{}, &model.InvocationError{
				Model: e.invoker.Model().Info().Name,
				Err:   fmt.Errorf("resolve instruction: %w", err),
			}
		}
		if text != "" {
			msgs = append(msgs, core.SystemMessage{Content: text})
		}
	}
	msgs = append(msgs, history...)

	return model.Request{
		Messages: msgs,
		Tools:    e.definitions,
		Stream:   e.opts.Stream,
	}, nil
}

func (e *Engine) toolTurn(ctx context.Context, state *core.ConversationState) error {
	last, ok := state.Log.LastAssistant()
	if !ok || !last.HasToolCalls() {
		e.logger.Debug("engine.tool.turn.empty", "state_id", state.ID)
		return nil
	}

	before := func(call core.ToolCall) error {
		return e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackBeforeTool, &CallbackContext{
			State: state, From: StateToolTurn, ToolCall: &call,
		})
	}

	results, execErr := e.exec.Execute(ctx, e.tools, last.ToolCalls, before)
	for i, res := range results {
		if err := state.Append(res); err != nil {
			return err
		}
		call := last.ToolCalls[i]
		if err := e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackAfterTool, &CallbackContext{
			State: state, From: StateToolTurn, ToolCall: &call, Message: res,
		}); err != nil {
			return err
		}
	}
	return execErr
}

func (e *Engine) fail(ctx context.Context, state *core.ConversationState, at State, err error) error {
	if errors.Is(err, ErrStopped) {
		e.logger.Info("engine.run.stopped", "state_id", state.ID, "state", at.String(), "reason", err.Error())
		return err
	}
	e.logger.Error("engine.run.error", "state_id", state.ID, "state", at.String(), "error", err.Error())
	if cbErr := e.opts.Callbacks.ExecuteCallbacks(ctx, CallbackOnError, &CallbackContext{
		State: state, From: at, Err: err,
	}); cbErr != nil {
		e.logger.Warn("engine.callback.error", "state_id", state.ID, "error", cbErr.Error())
	}
	return err
}
