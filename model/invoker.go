package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/tool"
)

var (
	// ErrInvocation matches every *InvocationError.
	ErrInvocation = errors.New("model invocation failed")
	// ErrNoResponse is the cause when a model closes its stream without a final response.
	ErrNoResponse = errors.New("model returned no final response")
)

// InvocationError reports a failed model call. It is never retried; the
// engine stops the run and surfaces it to the caller.
type InvocationError struct {
	Model string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (%s): %v", e.Model, e.Err)
}

// Unwrap exposes the provider error.
func (e *InvocationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvocation.
func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

// InvokerOptions configures an Invoker.
type InvokerOptions struct {
	Logger logging.Logger
	// Limiter throttles calls to the model. Nil disables throttling.
	Limiter *rate.Limiter
	// OnPartial receives streamed chunks when the request asks for streaming.
	OnPartial func(Response)
}

// Invoker performs one blocking model call: it drains the response stream and
// returns the final assistant message.
type Invoker struct {
	model Model
	opts  InvokerOptions
}

// NewInvoker wraps a Model.
func NewInvoker(m Model, optFns ...func(o *InvokerOptions)) *Invoker {
	opts := InvokerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Invoker{model: m, opts: opts}
}

// NewLimiter builds a token bucket limiter for rps requests per second.
// A non-positive rps returns nil (unlimited).
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Model returns the wrapped model.
func (iv *Invoker) Model() Model { return iv.model }

// Generate invokes the model on a history snapshot with the given tool
// descriptors.
func (iv *Invoker) Generate(ctx context.Context, snapshot []core.Message, tools []tool.Definition) (core.AssistantMessage, error) {
	return iv.Invoke(ctx, Request{Messages: snapshot, Tools: tools})
}

// Invoke sends req and waits for the final response. Tool calls without an id
// get a generated one so results can always be correlated.
func (iv *Invoker) Invoke(ctx context.Context, req Request) (core.AssistantMessage, error) {
	name := iv.model.Info().Name

	if iv.opts.Limiter != nil {
		if err := iv.opts.Limiter.Wait(ctx); err != nil {
			return core.AssistantMessage{}, &InvocationError{Model: name, Err: err}
		}
	}

	start := time.Now()
	respCh, errCh := iv.model.Generate(ctx, req)

	var (
		final    Response
		gotFinal bool
	)
	for resp := range respCh {
		if resp.Partial {
			if iv.opts.OnPartial != nil {
				iv.opts.OnPartial(resp)
			}
			continue
		}
		final, gotFinal = resp, true
	}

	err := <-errCh
	if err == nil && !gotFinal {
		err = ErrNoResponse
	}

	tokens := 0
	if final.Usage != nil {
		tokens = final.Usage.TotalTokens
	}
	logging.LogLLMCall(iv.opts.Logger, name, tokens, time.Since(start), err)

	if err != nil {
		return core.AssistantMessage{}, &InvocationError{Model: name, Err: err}
	}

	msg := final.Message
	if len(msg.ToolCalls) > 0 {
		calls := make([]core.ToolCall, len(msg.ToolCalls))
		copy(calls, msg.ToolCalls)
		for i := range calls {
			if calls[i].ID == "" {
				calls[i].ID = "call_" + uuid.NewString()
			}
		}
		msg.ToolCalls = calls
	}
	return msg, nil
}
