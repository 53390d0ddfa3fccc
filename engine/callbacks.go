package engine

import (
	"context"
	"sync"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// CallbackType defines the lifecycle points where callbacks can be executed.
//
// Available callback types:
//   - BeforeModel/AfterModel: Around each model invocation
//   - BeforeTool/AfterTool: Around individual tool executions
//   - OnTransition: After every graph edge is taken
//   - OnError: When a run stops with an error
//
// Callbacks are executed synchronously and can abort a run by returning an error.
type CallbackType string

const (
	// CallbackBeforeModel is triggered after the user message (if any) has been
	// appended and before the model is invoked.
	CallbackBeforeModel CallbackType = "before_model"

	// CallbackAfterModel is triggered after the assistant message was appended.
	CallbackAfterModel CallbackType = "after_model"

	// CallbackBeforeTool is triggered before each tool call.
	CallbackBeforeTool CallbackType = "before_tool"

	// CallbackAfterTool is triggered with each tool result, in request order.
	CallbackAfterTool CallbackType = "after_tool"

	// CallbackOnTransition is triggered when the engine moves between states.
	CallbackOnTransition CallbackType = "on_transition"

	// CallbackOnError is triggered when a run stops with an error. Errors
	// returned from OnError callbacks are logged and otherwise ignored.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries what a callback may inspect. Fields that do not
// apply to a callback type are zero.
type CallbackContext struct {
	CallbackType CallbackType

	// State is the live conversation state. Callbacks must not append to it.
	State *core.ConversationState

	// From and To describe the transition for CallbackOnTransition; From is
	// the current state for all other types.
	From State
	To   State

	// Message is the assistant message (AfterModel) or tool result (AfterTool).
	Message core.Message

	// ToolCall is set for BeforeTool and AfterTool.
	ToolCall *core.ToolCall

	// Err is set for CallbackOnError.
	Err error

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback defines the interface for execution lifecycle hooks.
//
// Implementations should be fast: they run synchronously on the engine's
// goroutine and block the run while executing.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic. Returning an error aborts the run.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	printer := NewFunctionCallback(
//	    CallbackAfterModel,
//	    func(ctx context.Context, cc *CallbackContext) error {
//	        fmt.Println("AI:", cc.Message.Text())
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager routes lifecycle events to registered callbacks.
//
// Callbacks are executed in registration order, and any callback returning
// an error stops execution of the remaining callbacks of that type.
// Registration and execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
func NewCallbackManager(callbacks ...Callback) *CallbackManager {
	cm := &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
	for _, cb := range callbacks {
		cm.RegisterCallback(cb)
	}
	return cm
}

// RegisterCallback adds a callback to the manager for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// Len returns the number of callbacks registered for a type.
func (cm *CallbackManager) Len(callbackType CallbackType) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.callbacks[callbackType])
}

// ExecuteCallbacks executes all registered callbacks for the specified type
// and returns the first error. A nil manager is a no-op.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	if cm == nil {
		return nil
	}
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	callbackCtx.CallbackType = callbackType
	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback forwards lifecycle events to a structured logger.
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logging.OrNoOp(logger),
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the event with the state id and whatever fields apply.
func (c *LoggingCallback) Execute(_ context.Context, cc *CallbackContext) error {
	args := []any{"callback", string(c.callbackType), "from", cc.From.String()}
	if cc.State != nil {
		args = append(args, "state_id", cc.State.ID)
	}
	if c.callbackType == CallbackOnTransition {
		args = append(args, "to", cc.To.String())
	}
	if cc.ToolCall != nil {
		args = append(args, "tool", cc.ToolCall.Name, "call_id", cc.ToolCall.ID)
	}
	if cc.Err != nil {
		args = append(args, "error", cc.Err.Error())
		c.logger.Error("engine.callback", args...)
		return nil
	}
	c.logger.Debug("engine.callback", args...)
	return nil
}
