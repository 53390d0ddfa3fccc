package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/logging"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives tool.call.* entries. Defaults to NoOpLogger.
	Logger logging.Logger
}

type entry struct {
	tool     Tool
	resolved *jsonschema.Resolved
}

// Registry maps tool names to implementations and is the only place where
// tool side effects are triggered.
//
// Error Semantics (Invoke):
//
//	name not registered             -> *ToolError{Code: UNKNOWN_TOOL}
//	undecodable / invalid arguments -> *ToolError{Code: ARGUMENT_ERROR}
//	tool returned error or panicked -> *ToolError{Code: EXECUTION_ERROR}
//
// Execute converts all of the above into an error ToolResultMessage so a bad
// call degrades into conversation data instead of aborting the run.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]entry
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:  make(map[string]entry),
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Register adds a tool. It fails with *DuplicateToolError when the name is
// taken, or with the schema resolution error when the parameter schema is invalid.
func (r *Registry) Register(t Tool) error {
	if t == nil || t.Name() == "" {
		return errors.New("tool must have a name")
	}

	schema := t.Parameters()
	if schema == nil {
		schema = util.EmptyObjectSchema()
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve schema for tool %s: %w", t.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return &DuplicateToolError{Name: t.Name()}
	}
	r.tools[t.Name()] = entry{tool: t, resolved: resolved}
	r.order = append(r.order, t.Name())
	return nil
}

// RegisterAll registers tools in order, stopping at the first failure.
func (r *Registry) RegisterAll(tools ...Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.tool, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Definitions lists tool descriptors in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, DefinitionOf(r.tools[name].tool))
	}
	return defs
}

// Invoke resolves, validates and runs a tool.
func (r *Registry) Invoke(ctx context.Context, name, rawArgs string) (res Result, err error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return Result{}, &ToolError{Tool: name, Message: fmt.Sprintf("tool %q is not registered", name), Code: CodeUnknownTool}
	}

	args, err := util.DecodeArguments(rawArgs)
	if err != nil {
		r.logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())
		return Result{}, &ToolError{Tool: name, Message: err.Error(), Code: CodeArgument, Err: err}
	}
	if err := e.resolved.Validate(args); err != nil {
		r.logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())
		return Result{}, &ToolError{Tool: name, Message: fmt.Sprintf("parameter validation failed: %v", err), Code: CodeArgument, Err: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			perr := &panicError{val: rec}
			res, err = Result{}, &ToolError{Tool: name, Message: perr.Error(), Code: CodeExecution, Err: perr}
		}
	}()

	out, err := e.tool.Call(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return Result{}, toolErr
		}
		return Result{}, &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution, Err: err}
	}

	res, err = normalize(out)
	if toolErr, ok := err.(*ToolError); ok {
		toolErr.Tool = name
	}
	return res, err
}

// Execute runs a model issued tool call and always returns a ToolResultMessage
// correlated by call id. Failures are reported as IsError results.
func (r *Registry) Execute(ctx context.Context, call core.ToolCall) core.ToolResultMessage {
	start := time.Now()
	r.logger.Debug("tool.call.start", "tool", call.Name, "call_id", call.ID)

	res, err := r.Invoke(ctx, call.Name, call.Arguments)
	logging.LogToolCall(r.logger, call.Name, call.ID, time.Since(start), err)

	if err != nil {
		return core.ToolResultMessage{
			CallID:  call.ID,
			Name:    call.Name,
			Content: "Error: " + err.Error(),
			IsError: true,
		}
	}

	return core.ToolResultMessage{
		CallID:  call.ID,
		Name:    call.Name,
		Content: res.Text,
		Signal:  res.Signal,
	}
}

// normalize turns an arbitrary tool return value into a Result.
func normalize(out any) (Result, error) {
	switch v := out.(type) {
	case nil:
		return Result{}, nil
	case Result:
		return v, nil
	case *Result:
		if v == nil {
			return Result{}, nil
		}
		return *v, nil
	case string:
		return Result{Text: v}, nil
	case fmt.Stringer:
		return Result{Text: v.String()}, nil
	case error:
		return Result{Text: v.Error()}, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Result{}, &ToolError{Message: fmt.Sprintf("encode result: %v", err), Code: CodeExecution, Err: err}
		}
		return Result{Text: string(b)}, nil
	}
}
