package agent

import (
	"context"

	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/tool"
)

// ReActInstruction is the default system instruction of the ReAct agent.
const ReActInstruction = "You are my AI assistant, please answer my query to the best of your ability."

// Operands are the arguments of the arithmetic tools.
type Operands struct {
	A int `json:"a" jsonschema:"first operand"`
	B int `json:"b" jsonschema:"second operand"`
}

// MathTools returns the add, subtract and multiply tools.
func MathTools() []tool.Tool {
	return []tool.Tool{
		tool.MustNewTypedTool("add", "Adds two numbers together",
			func(_ context.Context, o Operands) (any, error) { return o.A + o.B, nil }),
		tool.MustNewTypedTool("subtract", "Subtracts the second number from the first",
			func(_ context.Context, o Operands) (any, error) { return o.A - o.B, nil }),
		tool.MustNewTypedTool("multiply", "Multiplies two numbers together",
			func(_ context.Context, o Operands) (any, error) { return o.A * o.B, nil }),
	}
}

// NewReAct builds the reasoning loop: the model calls tools until it answers
// without tool calls. Extra tools are registered after the arithmetic ones.
func NewReAct(m model.Model, extra []tool.Tool, optFns ...func(o *Options)) (*Agent, error) {
	opts := defaultOptions(optFns)

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = opts.Logger })
	if err := registry.RegisterAll(append(MathTools(), extra...)...); err != nil {
		return nil, err
	}

	eng, err := engine.New(m, registry, opts.engineOptions(
		engine.TopologyReasoning,
		engine.NewInstructionFromText(ReActInstruction),
	))
	if err != nil {
		return nil, err
	}
	return &Agent{
		name:        "react",
		description: "Reasons step by step using arithmetic tools",
		engine:      eng,
		registry:    registry,
		mode:        session.ModeStateless,
	}, nil
}
