package agent

import (
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/session"
)

// NewChatbot builds the plain chatbot: START -> LLM -> END with no tools and
// no memory between utterances.
func NewChatbot(m model.Model, optFns ...func(o *Options)) (*Agent, error) {
	return newSingleTurn("chatbot", "Answers each message on its own", session.ModeStateless, m, optFns)
}

// NewMemoryChatbot builds the chatbot that keeps the whole conversation and
// sends it with every model call.
func NewMemoryChatbot(m model.Model, optFns ...func(o *Options)) (*Agent, error) {
	return newSingleTurn("memory", "Answers with the full conversation as context", session.ModeRetained, m, optFns)
}

func newSingleTurn(name, desc string, mode session.Mode, m model.Model, optFns []func(o *Options)) (*Agent, error) {
	opts := defaultOptions(optFns)
	eng, err := engine.New(m, nil, opts.engineOptions(engine.TopologySingleTurn, engine.Instruction{}))
	if err != nil {
		return nil, err
	}
	return &Agent{
		name:        name,
		description: desc,
		engine:      eng,
		mode:        mode,
	}, nil
}
