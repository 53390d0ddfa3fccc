// Package agentgraph runs conversational agents as a small execution graph
// that alternates between a model turn and a tool turn.
//
// The building blocks live in sub packages:
//
//   - core: messages, the append-only conversation log and conversation state
//   - tool: tool interface, typed function tools and the registry
//   - model: provider interface, invoker and adapters (OpenAI, Anthropic, Gemini, Ollama, mock)
//   - engine: states, topologies, continuation predicates, callbacks and the run loop
//   - document, artifact, transcript: drafted documents and their persistence
//   - session: the interactive outer loop ending on "exit"
//   - agent: ready made chatbot, memory chatbot, ReAct and drafter agents
//
// Typical usage:
//
//	react, err := agent.NewReAct(openai.NewModel(), nil)
//	if err != nil {
//	    return err
//	}
//	state, err := react.Ask(ctx, "Add 40 + 12 and then multiply the result by 6.")
//
// The cmd/agentgraph CLI wires the same agents to a terminal.
package agentgraph
