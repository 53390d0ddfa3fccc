package engine

import "fmt"

// State is a node of the agent graph.
type State int

const (
	// StateStart is the entry node.
	StateStart State = iota
	// StateLLMTurn invokes the model.
	StateLLMTurn
	// StateToolTurn executes requested tool calls.
	StateToolTurn
	// StateEnd is terminal.
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateLLMTurn:
		return "LLM_TURN"
	case StateToolTurn:
		return "TOOL_TURN"
	case StateEnd:
		return "END"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Topology selects the edge set of the graph.
type Topology int

const (
	// TopologyReasoning loops model and tools until the model stops calling tools.
	TopologyReasoning Topology = iota
	// TopologyDrafting always runs tools after the model and ends once a
	// tool result reports the document as saved.
	TopologyDrafting
	// TopologySingleTurn performs one model call.
	TopologySingleTurn
)

func (t Topology) String() string {
	switch t {
	case TopologyReasoning:
		return "reasoning"
	case TopologyDrafting:
		return "drafting"
	case TopologySingleTurn:
		return "single_turn"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology maps a topology name to its value.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "reasoning", "react":
		return TopologyReasoning, nil
	case "drafting", "drafter":
		return TopologyDrafting, nil
	case "single_turn", "single", "chat":
		return TopologySingleTurn, nil
	default:
		return 0, fmt.Errorf("unknown topology %q", s)
	}
}

// edge leaves a state either unconditionally (to) or through a predicate.
type edge struct {
	to         State
	predicate  Predicate
	onContinue State
	onEnd      State
}

func (e edge) conditional() bool { return e.predicate != nil }

// transitions is the outgoing edge of every non-terminal state.
type transitions map[State]edge

// buildTransitions returns the table for a topology. A non-nil override
// replaces the topology's default predicate on its conditional edge.
func buildTransitions(t Topology, override Predicate) (transitions, error) {
	switch t {
	case TopologyReasoning:
		p := override
		if p == nil {
			p = ToolCallPolicy{}
		}
		return transitions{
			StateStart:    {to: StateLLMTurn},
			StateLLMTurn:  {predicate: p, onContinue: StateToolTurn, onEnd: StateEnd},
			StateToolTurn: {to: StateLLMTurn},
		}, nil
	case TopologyDrafting:
		p := override
		if p == nil {
			p = SentinelResultPolicy{}
		}
		return transitions{
			StateStart:    {to: StateLLMTurn},
			StateLLMTurn:  {to: StateToolTurn},
			StateToolTurn: {predicate: p, onContinue: StateLLMTurn, onEnd: StateEnd},
		}, nil
	case TopologySingleTurn:
		return transitions{
			StateStart:   {to: StateLLMTurn},
			StateLLMTurn: {to: StateEnd},
		}, nil
	default:
		return nil, fmt.Errorf("unknown topology %v", t)
	}
}
