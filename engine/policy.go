package engine

import (
	"strings"

	"github.com/hupe1980/agentgraph/core"
)

// Decision is the outcome of a continuation predicate.
type Decision int

const (
	// Continue follows the loop edge.
	Continue Decision = iota
	// End terminates the run.
	End
)

func (d Decision) String() string {
	if d == End {
		return "END"
	}
	return "CONTINUE"
}

// Predicate decides whether the graph keeps looping. Implementations must be
// pure functions of the log.
type Predicate interface {
	Decide(state *core.ConversationState) Decision
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(state *core.ConversationState) Decision

// Decide implements Predicate.
func (f PredicateFunc) Decide(state *core.ConversationState) Decision { return f(state) }

// ToolCallPolicy continues while the most recent assistant message requests tools.
type ToolCallPolicy struct{}

// Decide implements Predicate.
func (ToolCallPolicy) Decide(state *core.ConversationState) Decision {
	if state == nil {
		return End
	}
	last, ok := state.Log.LastAssistant()
	if !ok || !last.HasToolCalls() {
		return End
	}
	return Continue
}

// Sentinel recognizes the tool result that terminates a drafting run.
type Sentinel func(core.ToolResultMessage) bool

// TextSentinel matches successful results whose content contains every word,
// case-insensitively.
func TextSentinel(words ...string) Sentinel {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return func(m core.ToolResultMessage) bool {
		if m.IsError {
			return false
		}
		content := strings.ToLower(m.Content)
		for _, w := range lowered {
			if !strings.Contains(content, w) {
				return false
			}
		}
		return true
	}
}

// SignalSentinel matches results carrying the given structured signal.
func SignalSentinel(signal string) Sentinel {
	return func(m core.ToolResultMessage) bool {
		return !m.IsError && signal != "" && m.Signal == signal
	}
}

// AnySentinel matches when any of the given sentinels does.
func AnySentinel(sentinels ...Sentinel) Sentinel {
	return func(m core.ToolResultMessage) bool {
		for _, s := range sentinels {
			if s != nil && s(m) {
				return true
			}
		}
		return false
	}
}

// DefaultSentinel accepts either the "saved ... document" wording or the
// document.saved signal emitted by the save tool.
func DefaultSentinel() Sentinel {
	return AnySentinel(TextSentinel("saved", "document"), SignalSentinel(core.SignalDocumentSaved))
}

// SentinelResultPolicy scans the log newest first and ends as soon as a tool
// result matches. An empty log, or one without a match, continues.
type SentinelResultPolicy struct {
	// Match defaults to DefaultSentinel.
	Match Sentinel
}

// Decide implements Predicate.
func (p SentinelResultPolicy) Decide(state *core.ConversationState) Decision {
	if state == nil {
		return Continue
	}
	match := p.Match
	if match == nil {
		match = DefaultSentinel()
	}
	msgs := state.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if tr, ok := msgs[i].(core.ToolResultMessage); ok && match(tr) {
			return End
		}
	}
	return Continue
}
