// Package core provides the foundational domain types of agentgraph:
//
//   - Message, a closed sum type over system, user, assistant and tool-result entries
//   - Log, the ordered append-only conversation history of a run
//   - ConversationState, the per-run owner of a Log
//   - TurnLimiter, an optional guard against runaway model loops
//
// The package keeps orchestration (engine), tool execution (tool) and model
// providers (model) out of scope so those layers can depend on a small,
// stable set of types.
package core
