// Package engine implements the agent graph: a small state machine that
// alternates between model turns and tool turns over a conversation log.
//
// # States and Topologies
//
// A run moves through the states START, LLM_TURN, TOOL_TURN and END. Which
// edges exist is decided by a Topology:
//
//	TopologyReasoning   START -> LLM_TURN -> (tool calls? TOOL_TURN : END)
//	                    TOOL_TURN -> LLM_TURN
//
//	TopologyDrafting    START -> LLM_TURN -> TOOL_TURN
//	                    TOOL_TURN -> (document saved? END : LLM_TURN)
//
//	TopologySingleTurn  START -> LLM_TURN -> END
//
// The conditional edges are Predicates (ToolCallPolicy, SentinelResultPolicy)
// evaluated against the log after the source step has finished.
//
// # Turns
//
// LLM_TURN optionally asks a Prompter for the next user message, resolves the
// system Instruction, invokes the model with a snapshot of the log and appends
// exactly one assistant message.
//
// TOOL_TURN executes every tool call of the latest assistant message through
// the tool.Registry and appends one ToolResult per call in request order.
// Tool failures become error results and never stop the run.
//
// # Failure
//
// A model failure stops the run immediately. Run returns the state as it was
// at the time of failure together with the *model.InvocationError; nothing is
// retried.
//
// # Callbacks
//
// A CallbackManager can observe model calls, tool calls, transitions and
// errors. Callbacks run synchronously; a callback error aborts the run.
package engine
