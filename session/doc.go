// Package session runs the outer, interactive loop around the agent graph.
//
// A Session reads utterances from an Input until the user types ExitCommand
// or the input is exhausted, runs the graph once per utterance, and writes a
// transcript of the whole conversation when the loop ends. The inner graph
// END only finishes one run; the outer loop keeps going until exit.
//
// Two history modes mirror the plain and memory chatbots:
//
//	ModeStateless  every utterance starts a fresh conversation
//	ModeRetained   every utterance is appended to one growing conversation
//
// Conversations are kept in a Store keyed by conversation id so a retained
// session can be resumed by id.
package session
