// Package agent assembles ready to run agents on top of the engine package.
//
// Four variants are provided:
//
//  1. Chatbot: one model turn per utterance, every utterance starts fresh
//  2. Memory chatbot: one model turn per utterance, history carries over
//  3. ReAct: the reasoning topology with arithmetic tools
//  4. Drafter: the drafting topology editing and saving a document
//
// An Agent only wires collaborators together (model, tools, instruction,
// topology, history mode). Running it interactively is the job of the
// session package; NewSession bridges the two.
package agent
