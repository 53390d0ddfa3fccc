// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside agentgraph.
//
// Core goals:
//   - Unify streaming and non-streaming generation behind a single interface
//   - Speak the core message types so providers never leak SDK shapes upward
//   - Fail fast: a failed call becomes an *InvocationError and is not retried
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (openai, anthropic, gemini, ollama) live in sub-packages and
// implement Model so the engine stays decoupled from vendor SDKs.
package model
