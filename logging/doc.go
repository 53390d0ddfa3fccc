// Package logging provides a minimal logging interface and adapters for agentgraph.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the engine, tool registry, invoker and session loop use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng, err := engine.New(m, registry, func(o *engine.Options) { o.Logger = logger })
package logging
