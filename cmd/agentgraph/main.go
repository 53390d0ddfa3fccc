// Package main is the entry point of the agentgraph CLI.
//
// Usage:
//
//	agentgraph [flags] <command> [args]
//
// Commands:
//
//	chat     - chatbot answering each message on its own
//	memory   - chatbot keeping the whole conversation
//	react    - reasoning loop with arithmetic tools
//	drafter  - document drafting agent
//	version  - show version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hupe1980/agentgraph/cmd/agentgraph/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
