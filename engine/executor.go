package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// ToolRunner executes one tool call and always yields a result message.
// *tool.Registry implements it.
type ToolRunner interface {
	Execute(ctx context.Context, call core.ToolCall) core.ToolResultMessage
}

// ExecutorConfig configures the tool executor.
type ExecutorConfig struct {
	// MaxParallel bounds concurrent calls. 0 or 1 runs calls sequentially.
	MaxParallel int
	Logger      logging.Logger
}

// executor runs a batch of tool calls, possibly in parallel, and returns the
// results in request order regardless of completion order.
type executor struct {
	cfg ExecutorConfig
}

func newExecutor(cfg ExecutorConfig) *executor {
	cfg.Logger = logging.OrNoOp(cfg.Logger)
	return &executor{cfg: cfg}
}

// Execute returns exactly one result per call unless ctx is cancelled, in
// which case it returns the results of a prefix of calls and ctx.Err().
func (e *executor) Execute(
	ctx context.Context,
	runner ToolRunner,
	calls []core.ToolCall,
	before func(core.ToolCall) error,
) ([]core.ToolResultMessage, error) {
	n := len(calls)
	if n == 0 {
		return nil, nil
	}

	maxPar := e.cfg.MaxParallel
	if maxPar <= 1 || n == 1 {
		return e.executeSequential(ctx, runner, calls, before)
	}
	if maxPar > n {
		maxPar = n
	}

	batchStart := time.Now()
	results := make([]core.ToolResultMessage, n)
	done := make([]bool, n)

	var wg sync.WaitGroup

	// before runs on the calling goroutine so callbacks never race.
	for _, c := range calls {
		if err := before(c); err != nil {
			return nil, err
		}
	}

	sem := make(chan struct{}, maxPar)
	for i := range calls {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, call core.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			// each goroutine owns its slot
			results[idx] = runner.Execute(ctx, call)
			done[idx] = true
		}(i, calls[i])
	}
	wg.Wait()

	var err error
	ordered := make([]core.ToolResultMessage, 0, n)
	for i := range calls {
		if !done[i] {
			// keep the appended results a prefix of the request order
			err = ctx.Err()
			break
		}
		ordered = append(ordered, results[i])
	}

	e.cfg.Logger.Debug(
		"engine.tools.batch.complete",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)
	return ordered, err
}

func (e *executor) executeSequential(
	ctx context.Context,
	runner ToolRunner,
	calls []core.ToolCall,
	before func(core.ToolCall) error,
) ([]core.ToolResultMessage, error) {
	results := make([]core.ToolResultMessage, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if err := before(call); err != nil {
			return results, err
		}
		results = append(results, runner.Execute(ctx, call))
	}
	return results, nil
}
