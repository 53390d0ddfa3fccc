package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTurnLimit is returned once a TurnLimiter has been exhausted.
var ErrTurnLimit = errors.New("turn limit exceeded")

// TurnLimiter enforces a maximum number of model turns per run.
type TurnLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewTurnLimiter creates a new limiter with a max number of turns.
// If max == 0, unlimited turns are allowed.
func NewTurnLimiter(max int) *TurnLimiter {
	return &TurnLimiter{max: max}
}

// Increment increases the turn counter and returns an error wrapping
// ErrTurnLimit if the limit is exceeded.
func (tl *TurnLimiter) Increment() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.count++
	if tl.max > 0 && tl.count > tl.max {
		return fmt.Errorf("%w: max %d model turns", ErrTurnLimit, tl.max)
	}

	return nil
}

// Count returns the current number of turns taken.
func (tl *TurnLimiter) Count() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	return tl.count
}

// Remaining returns how many turns are left before hitting the limit.
func (tl *TurnLimiter) Remaining() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.max == 0 {
		return -1 // unlimited
	}

	return tl.max - tl.count
}
