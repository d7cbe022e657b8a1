package storage

import (
	"time"

	"rupeeone/internal/core"
)

// retryState tracks the bounded retry loop of the connection manager.
type retryState int

const (
	stateIdle retryState = iota
	stateAttempting
	stateSucceeded
	stateFailed
)

// retrier runs an operation under a bounded, deterministic retry policy:
// exponential backoff (base doubled per attempt) with a fixed attempt count.
// sleep is injectable so tests run without wall-clock delays.
type retrier struct {
	maxAttempts int
	backoff     time.Duration
	sleep       func(time.Duration)
	retryable   func(error) bool
}

// do transitions Idle -> Attempting(1) -> ... -> Succeeded or Failed.
// Attempting(n) moves to Attempting(n+1) on a retryable failure while
// n < maxAttempts and to Failed at the bound. Non-retryable errors are
// surfaced immediately without consuming further attempts.
func (r retrier) do(op func() error) error {
	state := stateIdle
	attempt := 0
	var lastErr error

	for {
		switch state {
		case stateIdle:
			attempt = 1
			state = stateAttempting
		case stateAttempting:
			lastErr = op()
			switch {
			case lastErr == nil:
				state = stateSucceeded
			case !r.retryable(lastErr):
				return lastErr
			case attempt >= r.maxAttempts:
				state = stateFailed
			default:
				r.sleep(r.backoff << (attempt - 1))
				attempt++
			}
		case stateSucceeded:
			return nil
		case stateFailed:
			return &core.ConnectionError{Attempts: attempt, Err: lastErr}
		}
	}
}
