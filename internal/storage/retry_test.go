package storage

import (
	"errors"
	"testing"
	"time"

	"rupeeone/internal/core"
)

func newTestRetrier(maxAttempts int, slept *[]time.Duration, retryable func(error) bool) retrier {
	return retrier{
		maxAttempts: maxAttempts,
		backoff:     10 * time.Millisecond,
		sleep:       func(d time.Duration) { *slept = append(*slept, d) },
		retryable:   retryable,
	}
}

func TestRetrierSucceedsBelowBound(t *testing.T) {
	var slept []time.Duration
	r := newTestRetrier(5, &slept, func(error) bool { return true })

	failures := 3
	calls := 0
	err := r.do(func() error {
		calls++
		if calls <= failures {
			return errors.New("database is locked")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != failures+1 {
		t.Errorf("op called %d times, want %d", calls, failures+1)
	}
	// Exponential backoff: base, 2x, 4x.
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestRetrierFailsAtBound(t *testing.T) {
	var slept []time.Duration
	r := newTestRetrier(3, &slept, func(error) bool { return true })

	calls := 0
	err := r.do(func() error {
		calls++
		return errors.New("database is locked")
	})

	var cerr *core.ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %T (%v), want *core.ConnectionError", err, err)
	}
	if cerr.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", cerr.Attempts)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	// Sleeps happen between attempts only.
	if len(slept) != 2 {
		t.Errorf("slept %d times, want 2", len(slept))
	}
}

func TestRetrierSurfacesNonRetryableImmediately(t *testing.T) {
	var slept []time.Duration
	r := newTestRetrier(5, &slept, isTransient)

	want := &core.IntegrityError{Err: errors.New("UNIQUE constraint failed")}
	calls := 0
	err := r.do(func() error {
		calls++
		return want
	})

	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times, want 0", len(slept))
	}
}

func TestRetrierImmediateSuccess(t *testing.T) {
	var slept []time.Duration
	r := newTestRetrier(5, &slept, func(error) bool { return true })

	calls := 0
	if err := r.do(func() error { calls++; return nil }); err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 1 || len(slept) != 0 {
		t.Errorf("calls = %d, sleeps = %d; want 1, 0", calls, len(slept))
	}
}

func TestRetrierTransientSequenceThenIntegrity(t *testing.T) {
	// A transient failure sequence followed by a permanent error must stop
	// retrying at the permanent error.
	var slept []time.Duration
	r := newTestRetrier(5, &slept, isTransient)

	seq := []error{
		&transientError{err: errors.New("busy")},
		&transientError{err: errors.New("busy")},
		&core.IntegrityError{Err: errors.New("constraint")},
	}
	calls := 0
	err := r.do(func() error {
		e := seq[calls]
		calls++
		return e
	})

	var ierr *core.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("error = %T, want *core.IntegrityError", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}
