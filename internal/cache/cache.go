// Package cache provides a single-entry memoization cache for read-heavy
// lookups whose working set is one small value, such as the category list.
//
// The cache is a derived, disposable copy — never the source of truth — and
// is always reconstructable from the store. The deployment target is a
// single-user desktop process with one writer; the internal mutex only
// guards against torn reads, it does not make interleaved mutations from
// multiple goroutines meaningful.
package cache

import "sync"

// Memo caches at most one value. Get returns the cached value when present,
// otherwise computes it with the supplied loader and stores the result.
// Invalidate discards the value unconditionally; mutating code must call it
// synchronously before returning so that no completed mutation is followed
// by a stale read.
type Memo[T any] struct {
	mu    sync.Mutex
	value T
	valid bool
}

// NewMemo creates an empty cache.
func NewMemo[T any]() *Memo[T] {
	return &Memo[T]{}
}

// Get returns the cached value, loading it on a miss. A loader error is
// returned as-is and leaves the cache empty, so the next Get retries.
func (m *Memo[T]) Get(load func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid {
		return m.value, nil
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	m.value = v
	m.valid = true
	return v, nil
}

// Invalidate clears the cached value.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.value = zero
	m.valid = false
}

// Cached reports whether a value is currently held.
func (m *Memo[T]) Cached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valid
}
