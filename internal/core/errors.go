package core

import "fmt"

// ValidationError reports a rejected user input. Field names the offending
// input field, Reason is safe to show inline next to it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConnectionError is surfaced after the connection manager has exhausted its
// retry budget against a transient store failure.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IntegrityError is a storage constraint violation (for example a duplicate
// category name or budget month). It is never retried.
type IntegrityError struct {
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// ReferentialIntegrityError blocks a category deletion while expense or
// income rows still reference it by name.
type ReferentialIntegrityError struct {
	Category string
	Refs     int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("category %q is referenced by %d record(s)", e.Category, e.Refs)
}

// NotFoundError indicates a stale identifier; the caller should refresh its
// view of the data.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// StatementError wraps a malformed or mistyped statement. This is a
// programming defect, not user input; it is surfaced without retry.
type StatementError struct {
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement error: %v", e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }
