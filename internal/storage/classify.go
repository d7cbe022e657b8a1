package storage

import (
	"errors"

	"rupeeone/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// transientError marks a store failure that is expected to resolve on its
// own, such as lock contention. Only these are retried.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// classify maps driver errors onto the application error taxonomy.
// BUSY/LOCKED is transient contention, CONSTRAINT is an integrity violation
// that must not be retried, and everything the driver rejects as a malformed
// or misused statement is a programming defect.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return &transientError{err: err}
		case sqlite3.SQLITE_CONSTRAINT:
			return &core.IntegrityError{Err: err}
		case sqlite3.SQLITE_ERROR, sqlite3.SQLITE_MISUSE, sqlite3.SQLITE_RANGE:
			return &core.StatementError{Err: err}
		}
	}
	return err
}
