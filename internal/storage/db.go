// Package storage owns the SQLite store: the single persistent connection,
// its bounded-retry acquisition, scoped statement execution, schema
// migrations, snapshots and the repository built on top.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 100 * time.Millisecond
)

// Options tunes the connection manager's retry policy.
type Options struct {
	// MaxAttempts bounds connection and statement retries. Zero means the
	// default of 5.
	MaxAttempts int

	// Backoff is the base delay between attempts, doubled per attempt.
	// Zero means the default of 100ms.
	Backoff time.Duration

	// Sleep replaces time.Sleep in tests.
	Sleep func(time.Duration)
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultBackoff
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	return o
}

// DB owns the store handle for the process lifetime: opened at startup,
// closed at shutdown. All access is serialized through one connection.
type DB struct {
	path string
	opts Options
	db   *sql.DB
}

// Open connects to the SQLite database at path, retrying transient failures
// up to the bound, and applies pending migrations. The parent directory is
// created if missing.
func Open(path string, opts Options) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	d := &DB{path: path, opts: opts.withDefaults()}
	if err := d.connect(); err != nil {
		return nil, err
	}
	if err := RunMigrations(path); err != nil {
		d.db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Database opened", "path", path)
	return d, nil
}

func (d *DB) connect() error {
	// Any failure to reach the store at connect time counts as transient
	// unavailability and consumes a retry attempt.
	r := d.retrier(func(error) bool { return true })
	return r.do(func() error {
		db, err := sql.Open("sqlite", d.path)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return err
		}
		// One owned connection, serialized access.
		db.SetMaxOpenConns(1)
		d.db = db
		return nil
	})
}

func (d *DB) retrier(retryable func(error) bool) retrier {
	return retrier{
		maxAttempts: d.opts.MaxAttempts,
		backoff:     d.opts.Backoff,
		sleep:       d.opts.Sleep,
		retryable:   retryable,
	}
}

// Execute runs a single parameterized statement over a scoped connection.
// The connection is acquired, the statement executed and the connection
// released on every exit path. Transient failures are retried up to the
// bound; constraint and statement errors surface immediately.
func (d *DB) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := d.retrier(isTransient).do(func() error {
		conn, err := d.db.Conn(ctx)
		if err != nil {
			return classify(err)
		}
		defer conn.Close()

		res, err = conn.ExecContext(ctx, query, args...)
		return classify(err)
	})
	return res, err
}

// Select runs a query over a scoped connection and invokes scan once per
// row. Rows are always closed before Select returns.
func (d *DB) Select(ctx context.Context, query string, scan func(*sql.Rows) error, args ...any) error {
	return d.retrier(isTransient).do(func() error {
		conn, err := d.db.Conn(ctx)
		if err != nil {
			return classify(err)
		}
		defer conn.Close()

		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return classify(err)
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return classify(rows.Err())
	})
}

// WithTx runs fn inside a transaction, rolling back on any error path.
// A transient failure rolls back and retries fn from scratch.
func (d *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return d.retrier(isTransient).do(func() error {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return classify(err)
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			return classify(err)
		}
		return classify(tx.Commit())
	})
}

// Path returns the store file location.
func (d *DB) Path() string { return d.path }

// Close releases the store handle.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Reopen re-establishes the connection against the current store file,
// applying the same retry policy and any pending migrations. Used after a
// snapshot restore replaces the file underneath us.
func (d *DB) Reopen() error {
	if err := d.Close(); err != nil {
		return fmt.Errorf("close before reopen: %w", err)
	}
	if err := d.connect(); err != nil {
		return err
	}
	if err := RunMigrations(d.path); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("Database reopened", "path", d.path)
	return nil
}
