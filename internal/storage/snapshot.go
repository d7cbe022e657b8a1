package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ExportSnapshot streams a consistent copy of the full store file to w.
// The copy is produced with VACUUM INTO, so it is a valid database on its
// own regardless of in-flight page state.
func (d *DB) ExportSnapshot(ctx context.Context, w io.Writer) error {
	tmp := fmt.Sprintf("%s.export-%d", d.path, time.Now().UnixNano())
	defer os.Remove(tmp)

	if _, err := d.Execute(ctx, "VACUUM INTO ?", tmp); err != nil {
		return fmt.Errorf("vacuum into snapshot: %w", err)
	}

	f, err := os.Open(tmp)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot exported", "bytes", n)
	return nil
}

// ImportSnapshot atomically replaces the store contents with the snapshot
// read from r and reopens the connection against the restored file. The
// replacement is written next to the store and moved into place with a
// rename, so a failed restore never leaves a half-written database behind.
func (d *DB) ImportSnapshot(r io.Reader) error {
	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, "restore-*.db")
	if err != nil {
		return fmt.Errorf("create restore file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write restore file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync restore file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close restore file: %w", err)
	}

	// Release the current handle before swapping the file underneath it.
	if err := d.Close(); err != nil {
		return fmt.Errorf("close store before restore: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		// Swap failed: get back onto the original file.
		if reopenErr := d.Reopen(); reopenErr != nil {
			return fmt.Errorf("replace store: %w (reopen original: %v)", err, reopenErr)
		}
		return fmt.Errorf("replace store: %w", err)
	}

	if err := d.Reopen(); err != nil {
		return fmt.Errorf("reopen restored store: %w", err)
	}

	slog.Info("Snapshot restored", "path", d.path)
	return nil
}
