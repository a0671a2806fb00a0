package store

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	writeMaxRetries = 3
	writeBaseDelay  = 100 * time.Millisecond
)

// isSQLiteConflict reports whether the error is SQLITE_BUSY or "database
// is locked", the two concurrency errors worth retrying.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// execWithRetry wraps a write operation with exponential backoff on
// SQLITE_BUSY / "database is locked" errors. The busy_timeout pragma
// handles most contention at the connection level; this catches the rest.
func execWithRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < writeMaxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if !isSQLiteConflict(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if i < writeMaxRetries-1 {
			delay := writeBaseDelay * time.Duration(1<<i) // 100ms, 200ms, 400ms
			slog.Debug("SQLite write conflict, retrying",
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
		}
	}
	return err
}
