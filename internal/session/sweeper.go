package session

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper runs a background goroutine that periodically drops retry
// sessions idle longer than ttl. It stops when ctx is cancelled.
func StartSweeper(ctx context.Context, store *Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				expired := store.SweepExpired(time.Now(), ttl)
				if len(expired) == 0 {
					continue
				}
				for _, sess := range expired {
					slog.Info("Session sweeper dropped idle session",
						"session_id", sess.ID,
						"user_id", sess.UserID,
						"attempts", len(sess.Attempts))
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
