// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/progressmethod/commitment-coach/internal/domain"
)

// ErrPersistence wraps storage failures on the commitment save path.
// Callers keep the in-memory session alive when they see it, so a failed
// save never loses the user's work.
var ErrPersistence = errors.New("persistence failure")

// Repository defines the interface for persisting users and commitments.
type Repository interface {
	// GetUser retrieves a user by their user ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// SaveCommitment persists a finally-accepted commitment. Exactly one
	// save happens per terminal session; failures are wrapped with
	// ErrPersistence and not retried here.
	SaveCommitment(ctx context.Context, c *domain.Commitment) error

	// RecentCommitments returns the user's newest commitments, newest first.
	RecentCommitments(ctx context.Context, userID string, limit int) ([]*domain.Commitment, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
