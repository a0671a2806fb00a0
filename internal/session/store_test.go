package session

import (
	"errors"
	"testing"
	"time"

	"github.com/progressmethod/commitment-coach/internal/domain"
)

func newSession(id string, lastMutated time.Time) *domain.RetrySession {
	return &domain.RetrySession{
		ID:            id,
		UserID:        "user-1",
		OriginalText:  "exercise more",
		CurrentText:   "exercise more",
		CreatedAt:     lastMutated,
		LastMutatedAt: lastMutated,
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s := NewStore()
	now := time.Now()

	if err := s.Create(newSession("a", now)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create(newSession("a", now)); !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}
}

func TestGetReturnsNilForUnknownID(t *testing.T) {
	s := NewStore()
	if got := s.Get("missing"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	if err := s.Create(newSession("a", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Remove("a")
	s.Remove("a")
	s.Remove("never-existed")

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestSweepExpiredDropsOnlyIdleSessions(t *testing.T) {
	s := NewStore()
	now := time.Now()
	ttl := 30 * time.Minute

	if err := s.Create(newSession("stale", now.Add(-31*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create(newSession("fresh", now.Add(-5*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Exactly at the boundary is not yet expired.
	if err := s.Create(newSession("boundary", now.Add(-ttl))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired := s.SweepExpired(now, ttl)
	if len(expired) != 1 || expired[0].ID != "stale" {
		t.Fatalf("expected only the stale session swept, got %+v", expired)
	}
	if s.Get("fresh") == nil || s.Get("boundary") == nil {
		t.Fatal("active sessions must survive the sweep")
	}
	if s.Get("stale") != nil {
		t.Fatal("stale session should be gone")
	}
}

func TestTouchDefersExpiry(t *testing.T) {
	s := NewStore()
	now := time.Now()
	ttl := 30 * time.Minute

	if err := s.Create(newSession("a", now.Add(-29*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Touch("a", now)

	expired := s.SweepExpired(now.Add(10*time.Minute), ttl)
	if len(expired) != 0 {
		t.Fatalf("touched session must not expire, got %+v", expired)
	}

	// Touching an unknown session is a no-op.
	s.Touch("missing", now)
}
