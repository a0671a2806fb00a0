// Package session provides the in-memory store for in-flight retry sessions.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/progressmethod/commitment-coach/internal/domain"
)

// ErrDuplicateSession is returned when creating a session whose ID is
// already registered.
var ErrDuplicateSession = errors.New("duplicate session")

// Store maps session IDs to in-flight retry sessions. Sessions for
// different users coexist; each individual session is mutated only by its
// own dialogue, so a single mutex around the map is enough.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.RetrySession
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.RetrySession),
	}
}

// Create registers a new session.
func (s *Store) Create(sess *domain.RetrySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return ErrDuplicateSession
	}
	s.sessions[sess.ID] = sess
	return nil
}

// Get returns the session for the given ID, or nil if unknown or expired.
func (s *Store) Get(sessionID string) *domain.RetrySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID]
}

// Touch refreshes a session's last-mutated timestamp so an in-flight
// transition is never swept mid-dialogue.
func (s *Store) Touch(sessionID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.LastMutatedAt = now
	}
}

// Remove drops a session. Removing an absent session is not an error.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// SweepExpired removes and returns all sessions idle longer than ttl.
// Expired sessions are dropped silently; no notification is sent.
func (s *Store) SweepExpired(now time.Time, ttl time.Duration) []*domain.RetrySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*domain.RetrySession
	for id, sess := range s.sessions {
		if now.Sub(sess.LastMutatedAt) > ttl {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	return expired
}

// Len returns the number of in-flight sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
