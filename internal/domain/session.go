// Package domain contains core domain types for the commitment coach.
package domain

import (
	"time"
)

// SessionState identifies where a retry session is in the coaching dialogue.
type SessionState string

const (
	// StateAwaitingChoice means the last analysis scored below the success
	// threshold and the user has been offered retry/keep/cancel choices.
	StateAwaitingChoice SessionState = "awaiting_choice"
	// StateAwaitingFreeform means the user chose a manual rewrite and the
	// session is blocked on the next freeform message.
	StateAwaitingFreeform SessionState = "awaiting_freeform"
	// StateFinalChoice means the retry budget is exhausted and the user
	// decides between saving as-is, taking the suggestion, or cancelling.
	StateFinalChoice SessionState = "final_choice"
)

// UserChoice is a button press routed back into the orchestrator.
type UserChoice string

const (
	ChoiceRetryManual   UserChoice = "retry_manual"
	ChoiceUseSuggestion UserChoice = "use_suggestion"
	ChoiceKeepOriginal  UserChoice = "keep_original"
	ChoiceSaveFinal     UserChoice = "save_final"
	ChoiceCancel        UserChoice = "cancel"
)

// Valid reports whether the choice is one of the defined button values.
func (c UserChoice) Valid() bool {
	switch c {
	case ChoiceRetryManual, ChoiceUseSuggestion, ChoiceKeepOriginal, ChoiceSaveFinal, ChoiceCancel:
		return true
	}
	return false
}

// Attempt records one completed analyzer round.
type Attempt struct {
	Number     int       `json:"number"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	Suggestion string    `json:"suggestion"`
	Feedback   string    `json:"feedback"`
	Timestamp  time.Time `json:"timestamp"`
}

// RetrySession holds one user's in-flight attempt to raise a commitment's
// SMART score through guided iterations. Sessions live only in memory and
// are removed on any terminal transition or after the inactivity TTL.
type RetrySession struct {
	ID            string
	UserID        string
	OriginalText  string
	CurrentText   string
	AttemptCount  int
	Attempts      []Attempt
	State         SessionState
	CreatedAt     time.Time
	LastMutatedAt time.Time
}

// RecordAttempt appends an analyzer result to the audit trail. The attempt
// number is the session's current count, so len(Attempts) == AttemptCount+1
// holds after every completed analysis.
func (s *RetrySession) RecordAttempt(text string, score float64, suggestion, feedback string) {
	s.Attempts = append(s.Attempts, Attempt{
		Number:     s.AttemptCount,
		Text:       text,
		Score:      score,
		Suggestion: suggestion,
		Feedback:   feedback,
		Timestamp:  time.Now(),
	})
}

// LastAttempt returns the most recent analyzer round, or nil before the
// first analysis completes.
func (s *RetrySession) LastAttempt() *Attempt {
	if len(s.Attempts) == 0 {
		return nil
	}
	return &s.Attempts[len(s.Attempts)-1]
}

// AwaitingFreeformInput reports whether the session is blocked waiting for
// the user to type a replacement commitment.
func (s *RetrySession) AwaitingFreeformInput() bool {
	return s.State == StateAwaitingFreeform
}

// ExpiresAt returns when the session times out given the inactivity TTL.
func (s *RetrySession) ExpiresAt(ttl time.Duration) time.Time {
	return s.LastMutatedAt.Add(ttl)
}
