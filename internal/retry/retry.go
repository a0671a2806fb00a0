// Package retry drives the bounded-retry SMART commitment coaching
// workflow: analyze, branch on score and attempt count, prompt the user,
// and persist the finally-accepted commitment.
package retry

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTransition means a choice was issued that is not valid for
	// the session's current state. The session is unchanged.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnexpectedInput means freeform text arrived while the session was
	// not waiting for one. The session is unchanged.
	ErrUnexpectedInput = errors.New("unexpected input")
	// ErrSessionNotFound means the session ID is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyCommitment rejects blank commitment text.
	ErrEmptyCommitment = errors.New("empty commitment")
)

// OutcomeKind classifies the result of one orchestrator operation.
type OutcomeKind string

const (
	// Terminal outcomes. The session is removed from the store.
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeDegradedSuccess  OutcomeKind = "degraded_success"
	OutcomeKeptOriginal     OutcomeKind = "kept_original"
	OutcomeFinalSaved       OutcomeKind = "final_saved"
	OutcomeCancelled        OutcomeKind = "cancelled"

	// Non-terminal outcomes. The dialogue continues.
	OutcomeAwaitingChoice   OutcomeKind = "awaiting_choice"
	OutcomeAwaitingFreeform OutcomeKind = "awaiting_freeform"
	OutcomeFinalChoice      OutcomeKind = "final_choice"
)

// Outcome reports where a session landed after an operation.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	SessionID string      `json:"session_id"`
	// Analyses is how many analyzer rounds have completed.
	Analyses int `json:"analyses"`
	// Score is the last recorded (or defaulted) score.
	Score float64 `json:"score"`
	// Text is the commitment text the outcome refers to.
	Text string `json:"text"`
	// Saved reports whether a commitment was persisted.
	Saved      bool   `json:"saved"`
	Suggestion string `json:"suggestion,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}

// Terminal reports whether the outcome removed the session.
func (o Outcome) Terminal() bool {
	switch o.Kind {
	case OutcomeSuccess, OutcomeDegradedSuccess, OutcomeKeptOriginal, OutcomeFinalSaved, OutcomeCancelled:
		return true
	}
	return false
}

// Config holds the scoring thresholds and retry budget.
type Config struct {
	// MaxRetries is how many analyses beyond the first a session may use.
	MaxRetries int
	// SuccessScore is the closed lower bound for accepting a commitment.
	SuccessScore float64
	// AnalyzeTimeout bounds a single analyzer call.
	AnalyzeTimeout time.Duration
	// TimeoutScore is the default score saved when the analyzer times out.
	TimeoutScore float64
	// ErrorScore is the default score saved when the analyzer errors.
	ErrorScore float64
	// OriginalScore is the fixed score for keep-original saves; the
	// original text is never re-analyzed.
	OriginalScore float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		SuccessScore:   8.0,
		AnalyzeTimeout: 15 * time.Second,
		TimeoutScore:   6,
		ErrorScore:     5,
		OriginalScore:  5,
	}
}
