package domain

import (
	"time"
)

// CommitmentSource records which path persisted the commitment.
type CommitmentSource string

const (
	// SourceAnalyzed means the commitment passed the score threshold.
	SourceAnalyzed CommitmentSource = "analyzed"
	// SourceDegradedTimeout means the analyzer timed out and the text was
	// saved fail-open with the default timeout score.
	SourceDegradedTimeout CommitmentSource = "degraded_timeout"
	// SourceDegradedError means the analyzer failed and the text was saved
	// fail-open with the default error score.
	SourceDegradedError CommitmentSource = "degraded_error"
	// SourceOriginal means the user kept their original wording.
	SourceOriginal CommitmentSource = "original"
	// SourceFinal means the user saved from the final-choice state after
	// exhausting the retry budget.
	SourceFinal CommitmentSource = "final"
)

// Commitment is a finally-accepted commitment, as persisted.
type Commitment struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Text      string           `json:"text"`
	Score     float64          `json:"score"`
	Source    CommitmentSource `json:"source"`
	CreatedAt time.Time        `json:"created_at"`
}
