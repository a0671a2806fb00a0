package retry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/progressmethod/commitment-coach/internal/analyzer"
	"github.com/progressmethod/commitment-coach/internal/domain"
	"github.com/progressmethod/commitment-coach/internal/session"
	"github.com/progressmethod/commitment-coach/internal/store"
	"github.com/progressmethod/commitment-coach/internal/transport"
)

// Orchestrator owns retry sessions for the duration of the dialogue.
// Operations on one session arrive sequentially (one user, one
// conversation, one pending action); sessions for different users may be
// driven concurrently, which the session store handles.
type Orchestrator struct {
	sessions  *session.Store
	scorer    analyzer.Scorer
	repo      store.Repository
	messenger transport.Messenger
	cfg       Config
}

// NewOrchestrator wires the retry workflow.
func NewOrchestrator(sessions *session.Store, scorer analyzer.Scorer, repo store.Repository, messenger transport.Messenger, cfg Config) *Orchestrator {
	return &Orchestrator{
		sessions:  sessions,
		scorer:    scorer,
		repo:      repo,
		messenger: messenger,
		cfg:       cfg,
	}
}

// StartSession creates a retry session for the submitted commitment text
// and immediately runs the first analysis round.
func (o *Orchestrator) StartSession(ctx context.Context, userID, commitmentText string) (Outcome, error) {
	commitmentText = strings.TrimSpace(commitmentText)
	if commitmentText == "" {
		return Outcome{}, ErrEmptyCommitment
	}

	now := time.Now()
	sess := &domain.RetrySession{
		ID:            uuid.NewString(),
		UserID:        userID,
		OriginalText:  commitmentText,
		CurrentText:   commitmentText,
		CreatedAt:     now,
		LastMutatedAt: now,
	}

	if err := o.sessions.Create(sess); err != nil {
		return Outcome{}, err
	}

	slog.Info("Retry session started", "session_id", sess.ID, "user_id", userID)
	return o.runAnalysisRound(ctx, sess)
}

// HandleUserChoice applies a button press to the session.
func (o *Orchestrator) HandleUserChoice(ctx context.Context, sessionID string, choice domain.UserChoice) (Outcome, error) {
	if !choice.Valid() {
		return Outcome{}, ErrInvalidTransition
	}

	sess := o.sessions.Get(sessionID)
	if sess == nil {
		return Outcome{}, ErrSessionNotFound
	}

	switch choice {
	case domain.ChoiceCancel:
		// Cancel is honored from every non-terminal state, no persistence.
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, cancelledPrompt(sess))
		slog.Info("Retry session cancelled", "session_id", sess.ID, "user_id", sess.UserID)
		return Outcome{Kind: OutcomeCancelled, SessionID: sess.ID, Analyses: len(sess.Attempts), Text: sess.CurrentText}, nil

	case domain.ChoiceRetryManual:
		if sess.State != domain.StateAwaitingChoice {
			return Outcome{}, ErrInvalidTransition
		}
		sess.State = domain.StateAwaitingFreeform
		o.sessions.Touch(sess.ID, time.Now())
		o.messenger.PresentPrompt(sess.UserID, awaitingTextPrompt(sess))
		return Outcome{Kind: OutcomeAwaitingFreeform, SessionID: sess.ID, Analyses: len(sess.Attempts), Text: sess.CurrentText}, nil

	case domain.ChoiceUseSuggestion:
		return o.useSuggestion(ctx, sess)

	case domain.ChoiceKeepOriginal:
		if sess.State != domain.StateAwaitingChoice {
			return Outcome{}, ErrInvalidTransition
		}
		// The original is saved at a fixed default score, never re-analyzed.
		if err := o.save(ctx, sess, sess.OriginalText, o.cfg.OriginalScore, domain.SourceOriginal); err != nil {
			return Outcome{}, err
		}
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, savedPrompt(sess, sess.OriginalText, o.cfg.OriginalScore, false))
		return Outcome{Kind: OutcomeKeptOriginal, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: o.cfg.OriginalScore, Text: sess.OriginalText, Saved: true}, nil

	case domain.ChoiceSaveFinal:
		if sess.State != domain.StateFinalChoice {
			return Outcome{}, ErrInvalidTransition
		}
		last := sess.LastAttempt()
		if err := o.save(ctx, sess, sess.CurrentText, last.Score, domain.SourceFinal); err != nil {
			return Outcome{}, err
		}
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, savedPrompt(sess, sess.CurrentText, last.Score, false))
		return Outcome{Kind: OutcomeFinalSaved, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: last.Score, Text: sess.CurrentText, Saved: true}, nil
	}

	return Outcome{}, ErrInvalidTransition
}

// SubmitFreeformRetry feeds the user's typed rewrite into the next
// analysis round. Stray text while no retry is pending is rejected without
// touching the session.
func (o *Orchestrator) SubmitFreeformRetry(ctx context.Context, sessionID, newText string) (Outcome, error) {
	sess := o.sessions.Get(sessionID)
	if sess == nil {
		return Outcome{}, ErrSessionNotFound
	}
	if !sess.AwaitingFreeformInput() {
		return Outcome{}, ErrUnexpectedInput
	}

	newText = strings.TrimSpace(newText)
	if newText == "" {
		return Outcome{}, ErrEmptyCommitment
	}

	o.sessions.Touch(sess.ID, time.Now())
	sess.CurrentText = newText
	sess.State = ""
	sess.AttemptCount++
	return o.runAnalysisRound(ctx, sess)
}

// useSuggestion handles USE_AI_SUGGESTION from both non-terminal states.
func (o *Orchestrator) useSuggestion(ctx context.Context, sess *domain.RetrySession) (Outcome, error) {
	last := sess.LastAttempt()
	if last == nil || last.Suggestion == "" {
		return Outcome{}, ErrInvalidTransition
	}

	switch sess.State {
	case domain.StateAwaitingChoice:
		o.sessions.Touch(sess.ID, time.Now())
		sess.CurrentText = last.Suggestion
		sess.State = ""
		sess.AttemptCount++
		return o.runAnalysisRound(ctx, sess)

	case domain.StateFinalChoice:
		// The retry budget is spent: the suggestion is saved with the last
		// recorded score, no further analyzer call.
		if err := o.save(ctx, sess, last.Suggestion, last.Score, domain.SourceFinal); err != nil {
			return Outcome{}, err
		}
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, savedPrompt(sess, last.Suggestion, last.Score, false))
		return Outcome{Kind: OutcomeFinalSaved, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: last.Score, Text: last.Suggestion, Saved: true}, nil
	}

	return Outcome{}, ErrInvalidTransition
}

// runAnalysisRound performs one bounded analyzer call and branches on the
// result. Callers have already incremented AttemptCount for retries, so
// AttemptCount here is the zero-based analysis number and never exceeds
// MaxRetries.
func (o *Orchestrator) runAnalysisRound(ctx context.Context, sess *domain.RetrySession) (Outcome, error) {
	actx, cancel := context.WithTimeout(ctx, o.cfg.AnalyzeTimeout)
	defer cancel()

	res, err := o.scorer.Analyze(actx, sess.UserID, sess.CurrentText)
	if err != nil {
		// Fail open: analyzer unavailability never blocks a save. The
		// attempt counter is not incremented on this path.
		score := o.cfg.ErrorScore
		source := domain.SourceDegradedError
		if errors.Is(err, analyzer.ErrTimeout) {
			score = o.cfg.TimeoutScore
			source = domain.SourceDegradedTimeout
		}
		slog.Warn("Analyzer unavailable, saving with default score",
			"session_id", sess.ID,
			"user_id", sess.UserID,
			"score", score,
			"error", err)

		if saveErr := o.save(ctx, sess, sess.CurrentText, score, source); saveErr != nil {
			return Outcome{}, saveErr
		}
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, savedPrompt(sess, sess.CurrentText, score, true))
		return Outcome{Kind: OutcomeDegradedSuccess, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: score, Text: sess.CurrentText, Saved: true}, nil
	}

	sess.RecordAttempt(sess.CurrentText, res.Score, res.Suggestion, res.Feedback)

	if res.Score >= o.cfg.SuccessScore {
		if err := o.save(ctx, sess, sess.CurrentText, res.Score, domain.SourceAnalyzed); err != nil {
			return Outcome{}, err
		}
		o.sessions.Remove(sess.ID)
		o.messenger.PresentPrompt(sess.UserID, savedPrompt(sess, sess.CurrentText, res.Score, false))
		slog.Info("Commitment accepted",
			"session_id", sess.ID,
			"user_id", sess.UserID,
			"score", res.Score,
			"analyses", len(sess.Attempts))
		return Outcome{Kind: OutcomeSuccess, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: res.Score, Text: sess.CurrentText, Saved: true, Feedback: res.Feedback}, nil
	}

	if sess.AttemptCount < o.cfg.MaxRetries {
		sess.State = domain.StateAwaitingChoice
		o.sessions.Touch(sess.ID, time.Now())
		o.messenger.PresentPrompt(sess.UserID, guidancePrompt(sess, res))
		return Outcome{Kind: OutcomeAwaitingChoice, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: res.Score, Text: sess.CurrentText, Suggestion: res.Suggestion, Feedback: res.Feedback}, nil
	}

	// Fourth sub-threshold analysis: the hard ceiling. No fifth analyzer
	// call is ever made automatically.
	sess.State = domain.StateFinalChoice
	o.sessions.Touch(sess.ID, time.Now())
	o.messenger.PresentPrompt(sess.UserID, finalChoicePrompt(sess, res))
	return Outcome{Kind: OutcomeFinalChoice, SessionID: sess.ID, Analyses: len(sess.Attempts), Score: res.Score, Text: sess.CurrentText, Suggestion: res.Suggestion, Feedback: res.Feedback}, nil
}

// save persists exactly one commitment for a terminal transition. On
// failure the session stays registered so the user's work is not lost; the
// caller may re-issue the terminal action to retry the save.
func (o *Orchestrator) save(ctx context.Context, sess *domain.RetrySession, text string, score float64, source domain.CommitmentSource) error {
	err := o.repo.SaveCommitment(ctx, &domain.Commitment{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		Text:      text,
		Score:     score,
		Source:    source,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("Failed to persist commitment",
			"session_id", sess.ID,
			"user_id", sess.UserID,
			"source", source,
			"error", err)
		return err
	}
	return nil
}
