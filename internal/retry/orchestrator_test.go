package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/progressmethod/commitment-coach/internal/analyzer"
	"github.com/progressmethod/commitment-coach/internal/domain"
	"github.com/progressmethod/commitment-coach/internal/session"
	"github.com/progressmethod/commitment-coach/internal/store"
	"github.com/progressmethod/commitment-coach/internal/transport"
)

type scriptedResult struct {
	res analyzer.Result
	err error
}

type fakeScorer struct {
	mu      sync.Mutex
	script  []scriptedResult
	calls   int
	texts   []string
	healthy bool
}

func (f *fakeScorer) Analyze(_ context.Context, _, text string) (analyzer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	if len(f.script) == 0 {
		return analyzer.Result{}, analyzer.ErrUnavailable
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.res, next.err
}

func (f *fakeScorer) Healthy(context.Context) bool { return f.healthy }
func (f *fakeScorer) Close()                       {}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeScorer) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeRepo struct {
	mu      sync.Mutex
	saved   []*domain.Commitment
	saveErr error
}

func (f *fakeRepo) GetUser(context.Context, string) (*domain.User, error) { return nil, nil }
func (f *fakeRepo) UpsertUser(context.Context, *domain.User) error        { return nil }
func (f *fakeRepo) UpdateLastSeen(context.Context, string, time.Time) error {
	return nil
}

func (f *fakeRepo) SaveCommitment(_ context.Context, c *domain.Commitment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return fmt.Errorf("%w: %s", store.ErrPersistence, f.saveErr)
	}
	copy := *c
	f.saved = append(f.saved, &copy)
	return nil
}

func (f *fakeRepo) RecentCommitments(context.Context, string, int) ([]*domain.Commitment, error) {
	return nil, nil
}
func (f *fakeRepo) Ping(context.Context) error { return nil }
func (f *fakeRepo) Close() error               { return nil }

func (f *fakeRepo) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeRepo) lastSaved() *domain.Commitment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

func (f *fakeRepo) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

type fakeMessenger struct {
	mu      sync.Mutex
	prompts []transport.Prompt
}

func (f *fakeMessenger) PresentPrompt(_ string, p transport.Prompt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
}

func (f *fakeMessenger) lastPrompt() *transport.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return nil
	}
	return &f.prompts[len(f.prompts)-1]
}

type harness struct {
	orch      *Orchestrator
	sessions  *session.Store
	scorer    *fakeScorer
	repo      *fakeRepo
	messenger *fakeMessenger
}

func newHarness(script ...scriptedResult) *harness {
	sessions := session.NewStore()
	scorer := &fakeScorer{script: script, healthy: true}
	repo := &fakeRepo{}
	messenger := &fakeMessenger{}
	return &harness{
		orch:      NewOrchestrator(sessions, scorer, repo, messenger, DefaultConfig()),
		sessions:  sessions,
		scorer:    scorer,
		repo:      repo,
		messenger: messenger,
	}
}

func scored(score float64, suggestion string) scriptedResult {
	return scriptedResult{res: analyzer.Result{
		Score:      score,
		Suggestion: suggestion,
		Feedback:   "add a deadline",
	}}
}

func TestStartSessionHighScoreSavesImmediately(t *testing.T) {
	h := newHarness(scored(9, ""))

	out, err := h.orch.StartSession(context.Background(), "user-1", "walk 20 minutes after lunch today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success outcome, got %s", out.Kind)
	}
	if !out.Saved || out.Score != 9 {
		t.Fatalf("expected saved at score 9, got saved=%v score=%v", out.Saved, out.Score)
	}
	if h.repo.savedCount() != 1 {
		t.Fatalf("expected exactly one save, got %d", h.repo.savedCount())
	}
	if got := h.repo.lastSaved().Source; got != domain.SourceAnalyzed {
		t.Fatalf("expected source analyzed, got %s", got)
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected session removed after save, store has %d", h.sessions.Len())
	}
}

func TestStartSessionRejectsEmptyText(t *testing.T) {
	h := newHarness()

	_, err := h.orch.StartSession(context.Background(), "user-1", "   ")
	if !errors.Is(err, ErrEmptyCommitment) {
		t.Fatalf("expected ErrEmptyCommitment, got %v", err)
	}
	if h.scorer.callCount() != 0 {
		t.Fatalf("expected no analyzer call for empty text, got %d", h.scorer.callCount())
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected no session created, store has %d", h.sessions.Len())
	}
}

func TestManualRewriteSucceedsOnSecondAnalysis(t *testing.T) {
	h := newHarness(scored(5, "walk 20 minutes daily"), scored(9, ""))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeAwaitingChoice {
		t.Fatalf("expected awaiting_choice, got %s", out.Kind)
	}
	if p := h.messenger.lastPrompt(); p == nil || p.Kind != transport.KindGuidance {
		t.Fatalf("expected guidance prompt, got %+v", p)
	}

	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeAwaitingFreeform {
		t.Fatalf("expected awaiting_freeform, got %s", out.Kind)
	}

	out, err = h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, "walk 20 minutes after lunch every weekday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success, got %s", out.Kind)
	}
	if out.Analyses != 2 {
		t.Fatalf("expected 2 analyses, got %d", out.Analyses)
	}
	if h.scorer.callCount() != 2 {
		t.Fatalf("expected 2 analyzer calls, got %d", h.scorer.callCount())
	}
	if got := h.repo.lastSaved().Text; got != "walk 20 minutes after lunch every weekday" {
		t.Fatalf("saved wrong text: %q", got)
	}
}

func TestUseSuggestionReanalyzesSuggestionText(t *testing.T) {
	h := newHarness(scored(5, "walk 20 minutes daily"), scored(8, ""))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceUseSuggestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success at threshold score 8, got %s", out.Kind)
	}
	if h.scorer.lastText() != "walk 20 minutes daily" {
		t.Fatalf("expected suggestion to be re-analyzed, analyzer got %q", h.scorer.lastText())
	}
	if h.scorer.callCount() != 2 {
		t.Fatalf("expected 2 analyzer calls, got %d", h.scorer.callCount())
	}
}

func TestKeepOriginalSavesAtDefaultScore(t *testing.T) {
	h := newHarness(scored(4, "better version"))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceKeepOriginal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeKeptOriginal {
		t.Fatalf("expected kept_original, got %s", out.Kind)
	}
	saved := h.repo.lastSaved()
	if saved.Text != "exercise more" || saved.Score != 5 || saved.Source != domain.SourceOriginal {
		t.Fatalf("unexpected save: %+v", saved)
	}
	// The original is never re-analyzed.
	if h.scorer.callCount() != 1 {
		t.Fatalf("expected 1 analyzer call, got %d", h.scorer.callCount())
	}
}

// runToFinalChoice drives a session through four sub-threshold analyses
// using manual rewrites.
func runToFinalChoice(t *testing.T, h *harness) Outcome {
	t.Helper()

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error starting session: %v", err)
	}

	for i := 0; i < 3; i++ {
		out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
		if err != nil {
			t.Fatalf("retry %d choice failed: %v", i+1, err)
		}
		out, err = h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, fmt.Sprintf("exercise more v%d", i+2))
		if err != nil {
			t.Fatalf("retry %d submit failed: %v", i+1, err)
		}
	}
	return out
}

func TestRetryBudgetExhaustedEntersFinalChoice(t *testing.T) {
	h := newHarness(
		scored(3, "s1"), scored(4, "s2"), scored(5, "s3"), scored(6, "s4"),
	)

	out := runToFinalChoice(t, h)
	if out.Kind != OutcomeFinalChoice {
		t.Fatalf("expected final_choice after fourth low score, got %s", out.Kind)
	}
	if out.Analyses != 4 {
		t.Fatalf("expected 4 analyses, got %d", out.Analyses)
	}
	if h.scorer.callCount() != 4 {
		t.Fatalf("expected exactly 4 analyzer calls, got %d", h.scorer.callCount())
	}
	if p := h.messenger.lastPrompt(); p == nil || p.Kind != transport.KindFinalChoice {
		t.Fatalf("expected final choice prompt, got %+v", p)
	}

	// Another rewrite attempt is rejected; the budget is spent.
	if _, err := h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for retry in final choice, got %v", err)
	}

	out, err := h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceSaveFinal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeFinalSaved {
		t.Fatalf("expected final_saved, got %s", out.Kind)
	}
	saved := h.repo.lastSaved()
	if saved.Text != "exercise more v4" || saved.Score != 6 || saved.Source != domain.SourceFinal {
		t.Fatalf("unexpected final save: %+v", saved)
	}
	if h.scorer.callCount() != 4 {
		t.Fatalf("save-final must not re-analyze, got %d calls", h.scorer.callCount())
	}
}

func TestFinalChoiceUseSuggestionDoesNotReanalyze(t *testing.T) {
	h := newHarness(
		scored(3, "s1"), scored(4, "s2"), scored(5, "s3"), scored(6, "final suggestion"),
	)

	out := runToFinalChoice(t, h)
	if out.Kind != OutcomeFinalChoice {
		t.Fatalf("expected final_choice, got %s", out.Kind)
	}

	out, err := h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceUseSuggestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeFinalSaved {
		t.Fatalf("expected final_saved, got %s", out.Kind)
	}
	saved := h.repo.lastSaved()
	if saved.Text != "final suggestion" {
		t.Fatalf("expected suggestion text saved, got %q", saved.Text)
	}
	if saved.Score != 6 {
		t.Fatalf("expected last recorded score 6, got %v", saved.Score)
	}
	if h.scorer.callCount() != 4 {
		t.Fatalf("expected no fifth analyzer call, got %d", h.scorer.callCount())
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected session removed, store has %d", h.sessions.Len())
	}
}

func TestAnalyzerTimeoutSavesDegraded(t *testing.T) {
	h := newHarness(scriptedResult{err: analyzer.ErrTimeout})

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeDegradedSuccess {
		t.Fatalf("expected degraded_success, got %s", out.Kind)
	}
	saved := h.repo.lastSaved()
	if saved.Score != 6 || saved.Source != domain.SourceDegradedTimeout {
		t.Fatalf("expected score 6 degraded_timeout, got %+v", saved)
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected session removed, store has %d", h.sessions.Len())
	}
}

func TestAnalyzerErrorSavesDegraded(t *testing.T) {
	h := newHarness(scriptedResult{err: analyzer.ErrAnalysis})

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeDegradedSuccess {
		t.Fatalf("expected degraded_success, got %s", out.Kind)
	}
	saved := h.repo.lastSaved()
	if saved.Score != 5 || saved.Source != domain.SourceDegradedError {
		t.Fatalf("expected score 5 degraded_error, got %+v", saved)
	}
}

func TestAnalyzerTimeoutMidRetrySavesCurrentText(t *testing.T) {
	h := newHarness(scored(4, "s1"), scriptedResult{err: analyzer.ErrTimeout})

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err = h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, "walk daily")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutcomeDegradedSuccess {
		t.Fatalf("expected degraded_success, got %s", out.Kind)
	}
	if got := h.repo.lastSaved().Text; got != "walk daily" {
		t.Fatalf("expected the in-flight rewrite saved, got %q", got)
	}
}

func TestPersistenceFailureKeepsSession(t *testing.T) {
	h := newHarness(scored(9, ""))
	h.repo.setSaveErr(errors.New("disk full"))

	_, err := h.orch.StartSession(context.Background(), "user-1", "walk 20 minutes after lunch today")
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if h.sessions.Len() != 1 {
		t.Fatalf("expected session retained after save failure, store has %d", h.sessions.Len())
	}
	if h.repo.savedCount() != 0 {
		t.Fatalf("expected nothing saved, got %d", h.repo.savedCount())
	}
}

func TestCancelDiscardsWithoutSaving(t *testing.T) {
	states := []struct {
		name  string
		setup func(t *testing.T, h *harness) string
	}{
		{
			name: "awaiting choice",
			setup: func(t *testing.T, h *harness) string {
				out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return out.SessionID
			},
		},
		{
			name: "awaiting freeform",
			setup: func(t *testing.T, h *harness) string {
				out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return out.SessionID
			},
		},
	}

	for _, tc := range states {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(scored(4, "s1"))
			sessionID := tc.setup(t, h)

			out, err := h.orch.HandleUserChoice(context.Background(), sessionID, domain.ChoiceCancel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Kind != OutcomeCancelled {
				t.Fatalf("expected cancelled, got %s", out.Kind)
			}
			if h.repo.savedCount() != 0 {
				t.Fatalf("cancel must not save, got %d saves", h.repo.savedCount())
			}
			if h.sessions.Len() != 0 {
				t.Fatalf("expected session removed, store has %d", h.sessions.Len())
			}
		})
	}
}

func TestInvalidTransitionsLeaveSessionUnchanged(t *testing.T) {
	h := newHarness(scored(4, "s1"))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// save_final is only valid in final choice.
	if _, err := h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceSaveFinal); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Stray freeform text while a choice is pending.
	if _, err := h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, "surprise rewrite"); !errors.Is(err, ErrUnexpectedInput) {
		t.Fatalf("expected ErrUnexpectedInput, got %v", err)
	}

	sess := h.sessions.Get(out.SessionID)
	if sess == nil {
		t.Fatal("session should still exist")
	}
	if sess.State != domain.StateAwaitingChoice {
		t.Fatalf("expected state unchanged, got %s", sess.State)
	}
	if sess.CurrentText != "exercise more" {
		t.Fatalf("expected text unchanged, got %q", sess.CurrentText)
	}
	if h.scorer.callCount() != 1 {
		t.Fatalf("rejected inputs must not trigger analysis, got %d calls", h.scorer.callCount())
	}
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	h := newHarness()

	if _, err := h.orch.HandleUserChoice(context.Background(), "no-such-id", domain.ChoiceCancel); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := h.orch.SubmitFreeformRetry(context.Background(), "no-such-id", "text"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFreeformRejectsBlankRewrite(t *testing.T) {
	h := newHarness(scored(4, "s1"))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, "  \n "); !errors.Is(err, ErrEmptyCommitment) {
		t.Fatalf("expected ErrEmptyCommitment, got %v", err)
	}

	// The session is still waiting for a usable rewrite.
	sess := h.sessions.Get(out.SessionID)
	if sess == nil || !sess.AwaitingFreeformInput() {
		t.Fatalf("expected session still awaiting freeform, got %+v", sess)
	}
}

func TestAttemptTrailRecordsEveryAnalysis(t *testing.T) {
	h := newHarness(scored(3, "s1"), scored(9, ""))

	out, err := h.orch.StartSession(context.Background(), "user-1", "exercise more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess := h.sessions.Get(out.SessionID)
	if len(sess.Attempts) != 1 || sess.Attempts[0].Number != 0 {
		t.Fatalf("expected first attempt numbered 0, got %+v", sess.Attempts)
	}

	out, err = h.orch.HandleUserChoice(context.Background(), out.SessionID, domain.ChoiceRetryManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err = h.orch.SubmitFreeformRetry(context.Background(), out.SessionID, "walk 20 minutes after lunch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Analyses != 2 {
		t.Fatalf("expected 2 recorded analyses, got %d", out.Analyses)
	}
}
