package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/progressmethod/commitment-coach/internal/domain"
	"github.com/progressmethod/commitment-coach/internal/identity"
	"github.com/progressmethod/commitment-coach/internal/retry"
	"github.com/progressmethod/commitment-coach/internal/store"
)

const recentCommitmentsLimit = 20

// CommitmentsHandler exposes the coaching dialogue over HTTP: start a
// session, press a choice button, submit a freeform rewrite, and list
// saved commitments.
type CommitmentsHandler struct {
	*Handler
	limiter *RateLimiter
}

// NewCommitmentsHandler creates the commitments API surface. limit and
// window throttle session starts per user.
func NewCommitmentsHandler(h *Handler, limit int, window time.Duration) *CommitmentsHandler {
	return &CommitmentsHandler{
		Handler: h,
		limiter: NewRateLimiter(limit, window),
	}
}

type startRequest struct {
	Text string `json:"text"`
}

type choiceRequest struct {
	SessionID string `json:"session_id"`
	Choice    string `json:"choice"`
}

type retryRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Start handles POST /api/commitments. It opens a retry session for the
// submitted text and runs the first analysis round.
func (h *CommitmentsHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	if !h.limiter.Allow(userID) {
		Error(w, http.StatusTooManyRequests, "too many commitments started, slow down a little")
		return
	}

	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.orch.StartSession(r.Context(), userID, req.Text)
	if err != nil {
		h.writeOrchestratorError(w, err)
		return
	}

	JSON(w, http.StatusOK, outcome)
}

// Choice handles POST /api/commitments/choice, routing a button press to
// the session.
func (h *CommitmentsHandler) Choice(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	var req choiceRequest
	if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	choice := domain.UserChoice(req.Choice)
	if !choice.Valid() {
		Error(w, http.StatusBadRequest, "unknown choice")
		return
	}

	outcome, err := h.orch.HandleUserChoice(r.Context(), req.SessionID, choice)
	if err != nil {
		h.writeOrchestratorError(w, err)
		return
	}

	JSON(w, http.StatusOK, outcome)
}

// Retry handles POST /api/commitments/retry with the user's typed rewrite.
func (h *CommitmentsHandler) Retry(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	var req retryRequest
	if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.orch.SubmitFreeformRetry(r.Context(), req.SessionID, req.Text)
	if err != nil {
		h.writeOrchestratorError(w, err)
		return
	}

	JSON(w, http.StatusOK, outcome)
}

// List handles GET /api/commitments, returning the user's recent saves.
func (h *CommitmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	commitments, err := h.repo.RecentCommitments(r.Context(), userID, recentCommitmentsLimit)
	if err != nil {
		slog.Error("Failed to list commitments", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load commitments")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"commitments": commitments,
		"count":       len(commitments),
	})
}

// writeOrchestratorError maps workflow errors onto HTTP statuses. Invalid
// transitions get a neutral message so stale buttons degrade gracefully.
func (h *CommitmentsHandler) writeOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, retry.ErrEmptyCommitment):
		Error(w, http.StatusBadRequest, "commitment text is required")
	case errors.Is(err, retry.ErrSessionNotFound):
		Error(w, http.StatusGone, "that session has expired, start a fresh commitment")
	case errors.Is(err, retry.ErrInvalidTransition), errors.Is(err, retry.ErrUnexpectedInput):
		Error(w, http.StatusConflict, "that action isn't available right now")
	case errors.Is(err, store.ErrPersistence):
		Error(w, http.StatusServiceUnavailable, "couldn't save just now, your session is still open, try again")
	default:
		slog.Error("Unexpected orchestrator error", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
