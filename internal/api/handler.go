// Package api provides HTTP handlers for the commitment coach API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/progressmethod/commitment-coach/internal/retry"
	"github.com/progressmethod/commitment-coach/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo store.Repository
	orch *retry.Orchestrator
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, orch *retry.Orchestrator) *Handler {
	return &Handler{
		repo: repo,
		orch: orch,
	}
}

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
