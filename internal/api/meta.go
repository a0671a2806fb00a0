package api

import (
	"net/http"

	"github.com/progressmethod/commitment-coach/internal/identity"
)

// Me handles GET /api/me, echoing the caller's anonymous identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"user_id":  userID,
		"username": identity.UsernameFromContext(r.Context()),
	})
}

// ConfigInfo reports client-relevant runtime flags.
type ConfigInfo struct {
	AIEnabled bool `json:"ai_enabled"`
}

// Config handles GET /api/config.
func (h *Handler) Config(info ConfigInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, info)
	}
}
