package api

import (
	"net/http"

	"github.com/progressmethod/commitment-coach/internal/analyzer"
)

// AIHealth handles GET /health/ai, probing the analyzer service.
func AIHealth(scorer analyzer.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !scorer.Healthy(r.Context()) {
			JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
