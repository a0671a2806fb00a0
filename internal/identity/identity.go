// Package identity establishes anonymous per-device identity. Members are
// tracked by a long-lived cookie, never by account credentials; the same
// device always maps to the same accountability history.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/progressmethod/commitment-coach/internal/domain"
	"github.com/progressmethod/commitment-coach/internal/store"
)

const (
	AnonCookieName        = "pm_anon_id"
	SessionHeaderName     = "X-PM-Session-ID"
	DefaultSessionIDValue = "default"

	// Long enough that a weekly check-in habit keeps the same identity.
	anonCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const (
	userIDKey contextKey = iota
	usernameKey
	sessionIDKey
)

var (
	anonIDPattern    = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// UsernameFromContext extracts the username from the request context.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the tab session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

// Middleware resolves or mints the anonymous identity, bootstraps the
// member row, and injects user/session IDs into the request context.
func Middleware(repo store.Repository, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolveAnonID(w, r, isDev)
			if err != nil {
				http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
				return
			}

			if err := bootstrapMember(r.Context(), repo, userID); err != nil {
				http.Error(w, `{"error":"failed to initialize member record"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, usernameKey, deriveUsername(userID))
			ctx = context.WithValue(ctx, sessionIDKey, tabSessionID(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveAnonID reads a valid identity cookie or mints a new one, and in
// both cases re-issues the cookie so the expiry slides forward with use.
func resolveAnonID(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	if c, err := r.Cookie(AnonCookieName); err == nil && anonIDPattern.MatchString(c.Value) {
		setAnonCookie(w, c.Value, isDev)
		return c.Value, nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	id := "anon_" + hex.EncodeToString(buf)

	setAnonCookie(w, id, isDev)
	return id, nil
}

func setAnonCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// bootstrapMember creates the member row on first contact. Existing
// members pass through untouched; last-seen tracking belongs to the chat
// transport, not to every API request.
func bootstrapMember(ctx context.Context, repo store.Repository, userID string) error {
	member, err := repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if member != nil {
		return nil
	}

	now := time.Now()
	return repo.UpsertUser(ctx, &domain.User{
		UserID:     userID,
		Username:   deriveUsername(userID),
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// deriveUsername builds a stable display handle from the identity's tail
// hex. Members never pick names; the handle only disambiguates logs and
// the /api/me response.
func deriveUsername(userID string) string {
	if len(userID) > 13 {
		return "member-" + userID[len(userID)-8:]
	}
	return "member"
}

// tabSessionID pulls the per-tab session ID from the request header, or
// the query string for websocket upgrades where headers are awkward.
func tabSessionID(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	sid = strings.TrimSpace(sid)
	if sid == "" || !sessionIDPattern.MatchString(sid) {
		return DefaultSessionIDValue
	}
	return sid
}

// IPFromRequest returns a normalized remote IP for request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
