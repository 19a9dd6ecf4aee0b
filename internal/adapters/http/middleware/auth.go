package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"donorhub/internal/adapters/storage/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie that carries the local session token.
const SessionCookieName = "donorhub_session"

// SessionTTL is how long a session row stays valid. The remote access
// token inside it may die sooner; that is discovered lazily when the
// coordination API rejects it.
const SessionTTL = 24 * time.Hour

// SecureCookies controls the Secure attribute on session cookies.
// Set to true when serving over TLS.
var SecureCookies = false

// Auth returns middleware that resolves the session cookie against the
// store and sets the session in context. Expired rows are deleted on
// sight. It does NOT block unauthenticated requests; use RequireAuth for that.
func Auth(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				sess, ok, err := sessions.Get(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("session_lookup_failed", "error", err)
				} else if ok && time.Since(sess.CreatedAt) > SessionTTL {
					if err := sessions.Delete(r.Context(), cookie.Value); err != nil {
						slog.Warn("session_expiry_sweep_failed", "error", err)
					}
				} else if ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
