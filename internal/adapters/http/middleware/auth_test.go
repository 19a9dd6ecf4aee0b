package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donorhub/internal/adapters/storage/session"
)

// memorySessionStore is a map-backed session store for middleware tests.
type memorySessionStore struct {
	sessions map[string]session.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]session.Session)}
}

func (m *memorySessionStore) Save(_ context.Context, sess session.Session) error {
	m.sessions[sess.Token] = sess
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, token string) (session.Session, bool, error) {
	sess, ok := m.sessions[token]
	return sess, ok, nil
}

func (m *memorySessionStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memorySessionStore) DeleteByPhone(_ context.Context, phone string) error {
	for token, sess := range m.sessions {
		if sess.PhoneNumber == phone {
			delete(m.sessions, token)
		}
	}
	return nil
}

func sessionProbe(got *session.Session, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *found = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestAuth_ResolvesCookie verifies a valid cookie puts the session in context.
func TestAuth_ResolvesCookie(t *testing.T) {
	store := newMemorySessionStore()
	store.Save(context.Background(), session.Session{
		Token: "tok-1", Username: "aroha", CreatedAt: time.Now(),
	})

	var got session.Session
	var found bool
	handler := Auth(store)(sessionProbe(&got, &found))

	req := httptest.NewRequest("GET", "/donors", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("session should be in context")
	}
	if got.Username != "aroha" {
		t.Errorf("username = %q, want aroha", got.Username)
	}
}

// TestAuth_NoCookie verifies requests without a cookie pass through anonymous.
func TestAuth_NoCookie(t *testing.T) {
	var got session.Session
	var found bool
	handler := Auth(newMemorySessionStore())(sessionProbe(&got, &found))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/login", nil))

	if found {
		t.Error("anonymous request should carry no session")
	}
}

// TestAuth_ExpiredSessionDeleted verifies rows past the TTL are swept and
// not put in context.
func TestAuth_ExpiredSessionDeleted(t *testing.T) {
	store := newMemorySessionStore()
	store.Save(context.Background(), session.Session{
		Token: "tok-old", CreatedAt: time.Now().Add(-SessionTTL - time.Hour),
	})

	var got session.Session
	var found bool
	handler := Auth(store)(sessionProbe(&got, &found))

	req := httptest.NewRequest("GET", "/donors", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-old"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expired session should not be in context")
	}
	if _, ok := store.sessions["tok-old"]; ok {
		t.Error("expired session row should be deleted")
	}
}

// TestRequireAuth_RedirectsAnonymous verifies the gate sends anonymous
// requests to the login page.
func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/donors", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

// TestRequireAuth_PassesAuthenticated verifies a session in context opens the gate.
func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/donors", nil)
	req = req.WithContext(ContextWithSession(req.Context(), session.Session{Token: "tok-1"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("protected handler should run for an authenticated request")
	}
}
