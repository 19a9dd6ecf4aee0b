package session

import (
	"context"
	"time"
)

// Session is one authenticated dashboard login: the cached admin profile plus
// the remote API's bearer token. It is the server-side stand-in for the
// browser-local session the original portal kept, so it persists across
// restarts and dies only on logout or when the API rejects the token.
type Session struct {
	Token       string // local cookie value, never sent to the remote API
	Username    string
	PhoneNumber string
	TelegramID  int64
	AccessToken string // remote bearer token
	CreatedAt   time.Time
}

// Store persists dashboard sessions.
type Store interface {
	// Save persists a session keyed by its local token.
	// PRE: s.Token and s.AccessToken are non-empty
	// POST: Session is retrievable by token
	Save(ctx context.Context, s Session) error

	// Get retrieves a session by local token.
	// PRE: token is non-empty
	// POST: Returns the session and true, or false when absent
	Get(ctx context.Context, token string) (Session, bool, error)

	// Delete removes a session. Deleting an absent token is a no-op.
	// POST: Session with the given token no longer exists
	Delete(ctx context.Context, token string) error

	// DeleteByPhone removes every session belonging to one admin, used when
	// that admin account is deleted remotely.
	// POST: No sessions remain for the phone number
	DeleteByPhone(ctx context.Context, phone string) error
}
