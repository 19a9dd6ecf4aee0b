package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"donorhub/internal/adapters/coordapi"
	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/adapters/storage/session"
	"donorhub/internal/domain/audit"
)

// APIForLogin defines the coordination API surface needed by Login.
type APIForLogin interface {
	Login(ctx context.Context, username, password string) (coordapi.LoginResult, error)
}

// SessionSaver persists sessions created on login.
type SessionSaver interface {
	Save(ctx context.Context, s session.Session) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API        APIForLogin
	Sessions   SessionSaver
	AuditStore auditstore.Store
}

var ErrMissingCredentials = errors.New("username and password are required")

// ExecuteLogin exchanges credentials for a remote access token and
// creates a local session around it.
// PRE: Username and password provided
// POST: On success a session row exists and its token is returned
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.Session, error) {
	if input.Username == "" || input.Password == "" {
		return session.Session{}, ErrMissingCredentials
	}

	result, err := deps.API.Login(ctx, input.Username, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username)
		return session.Session{}, err
	}

	sess := session.Session{
		Token:       uuid.New().String(),
		Username:    result.User.Username,
		PhoneNumber: result.User.PhoneNumber,
		TelegramID:  result.User.TelegramID,
		AccessToken: result.AccessToken,
		CreatedAt:   time.Now().UTC(),
	}
	if err := deps.Sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}

	slog.Info("auth_event", "event", "login_success", "username", sess.Username)

	actor := Actor{Username: sess.Username, PhoneNumber: sess.PhoneNumber, IP: input.IP}
	recordAudit(ctx, deps.AuditStore, actor.event(audit.CategorySession, audit.ActionLogin))

	return sess, nil
}
