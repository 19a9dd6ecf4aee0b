package orchestrators

import (
	"context"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/adapters/storage/session"
	"donorhub/internal/domain/audit"
)

// SessionRemover tears down sessions on logout.
type SessionRemover interface {
	Get(ctx context.Context, token string) (session.Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Sessions   SessionRemover
	AuditStore auditstore.Store
}

// ExecuteLogout removes the session for the given token.
// PRE: none; an unknown token is a no-op
// POST: No session row exists for token
func ExecuteLogout(ctx context.Context, token, ip string, deps LogoutDeps) error {
	sess, ok, err := deps.Sessions.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := deps.Sessions.Delete(ctx, token); err != nil {
		return err
	}
	if ok {
		slog.Info("auth_event", "event", "logout", "username", sess.Username)
		actor := Actor{Username: sess.Username, PhoneNumber: sess.PhoneNumber, IP: ip}
		recordAudit(ctx, deps.AuditStore, actor.event(audit.CategorySession, audit.ActionLogout))
	}
	return nil
}
