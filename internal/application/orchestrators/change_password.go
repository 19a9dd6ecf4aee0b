package orchestrators

import (
	"context"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/admin"
	"donorhub/internal/domain/audit"
)

// PasswordWriter defines the coordination API surface for password changes.
type PasswordWriter interface {
	UpdatePassword(ctx context.Context, token, identity, newPassword string) error
}

// SessionRevoker removes every session tied to a phone number.
type SessionRevoker interface {
	DeleteByPhone(ctx context.Context, phone string) error
}

// ChangePasswordInput carries input for the password orchestrator.
type ChangePasswordInput struct {
	Identity    string // phone number or username of the target account
	NewPassword string
	Confirm     string
	Token       string
	Actor       Actor
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	API        PasswordWriter
	Sessions   SessionRevoker
	AuditStore auditstore.Store
}

// ExecuteChangePassword validates and applies a new password for an
// admin account. When the caller changes their own password, every
// other session for that account is revoked.
// PRE: NewPassword and Confirm match and satisfy the password policy
// POST: The remote account accepts only the new password
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if err := admin.ValidateNewPassword(input.NewPassword, input.Confirm); err != nil {
		return err
	}

	if err := deps.API.UpdatePassword(ctx, input.Token, input.Identity, input.NewPassword); err != nil {
		return err
	}

	if input.Identity == input.Actor.PhoneNumber && deps.Sessions != nil {
		if err := deps.Sessions.DeleteByPhone(ctx, input.Actor.PhoneNumber); err != nil {
			slog.Warn("session_revoke_failed", "error", err)
		}
	}

	slog.Info("admin_event", "event", "password_changed", "identity", input.Identity)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryAdmin, audit.ActionUpdate).
		WithSeverity(audit.SeverityWarning).
		WithResource(input.Identity).
		WithDescription("password changed"))
	return nil
}
