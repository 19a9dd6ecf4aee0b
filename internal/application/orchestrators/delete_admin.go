package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
)

// AdminRemover defines the coordination API surface for removing admins.
type AdminRemover interface {
	DeleteAdmin(ctx context.Context, token string, telegramID int64, username string) error
}

// DeleteAdminInput carries input for the delete admin orchestrator.
type DeleteAdminInput struct {
	TelegramID int64
	Username   string
	Token      string
	Actor      Actor
}

// DeleteAdminDeps holds dependencies for DeleteAdmin.
type DeleteAdminDeps struct {
	API        AdminRemover
	AuditStore auditstore.Store
}

var ErrDeleteSelf = errors.New("you cannot remove your own admin account")

// ExecuteDeleteAdmin removes an admin account.
// PRE: The target is not the caller's own account
// POST: The account no longer exists remotely
func ExecuteDeleteAdmin(ctx context.Context, input DeleteAdminInput, deps DeleteAdminDeps) error {
	if input.Username != "" && input.Username == input.Actor.Username {
		return ErrDeleteSelf
	}

	if err := deps.API.DeleteAdmin(ctx, input.Token, input.TelegramID, input.Username); err != nil {
		return err
	}

	slog.Info("admin_event", "event", "admin_deleted", "username", input.Username)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryAdmin, audit.ActionDelete).
		WithSeverity(audit.SeverityCritical).
		WithResource(input.Username).
		WithDescription("admin account removed"))
	return nil
}
