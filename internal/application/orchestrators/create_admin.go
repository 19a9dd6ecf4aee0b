package orchestrators

import (
	"context"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/admin"
	"donorhub/internal/domain/audit"
)

// AdminCreator defines the coordination API surface for adding admins.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, token, username, phone string) error
}

// CreateAdminInput carries input for the create admin orchestrator.
type CreateAdminInput struct {
	Username    string
	PhoneNumber string
	Token       string
	Actor       Actor
}

// CreateAdminDeps holds dependencies for CreateAdmin.
type CreateAdminDeps struct {
	API        AdminCreator
	AuditStore auditstore.Store
}

// ExecuteCreateAdmin registers a new admin account. The coordination
// API assigns the account its starting password; the new admin is
// expected to change it on first login.
// PRE: Username and phone number identify the new admin
// POST: The account exists remotely
func ExecuteCreateAdmin(ctx context.Context, input CreateAdminInput, deps CreateAdminDeps) error {
	account := admin.Account{Username: input.Username, PhoneNumber: input.PhoneNumber}
	if err := account.Validate(); err != nil {
		return err
	}

	if err := deps.API.CreateAdmin(ctx, input.Token, input.Username, input.PhoneNumber); err != nil {
		return err
	}

	slog.Info("admin_event", "event", "admin_created", "username", input.Username)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryAdmin, audit.ActionCreate).
		WithSeverity(audit.SeverityWarning).
		WithResource(account.LoginIdentity()).
		WithDescription("admin account created"))
	return nil
}
