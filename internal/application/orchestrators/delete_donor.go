package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
)

// DonorRemover defines the coordination API surface for donor removal.
// Requests must be removed before the donor that raised them.
type DonorRemover interface {
	DeleteDonorRequests(ctx context.Context, token string, requesterID int64) error
	DeleteDonor(ctx context.Context, token string, telegramID int64) error
}

// DeleteDonorInput carries input for the delete orchestrator.
type DeleteDonorInput struct {
	TelegramID int64
	FullName   string
	Token      string
	Actor      Actor
}

// DeleteDonorDeps holds dependencies for DeleteDonor.
type DeleteDonorDeps struct {
	API        DonorRemover
	AuditStore auditstore.Store
}

// ExecuteDeleteDonor removes a donor and every blood request they raised.
// PRE: TelegramID identifies an existing donor
// POST: The donor's requests are gone before the donor row is removed;
// if the request sweep fails the donor is left untouched
func ExecuteDeleteDonor(ctx context.Context, input DeleteDonorInput, deps DeleteDonorDeps) error {
	if err := deps.API.DeleteDonorRequests(ctx, input.Token, input.TelegramID); err != nil {
		return fmt.Errorf("delete donor requests: %w", err)
	}
	if err := deps.API.DeleteDonor(ctx, input.Token, input.TelegramID); err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}

	slog.Info("donor_event", "event", "donor_deleted", "telegram_id", input.TelegramID)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryDonor, audit.ActionDelete).
		WithSeverity(audit.SeverityCritical).
		WithResource(fmt.Sprintf("%d", input.TelegramID)).
		WithDescription(input.FullName))
	return nil
}
