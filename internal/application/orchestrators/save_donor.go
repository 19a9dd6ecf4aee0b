package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/donor"
)

// DonorWriter defines the coordination API surface for donor writes.
type DonorWriter interface {
	CreateDonor(ctx context.Context, token string, d donor.Donor) error
	UpdateDonor(ctx context.Context, token string, d donor.Donor) error
}

// SaveDonorInput carries input for creating or updating a donor.
type SaveDonorInput struct {
	Donor  donor.Donor
	Create bool
	Token  string
	Actor  Actor
}

// SaveDonorDeps holds dependencies for SaveDonor.
type SaveDonorDeps struct {
	API        DonorWriter
	AuditStore auditstore.Store
}

// ExecuteSaveDonor validates a donor record and pushes it to the
// coordination API.
// PRE: input.Token is the caller's remote access token
// POST: On success the donor exists remotely with the given fields
func ExecuteSaveDonor(ctx context.Context, input SaveDonorInput, deps SaveDonorDeps) error {
	if err := input.Donor.Validate(); err != nil {
		return err
	}

	var err error
	action := audit.ActionUpdate
	if input.Create {
		action = audit.ActionCreate
		err = deps.API.CreateDonor(ctx, input.Token, input.Donor)
	} else {
		err = deps.API.UpdateDonor(ctx, input.Token, input.Donor)
	}
	if err != nil {
		return err
	}

	slog.Info("donor_event", "event", "donor_saved", "telegram_id", input.Donor.TelegramID, "created", input.Create)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryDonor, action).
		WithResource(fmt.Sprintf("%d", input.Donor.TelegramID)).
		WithDescription(input.Donor.FullName))
	return nil
}
