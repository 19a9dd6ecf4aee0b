package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/donor"
)

// ErrDonorNotFound is returned when the target donor is not in the roster.
var ErrDonorNotFound = errors.New("donor not found")

// StatusWriter defines the coordination API surface for status changes.
// The roster read is needed to check the current status before the
// transition is pushed.
type StatusWriter interface {
	ListDonors(ctx context.Context, token string) ([]donor.Donor, error)
	UpdateDonorStatus(ctx context.Context, token string, telegramID int64, status string) error
}

// ChangeDonorStatusInput carries input for the status orchestrator.
type ChangeDonorStatusInput struct {
	TelegramID int64
	Status     string // one of the donor status constants
	Token      string
	Actor      Actor
}

// ChangeDonorStatusDeps holds dependencies for ChangeDonorStatus.
type ChangeDonorStatusDeps struct {
	API        StatusWriter
	AuditStore auditstore.Store
}

// ExecuteChangeDonorStatus moves a donor between active, banned and
// the pending waitlist. The current status is read first so invalid
// transitions (banning twice, unbanning an active donor) are rejected
// before anything is pushed remotely.
// PRE: Status is a known donor status
// POST: The donor carries the new status remotely
func ExecuteChangeDonorStatus(ctx context.Context, input ChangeDonorStatusInput, deps ChangeDonorStatusDeps) error {
	switch input.Status {
	case donor.StatusActive, donor.StatusBanned, donor.StatusPending:
	default:
		return donor.ErrInvalidStatus
	}

	donors, err := deps.API.ListDonors(ctx, input.Token)
	if err != nil {
		return err
	}
	var current *donor.Donor
	for i := range donors {
		if donors[i].TelegramID == input.TelegramID {
			current = &donors[i]
			break
		}
	}
	if current == nil {
		return ErrDonorNotFound
	}

	switch input.Status {
	case donor.StatusBanned:
		err = current.Ban()
	case donor.StatusActive:
		if current.IsPending() {
			err = current.ToggleWaitlist()
		} else {
			err = current.Unban()
		}
	case donor.StatusPending:
		if current.IsPending() {
			return nil // already waitlisted
		}
		err = current.ToggleWaitlist()
	}
	if err != nil {
		return err
	}

	if err := deps.API.UpdateDonorStatus(ctx, input.Token, input.TelegramID, current.Status); err != nil {
		return err
	}

	slog.Info("donor_event", "event", "status_changed", "telegram_id", input.TelegramID, "status", input.Status)

	event := input.Actor.event(audit.CategoryDonor, audit.ActionUpdate).
		WithResource(fmt.Sprintf("%d", input.TelegramID)).
		WithDescription("status set to " + input.Status)
	if input.Status == donor.StatusBanned {
		event = event.WithSeverity(audit.SeverityWarning)
	}
	recordAudit(ctx, deps.AuditStore, event)
	return nil
}
