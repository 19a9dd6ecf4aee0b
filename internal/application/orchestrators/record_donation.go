package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/donor"
)

// DonationRecorder defines the coordination API surface for marking donations.
type DonationRecorder interface {
	RecordDonation(ctx context.Context, token string, userID int64, date string) error
}

// RecordDonationInput carries input for the donation orchestrator.
type RecordDonationInput struct {
	TelegramID int64
	Date       string // YYYY-MM-DD
	Token      string
	Actor      Actor
}

// RecordDonationDeps holds dependencies for RecordDonation.
type RecordDonationDeps struct {
	API        DonationRecorder
	AuditStore auditstore.Store
	Now        func() time.Time // defaults to time.Now
}

var (
	ErrInvalidDonationDate = errors.New("donation date must be in YYYY-MM-DD format")
	ErrFutureDonationDate  = errors.New("donation date cannot be in the future")
)

// ExecuteRecordDonation stamps a donor's last donation date, which
// restarts their cooldown window.
// PRE: Date is a calendar date not after today
// POST: The donor's last_donation_date equals Date remotely
func ExecuteRecordDonation(ctx context.Context, input RecordDonationInput, deps RecordDonationDeps) error {
	parsed, err := time.Parse(donor.DateLayout, input.Date)
	if err != nil {
		return ErrInvalidDonationDate
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now().UTC()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.After(todayDate) {
		return ErrFutureDonationDate
	}

	if err := deps.API.RecordDonation(ctx, input.Token, input.TelegramID, input.Date); err != nil {
		return err
	}

	slog.Info("donor_event", "event", "donation_recorded", "telegram_id", input.TelegramID, "date", input.Date)
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryDonor, audit.ActionDonation).
		WithResource(fmt.Sprintf("%d", input.TelegramID)).
		WithDescription("donated on "+input.Date))
	return nil
}
