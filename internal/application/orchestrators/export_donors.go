package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"donorhub/internal/adapters/export"
	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/donor"
)

// ExportDonorsInput carries input for the export orchestrator.
type ExportDonorsInput struct {
	Donors []donor.Donor
	Today  time.Time
	Actor  Actor
}

// ExportDonorsDeps holds dependencies for ExportDonors.
type ExportDonorsDeps struct {
	AuditStore auditstore.Store
}

// ExportDonorsResult carries the encoded workbook and its download name.
type ExportDonorsResult struct {
	Data     []byte
	Filename string
}

// ExecuteExportDonors renders a donor roster workbook and records the
// export in the audit trail.
// PRE: Donors is the (already filtered) roster to export
// POST: Returns the xlsx bytes and a timestamped filename
func ExecuteExportDonors(ctx context.Context, input ExportDonorsInput, deps ExportDonorsDeps) (ExportDonorsResult, error) {
	data, err := export.DonorWorkbook(input.Donors, input.Today)
	if err != nil {
		return ExportDonorsResult{}, err
	}

	slog.Info("export_event", "event", "donors_exported", "rows", len(input.Donors))
	recordAudit(ctx, deps.AuditStore, input.Actor.event(audit.CategoryExport, audit.ActionExport).
		WithDescription(fmt.Sprintf("%d donors exported", len(input.Donors))))

	return ExportDonorsResult{
		Data:     data,
		Filename: export.Filename(input.Today),
	}, nil
}
