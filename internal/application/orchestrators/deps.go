// Package orchestrators implements the write-side use cases of the
// dashboard. Each orchestrator validates input, calls the coordination
// API, and records an audit event locally.
package orchestrators

import (
	"context"
	"log/slog"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
)

// Actor identifies the signed-in admin performing an operation,
// carried from the session into audit events.
type Actor struct {
	Username    string
	PhoneNumber string
	IP          string
}

// recordAudit persists an audit event. Audit failures are logged but
// never fail the operation that produced them.
func recordAudit(ctx context.Context, store auditstore.Store, event audit.Event) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, event); err != nil {
		slog.Warn("audit_event_dropped", "category", event.Category, "action", event.Action, "error", err)
	}
}

func (a Actor) event(category audit.Category, action audit.Action) audit.Event {
	return audit.NewEvent(a.PhoneNumber, a.Username, category, action).WithIP(a.IP)
}
