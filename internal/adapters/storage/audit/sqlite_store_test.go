package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"donorhub/internal/adapters/storage"
	domain "donorhub/internal/domain/audit"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return NewSQLiteStore(db)
}

func saveEvent(t *testing.T, store *SQLiteStore, e domain.Event) {
	t.Helper()
	if err := store.Save(context.Background(), e); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestAuditSaveAndGetByID(t *testing.T) {
	store := openTestStore(t)

	e := domain.NewEvent("7771234", "admin", domain.CategoryDonor, domain.ActionUpdate).
		WithResource("12345").
		WithDescription("status changed to banned").
		WithIP("10.0.0.1")
	saveEvent(t, store, e)

	got, err := store.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Category != domain.CategoryDonor || got.Action != domain.ActionUpdate {
		t.Errorf("got category=%q action=%q", got.Category, got.Action)
	}
	if got.ActorPhone != "7771234" || got.ResourceID != "12345" {
		t.Errorf("got actor=%q resource=%q", got.ActorPhone, got.ResourceID)
	}
	if got.IPAddress != "10.0.0.1" {
		t.Errorf("IPAddress = %q", got.IPAddress)
	}
}

func TestAuditListOrderedAndLimited(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := domain.NewEvent("7771234", "admin", domain.CategorySession, domain.ActionLogin)
		e.Timestamp = base.Add(time.Duration(i) * time.Minute)
		saveEvent(t, store, e)
	}

	events, err := store.List(context.Background(), Filter{}, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if !events[0].Timestamp.After(events[1].Timestamp) {
		t.Errorf("events not ordered newest first: %v then %v", events[0].Timestamp, events[1].Timestamp)
	}
}

func TestAuditListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saveEvent(t, store, domain.NewEvent("7771234", "admin", domain.CategoryDonor, domain.ActionCreate))
	saveEvent(t, store, domain.NewEvent("7771234", "admin", domain.CategoryDonor, domain.ActionDelete).WithSeverity(domain.SeverityCritical))
	saveEvent(t, store, domain.NewEvent("7779999", "second", domain.CategorySettings, domain.ActionUpdate))

	category := domain.CategoryDonor
	events, err := store.List(ctx, Filter{Category: &category}, 50)
	if err != nil {
		t.Fatalf("List by category failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("category filter: len = %d, want 2", len(events))
	}

	severity := domain.SeverityCritical
	events, err = store.List(ctx, Filter{Severity: &severity}, 50)
	if err != nil {
		t.Fatalf("List by severity failed: %v", err)
	}
	if len(events) != 1 || events[0].Action != domain.ActionDelete {
		t.Errorf("severity filter: got %+v", events)
	}

	phone := "7779999"
	events, err = store.List(ctx, Filter{ActorPhone: &phone}, 50)
	if err != nil {
		t.Fatalf("List by actor failed: %v", err)
	}
	if len(events) != 1 || events[0].Category != domain.CategorySettings {
		t.Errorf("actor filter: got %+v", events)
	}
}

func TestAuditGetByIDMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
}
