package orchestrators

import (
	"context"
	"errors"
	"testing"

	"donorhub/internal/adapters/coordapi"
	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/adapters/storage/session"
	"donorhub/internal/domain/audit"
	"donorhub/internal/domain/donor"
	"donorhub/internal/domain/settings"
)

// mockAPI implements every coordination API interface the orchestrators
// consume, recording calls in order.
type mockAPI struct {
	calls []string

	loginResult coordapi.LoginResult
	loginErr    error

	roster       []donor.Donor
	savedDonor   donor.Donor
	failDonor    error
	statusSet    string
	donationDate string

	settingsSent settings.Bundle
	settingsMsg  string

	broadcastMsg string
}

func (m *mockAPI) record(name string) { m.calls = append(m.calls, name) }

func (m *mockAPI) Login(_ context.Context, username, password string) (coordapi.LoginResult, error) {
	m.record("login")
	return m.loginResult, m.loginErr
}

func (m *mockAPI) ListDonors(_ context.Context, _ string) ([]donor.Donor, error) {
	m.record("list_donors")
	return m.roster, nil
}

func (m *mockAPI) CreateDonor(_ context.Context, _ string, d donor.Donor) error {
	m.record("create_donor")
	m.savedDonor = d
	return m.failDonor
}

func (m *mockAPI) UpdateDonor(_ context.Context, _ string, d donor.Donor) error {
	m.record("update_donor")
	m.savedDonor = d
	return m.failDonor
}

func (m *mockAPI) UpdateDonorStatus(_ context.Context, _ string, telegramID int64, status string) error {
	m.record("update_status")
	m.statusSet = status
	return m.failDonor
}

func (m *mockAPI) RecordDonation(_ context.Context, _ string, userID int64, date string) error {
	m.record("record_donation")
	m.donationDate = date
	return m.failDonor
}

func (m *mockAPI) DeleteDonorRequests(_ context.Context, _ string, requesterID int64) error {
	m.record("delete_requests")
	return m.failDonor
}

func (m *mockAPI) DeleteDonor(_ context.Context, _ string, telegramID int64) error {
	m.record("delete_donor")
	return m.failDonor
}

func (m *mockAPI) CreateAdmin(_ context.Context, _, username, phone string) error {
	m.record("create_admin")
	return m.failDonor
}

func (m *mockAPI) DeleteAdmin(_ context.Context, _ string, telegramID int64, username string) error {
	m.record("delete_admin")
	return m.failDonor
}

func (m *mockAPI) UpdatePassword(_ context.Context, _, identity, newPassword string) error {
	m.record("update_password")
	return m.failDonor
}

func (m *mockAPI) SaveSettings(_ context.Context, _ string, b settings.Bundle) (string, error) {
	m.record("save_settings")
	m.settingsSent = b
	return m.settingsMsg, m.failDonor
}

func (m *mockAPI) Broadcast(_ context.Context, _, message string) error {
	m.record("broadcast")
	m.broadcastMsg = message
	return m.failDonor
}

// mockSessionStore implements the session interfaces in memory.
type mockSessionStore struct {
	sessions map[string]session.Session
	saveErr  error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]session.Session)}
}

func (m *mockSessionStore) Save(_ context.Context, s session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (session.Session, bool, error) {
	s, ok := m.sessions[token]
	return s, ok, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionStore) DeleteByPhone(_ context.Context, phone string) error {
	for token, s := range m.sessions {
		if s.PhoneNumber == phone {
			delete(m.sessions, token)
		}
	}
	return nil
}

// mockAuditStore records saved events.
type mockAuditStore struct {
	events []audit.Event
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) List(_ context.Context, _ auditstore.Filter, _ int) ([]audit.Event, error) {
	return m.events, nil
}

func (m *mockAuditStore) GetByID(_ context.Context, id string) (audit.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return audit.Event{}, errNotFound
}

var errNotFound = errors.New("not found")

func (m *mockAuditStore) lastEvent(t *testing.T) audit.Event {
	t.Helper()
	if len(m.events) == 0 {
		t.Fatal("no audit event recorded")
	}
	return m.events[len(m.events)-1]
}

var testActor = Actor{Username: "admin", PhoneNumber: "7771234", IP: "10.0.0.1"}

func settingsFixture() settings.Bundle {
	return settings.Bundle{
		TelegramBotToken:  "123:abc",
		TelegramChannelID: "@donors",
		AdminGroupID:      "-100200",
		SupabaseURL:       "https://example.supabase.co",
		SupabaseKey:       "HIDDEN",
	}
}

func sessionFixture(token string) session.Session {
	return session.Session{
		Token:       token,
		Username:    "admin",
		PhoneNumber: "7771234",
		AccessToken: "remote-bearer",
	}
}
