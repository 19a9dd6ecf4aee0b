package projections

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"donorhub/internal/application/listutil"
	"donorhub/internal/domain/admin"
	"donorhub/internal/domain/donor"
	"donorhub/internal/domain/request"
)

type mockReader struct {
	donors   []donor.Donor
	requests []request.BloodRequest
	admins   []admin.Account
	err      error
}

func (m *mockReader) ListDonors(_ context.Context, _ string) ([]donor.Donor, error) {
	return m.donors, m.err
}

func (m *mockReader) ListRequests(_ context.Context, _ string) ([]request.BloodRequest, error) {
	return m.requests, m.err
}

func (m *mockReader) ListAdmins(_ context.Context, _ string) ([]admin.Account, error) {
	return m.admins, m.err
}

var today = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func donorParams(q url.Values) listutil.Params {
	return listutil.Parse(q, DonorSortColumns, DonorFilterKeys)
}

func TestQueryGetDonorList_Eligibility(t *testing.T) {
	api := &mockReader{donors: []donor.Donor{
		{TelegramID: 1, FullName: "Aishath Ali", PhoneNumber: "7771111", BloodType: "O+", LastDonationDate: "2026-01-15"},
		{TelegramID: 2, FullName: "Hassan Rasheed", PhoneNumber: "7772222", BloodType: "A-"},
		{TelegramID: 3, FullName: "Mariyam Naeem", PhoneNumber: "7773333"},
	}}

	result, err := QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if err != nil {
		t.Fatalf("QueryGetDonorList failed: %v", err)
	}

	if result.Counts.Total != 3 || result.Counts.Eligible != 1 {
		t.Errorf("counts = %+v", result.Counts)
	}

	byID := make(map[int64]DonorRow)
	for _, row := range result.Donors {
		byID[row.TelegramID] = row
	}
	if byID[1].Eligible || byID[1].NextEligible != "2026-04-15" {
		t.Errorf("donor 1: %+v", byID[1])
	}
	if !byID[2].Eligible {
		t.Errorf("donor 2 with no donation should be eligible: %+v", byID[2])
	}
	if byID[3].Eligible || byID[3].Reason != donor.ReasonProfileIncomplete {
		t.Errorf("donor 3 without blood type: %+v", byID[3])
	}
}

func TestQueryGetDonorList_SearchAndFilter(t *testing.T) {
	api := &mockReader{donors: []donor.Donor{
		{TelegramID: 1, FullName: "Aishath Ali", PhoneNumber: "7771111", BloodType: "O+", Status: donor.StatusActive},
		{TelegramID: 2, FullName: "Hassan Rasheed", PhoneNumber: "7772222", BloodType: "O+", Status: donor.StatusBanned},
		{TelegramID: 3, FullName: "Mariyam Naeem", PhoneNumber: "7773333", BloodType: "B+", Status: donor.StatusActive},
	}}

	result, err := QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{"blood_type": {"O+"}}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if err != nil {
		t.Fatalf("filter query failed: %v", err)
	}
	if result.Counts.Total != 2 || result.Counts.Banned != 1 {
		t.Errorf("counts = %+v", result.Counts)
	}

	result, err = QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{"q": {"aishath"}}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if err != nil {
		t.Fatalf("search query failed: %v", err)
	}
	if len(result.Donors) != 1 || result.Donors[0].TelegramID != 1 {
		t.Errorf("search result = %+v", result.Donors)
	}
}

func TestQueryGetDonorList_SortByName(t *testing.T) {
	api := &mockReader{donors: []donor.Donor{
		{TelegramID: 1, FullName: "zahir", PhoneNumber: "1"},
		{TelegramID: 2, FullName: "Aminath", PhoneNumber: "2"},
	}}

	result, err := QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{"sort": {"name"}}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if err != nil {
		t.Fatalf("sort query failed: %v", err)
	}
	if result.Donors[0].TelegramID != 2 {
		t.Errorf("first row = %+v, want Aminath", result.Donors[0])
	}

	result, _ = QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{"sort": {"name"}, "dir": {"desc"}}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if result.Donors[0].TelegramID != 1 {
		t.Errorf("desc first row = %+v, want zahir", result.Donors[0])
	}
}

func TestQueryGetDonorList_Paging(t *testing.T) {
	var donors []donor.Donor
	for i := int64(1); i <= 30; i++ {
		donors = append(donors, donor.Donor{TelegramID: i, FullName: "Donor", PhoneNumber: "7"})
	}
	api := &mockReader{donors: donors}

	result, err := QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{"page": {"2"}}),
		Today:  today,
	}, GetDonorListDeps{API: api})
	if err != nil {
		t.Fatalf("paged query failed: %v", err)
	}
	if len(result.Donors) != 5 {
		t.Errorf("page 2 rows = %d, want 5", len(result.Donors))
	}
	if result.PageInfo.TotalPages != 2 || result.Counts.Total != 30 {
		t.Errorf("page info = %+v counts = %+v", result.PageInfo, result.Counts)
	}
}

func TestQueryGetDonorList_APIErrorPassesThrough(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := QueryGetDonorList(context.Background(), GetDonorListQuery{
		Params: donorParams(url.Values{}),
		Today:  today,
	}, GetDonorListDeps{API: &mockReader{err: wantErr}})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestQueryGetRequestFeed_NewestFirst(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	api := &mockReader{requests: []request.BloodRequest{
		{ID: 1, BloodType: "O+", CreatedAt: base, IsActive: true},
		{ID: 2, BloodType: "A-", CreatedAt: base.Add(48 * time.Hour), IsActive: false},
		{ID: 3, BloodType: "B+", CreatedAt: base.Add(24 * time.Hour), IsActive: true},
	}}

	result, err := QueryGetRequestFeed(context.Background(), GetRequestFeedQuery{
		Params: listutil.Parse(url.Values{}, RequestSortColumns, RequestFilterKeys),
	}, GetRequestFeedDeps{API: api})
	if err != nil {
		t.Fatalf("QueryGetRequestFeed failed: %v", err)
	}
	if result.Requests[0].ID != 2 || result.Requests[2].ID != 1 {
		t.Errorf("order = %v, %v, %v", result.Requests[0].ID, result.Requests[1].ID, result.Requests[2].ID)
	}
	if result.Active != 2 {
		t.Errorf("active = %d, want 2", result.Active)
	}
}

func TestQueryGetRequestFeed_UrgencySort(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	api := &mockReader{requests: []request.BloodRequest{
		{ID: 1, Urgency: request.UrgencyNormal, CreatedAt: base.Add(time.Hour)},
		{ID: 2, Urgency: request.UrgencyHigh, CreatedAt: base},
	}}

	result, err := QueryGetRequestFeed(context.Background(), GetRequestFeedQuery{
		Params: listutil.Parse(url.Values{"sort": {"urgency"}}, RequestSortColumns, RequestFilterKeys),
	}, GetRequestFeedDeps{API: api})
	if err != nil {
		t.Fatalf("urgency sort failed: %v", err)
	}
	if result.Requests[0].ID != 2 {
		t.Errorf("first = %d, want high urgency request", result.Requests[0].ID)
	}
}

func TestQueryGetAdminList_FlagsSelf(t *testing.T) {
	api := &mockReader{admins: []admin.Account{
		{Username: "zita", PhoneNumber: "7779999"},
		{Username: "admin", PhoneNumber: "7771234"},
	}}

	result, err := QueryGetAdminList(context.Background(), GetAdminListQuery{
		CallerPhone:    "7771234",
		CallerUsername: "admin",
	}, GetAdminListDeps{API: api})
	if err != nil {
		t.Fatalf("QueryGetAdminList failed: %v", err)
	}
	if len(result.Admins) != 2 {
		t.Fatalf("admins = %d", len(result.Admins))
	}
	// Sorted by username: admin first.
	if result.Admins[0].Username != "admin" || !result.Admins[0].IsSelf {
		t.Errorf("first = %+v", result.Admins[0])
	}
	if result.Admins[1].IsSelf {
		t.Errorf("second should not be self: %+v", result.Admins[1])
	}
}
