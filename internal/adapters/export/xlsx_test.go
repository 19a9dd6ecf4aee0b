package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"donorhub/internal/domain/donor"
)

func TestDonorWorkbookRows(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	donors := []donor.Donor{
		{
			TelegramID:       101,
			FullName:         "Aishath Ali",
			PhoneNumber:      "7771234",
			BloodType:        "O+",
			Status:           donor.StatusActive,
			LastDonationDate: "2026-01-15",
		},
		{
			TelegramID:  102,
			FullName:    "Hassan Rasheed",
			PhoneNumber: "7775678",
			BloodType:   "A-",
			Status:      donor.StatusActive,
		},
	}

	data, err := DonorWorkbook(donors, today)
	if err != nil {
		t.Fatalf("DonorWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 donors", len(rows))
	}
	if rows[0][0] != "Telegram ID" || rows[0][9] != "Eligible" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	// First donor donated 2026-01-15, still inside the three month cooldown.
	if rows[1][1] != "Aishath Ali" {
		t.Errorf("row 1 name = %q", rows[1][1])
	}
	if rows[1][9] != "no" {
		t.Errorf("row 1 eligible = %q, want no", rows[1][9])
	}
	if rows[1][10] != "2026-04-15" {
		t.Errorf("row 1 next eligible = %q, want 2026-04-15", rows[1][10])
	}

	// Second donor has no recorded donation and is eligible immediately.
	if rows[2][9] != "yes" {
		t.Errorf("row 2 eligible = %q, want yes", rows[2][9])
	}
}

func TestDonorWorkbookEmpty(t *testing.T) {
	data, err := DonorWorkbook(nil, time.Now())
	if err != nil {
		t.Fatalf("DonorWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if got != "donors_20260301.xlsx" {
		t.Errorf("Filename = %q", got)
	}
}
