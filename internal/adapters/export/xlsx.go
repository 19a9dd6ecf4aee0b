// Package export renders donor roster snapshots as xlsx workbooks
// for download by coordinators.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"donorhub/internal/domain/donor"
)

const sheetName = "Donors"

var headerRow = []interface{}{
	"Telegram ID",
	"Full Name",
	"Phone Number",
	"Blood Type",
	"Sex",
	"Address",
	"ID Card Number",
	"Status",
	"Last Donation",
	"Eligible",
	"Next Eligible",
	"Registered",
}

// DonorWorkbook builds an xlsx workbook from the given donors.
// Eligibility columns are computed against today.
// PRE: today is the reference date for cooldown math
// POST: Returns the encoded workbook bytes, one row per donor
func DonorWorkbook(donors []donor.Donor, today time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, d := range donors {
		eligible := "no"
		nextDate := ""
		elig, err := donor.Evaluate(d.BloodType, d.LastDonationDate, today)
		if err == nil {
			if elig.Eligible {
				eligible = "yes"
			}
			nextDate = elig.NextEligibleDate()
		}

		values := []interface{}{
			d.TelegramID,
			d.FullName,
			d.PhoneNumber,
			d.BloodType,
			d.Sex,
			d.Address,
			d.IDCardNumber,
			d.Status,
			d.LastDonationDate,
			eligible,
			nextDate,
			d.CreatedAt,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns a timestamped download name for a roster export.
func Filename(today time.Time) string {
	return fmt.Sprintf("donors_%s.xlsx", today.Format("20060102"))
}
