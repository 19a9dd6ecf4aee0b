// Package projections implements the read-side queries behind the
// dashboard pages. Queries fetch whole collections from the
// coordination API, then filter, sort and page them locally.
package projections

import (
	"context"
	"sort"
	"strings"
	"time"

	"donorhub/internal/application/listutil"
	"donorhub/internal/domain/donor"
)

// DonorReader defines the coordination API surface for donor reads.
type DonorReader interface {
	ListDonors(ctx context.Context, token string) ([]donor.Donor, error)
}

// DonorRow is one row of the donor list with derived eligibility.
type DonorRow struct {
	donor.Donor
	Eligible     bool
	Reason       string
	NextEligible string // YYYY-MM-DD, "" when eligible now
}

// DonorSortColumns are the columns the donor list accepts in sort params.
var DonorSortColumns = []string{"name", "blood_type", "last_donation", "created"}

// DonorFilterKeys are the filter params the donor list recognises.
var DonorFilterKeys = []string{"blood_type", "status", "eligible"}

// GetDonorListQuery carries query parameters.
type GetDonorListQuery struct {
	Params listutil.Params
	Token  string
	Today  time.Time
}

// GetDonorListResult carries the query result.
type GetDonorListResult struct {
	Donors   []DonorRow
	PageInfo listutil.PageInfo
	Counts   DonorCounts
}

// DonorCounts summarises the full roster before paging.
type DonorCounts struct {
	Total    int
	Eligible int
	Banned   int
	Pending  int
}

// GetDonorListDeps holds dependencies for GetDonorList.
type GetDonorListDeps struct {
	API DonorReader
}

// QueryGetDonorList retrieves the donor roster with eligibility derived
// per row, filtered and paged according to the request.
// PRE: query.Today is the reference date for cooldown math
// POST: Returns one page of matching donors; Counts cover all matches
func QueryGetDonorList(ctx context.Context, query GetDonorListQuery, deps GetDonorListDeps) (GetDonorListResult, error) {
	donors, err := deps.API.ListDonors(ctx, query.Token)
	if err != nil {
		return GetDonorListResult{}, err
	}

	rows := make([]DonorRow, 0, len(donors))
	counts := DonorCounts{}
	for _, d := range donors {
		row := DonorRow{Donor: d}
		elig, err := donor.Evaluate(d.BloodType, d.LastDonationDate, query.Today)
		if err == nil {
			row.Eligible = elig.Eligible
			row.Reason = elig.Reason
			row.NextEligible = elig.NextEligibleDate()
		} else {
			row.Reason = "unparseable donation date"
		}

		if !matchesDonor(row, query.Params) {
			continue
		}

		counts.Total++
		if row.Eligible {
			counts.Eligible++
		}
		switch d.Status {
		case donor.StatusBanned:
			counts.Banned++
		case donor.StatusPending:
			counts.Pending++
		}
		rows = append(rows, row)
	}

	sortDonors(rows, query.Params)

	info := listutil.NewPageInfo(query.Params.Page, query.Params.PerPage, len(rows))
	return GetDonorListResult{
		Donors:   listutil.Page(rows, info),
		PageInfo: info,
		Counts:   counts,
	}, nil
}

// matchesDonor applies search and exact-match filters to one row.
func matchesDonor(row DonorRow, p listutil.Params) bool {
	if p.Search != "" {
		hay := strings.ToLower(row.FullName + " " + row.PhoneNumber + " " + row.Address + " " + row.IDCardNumber)
		if !strings.Contains(hay, p.Search) {
			return false
		}
	}
	if v, ok := p.Filters["blood_type"]; ok && row.BloodType != v {
		return false
	}
	if v, ok := p.Filters["status"]; ok && row.Status != v {
		return false
	}
	if v, ok := p.Filters["eligible"]; ok {
		if (v == "yes") != row.Eligible {
			return false
		}
	}
	return true
}

func sortDonors(rows []DonorRow, p listutil.Params) {
	less := func(i, j int) bool { return false }
	switch p.Sort {
	case "name":
		less = func(i, j int) bool {
			return strings.ToLower(rows[i].FullName) < strings.ToLower(rows[j].FullName)
		}
	case "blood_type":
		less = func(i, j int) bool { return rows[i].BloodType < rows[j].BloodType }
	case "last_donation":
		// Donors with no recorded donation sort last.
		less = func(i, j int) bool {
			a, b := rows[i].LastDonationDate, rows[j].LastDonationDate
			if a == "" || b == "" {
				return b == "" && a != ""
			}
			return a < b
		}
	case "created":
		less = func(i, j int) bool { return rows[i].CreatedAt < rows[j].CreatedAt }
	default:
		return
	}
	if p.Dir == "desc" {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.SliceStable(rows, less)
}
