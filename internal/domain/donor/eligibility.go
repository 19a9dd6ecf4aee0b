package donor

import (
	"fmt"
	"time"
)

// CooldownMonths is the number of calendar months a donor must wait between
// donations.
const CooldownMonths = 3

// Eligibility reason constants
const (
	ReasonProfileIncomplete = "profile incomplete"
	ReasonInCooldown        = "within donation cooldown"
)

// Eligibility is the derived donation status for one donor. It is never
// persisted; recompute it from the record whenever it is displayed.
type Eligibility struct {
	Eligible     bool
	Reason       string
	NextEligible time.Time // zero when Eligible or when no date is on record
}

// NextEligibleDate returns the next eligible date in wire format, or "" when
// the donor is eligible now.
// INVARIANT: Eligibility fields are not mutated
func (e Eligibility) NextEligibleDate() string {
	if e.NextEligible.IsZero() {
		return ""
	}
	return e.NextEligible.Format(DateLayout)
}

// Evaluate computes donation eligibility from a donor's blood type and last
// donation date as of today.
// PRE: lastDonation is empty or in DateLayout format; today is any clock reading
// POST: No blood type -> not eligible ("profile incomplete"); no last donation
// -> eligible; otherwise eligible iff today >= lastDonation + 3 calendar months
func Evaluate(bloodType, lastDonation string, today time.Time) (Eligibility, error) {
	if bloodType == "" {
		return Eligibility{Eligible: false, Reason: ReasonProfileIncomplete}, nil
	}
	if lastDonation == "" {
		return Eligibility{Eligible: true}, nil
	}

	last, err := time.Parse(DateLayout, lastDonation)
	if err != nil {
		return Eligibility{}, fmt.Errorf("invalid last donation date %q: %w", lastDonation, err)
	}

	next := AddCalendarMonths(last, CooldownMonths)
	day := truncateToDay(today)
	if day.Before(next) {
		return Eligibility{Eligible: false, Reason: ReasonInCooldown, NextEligible: next}, nil
	}
	return Eligibility{Eligible: true}, nil
}

// AddCalendarMonths adds n calendar months to a date, clamping the day of
// month to the last day of the target month instead of letting it overflow.
// Jan 31 + 3 months is Apr 30, not May 1.
// PRE: t is a valid date
// POST: Result is in month(t)+n with the same day where it exists, else the
// target month's last day
func AddCalendarMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the month containing t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// truncateToDay keeps the civil date of t and drops the time of day. The
// result is in UTC so it compares cleanly against parsed wire dates.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
