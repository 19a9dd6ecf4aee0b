package request

import "time"

// Urgency constants. Anything other than High renders as Normal.
const (
	UrgencyHigh   = "High"
	UrgencyNormal = "Normal"
)

// Requester is the joined user summary nested in a request row.
type Requester struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// BloodRequest is one blood-need lead created through the bot or channel.
// The dashboard only displays these; there are no mutation endpoints.
type BloodRequest struct {
	ID          int64      `json:"id"`
	BloodType   string     `json:"blood_type"`
	Location    string     `json:"location"`
	Urgency     string     `json:"urgency"`
	RequesterID int64      `json:"requester_id"`
	Requester   *Requester `json:"requester"`
	DonorsFound int        `json:"donors_found"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsHighUrgency returns true for requests flagged High.
// INVARIANT: BloodRequest fields are not mutated
func (r *BloodRequest) IsHighUrgency() bool {
	return r.Urgency == UrgencyHigh
}

// RequesterName returns the joined requester name, or "" when the join
// found nothing.
// INVARIANT: BloodRequest fields are not mutated
func (r *BloodRequest) RequesterName() string {
	if r.Requester == nil {
		return ""
	}
	return r.Requester.FullName
}

// RequesterPhone returns the joined requester phone, or "" when absent.
// INVARIANT: BloodRequest fields are not mutated
func (r *BloodRequest) RequesterPhone() string {
	if r.Requester == nil {
		return ""
	}
	return r.Requester.PhoneNumber
}
