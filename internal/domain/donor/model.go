package donor

import (
	"errors"
	"strings"
)

// DateLayout is the wire format for donation dates.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxAddressLength = 200
)

// Blood type constants
const (
	BloodAPos  = "A+"
	BloodANeg  = "A-"
	BloodBPos  = "B+"
	BloodBNeg  = "B-"
	BloodOPos  = "O+"
	BloodONeg  = "O-"
	BloodABPos = "AB+"
	BloodABNeg = "AB-"
)

// ValidBloodTypes contains all valid blood type values.
var ValidBloodTypes = []string{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
	BloodOPos, BloodONeg, BloodABPos, BloodABNeg,
}

// Sex constants
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status constants
const (
	StatusActive  = "active"
	StatusBanned  = "banned"
	StatusPending = "pending"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("name and phone are required")
	ErrEmptyPhone       = errors.New("phone number is required")
	ErrInvalidBloodType = errors.New("blood type must be one of: A+, A-, B+, B-, O+, O-, AB+, AB-")
	ErrInvalidSex       = errors.New("sex must be 'Male' or 'Female'")
	ErrInvalidRole      = errors.New("role must be 'user' or 'admin'")
	ErrInvalidStatus    = errors.New("status must be 'active', 'banned', or 'pending'")
	ErrAlreadyBanned    = errors.New("donor is already banned")
	ErrNotBanned        = errors.New("donor is not banned")
)

// Donor holds one donor/user record as served by the coordination API.
// TelegramID is the identity key; negative IDs mark records created by staff
// rather than through the bot.
type Donor struct {
	TelegramID       int64  `json:"telegram_id"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	BloodType        string `json:"blood_type"`
	Sex              string `json:"sex"`
	Address          string `json:"address"`
	IDCardNumber     string `json:"id_card_number"`
	Role             string `json:"role"`
	Status           string `json:"status"`
	LastDonationDate string `json:"last_donation_date"`
	CreatedAt        string `json:"created_at"`
}

// Validate checks if the Donor has valid data before it is sent to the API.
// PRE: Donor struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and phone are mandatory; enumerated fields are optional but
// must hold an allowed value when set
func (d *Donor) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return ErrEmptyName
	}
	if len(d.FullName) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		return ErrEmptyPhone
	}
	if len(d.Address) > MaxAddressLength {
		return errors.New("address cannot exceed 200 characters")
	}
	if d.BloodType != "" && !IsValidBloodType(d.BloodType) {
		return ErrInvalidBloodType
	}
	if d.Sex != "" && d.Sex != SexMale && d.Sex != SexFemale {
		return ErrInvalidSex
	}
	if d.Role != "" && d.Role != RoleUser && d.Role != RoleAdmin {
		return ErrInvalidRole
	}
	if d.Status != "" && d.Status != StatusActive && d.Status != StatusBanned && d.Status != StatusPending {
		return ErrInvalidStatus
	}
	return nil
}

// IsBanned returns true if the donor is banned.
// INVARIANT: Donor fields are not mutated
func (d *Donor) IsBanned() bool {
	return d.Status == StatusBanned
}

// IsPending returns true if the donor is waitlisted.
// INVARIANT: Donor fields are not mutated
func (d *Donor) IsPending() bool {
	return d.Status == StatusPending
}

// Ban sets the donor status to banned.
// PRE: Donor is not already banned
// POST: Status is set to banned
func (d *Donor) Ban() error {
	if d.Status == StatusBanned {
		return ErrAlreadyBanned
	}
	d.Status = StatusBanned
	return nil
}

// Unban restores a banned donor to active.
// PRE: Donor is currently banned
// POST: Status is set to active
func (d *Donor) Unban() error {
	if d.Status != StatusBanned {
		return ErrNotBanned
	}
	d.Status = StatusActive
	return nil
}

// ToggleWaitlist flips the donor between pending and active.
// PRE: Donor is not banned
// POST: Status is pending if it was active, active if it was pending
func (d *Donor) ToggleWaitlist() error {
	if d.IsBanned() {
		return ErrAlreadyBanned
	}
	if d.Status == StatusPending {
		d.Status = StatusActive
		return nil
	}
	d.Status = StatusPending
	return nil
}

// IsValidBloodType reports whether bt is one of the eight allowed groups.
func IsValidBloodType(bt string) bool {
	for _, v := range ValidBloodTypes {
		if v == bt {
			return true
		}
	}
	return false
}
