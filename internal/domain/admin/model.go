package admin

import (
	"errors"
	"strings"
)

// MinPasswordLength is the minimum accepted dashboard password length.
const MinPasswordLength = 4

// specialChars are the characters that satisfy the special-character rule.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// Domain errors
var (
	ErrEmptyUsername     = errors.New("username is required")
	ErrEmptyPhone        = errors.New("phone number is required")
	ErrPasswordTooShort  = errors.New("password must be at least 4 characters")
	ErrPasswordNoSpecial = errors.New("password must contain at least one special character")
	ErrPasswordMismatch  = errors.New("passwords do not match")
)

// Account is one dashboard admin as listed by the coordination API.
// PhoneNumber doubles as the login identity; passwords are write-only and
// never round-trip to this client.
type Account struct {
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	CreatedAt   string `json:"created_at"`
}

// Validate checks a new admin account before it is sent to the API.
// PRE: Account struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(a.PhoneNumber) == "" {
		return ErrEmptyPhone
	}
	return nil
}

// LoginIdentity returns the identifier sent for write-only password resets:
// the phone number when known, else the username.
// INVARIANT: Account fields are not mutated
func (a *Account) LoginIdentity() string {
	if a.PhoneNumber != "" {
		return a.PhoneNumber
	}
	return a.Username
}

// ValidateNewPassword enforces the dashboard password policy before any
// network call: minimum length, one special character, confirmation match.
// PRE: none
// POST: Returns nil only when password passes all local checks
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !strings.ContainsAny(password, specialChars) {
		return ErrPasswordNoSpecial
	}
	return nil
}
