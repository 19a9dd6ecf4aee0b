package coordapi

import (
	"context"

	"donorhub/internal/domain/donor"
)

// ListDonors fetches all donor/user records, newest first.
// PRE: token is a live session token
// POST: Returns the authoritative donor list
func (c *Client) ListDonors(ctx context.Context, token string) ([]donor.Donor, error) {
	var donors []donor.Donor
	if err := c.get(ctx, token, "/api/users", &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// CreateDonor registers a manually entered donor record.
// PRE: d has passed Validate; TelegramID zero lets the API assign one
// POST: Record exists remotely, or *APIError explains why not
func (c *Client) CreateDonor(ctx context.Context, token string, d donor.Donor) error {
	payload := map[string]any{
		"full_name":      d.FullName,
		"phone_number":   d.PhoneNumber,
		"blood_type":     d.BloodType,
		"sex":            d.Sex,
		"address":        d.Address,
		"id_card_number": d.IDCardNumber,
		"role":           d.Role,
	}
	if d.TelegramID != 0 {
		payload["telegram_id"] = d.TelegramID
	}
	_, err := c.postEnvelope(ctx, token, "/api/create_user", payload)
	return err
}

// UpdateDonor overwrites the editable fields of an existing record.
// PRE: d.TelegramID identifies an existing record
// POST: Remote record matches d's editable fields
func (c *Client) UpdateDonor(ctx context.Context, token string, d donor.Donor) error {
	payload := map[string]any{
		"telegram_id":    d.TelegramID,
		"full_name":      d.FullName,
		"phone_number":   d.PhoneNumber,
		"blood_type":     d.BloodType,
		"sex":            d.Sex,
		"address":        d.Address,
		"id_card_number": d.IDCardNumber,
		"role":           d.Role,
		"status":         d.Status,
	}
	_, err := c.postEnvelope(ctx, token, "/api/update_user", payload)
	return err
}

// UpdateDonorStatus changes only the status field. The API applies partial
// updates, so unrelated fields are left untouched.
// PRE: status is one of the donor status constants
// POST: Remote record carries the new status
func (c *Client) UpdateDonorStatus(ctx context.Context, token string, telegramID int64, status string) error {
	payload := map[string]any{"telegram_id": telegramID, "status": status}
	_, err := c.postEnvelope(ctx, token, "/api/update_user", payload)
	return err
}

// RecordDonation stores a confirmed donation date for a donor. Repeating the
// call with the same date is a no-op remotely (last write wins).
// PRE: date is in donor.DateLayout format
// POST: Remote last_donation_date equals date
func (c *Client) RecordDonation(ctx context.Context, token string, userID int64, date string) error {
	payload := map[string]any{"user_id": userID, "date": date}
	_, err := c.postEnvelope(ctx, token, "/api/update_last_donation", payload)
	return err
}

// DeleteDonorRequests removes every blood request raised by a donor. The
// store enforces a foreign key from requests to users, so this must run
// before DeleteDonor.
// PRE: requesterID identifies the donor about to be deleted
// POST: No request rows reference requesterID
func (c *Client) DeleteDonorRequests(ctx context.Context, token string, requesterID int64) error {
	payload := map[string]any{"requester_id": requesterID}
	_, err := c.postEnvelope(ctx, token, "/api/delete_requests", payload)
	return err
}

// DeleteDonor removes a donor record.
// PRE: The donor's dependent requests have already been deleted
// POST: Record no longer exists remotely
func (c *Client) DeleteDonor(ctx context.Context, token string, telegramID int64) error {
	payload := map[string]any{"telegram_id": telegramID}
	_, err := c.postEnvelope(ctx, token, "/api/delete_user", payload)
	return err
}
