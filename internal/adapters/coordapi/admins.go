package coordapi

import (
	"context"

	"donorhub/internal/domain/admin"
	"donorhub/internal/domain/request"
	"donorhub/internal/domain/settings"
)

// ListRequests fetches the most recent blood-request leads with the joined
// requester summary.
// PRE: token is a live session token
// POST: Returns requests newest first; the dashboard never mutates them
func (c *Client) ListRequests(ctx context.Context, token string) ([]request.BloodRequest, error) {
	var requests []request.BloodRequest
	if err := c.get(ctx, token, "/api/requests", &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListAdmins fetches the dashboard admin accounts.
// POST: Returns accounts; passwords never appear in the payload
func (c *Client) ListAdmins(ctx context.Context, token string) ([]admin.Account, error) {
	var admins []admin.Account
	if err := c.get(ctx, token, "/api/get_admins", &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateAdmin registers a new admin. The API assigns the initial password;
// the new admin must reset it on first use.
// PRE: username and phone are non-empty
// POST: Account exists, or *APIError (e.g. phone already registered)
func (c *Client) CreateAdmin(ctx context.Context, token, username, phone string) error {
	payload := map[string]string{"username": username, "phone_number": phone}
	_, err := c.postEnvelope(ctx, token, "/api/create_admin", payload)
	return err
}

// DeleteAdmin removes an admin account by telegram ID, falling back to
// username matching when the ID is zero.
// POST: Account no longer exists remotely
func (c *Client) DeleteAdmin(ctx context.Context, token string, telegramID int64, username string) error {
	payload := map[string]any{"username": username}
	if telegramID != 0 {
		payload["telegram_id"] = telegramID
	}
	_, err := c.postEnvelope(ctx, token, "/api/delete_admin", payload)
	return err
}

// UpdatePassword performs a write-only password reset. The identity is the
// target's phone number when known, else the username.
// PRE: newPassword has passed admin.ValidateNewPassword locally
// POST: Remote password is replaced; nothing is echoed back
func (c *Client) UpdatePassword(ctx context.Context, token, identity, newPassword string) error {
	payload := map[string]string{"username": identity, "new_password": newPassword}
	_, err := c.postEnvelope(ctx, token, "/api/update_password", payload)
	return err
}

// GetSettings fetches the integration configuration bundle. Secrets may come
// back masked; settings.IsMasked identifies placeholders.
// POST: Returns the bundle as served
func (c *Client) GetSettings(ctx context.Context, token string) (settings.Bundle, error) {
	var b settings.Bundle
	if err := c.get(ctx, token, "/api/settings", &b); err != nil {
		return settings.Bundle{}, err
	}
	return b, nil
}

// SaveSettings writes the configuration bundle wholesale and returns the
// server's confirmation message.
// PRE: b.Sending() has been applied so masked secrets are blanked
// POST: Returns the server message on success
func (c *Client) SaveSettings(ctx context.Context, token string, b settings.Bundle) (string, error) {
	env, err := c.postEnvelope(ctx, token, "/api/settings", b)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Broadcast sends an announcement through the bot to the community channel.
// PRE: message is non-empty
// POST: The API has accepted the broadcast for delivery
func (c *Client) Broadcast(ctx context.Context, token, message string) error {
	payload := map[string]string{"message": message}
	_, err := c.postEnvelope(ctx, token, "/api/broadcast", payload)
	return err
}
