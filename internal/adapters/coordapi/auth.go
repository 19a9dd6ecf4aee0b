package coordapi

import (
	"context"
	"fmt"
	"net/http"
)

// Profile is the admin identity returned by a successful login and cached in
// the session for display.
type Profile struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	TelegramID  int64  `json:"telegram_id"`
}

// LoginResult carries the credential exchange outcome.
type LoginResult struct {
	User        Profile
	AccessToken string
}

// loginResponse is the raw /api/admin_login body. Login failures come back
// as HTTP 200 with status "error", so the envelope check happens here rather
// than at the transport layer.
type loginResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	User        Profile `json:"user"`
	AccessToken string  `json:"access_token"`
}

// Login exchanges credentials for a session token. The username field
// accepts a phone number or a username; the API resolves either.
// PRE: username and password are non-empty
// POST: Returns profile and token on success; *APIError with the server
// message on rejection; wrapped ErrUnavailable on transport failure
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin_login", "", payload, &resp); err != nil {
		return LoginResult{}, err
	}
	if resp.Status != "ok" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed"
		}
		return LoginResult{}, &APIError{Message: msg}
	}
	if resp.AccessToken == "" {
		return LoginResult{}, fmt.Errorf("%w: login succeeded without a token", ErrUnavailable)
	}
	return LoginResult{User: resp.User, AccessToken: resp.AccessToken}, nil
}
