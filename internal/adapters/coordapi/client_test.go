package coordapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"donorhub/internal/domain/donor"
	"donorhub/internal/domain/settings"
)

// TestBearerTokenAttached verifies protected calls carry the session token.
func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListDonors(context.Background(), "tok-123"); err != nil {
		t.Fatalf("ListDonors: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

// TestAuthRejectionIsUniform verifies 401 and 403 both map to ErrUnauthorized
// on any protected call, not just auth endpoints.
func TestAuthRejectionIsUniform(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		c := New(srv.URL, nil)
		_, err := c.ListRequests(context.Background(), "stale-token")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: err = %v, want ErrUnauthorized", code, err)
		}

		if err := c.RecordDonation(context.Background(), "stale-token", 42, "2025-01-01"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d on mutation: err = %v, want ErrUnauthorized", code, err)
		}
		srv.Close()
	}
}

// TestEnvelopeErrorSurfacesServerMessage verifies non-ok statuses surface verbatim.
func TestEnvelopeErrorSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","detail":"Phone taken by Ahmed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.UpdateDonor(context.Background(), "tok", donor.Donor{TelegramID: 7, FullName: "x", PhoneNumber: "777"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "Phone taken by Ahmed" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

// TestEnvelopePrefersMessageOverDetail verifies message wins when both are present.
func TestEnvelopePrefersMessageOverDetail(t *testing.T) {
	env := envelope{Status: "error", Message: "m", Detail: "d"}
	if env.errText() != "m" {
		t.Errorf("errText() = %q, want message field", env.errText())
	}
	env = envelope{Status: "error", Detail: "d"}
	if env.errText() != "d" {
		t.Errorf("errText() = %q, want detail field", env.errText())
	}
}

// TestLoginSuccess verifies the credential exchange returns profile and token.
func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin_login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		w.Write([]byte(`{"status":"ok","access_token":"tok-9",
			"user":{"username":"sara","phone_number":"7770001","role":"admin","telegram_id":55}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.Login(context.Background(), "7770001", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken != "tok-9" || res.User.Username != "sara" || res.User.TelegramID != 55 {
		t.Errorf("unexpected result: %+v", res)
	}
}

// TestLoginRejectionReturnsServerMessage verifies wrong credentials surface the
// server message and produce no partial result.
func TestLoginRejectionReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"Invalid Password"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.Login(context.Background(), "7770001", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid Password" {
		t.Fatalf("err = %v, want APIError 'Invalid Password'", err)
	}
	if res.AccessToken != "" || res.User.Username != "" {
		t.Errorf("rejected login must not return partial state: %+v", res)
	}
}

// TestTransportFailureWrapsUnavailable verifies a dead endpoint maps to
// ErrUnavailable, which callers report as a connection error without
// clearing the session.
func TestTransportFailureWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, nil)
	_, err := c.ListDonors(context.Background(), "tok")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("transport failure must not look like an auth rejection")
	}
}

// TestServerErrorWrapsUnavailable verifies 5xx responses are transport-class failures.
func TestServerErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetSettings(context.Background(), "tok")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

// TestSaveSettingsReturnsServerMessage verifies the confirmation message passes through.
func TestSaveSettingsReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","message":"Settings Updated (Restart might be needed)"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	msg, err := c.SaveSettings(context.Background(), "tok", settings.Bundle{})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if msg != "Settings Updated (Restart might be needed)" {
		t.Errorf("message = %q", msg)
	}
}

// TestDeleteOrderingHelpers verifies the cascade endpoints hit the right paths.
func TestDeleteOrderingHelpers(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()
	if err := c.DeleteDonorRequests(ctx, "tok", 42); err != nil {
		t.Fatalf("DeleteDonorRequests: %v", err)
	}
	if err := c.DeleteDonor(ctx, "tok", 42); err != nil {
		t.Fatalf("DeleteDonor: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/api/delete_requests" || paths[1] != "/api/delete_user" {
		t.Errorf("paths = %v", paths)
	}
}
