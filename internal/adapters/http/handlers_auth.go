package web

import (
	"errors"
	"net/http"
	"strings"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/application/orchestrators"
)

// handleLogin handles GET (form) and POST (credential exchange) for /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "login.html", map[string]any{})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LoginInput{IP: clientIP(r)}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Username = strings.TrimSpace(r.FormValue("username"))
		input.Password = r.FormValue("password")
	} else {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.Username = body.Username
		input.Password = body.Password
	}

	sess, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		API:        deps.API,
		Sessions:   deps.Sessions,
		AuditStore: deps.AuditStore,
	})
	if err != nil {
		message := loginErrorMessage(err)
		if isHTMLRequest(r) {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error":    message,
				"Username": input.Username,
			})
			return
		}
		http.Error(w, message, http.StatusUnauthorized)
		return
	}

	middleware.SetSessionCookie(w, sess.Token)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loginErrorMessage keeps remote rejection text verbatim and hides
// transport detail behind the generic connection message.
func loginErrorMessage(err error) string {
	var apiErr *coordapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, orchestrators.ErrMissingCredentials) {
		return err.Error()
	}
	return connectionErrorMessage
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := orchestrators.ExecuteLogout(r.Context(), sess.Token, clientIP(r), orchestrators.LogoutDeps{
		Sessions:   deps.Sessions,
		AuditStore: deps.AuditStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	middleware.ClearSessionCookie(w)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
