package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/adapters/storage/session"
	"donorhub/internal/application/orchestrators"
	"donorhub/internal/application/projections"
)

// handleAdmins handles GET (list) and POST (create) for /admins.
func handleAdmins(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	switch r.Method {
	case "GET":
		renderAdminList(w, r, sess, "")
	case "POST":
		handleAdminCreate(w, r, sess)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderAdminList(w http.ResponseWriter, r *http.Request, sess session.Session, errMessage string) {
	result, err := projections.QueryGetAdminList(r.Context(), projections.GetAdminListQuery{
		Token:          sess.AccessToken,
		CallerPhone:    sess.PhoneNumber,
		CallerUsername: sess.Username,
	}, projections.GetAdminListDeps{API: deps.API})
	if handleAPIError(w, r, err) {
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_list.html", map[string]any{
			"Admins": result.Admins,
			"Error":  errMessage,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func handleAdminCreate(w http.ResponseWriter, r *http.Request, sess session.Session) {
	input := orchestrators.CreateAdminInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Username = strings.TrimSpace(r.FormValue("username"))
		input.PhoneNumber = strings.TrimSpace(r.FormValue("phone_number"))
	} else {
		var body struct {
			Username    string `json:"username"`
			PhoneNumber string `json:"phone_number"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.Username = body.Username
		input.PhoneNumber = body.PhoneNumber
	}

	err := orchestrators.ExecuteCreateAdmin(r.Context(), input, orchestrators.CreateAdminDeps{
		API: deps.API, AuditStore: deps.AuditStore,
	})
	finishAdminAction(w, r, sess, err)
}

// handleAdminDelete handles POST /admins/delete.
func handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.DeleteAdminInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.TelegramID, _ = strconv.ParseInt(r.FormValue("telegram_id"), 10, 64)
		input.Username = strings.TrimSpace(r.FormValue("username"))
	} else {
		var body struct {
			TelegramID int64  `json:"telegram_id"`
			Username   string `json:"username"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.TelegramID = body.TelegramID
		input.Username = body.Username
	}

	err := orchestrators.ExecuteDeleteAdmin(r.Context(), input, orchestrators.DeleteAdminDeps{
		API: deps.API, AuditStore: deps.AuditStore,
	})
	finishAdminAction(w, r, sess, err)
}

// handleAdminPassword handles POST /admins/password.
func handleAdminPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.ChangePasswordInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Identity = strings.TrimSpace(r.FormValue("identity"))
		input.NewPassword = r.FormValue("new_password")
		input.Confirm = r.FormValue("confirm")
	} else {
		var body struct {
			Identity    string `json:"identity"`
			NewPassword string `json:"new_password"`
			Confirm     string `json:"confirm"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.Identity = body.Identity
		input.NewPassword = body.NewPassword
		input.Confirm = body.Confirm
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), input, orchestrators.ChangePasswordDeps{
		API: deps.API, Sessions: deps.Sessions, AuditStore: deps.AuditStore,
	})
	finishAdminAction(w, r, sess, err)
}

// finishAdminAction routes remote failures through handleAPIError and
// surfaces everything else as an inline message on the admin page.
func finishAdminAction(w http.ResponseWriter, r *http.Request, sess session.Session, err error) {
	if err != nil {
		if errors.Is(err, coordapi.ErrUnauthorized) || errors.Is(err, coordapi.ErrUnavailable) {
			handleAPIError(w, r, err)
			return
		}
		message := err.Error()
		var apiErr *coordapi.APIError
		if errors.As(err, &apiErr) {
			message = apiErr.Message
		}
		if isHTMLRequest(r) {
			renderAdminList(w, r, sess, message)
			return
		}
		http.Error(w, message, http.StatusUnprocessableEntity)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admins", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
