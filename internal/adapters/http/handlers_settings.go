package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/application/orchestrators"
	"donorhub/internal/domain/settings"
)

// handleSettings handles GET (current bundle) and POST (save) for /settings.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	switch r.Method {
	case "GET":
		bundle, err := deps.API.GetSettings(r.Context(), sess.AccessToken)
		if handleAPIError(w, r, err) {
			return
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "settings.html", map[string]any{"Bundle": bundle})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bundle)

	case "POST":
		handleSettingsSave(w, r, sess.AccessToken)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleSettingsSave(w http.ResponseWriter, r *http.Request, token string) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var bundle settings.Bundle
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		bundle = settings.Bundle{
			TelegramBotToken:  strings.TrimSpace(r.FormValue("telegram_bot_token")),
			TelegramChannelID: strings.TrimSpace(r.FormValue("telegram_channel_id")),
			AdminGroupID:      strings.TrimSpace(r.FormValue("admin_group_id")),
			SupabaseURL:       strings.TrimSpace(r.FormValue("supabase_url")),
			SupabaseKey:       strings.TrimSpace(r.FormValue("supabase_key")),
		}
	} else if err := strictDecode(r, &bundle); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	message, err := orchestrators.ExecuteSaveSettings(r.Context(), orchestrators.SaveSettingsInput{
		Bundle: bundle,
		Token:  token,
		Actor:  actorFromSession(r, sess),
	}, orchestrators.SaveSettingsDeps{API: deps.API, AuditStore: deps.AuditStore})
	if err != nil {
		if errors.Is(err, coordapi.ErrUnauthorized) || errors.Is(err, coordapi.ErrUnavailable) {
			handleAPIError(w, r, err)
			return
		}
		text := err.Error()
		var apiErr *coordapi.APIError
		if errors.As(err, &apiErr) {
			text = apiErr.Message
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "settings.html", map[string]any{"Bundle": bundle, "Error": text})
			return
		}
		http.Error(w, text, http.StatusUnprocessableEntity)
		return
	}

	if isHTMLRequest(r) {
		// Re-fetch so saved secrets come back masked.
		fresh, err := deps.API.GetSettings(r.Context(), token)
		if handleAPIError(w, r, err) {
			return
		}
		renderTemplate(w, r, "settings.html", map[string]any{"Bundle": fresh, "Message": message})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
