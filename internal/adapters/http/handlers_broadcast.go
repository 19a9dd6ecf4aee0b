package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/application/orchestrators"
)

// handleBroadcast handles GET (compose form) and POST (preview or send)
// for /broadcast. Markdown rendering happens in the template layer so
// the preview matches what the channel will show.
func handleBroadcast(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		renderTemplate(w, r, "broadcast.html", map[string]any{
			"MaxLength": orchestrators.MaxBroadcastLength,
		})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var message, action string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		message = r.FormValue("message")
		action = r.FormValue("action")
	} else {
		var body struct {
			Message string `json:"message"`
			Action  string `json:"action"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		message = body.Message
		action = body.Action
	}

	if action == "preview" {
		if isHTMLRequest(r) {
			renderTemplate(w, r, "broadcast.html", map[string]any{
				"Message":   message,
				"Preview":   true,
				"MaxLength": orchestrators.MaxBroadcastLength,
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"preview": string(renderMarkdown(message))})
		return
	}

	err := orchestrators.ExecuteBroadcast(r.Context(), orchestrators.BroadcastInput{
		Message: message,
		Token:   sess.AccessToken,
		Actor:   actorFromSession(r, sess),
	}, orchestrators.BroadcastDeps{API: deps.API, AuditStore: deps.AuditStore})
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
			renderTemplate(w, r, "broadcast.html", map[string]any{
				"Message":   message,
				"Error":     text,
				"MaxLength": orchestrators.MaxBroadcastLength,
			})
			return
		}
		http.Error(w, text, http.StatusUnprocessableEntity)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "broadcast.html", map[string]any{
			"Sent":      true,
			"MaxLength": orchestrators.MaxBroadcastLength,
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
