package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"donorhub/internal/adapters/coordapi"
	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/adapters/storage/session"
	"donorhub/internal/application/orchestrators"
	"donorhub/internal/domain/donor"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer renders markdown with raw HTML escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts markdown to HTML. On renderer failure it falls
// back to the escaped source text.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// connectionErrorMessage is what users see for any remote transport failure.
const connectionErrorMessage = "Could not reach the coordination service. Please try again."

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// clientIP extracts the remote IP without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// actorFromSession builds the audit actor identity for the request.
func actorFromSession(r *http.Request, sess session.Session) orchestrators.Actor {
	return orchestrators.Actor{
		Username:    sess.Username,
		PhoneNumber: sess.PhoneNumber,
		IP:          clientIP(r),
	}
}

// handleAPIError maps coordination API failures to responses. It returns
// true when the error was handled and the handler should stop.
// An ErrUnauthorized tears the session down: the row is deleted, the
// cookie cleared, and the user lands back on /login.
func handleAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, coordapi.ErrUnauthorized) {
		sess, ok := middleware.GetSessionFromContext(r.Context())
		if ok {
			if derr := deps.Sessions.Delete(r.Context(), sess.Token); derr != nil {
				slog.Warn("session_teardown_failed", "error", derr)
			}
		}
		middleware.ClearSessionCookie(w)
		if isHTMLRequest(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		} else {
			http.Error(w, "session expired", http.StatusUnauthorized)
		}
		return true
	}

	if errors.Is(err, coordapi.ErrUnavailable) {
		slog.Warn("upstream_unavailable", "error", err)
		if isHTMLRequest(r) {
			renderTemplate(w, r, "error.html", map[string]any{
				"Title":   "Connection problem",
				"Message": connectionErrorMessage,
			})
		} else {
			http.Error(w, connectionErrorMessage, http.StatusBadGateway)
		}
		return true
	}

	var apiErr *coordapi.APIError
	if errors.As(err, &apiErr) {
		if isHTMLRequest(r) {
			renderTemplate(w, r, "error.html", map[string]any{
				"Title":   "Request rejected",
				"Message": apiErr.Message,
			})
		} else {
			http.Error(w, apiErr.Message, http.StatusUnprocessableEntity)
		}
		return true
	}

	internalError(w, err)
	return true
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentUsername": func() string { return sess.Username },
		"currentPhone":    func() string { return sess.PhoneNumber },
		"isLoggedIn":      func() bool { return loggedIn },
		"csrfToken":       func() string { return csrf.Token(r) },
		"bloodTypes":      func() []string { return donor.ValidBloodTypes },
		"renderMarkdown":  renderMarkdown,
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
		"fmtMs": func(ms float64) string {
			return fmt.Sprintf("%.1f", ms)
		},
		"paginationQuery": func(page int, sort, dir, search string, perPage int) template.URL {
			q := fmt.Sprintf("page=%d", page)
			if sort != "" {
				q += "&sort=" + sort
			}
			if dir != "" {
				q += "&dir=" + dir
			}
			if search != "" {
				q += "&q=" + search
			}
			if perPage > 0 {
				q += fmt.Sprintf("&per_page=%d", perPage)
			}
			return template.URL(q)
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
