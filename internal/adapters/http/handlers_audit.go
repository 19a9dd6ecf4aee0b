package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	auditstore "donorhub/internal/adapters/storage/audit"
	"donorhub/internal/domain/audit"
)

// Audit page limits. The trail is local, so listing is cheap, but the
// page caps rows to keep rendering bounded.
const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// auditCategories are the filter choices offered on the audit page.
var auditCategories = []audit.Category{
	audit.CategorySession, audit.CategoryDonor, audit.CategoryAdmin,
	audit.CategorySettings, audit.CategoryBroadcast, audit.CategoryExport,
}

// auditSeverities are the severity filter choices.
var auditSeverities = []audit.Severity{
	audit.SeverityInfo, audit.SeverityWarning, audit.SeverityCritical,
}

// handleAudit renders the local audit trail with optional filters.
func handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		handleAuditEvent(w, r, id)
		return
	}
	filter := auditFilterFromQuery(q)

	limit := defaultAuditLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxAuditLimit)
	}

	events, err := deps.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "audit_list.html", map[string]any{
			"Events":     events,
			"Categories": auditCategories,
			"Severities": auditSeverities,
			"Category":   q.Get("category"),
			"Severity":   q.Get("severity"),
			"ActorPhone": q.Get("actor"),
			"FromDate":   q.Get("from"),
			"ToDate":     q.Get("to"),
			"Limit":      limit,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"events": events})
}

// handleAuditEvent serves a single trail entry looked up by its ID.
func handleAuditEvent(w http.ResponseWriter, r *http.Request, id string) {
	event, err := deps.AuditStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "audit_list.html", map[string]any{
			"Events":     []audit.Event{event},
			"Categories": auditCategories,
			"Severities": auditSeverities,
			"Category":   "",
			"Severity":   "",
			"ActorPhone": "",
			"FromDate":   "",
			"ToDate":     "",
			"Limit":      1,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"event": event})
}

func auditFilterFromQuery(q map[string][]string) auditstore.Filter {
	get := func(key string) string {
		if vs, ok := q[key]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	var filter auditstore.Filter
	if v := get("category"); v != "" {
		c := audit.Category(v)
		filter.Category = &c
	}
	if v := get("severity"); v != "" {
		s := audit.Severity(v)
		filter.Severity = &s
	}
	if v := get("actor"); v != "" {
		filter.ActorPhone = &v
	}
	if v := get("resource"); v != "" {
		filter.ResourceID = &v
	}
	if v := get("from"); v != "" {
		filter.FromDate = &v
	}
	if v := get("to"); v != "" {
		filter.ToDate = &v
	}
	return filter
}
