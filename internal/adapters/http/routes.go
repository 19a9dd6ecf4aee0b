package web

import (
	"net/http"

	"donorhub/internal/adapters/http/middleware"
)

// registerRoutes attaches all handlers to the mux. Everything except
// /login sits behind RequireAuth.
func registerRoutes(mux *http.ServeMux) {
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}

	mux.HandleFunc("/login", handleLogin)
	mux.Handle("/logout", protected(handleLogout))

	mux.Handle("/{$}", protected(handleHome))

	mux.Handle("/donors", protected(handleDonors))
	mux.Handle("/donors/new", protected(handleDonorForm))
	mux.Handle("/donors/edit", protected(handleDonorForm))
	mux.Handle("/donors/status", protected(handleDonorStatus))
	mux.Handle("/donors/donation", protected(handleDonorDonation))
	mux.Handle("/donors/delete", protected(handleDonorDelete))
	mux.Handle("/donors/export", protected(handleDonorExport))

	mux.Handle("/requests", protected(handleRequests))
	mux.Handle("/requests/ws", protected(handleRequestsWS))

	mux.Handle("/admins", protected(handleAdmins))
	mux.Handle("/admins/delete", protected(handleAdminDelete))
	mux.Handle("/admins/password", protected(handleAdminPassword))

	mux.Handle("/settings", protected(handleSettings))
	mux.Handle("/broadcast", protected(handleBroadcast))
	mux.Handle("/audit", protected(handleAudit))
	mux.Handle("/status", protected(handleStatus))
}

// handleHome redirects the landing path to the donor list.
func handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/donors", http.StatusSeeOther)
}
