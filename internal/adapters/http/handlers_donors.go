package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/application/listutil"
	"donorhub/internal/application/orchestrators"
	"donorhub/internal/application/projections"
	"donorhub/internal/domain/donor"
)

// handleDonors handles GET (list) and POST (create/update) for /donors.
func handleDonors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		handleDonorList(w, r)
	case "POST":
		handleDonorSave(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleDonorList(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	params := listutil.Parse(r.URL.Query(), projections.DonorSortColumns, projections.DonorFilterKeys)

	result, err := projections.QueryGetDonorList(r.Context(), projections.GetDonorListQuery{
		Params: params,
		Token:  sess.AccessToken,
		Today:  timeNow(),
	}, projections.GetDonorListDeps{API: deps.API})
	if handleAPIError(w, r, err) {
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "donor_list.html", map[string]any{
			"Donors":         result.Donors,
			"PageInfo":       result.PageInfo,
			"Counts":         result.Counts,
			"Sort":           params.Sort,
			"Dir":            params.Dir,
			"Search":         params.Search,
			"BloodType":      params.Filters["blood_type"],
			"Status":         params.Filters["status"],
			"Eligible":       params.Filters["eligible"],
			"PerPageOptions": listutil.PerPageOptions,
			"HasFilters":     params.Search != "" || len(params.Filters) > 0,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// donorFromForm reads donor fields from either form or JSON bodies.
func donorFromForm(r *http.Request) (donor.Donor, bool, error) {
	var d donor.Donor
	create := false
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return d, false, err
		}
		d.TelegramID, _ = strconv.ParseInt(r.FormValue("telegram_id"), 10, 64)
		d.FullName = strings.TrimSpace(r.FormValue("full_name"))
		d.PhoneNumber = strings.TrimSpace(r.FormValue("phone_number"))
		d.BloodType = r.FormValue("blood_type")
		d.Sex = r.FormValue("sex")
		d.Address = strings.TrimSpace(r.FormValue("address"))
		d.IDCardNumber = strings.TrimSpace(r.FormValue("id_card_number"))
		d.Status = r.FormValue("status")
		d.LastDonationDate = r.FormValue("last_donation_date")
		create = r.FormValue("mode") == "create"
		return d, create, nil
	}

	var body struct {
		donor.Donor
		Create bool `json:"create"`
	}
	if err := strictDecode(r, &body); err != nil {
		return d, false, err
	}
	return body.Donor, body.Create, nil
}

func handleDonorSave(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	d, create, err := donorFromForm(r)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := d.Validate(); err != nil {
		if isHTMLRequest(r) {
			renderTemplate(w, r, "donor_form.html", map[string]any{
				"Donor": d, "Create": create, "Error": err.Error(),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	err = orchestrators.ExecuteSaveDonor(r.Context(), orchestrators.SaveDonorInput{
		Donor:  d,
		Create: create,
		Token:  sess.AccessToken,
		Actor:  actorFromSession(r, sess),
	}, orchestrators.SaveDonorDeps{API: deps.API, AuditStore: deps.AuditStore})
	if handleAPIError(w, r, err) {
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDonorForm renders the create or edit form.
func handleDonorForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if strings.HasSuffix(r.URL.Path, "/new") {
		renderTemplate(w, r, "donor_form.html", map[string]any{
			"Donor": donor.Donor{Status: donor.StatusActive}, "Create": true,
		})
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid donor id", http.StatusBadRequest)
		return
	}
	donors, err := deps.API.ListDonors(r.Context(), sess.AccessToken)
	if handleAPIError(w, r, err) {
		return
	}
	for _, d := range donors {
		if d.TelegramID == id {
			renderTemplate(w, r, "donor_form.html", map[string]any{"Donor": d, "Create": false})
			return
		}
	}
	http.NotFound(w, r)
}

// handleDonorStatus handles POST /donors/status (ban/unban/waitlist).
func handleDonorStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.ChangeDonorStatusInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.TelegramID, _ = strconv.ParseInt(r.FormValue("telegram_id"), 10, 64)
		input.Status = r.FormValue("status")
	} else {
		var body struct {
			TelegramID int64  `json:"telegram_id"`
			Status     string `json:"status"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.TelegramID = body.TelegramID
		input.Status = body.Status
	}

	err := orchestrators.ExecuteChangeDonorStatus(r.Context(), input, orchestrators.ChangeDonorStatusDeps{
		API: deps.API, AuditStore: deps.AuditStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrDonorNotFound) {
			http.Error(w, "Donor not found", http.StatusNotFound)
			return
		}
		if isDomainError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if handleAPIError(w, r, err) {
			return
		}
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDonorDonation handles POST /donors/donation.
func handleDonorDonation(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.RecordDonationInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.TelegramID, _ = strconv.ParseInt(r.FormValue("telegram_id"), 10, 64)
		input.Date = r.FormValue("date")
	} else {
		var body struct {
			TelegramID int64  `json:"telegram_id"`
			Date       string `json:"date"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.TelegramID = body.TelegramID
		input.Date = body.Date
	}

	err := orchestrators.ExecuteRecordDonation(r.Context(), input, orchestrators.RecordDonationDeps{
		API: deps.API, AuditStore: deps.AuditStore,
	})
	if err != nil {
		if isDomainError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if handleAPIError(w, r, err) {
			return
		}
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDonorDelete handles POST /donors/delete.
func handleDonorDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.DeleteDonorInput{
		Token: sess.AccessToken,
		Actor: actorFromSession(r, sess),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.TelegramID, _ = strconv.ParseInt(r.FormValue("telegram_id"), 10, 64)
		input.FullName = r.FormValue("full_name")
	} else {
		var body struct {
			TelegramID int64  `json:"telegram_id"`
			FullName   string `json:"full_name"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.TelegramID = body.TelegramID
		input.FullName = body.FullName
	}

	err := orchestrators.ExecuteDeleteDonor(r.Context(), input, orchestrators.DeleteDonorDeps{
		API: deps.API, AuditStore: deps.AuditStore,
	})
	if handleAPIError(w, r, err) {
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/donors", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDonorExport handles GET /donors/export, honouring the same
// filters as the list page.
func handleDonorExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	donors, err := deps.API.ListDonors(r.Context(), sess.AccessToken)
	if handleAPIError(w, r, err) {
		return
	}

	out, err := orchestrators.ExecuteExportDonors(r.Context(), orchestrators.ExportDonorsInput{
		Donors: donors,
		Today:  timeNow(),
		Actor:  actorFromSession(r, sess),
	}, orchestrators.ExportDonorsDeps{AuditStore: deps.AuditStore})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.Write(out.Data)
}

// isDomainError reports whether err is a validation failure the caller
// can fix, as opposed to a remote or internal failure.
func isDomainError(err error) bool {
	for _, t := range []error{
		donor.ErrInvalidStatus,
		donor.ErrAlreadyBanned,
		donor.ErrNotBanned,
		orchestrators.ErrInvalidDonationDate,
		orchestrators.ErrFutureDonationDate,
	} {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
