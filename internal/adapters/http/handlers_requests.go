package web

import (
	"encoding/json"
	"net/http"

	"donorhub/internal/adapters/http/middleware"
	"donorhub/internal/application/listutil"
	"donorhub/internal/application/projections"
)

// handleRequests renders the blood request feed.
func handleRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	params := listutil.Parse(r.URL.Query(), projections.RequestSortColumns, projections.RequestFilterKeys)

	result, err := projections.QueryGetRequestFeed(r.Context(), projections.GetRequestFeedQuery{
		Params: params,
		Token:  sess.AccessToken,
	}, projections.GetRequestFeedDeps{API: deps.API})
	if handleAPIError(w, r, err) {
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "request_feed.html", map[string]any{
			"Requests":   result.Requests,
			"PageInfo":   result.PageInfo,
			"Active":     result.Active,
			"Sort":       params.Sort,
			"Dir":        params.Dir,
			"BloodType":  params.Filters["blood_type"],
			"Urgency":    params.Filters["urgency"],
			"ActiveOnly": params.Filters["active"],
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleRequestsWS upgrades the connection and attaches it to the live
// feed hub. The caller's token becomes the poller's upstream credential.
func handleRequestsWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	deps.Poller.SetToken(sess.AccessToken)
	deps.Hub.ServeWS(w, r)
}
