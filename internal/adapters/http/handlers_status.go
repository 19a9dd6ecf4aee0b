package web

import (
	"encoding/json"
	"net/http"
	"time"
)

// Status page aggregation parameters.
const (
	statusWindow = time.Hour
	statusTopN   = 10
)

// handleStatus renders service health: uptime, request timings, remote
// endpoint timings, and the number of live feed connections.
func handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := deps.Collector.Snapshot(timeNow().Add(-statusWindow), statusTopN)
	uptime := timeNow().Sub(startedAt).Truncate(time.Second)

	if isHTMLRequest(r) {
		renderTemplate(w, r, "status.html", map[string]any{
			"Uptime":      uptime.String(),
			"Snapshot":    snap,
			"FeedClients": deps.Hub.ClientCount(),
			"WindowLabel": "last hour",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"uptime_seconds": int64(uptime.Seconds()),
		"feed_clients":   deps.Hub.ClientCount(),
		"performance":    snap,
	})
}
