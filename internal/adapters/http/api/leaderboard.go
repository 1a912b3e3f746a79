// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// getLeaderboard handles GET /events/{id}/leaderboard. The ranking is
// recomputed from the store on every call; a failure never returns a
// partial result.
func (h *EventsHandler) getLeaderboard(w http.ResponseWriter, r *http.Request, eventID string) {
	entries, err := h.deps.Leaderboard(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardJSON(entries))
}

// exportLeaderboard handles GET /events/{id}/export, serving the ranking
// in the fixed CSV layout as a download.
func (h *EventsHandler) exportLeaderboard(w http.ResponseWriter, r *http.Request, eventID string) {
	data, err := h.deps.ExportLeaderboard(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
