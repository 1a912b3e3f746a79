// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// progressResponse reports event completion. PercentComplete covers all
// (team, judge) pairs; PerJudge maps judge id to teams scored.
type progressResponse struct {
	EventID         string         `json:"event_id"`
	PercentComplete float64        `json:"percent_complete"`
	PerJudge        map[string]int `json:"per_judge"`
}

// getProgress handles GET /events/{id}/progress.
func (h *EventsHandler) getProgress(w http.ResponseWriter, r *http.Request, eventID string) {
	percent, perJudge, err := h.deps.EventProgress(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		EventID:         eventID,
		PercentComplete: percent,
		PerJudge:        perJudge,
	})
}
