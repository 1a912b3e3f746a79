// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/podiumhq/podium/internal/domain/criteria"
)

// TeamsHandler handles score submission for a team.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleTeam dispatches /teams/{id}/score requests.
func (h *TeamsHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/teams/")
	teamID, suffix, _ := strings.Cut(rest, "/")
	if teamID == "" || suffix != "score" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.submitScore(w, r, teamID)
}

// submitScore handles POST /teams/{id}/score. The judge identity comes
// from the X-Judge-ID header, set by the authentication collaborator.
// Resubmitting replaces the judge's previous record for the team.
func (h *TeamsHandler) submitScore(w http.ResponseWriter, r *http.Request, teamID string) {
	judgeID := strings.TrimSpace(r.Header.Get(judgeIDHeader))
	if judgeID == "" {
		writeError(w, http.StatusUnauthorized, "missing_identity", ErrMissingJudge)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	rec, final, err := h.deps.SubmitScore(r.Context(), teamID, judgeID, req.Scores, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		TeamID:      rec.TeamID,
		JudgeID:     rec.JudgeID,
		FinalScore:  final,
		Label:       criteria.Label(int(math.Round(final))),
		SubmittedAt: rec.SubmittedAt,
	})
}
