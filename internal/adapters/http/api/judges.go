// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/podiumhq/podium/internal/domain/criteria"
)

// JudgesHandler serves a judge's submission history and progress.
type JudgesHandler struct {
	deps Dependencies
}

// NewJudgesHandler creates a new judges handler.
func NewJudgesHandler(deps Dependencies) *JudgesHandler {
	return &JudgesHandler{deps: deps}
}

// HandleJudge dispatches /judges/{id}/{scored|progress} requests.
func (h *JudgesHandler) HandleJudge(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/judges/")
	judgeID, suffix, _ := strings.Cut(rest, "/")
	if judgeID == "" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	switch suffix {
	case "scored":
		h.listScored(w, r, judgeID)
	case "progress":
		h.getProgress(w, r, judgeID)
	default:
		http.NotFound(w, r)
	}
}

// scoredTeam is one row of a judge's history, with per-criterion values
// and the shared descriptive label for the rounded final score.
type scoredTeam struct {
	TeamID      string         `json:"team_id"`
	TeamName    string         `json:"team_name"`
	TeamNumber  int            `json:"team_number"`
	FinalScore  float64        `json:"final_score"`
	Label       string         `json:"label"`
	Scores      map[string]int `json:"scores"`
	Comment     string         `json:"comment"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

func (h *JudgesHandler) listScored(w http.ResponseWriter, r *http.Request, judgeID string) {
	views, err := h.deps.ScoredByJudge(r.Context(), judgeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]scoredTeam, len(views))
	for i, v := range views {
		out[i] = scoredTeam{
			TeamID:      v.Team.ID,
			TeamName:    v.Team.Name,
			TeamNumber:  v.Team.Number,
			FinalScore:  v.FinalScore,
			Label:       criteria.Label(int(math.Round(v.FinalScore))),
			Scores:      v.Scores,
			Comment:     v.Comment,
			SubmittedAt: v.At,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// judgeProgressResponse reports (scored, total) for one judge in one event.
type judgeProgressResponse struct {
	JudgeID string `json:"judge_id"`
	EventID string `json:"event_id"`
	Scored  int    `json:"scored"`
	Total   int    `json:"total"`
}

// getProgress handles GET /judges/{id}/progress?event_id=...
func (h *JudgesHandler) getProgress(w http.ResponseWriter, r *http.Request, judgeID string) {
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing event_id", ErrBadRequest))
		return
	}
	scored, total, err := h.deps.JudgeProgress(r.Context(), judgeID, eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, judgeProgressResponse{
		JudgeID: judgeID,
		EventID: eventID,
		Scored:  scored,
		Total:   total,
	})
}
