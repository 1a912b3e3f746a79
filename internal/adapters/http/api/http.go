// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/podiumhq/podium/internal/adapters/csvio"
	"github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation. The
// caller's identity (judge id) arrives explicitly on each request; the
// core never reads it from ambient state.
type Dependencies interface {
	CreateEvent(ctx context.Context, name string, date time.Time, crit []criteria.Criterion) (model.Event, error)
	Event(ctx context.Context, eventID string) (model.Event, error)
	Events(ctx context.Context) []model.Event

	AddTeam(ctx context.Context, eventID, name string, number int, description string) (model.Team, error)
	Teams(ctx context.Context, eventID string) ([]model.Team, error)
	AssignJudge(ctx context.Context, eventID, name, email string) (model.Judge, error)
	Judges(ctx context.Context, eventID string) ([]model.Judge, error)

	SubmitScore(ctx context.Context, teamID, judgeID string, scores map[string]int, comment string) (model.ScoreRecord, float64, error)
	ScoredByJudge(ctx context.Context, judgeID string) ([]app.ScoredTeamView, error)

	Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error)
	ExportLeaderboard(ctx context.Context, eventID string) ([]byte, error)
	ImportRoster(ctx context.Context, eventID string, data []byte) (csvio.ImportResult, error)

	JudgeProgress(ctx context.Context, judgeID, eventID string) (scored, total int, err error)
	EventProgress(ctx context.Context, eventID string) (percent float64, perJudge map[string]int, err error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
	teamsHandler  *TeamsHandler
	judgesHandler *JudgesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		eventsHandler: NewEventsHandler(deps),
		teamsHandler:  NewTeamsHandler(deps),
		judgesHandler: NewJudgesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleCollection, "events"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEvent, "events"))
	mux.HandleFunc("/teams/", MetricsMiddleware(s.teamsHandler.HandleTeam, "teams"))
	mux.HandleFunc("/judges/", MetricsMiddleware(s.judgesHandler.HandleJudge, "judges"))
}

// judgeIDHeader carries the verified judge identity supplied by the
// authentication collaborator in front of this service.
const judgeIDHeader = "X-Judge-ID"

// Request and response shapes.

type createEventRequest struct {
	Name     string               `json:"name"`
	Date     string               `json:"date"` // YYYY-MM-DD
	Criteria []criteria.Criterion `json:"criteria"`
}

type teamRequest struct {
	TeamName    string `json:"team_name"`
	TeamNumber  int    `json:"team_number"`
	Description string `json:"description"`
}

type teamResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	TeamName    string `json:"team_name"`
	TeamNumber  int    `json:"team_number"`
	Description string `json:"description"`
}

func toTeamJSON(t model.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		EventID:     t.EventID,
		TeamName:    t.Name,
		TeamNumber:  t.Number,
		Description: t.Description,
	}
}

type judgeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toJudgeJSON(j model.Judge) judgeResponse {
	return judgeResponse{ID: j.ID, Name: j.Name, Email: j.Email}
}

type judgeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type scoreRequest struct {
	Scores  map[string]int `json:"scores"`
	Comment string         `json:"comment"`
}

type scoreResponse struct {
	TeamID      string    `json:"team_id"`
	JudgeID     string    `json:"judge_id"`
	FinalScore  float64   `json:"final_score"`
	Label       string    `json:"label"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// leaderboardEntry mirrors model.LeaderboardEntry for JSON. AverageScore
// is null for unscored teams, never 0.
type leaderboardEntry struct {
	Rank         int      `json:"rank"`
	TeamID       string   `json:"team_id"`
	TeamName     string   `json:"team_name"`
	TeamNumber   int      `json:"team_number"`
	AverageScore *float64 `json:"average_score"`
	ScoresCount  int      `json:"scores_count"`
}

func toLeaderboardJSON(entries []model.LeaderboardEntry) []leaderboardEntry {
	out := make([]leaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = leaderboardEntry{
			Rank:        e.Rank,
			TeamID:      e.TeamID,
			TeamName:    e.TeamName,
			TeamNumber:  e.TeamNumber,
			ScoresCount: e.ScoresCount,
		}
		if e.Scored {
			avg := e.Average
			out[i].AverageScore = &avg
		}
	}
	return out
}

// importResponse reports a roster import: teams created plus row-level
// rejections, in one 200 response.
type importResponse struct {
	Created []teamResponse   `json:"created"`
	Errors  []csvio.RowError `json:"errors"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps core error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrNotAssigned):
		writeError(w, http.StatusForbidden, "not_assigned", err)
	case errors.Is(err, model.ErrDuplicateTeamNumber):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, model.ErrValidation), errors.Is(err, criteria.ErrInvalidSchema):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
