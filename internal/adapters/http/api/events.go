// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/podiumhq/podium/internal/domain/model"
)

// EventsHandler handles the /events collection and everything below one
// event: leaderboard, export, roster, judges, progress.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleCollection handles POST /events and GET /events.
func (h *EventsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createEvent(w, r)
	case http.MethodGet:
		events := h.deps.Events(r.Context())
		out := make([]map[string]any, len(events))
		for i, ev := range events {
			out[i] = eventJSON(ev)
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}

// HandleEvent dispatches /events/{id}[/suffix] requests.
func (h *EventsHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/events/")
	eventID, suffix, _ := strings.Cut(rest, "/")
	if eventID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case suffix == "" && r.Method == http.MethodGet:
		h.getEvent(w, r, eventID)
	case suffix == "leaderboard" && r.Method == http.MethodGet:
		h.getLeaderboard(w, r, eventID)
	case suffix == "export" && r.Method == http.MethodGet:
		h.exportLeaderboard(w, r, eventID)
	case suffix == "teams" && r.Method == http.MethodGet:
		h.listTeams(w, r, eventID)
	case suffix == "teams" && r.Method == http.MethodPost:
		h.addTeam(w, r, eventID)
	case suffix == "teams/import" && r.Method == http.MethodPost:
		h.importRoster(w, r, eventID)
	case suffix == "judges" && r.Method == http.MethodGet:
		h.listJudges(w, r, eventID)
	case suffix == "judges" && r.Method == http.MethodPost:
		h.assignJudge(w, r, eventID)
	case suffix == "progress" && r.Method == http.MethodGet:
		h.getProgress(w, r, eventID)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	date := time.Time{}
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest))
			return
		}
	}
	ev, err := h.deps.CreateEvent(r.Context(), req.Name, date, req.Criteria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eventJSON(ev))
}

func (h *EventsHandler) getEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	ev, err := h.deps.Event(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventJSON(ev))
}

func (h *EventsHandler) listTeams(w http.ResponseWriter, r *http.Request, eventID string) {
	teams, err := h.deps.Teams(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]teamResponse, len(teams))
	for i, t := range teams {
		out[i] = toTeamJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventsHandler) addTeam(w http.ResponseWriter, r *http.Request, eventID string) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	team, err := h.deps.AddTeam(r.Context(), eventID, req.TeamName, req.TeamNumber, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamJSON(team))
}

// importRoster handles POST /events/{id}/teams/import with the raw CSV as
// the request body. Row-level failures come back in the 200 response; the
// batch itself only fails on a malformed header or an oversized payload.
func (h *EventsHandler) importRoster(w http.ResponseWriter, r *http.Request, eventID string) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	res, err := h.deps.ImportRoster(r.Context(), eventID, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created := make([]teamResponse, len(res.Created))
	for i, t := range res.Created {
		created[i] = toTeamJSON(t)
	}
	writeJSON(w, http.StatusOK, importResponse{Created: created, Errors: res.Errors})
}

func (h *EventsHandler) listJudges(w http.ResponseWriter, r *http.Request, eventID string) {
	judges, err := h.deps.Judges(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]judgeResponse, len(judges))
	for i, j := range judges {
		out[i] = toJudgeJSON(j)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventsHandler) assignJudge(w http.ResponseWriter, r *http.Request, eventID string) {
	var req judgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	judge, err := h.deps.AssignJudge(r.Context(), eventID, req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJudgeJSON(judge))
}

// eventJSON flattens an event and its schema for responses.
func eventJSON(ev model.Event) map[string]any {
	return map[string]any{
		"id":       ev.ID,
		"name":     ev.Name,
		"date":     ev.Date.Format("2006-01-02"),
		"criteria": ev.Criteria.Criteria(),
	}
}
