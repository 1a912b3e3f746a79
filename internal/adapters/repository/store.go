// Package repository defines the scoring store interface and its in-memory
// implementation.
package repository

import (
	"context"
	"time"

	"github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
)

// Store provides read/write access to events, rosters, judge assignments,
// and raw score records.
//
// Write guarantees: UpsertScore is atomic per (team, judge) pair. Two
// concurrent submissions for the same pair produce exactly one final
// record, last committed wins by store-observed order. Submissions for
// different pairs do not block each other.
//
// Read guarantees: every read operates on a consistent snapshot taken at
// call time. Reads never block writers and are not required to observe
// writes that commit during their execution.
type Store interface {
	// CreateEvent mints a new event owning the given schema.
	CreateEvent(ctx context.Context, name string, date time.Time, schema criteria.Schema) (model.Event, error)
	// Event returns an event by id. Fails with model.ErrNotFound.
	Event(ctx context.Context, eventID string) (model.Event, error)
	// Events lists all events, creation order.
	Events(ctx context.Context) []model.Event

	// AddTeam registers one team for an event. Fails with
	// model.ErrDuplicateTeamNumber when the number is taken in the event.
	AddTeam(ctx context.Context, eventID, name string, number int, description string) (model.Team, error)
	// Team returns a team by id. Fails with model.ErrNotFound.
	Team(ctx context.Context, teamID string) (model.Team, error)
	// Teams lists an event's roster in creation order.
	Teams(ctx context.Context, eventID string) ([]model.Team, error)

	// RegisterJudge returns the judge with the given email, creating one
	// if none exists. Email matching is case-insensitive.
	RegisterJudge(ctx context.Context, name, email string) (model.Judge, error)
	// AssignJudge adds an event assignment; assigning twice is a no-op.
	AssignJudge(ctx context.Context, judgeID, eventID string) error
	// Judge returns a judge by id. Fails with model.ErrNotFound.
	Judge(ctx context.Context, judgeID string) (model.Judge, error)
	// Judges lists the judges assigned to an event, assignment order.
	Judges(ctx context.Context, eventID string) ([]model.Judge, error)
	// IsAssigned reports whether the judge is assigned to the event.
	IsAssigned(ctx context.Context, judgeID, eventID string) bool

	// UpsertScore validates and stores one raw submission, replacing any
	// prior record for the (team, judge) pair. Fails with
	// model.ErrValidation, model.ErrNotFound, or model.ErrNotAssigned.
	UpsertScore(ctx context.Context, teamID, judgeID string, scores map[string]int, comment string) (model.ScoreRecord, error)
	// Score returns the record for the pair, or ok=false when not scored.
	// "Not scored" is a normal state, not an error.
	Score(ctx context.Context, teamID, judgeID string) (model.ScoreRecord, bool)
	// ScoresForTeam snapshots a team's records, submission order ascending.
	ScoresForTeam(ctx context.Context, teamID string) ([]model.ScoreRecord, error)
	// ScoresForJudge snapshots a judge's records, submission order ascending.
	ScoresForJudge(ctx context.Context, judgeID string) ([]model.ScoreRecord, error)

	// Counts returns totals for monitoring.
	Counts(ctx context.Context) (events, teams, judges, scores int)
}
