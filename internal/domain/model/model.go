// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/podiumhq/podium/internal/domain/criteria"
)

// Event is a judged hackathon event. It owns its teams, its criteria
// schema, and the score records referencing its teams. Once scoring has
// begun an event only grows: teams and judge assignments may be added,
// nothing is mutated.
type Event struct {
	ID       string          // unique id minted by the repository
	Name     string          // display name
	Date     time.Time       // event day (time component unused)
	Criteria criteria.Schema // validated weighting schema
}

// Team is a registered entry for an event. Teams are created individually
// or via roster import and never mutated afterwards.
type Team struct {
	ID          string // unique id minted by the repository
	EventID     string // owning event
	Name        string
	Number      int // unique within the event
	Description string
}

// Judge scores teams. A judge may be assigned to zero or more events and
// may only score teams belonging to an assigned event. Email is unique
// case-insensitively across all judges.
type Judge struct {
	ID    string
	Name  string
	Email string
}

// ScoreRecord is one judge's raw submission for one team. At most one
// record exists per (team, judge) pair; resubmission replaces the record.
type ScoreRecord struct {
	TeamID      string
	JudgeID     string
	Scores      map[string]int // criterion name -> integer score in [1,10]
	Comment     string
	SubmittedAt time.Time
}

// LeaderboardEntry is a derived ranking row. Average is meaningful only
// when Scored is true; an unscored team is never conflated with one that
// legitimately averaged the minimum.
type LeaderboardEntry struct {
	Rank        int
	TeamID      string
	TeamName    string
	TeamNumber  int
	Average     float64
	Scored      bool
	ScoresCount int
}
