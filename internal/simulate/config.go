package simulate

import "time"

// Config holds configuration for one simulation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	EventName string        // Display name for the generated event
	NumTeams  int           // Number of teams to import
	NumJudges int           // Number of judges to assign
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for run output
	Verbose   bool          // Enable verbose logging
}

// Criterion mirrors one schema entry in event responses.
type Criterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// EventInfo mirrors the event creation response.
type EventInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Date     string      `json:"date"`
	Criteria []Criterion `json:"criteria"`
}

// TeamInfo mirrors a team in API responses.
type TeamInfo struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	TeamName    string `json:"team_name"`
	TeamNumber  int    `json:"team_number"`
	Description string `json:"description"`
}

// JudgeInfo mirrors a judge in API responses.
type JudgeInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RowError mirrors one rejected roster row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportOutcome mirrors the roster import response.
type ImportOutcome struct {
	Created []TeamInfo `json:"created"`
	Errors  []RowError `json:"errors"`
}

// Entry mirrors one leaderboard row. AverageScore is nil for teams
// without submissions.
type Entry struct {
	Rank         int      `json:"rank"`
	TeamID       string   `json:"team_id"`
	TeamName     string   `json:"team_name"`
	TeamNumber   int      `json:"team_number"`
	AverageScore *float64 `json:"average_score"`
	ScoresCount  int      `json:"scores_count"`
}

// Progress mirrors the event progress response.
type Progress struct {
	EventID         string         `json:"event_id"`
	PercentComplete float64        `json:"percent_complete"`
	PerJudge        map[string]int `json:"per_judge"`
}

// Scoresheet is one (team, judge) submission to send.
type Scoresheet struct {
	TeamID     string
	TeamNumber int
	JudgeID    string
	Scores     map[string]int
	Comment    string
}

// Stats holds run statistics.
type Stats struct {
	TeamsCreated     int
	JudgesAssigned   int
	SheetsGenerated  int
	SheetsSubmitted  int
	SheetsSuccessful int
	SheetsFailed     int
	LeaderboardRows  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
