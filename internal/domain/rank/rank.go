// Package rank builds the leaderboard view from team score snapshots.
package rank

import (
	"sort"

	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/scoring"
)

// TeamScores pairs a team with the final scores of every judge who has
// scored it, taken from one store snapshot.
type TeamScores struct {
	Team   model.Team
	Finals []float64
}

// Build ranks the given teams. Ordering: scored teams by average
// descending, ties broken by team number ascending; unscored teams last,
// among themselves by team number ascending. Ranks are 1-based over the
// whole sequence. The result is recomputed fresh from the input on every
// call; nothing is cached.
func Build(teams []TeamScores) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(teams))
	for _, ts := range teams {
		avg, scored := scoring.TeamAverage(ts.Finals)
		entries = append(entries, model.LeaderboardEntry{
			TeamID:      ts.Team.ID,
			TeamName:    ts.Team.Name,
			TeamNumber:  ts.Team.Number,
			Average:     avg,
			Scored:      scored,
			ScoresCount: len(ts.Finals),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Scored != b.Scored {
			return a.Scored // scored teams before unscored ones
		}
		if a.Scored && a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.TeamNumber < b.TeamNumber
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
