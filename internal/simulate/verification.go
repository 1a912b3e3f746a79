package simulate

import (
	"fmt"
	"log"
	"math"
)

// verifyLeaderboard checks the served ranking against a local recompute
// from the submitted sheets: averages within tolerance, strictly ordered
// rows, team-number tie-breaks, and contiguous ranks.
func verifyLeaderboard(sheets []Scoresheet, criteria []Criterion, leaderboard []Entry, verbose bool) error {
	log.Println("verifying leaderboard")

	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	expected := expectedAverages(sheets, criteria)

	for _, entry := range leaderboard {
		want, ok := expected[entry.TeamID]
		if !ok {
			// Teams whose every submission failed show up unscored.
			if entry.AverageScore != nil {
				return fmt.Errorf("team %d has an average but no accepted sheets", entry.TeamNumber)
			}
			continue
		}
		if entry.AverageScore == nil {
			return fmt.Errorf("team %d is unscored but sheets were accepted", entry.TeamNumber)
		}
		if math.Abs(*entry.AverageScore-want) > AverageTolerance {
			return fmt.Errorf("team %d average mismatch: served %.4f, recomputed %.4f",
				entry.TeamNumber, *entry.AverageScore, want)
		}
	}

	if err := verifyOrdering(leaderboard); err != nil {
		return err
	}

	displayTopTeams(leaderboard, verbose)

	log.Println("leaderboard verification completed")
	return nil
}

// expectedAverages recomputes each team's average final score from the
// sheets that were generated for it.
func expectedAverages(sheets []Scoresheet, criteria []Criterion) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, sheet := range sheets {
		final := 0.0
		for _, c := range criteria {
			final += float64(sheet.Scores[c.Name]) * c.Weight
		}
		sums[sheet.TeamID] += final
		counts[sheet.TeamID]++
	}

	averages := make(map[string]float64, len(sums))
	for teamID, sum := range sums {
		averages[teamID] = sum / float64(counts[teamID])
	}
	return averages
}

// verifyOrdering checks sort order, rank contiguity, and that unscored
// teams trail every scored one.
func verifyOrdering(leaderboard []Entry) error {
	for i, entry := range leaderboard {
		if entry.Rank != i+1 {
			return fmt.Errorf("rank gap at position %d: got rank %d", i, entry.Rank)
		}
		if i == 0 {
			continue
		}
		prev := leaderboard[i-1]

		switch {
		case prev.AverageScore == nil && entry.AverageScore != nil:
			return fmt.Errorf("scored team %d ranked below unscored team %d",
				entry.TeamNumber, prev.TeamNumber)
		case prev.AverageScore == nil && entry.AverageScore == nil:
			if prev.TeamNumber > entry.TeamNumber {
				return fmt.Errorf("unscored teams out of number order at rank %d", entry.Rank)
			}
		case entry.AverageScore != nil:
			if *entry.AverageScore > *prev.AverageScore {
				return fmt.Errorf("leaderboard not sorted: rank %d beats rank %d", entry.Rank, prev.Rank)
			}
			if *entry.AverageScore == *prev.AverageScore && prev.TeamNumber > entry.TeamNumber {
				return fmt.Errorf("tie at rank %d not broken by team number", entry.Rank)
			}
		}
	}
	return nil
}

// displayTopTeams shows the head of the served leaderboard.
func displayTopTeams(leaderboard []Entry, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	log.Printf("top %d teams:", topN)
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		if entry.AverageScore == nil {
			log.Printf("   %d. %s (#%d) - unscored", entry.Rank, entry.TeamName, entry.TeamNumber)
			continue
		}
		log.Printf("   %d. %s (#%d) - average: %.2f from %d sheets",
			entry.Rank, entry.TeamName, entry.TeamNumber, *entry.AverageScore, entry.ScoresCount)
	}

	if verbose && len(leaderboard) > 0 {
		scored := 0
		sum := 0.0
		for _, entry := range leaderboard {
			if entry.AverageScore != nil {
				scored++
				sum += *entry.AverageScore
			}
		}
		if scored > 0 {
			log.Printf("score statistics: scored=%d mean=%.3f", scored, sum/float64(scored))
		}
	}
}
