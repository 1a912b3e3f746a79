package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/pkg/metrics"
)

// exportColumns is the fixed leaderboard export layout.
var exportColumns = []string{"rank", "teamName", "teamNumber", "averageScore", "scoresCount"}

// unscoredMarker is written in place of an average for teams nobody has
// scored, so they can never be mistaken for a legitimate minimum score.
const unscoredMarker = "unscored"

// ExportLeaderboard serializes ranked entries to the stable CSV layout.
// The output is bit-exact for a given ranking: fixed column order, averages
// formatted to two decimal places, standard CSV quoting. Re-parsing it
// yields the same (teamName, teamNumber, averageScore, scoresCount) tuples.
func ExportLeaderboard(entries []model.LeaderboardEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Rank),
			e.TeamName,
			strconv.Itoa(e.TeamNumber),
			FormatAverage(e),
			strconv.Itoa(e.ScoresCount),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write export row for team %d: %w", e.TeamNumber, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush export: %w", err)
	}

	metrics.RecordExport()
	return buf.Bytes(), nil
}

// FormatAverage renders an entry's average for presentation: two decimal
// places, or the unscored marker. This is the only place averages are
// rounded.
func FormatAverage(e model.LeaderboardEntry) string {
	if !e.Scored {
		return unscoredMarker
	}
	return strconv.FormatFloat(e.Average, 'f', 2, 64)
}
