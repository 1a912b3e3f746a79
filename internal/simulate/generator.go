package simulate

import (
	"bytes"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

// Team tier constants. Tiers bias the generated scores so the resulting
// leaderboard has a realistic spread instead of a uniform smear.
const (
	tierCount = 4

	caseStrongTeam  = 0
	caseAverageTeam = 1
	caseWeakTeam    = 2
	caseWildcard    = 3
)

// Score bands per tier, inclusive.
const (
	strongMin  = 7
	strongMax  = 10
	averageMin = 4
	averageMax = 8
	weakMin    = 1
	weakMax    = 5
	fullMin    = 1
	fullMax    = 10
)

// randomInt returns a random int in [min, max] using crypto/rand.
func randomInt(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	return min + int(n.Int64())
}

// generateRosterCSV builds the roster import payload for numTeams teams.
// Team numbers start at 1 and names carry a uuid suffix so repeated runs
// against the same instance never collide on names.
func generateRosterCSV(numTeams int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"teamName", "teamNumber", "description"})
	for i := 1; i <= numTeams; i++ {
		name := "Team " + uuid.New().String()[:8]
		_ = w.Write([]string{name, strconv.Itoa(i), "generated entry " + strconv.Itoa(i)})
	}
	w.Flush()
	return buf.Bytes()
}

// generateJudges builds numJudges judge registrations with unique emails.
func generateJudges(numJudges int) []JudgeInfo {
	judges := make([]JudgeInfo, numJudges)
	for i := range judges {
		id := uuid.New().String()[:8]
		judges[i] = JudgeInfo{
			Name:  "Judge " + id,
			Email: "judge-" + id + "@example.com",
		}
	}
	return judges
}

// generateScoresheets builds one sheet per (team, judge) pair. Each team
// is assigned a tier once so every judge scores it within the same band.
func generateScoresheets(teams []TeamInfo, judges []JudgeInfo, criteria []Criterion) []Scoresheet {
	tiers := make([]int, len(teams))
	for i := range tiers {
		tiers[i] = randomInt(0, tierCount-1)
	}

	sheets := make([]Scoresheet, 0, len(teams)*len(judges))
	for ti, team := range teams {
		for _, judge := range judges {
			scores := make(map[string]int, len(criteria))
			for _, c := range criteria {
				scores[c.Name] = tierScore(tiers[ti])
			}
			sheets = append(sheets, Scoresheet{
				TeamID:     team.ID,
				TeamNumber: team.TeamNumber,
				JudgeID:    judge.ID,
				Scores:     scores,
				Comment:    fmt.Sprintf("simulated review of team %d", team.TeamNumber),
			})
		}
	}
	return sheets
}

// tierScore draws one criterion score from the tier's band.
func tierScore(tier int) int {
	switch tier {
	case caseStrongTeam:
		return randomInt(strongMin, strongMax)
	case caseAverageTeam:
		return randomInt(averageMin, averageMax)
	case caseWeakTeam:
		return randomInt(weakMin, weakMax)
	case caseWildcard:
		return randomInt(fullMin, fullMax)
	default:
		return randomInt(fullMin, fullMax)
	}
}
