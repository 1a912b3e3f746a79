// Package scoring computes weighted final scores and cross-judge averages.
//
// Everything here is a pure function of its inputs: no hidden state, no
// map-order dependence. Calling any function twice with the same inputs
// yields bit-identical results. Rounding happens only at presentation
// time, never here, so averages do not compound rounding error.
package scoring

import (
	"fmt"

	"github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
)

// ValidateScores checks a raw submission against the event schema.
// Every criterion in the schema must be present, no extra keys are
// accepted, and each value must be an integer in [MinScore,MaxScore].
// Failures wrap model.ErrValidation.
func ValidateScores(scores map[string]int, schema criteria.Schema) error {
	if len(scores) != schema.Len() {
		return fmt.Errorf("%w: got %d criteria, schema has %d", model.ErrValidation, len(scores), schema.Len())
	}
	for _, c := range schema.Criteria() {
		v, ok := scores[c.Name]
		if !ok {
			return fmt.Errorf("%w: missing criterion %q", model.ErrValidation, c.Name)
		}
		if v < criteria.MinScore || v > criteria.MaxScore {
			return fmt.Errorf("%w: score for %q must be in [%d,%d], got %d",
				model.ErrValidation, c.Name, criteria.MinScore, criteria.MaxScore, v)
		}
	}
	// Equal length plus full schema coverage rules out extra keys.
	return nil
}

// FinalScore returns the weighted sum of a record's per-criterion scores.
// The record must have passed ValidateScores against the same schema;
// given that, the result lies in [MinScore,MaxScore]. Iteration follows
// schema order for determinism.
func FinalScore(rec model.ScoreRecord, schema criteria.Schema) float64 {
	total := 0.0
	for _, c := range schema.Criteria() {
		total += float64(rec.Scores[c.Name]) * c.Weight
	}
	return total
}

// TeamAverage returns the arithmetic mean of the given final scores and
// whether the team has been scored at all. A team with no records yields
// (0, false) rather than a division by zero or a fake minimum.
func TeamAverage(finals []float64) (float64, bool) {
	if len(finals) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, f := range finals {
		sum += f
	}
	return sum / float64(len(finals)), true
}
