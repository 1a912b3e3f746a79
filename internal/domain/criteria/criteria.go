// Package criteria defines the weighted judging schema for an event.
//
// A Schema is validated once at event creation and reused, immutable, for
// every score computation in that event. Weights are fractions of 1.0 and
// must sum to 1.0 within WeightTolerance.
package criteria

import (
	"fmt"
	"math"
)

// Score bounds and validation constants.
const (
	// MinScore and MaxScore bound every per-criterion score a judge submits.
	MinScore = 1
	MaxScore = 10

	// WeightTolerance is the permitted deviation of the weight sum from 1.0.
	WeightTolerance = 1e-6
)

// Criterion is a single named, weighted judging dimension.
type Criterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Schema is an ordered, validated set of criteria. The zero value is not
// usable; construct one with New or Default.
type Schema struct {
	ordered []Criterion
	weights map[string]float64
}

// New validates the given criteria and returns an immutable Schema.
// It fails with ErrInvalidSchema if the set is empty, a name is blank or
// duplicated, a weight is outside (0,1], or the weights do not sum to 1.0
// within WeightTolerance.
func New(criteria []Criterion) (Schema, error) {
	if len(criteria) == 0 {
		return Schema{}, fmt.Errorf("%w: at least one criterion required", ErrInvalidSchema)
	}

	ordered := make([]Criterion, len(criteria))
	weights := make(map[string]float64, len(criteria))
	sum := 0.0
	for i, c := range criteria {
		if c.Name == "" {
			return Schema{}, fmt.Errorf("%w: criterion %d has empty name", ErrInvalidSchema, i)
		}
		if _, dup := weights[c.Name]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate criterion %q", ErrInvalidSchema, c.Name)
		}
		if c.Weight <= 0 || c.Weight > 1 {
			return Schema{}, fmt.Errorf("%w: weight for %q must be in (0,1], got %v", ErrInvalidSchema, c.Name, c.Weight)
		}
		ordered[i] = c
		weights[c.Name] = c.Weight
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return Schema{}, fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidSchema, sum)
	}

	return Schema{ordered: ordered, weights: weights}, nil
}

// Default returns the stock hackathon schema used when an event is created
// without explicit criteria.
func Default() Schema {
	s, err := New([]Criterion{
		{Name: "Innovation", Weight: 0.30},
		{Name: "Technical Complexity", Weight: 0.25},
		{Name: "UX/UI", Weight: 0.20},
		{Name: "Feasibility", Weight: 0.15},
		{Name: "Presentation", Weight: 0.10},
	})
	if err != nil {
		// The stock schema is fixed at compile time; failing to build it is a bug.
		panic(err)
	}
	return s
}

// Criteria returns the criteria in schema order. The returned slice is a copy.
func (s Schema) Criteria() []Criterion {
	out := make([]Criterion, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Weight returns the weight for name and whether the criterion exists.
func (s Schema) Weight(name string) (float64, bool) {
	w, ok := s.weights[name]
	return w, ok
}

// Len returns the number of criteria in the schema.
func (s Schema) Len() int { return len(s.ordered) }

// Valid reports whether the schema was built by New.
func (s Schema) Valid() bool { return len(s.ordered) > 0 }

// Label maps a score in [MinScore,MaxScore] to its descriptive label.
// Scores outside the range clamp to the nearest label.
func Label(score int) string {
	switch {
	case score <= 1:
		return "Abysmal"
	case score == 2:
		return "Dreadful"
	case score == 3:
		return "Poor"
	case score == 4:
		return "Below Average"
	case score == 5:
		return "Average"
	case score == 6:
		return "Above Average"
	case score == 7:
		return "Good"
	case score == 8:
		return "Very Good"
	case score == 9:
		return "Excellent"
	default:
		return "Outstanding"
	}
}
