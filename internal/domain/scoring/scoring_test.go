package scoring_test

import (
	"errors"
	"testing"

	criteria "github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
	scoring "github.com/podiumhq/podium/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func defaultScores(value int) map[string]int {
	scores := make(map[string]int)
	for _, c := range criteria.Default().Criteria() {
		scores[c.Name] = value
	}
	return scores
}

func TestValidateScores(t *testing.T) {
	Convey("Given the stock schema", t, func() {
		schema := criteria.Default()

		Convey("When every criterion has a score in range", func() {
			err := scoring.ValidateScores(defaultScores(7), schema)

			Convey("Then validation should pass", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a criterion is missing", func() {
			scores := defaultScores(7)
			delete(scores, "Feasibility")
			err := scoring.ValidateScores(scores, schema)

			Convey("Then it should fail with ErrValidation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When an unknown criterion is present", func() {
			scores := defaultScores(7)
			scores["Team Spirit"] = 9
			err := scoring.ValidateScores(scores, schema)

			Convey("Then it should fail with ErrValidation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When an unknown criterion replaces a known one", func() {
			scores := defaultScores(7)
			delete(scores, "Feasibility")
			scores["Team Spirit"] = 9
			err := scoring.ValidateScores(scores, schema)

			Convey("Then the length check alone should not mask it", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a score is out of range", func() {
			for _, v := range []int{0, -3, 11} {
				scores := defaultScores(7)
				scores["Innovation"] = v
				err := scoring.ValidateScores(scores, schema)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			}
		})
	})
}

func TestFinalScore(t *testing.T) {
	Convey("Given the stock schema", t, func() {
		schema := criteria.Default()

		Convey("When every criterion scores the maximum", func() {
			rec := model.ScoreRecord{Scores: defaultScores(10)}

			Convey("Then the final score should be exactly 10", func() {
				So(scoring.FinalScore(rec, schema), ShouldAlmostEqual, 10.0, 1e-12)
			})
		})

		Convey("When every criterion scores the minimum", func() {
			rec := model.ScoreRecord{Scores: defaultScores(1)}

			Convey("Then the final score should be exactly 1", func() {
				So(scoring.FinalScore(rec, schema), ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When scores are mixed", func() {
			rec := model.ScoreRecord{Scores: map[string]int{
				"Innovation":           8,
				"Technical Complexity": 6,
				"UX/UI":                10,
				"Feasibility":          4,
				"Presentation":         2,
			}}

			Convey("Then the final score should be the weighted sum", func() {
				// 8*.30 + 6*.25 + 10*.20 + 4*.15 + 2*.10 = 6.7
				So(scoring.FinalScore(rec, schema), ShouldAlmostEqual, 6.7, 1e-12)
			})

			Convey("And recomputing should be deterministic", func() {
				first := scoring.FinalScore(rec, schema)
				for i := 0; i < 100; i++ {
					So(scoring.FinalScore(rec, schema), ShouldEqual, first)
				}
			})
		})
	})
}

func TestTeamAverage(t *testing.T) {
	Convey("Given final scores from several judges", t, func() {
		Convey("When the team has records", func() {
			avg, scored := scoring.TeamAverage([]float64{6.7, 8.1, 7.4})

			Convey("Then it should return the arithmetic mean", func() {
				So(scored, ShouldBeTrue)
				So(avg, ShouldAlmostEqual, (6.7+8.1+7.4)/3, 1e-12)
			})
		})

		Convey("When the team has a single record", func() {
			avg, scored := scoring.TeamAverage([]float64{5.5})

			Convey("Then the average should equal that record", func() {
				So(scored, ShouldBeTrue)
				So(avg, ShouldEqual, 5.5)
			})
		})

		Convey("When the team has no records", func() {
			avg, scored := scoring.TeamAverage(nil)

			Convey("Then it should report unscored, not zero", func() {
				So(scored, ShouldBeFalse)
				So(avg, ShouldEqual, 0)
			})
		})
	})
}
