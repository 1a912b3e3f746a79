package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/pkg/metrics"
)

func TestNewManager(t *testing.T) {
	Convey("Given the metrics package", t, func() {
		Convey("When creating a manager on a private registry", func() {
			manager := metrics.NewManager(
				metrics.WithRegistry(prometheus.NewRegistry()),
				metrics.WithNamespace("podium_test"),
				metrics.WithSubsystem("unit"),
			)

			Convey("Then it should be ready to use", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating a disabled manager", func() {
			manager := metrics.NewManager(
				metrics.WithRegistry(prometheus.NewRegistry()),
				metrics.WithEnabled(false),
			)

			Convey("Then construction should still succeed", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording every metric kind", func() {
			record := func() {
				metrics.RecordScoreSubmitted()
				metrics.RecordScoreOverwritten()
				metrics.RecordScoreRejected("validation")
				metrics.RecordEventCreated()
				metrics.RecordTeamCreated()
				metrics.RecordJudgeAssigned()
				metrics.RecordLeaderboardRead()
				metrics.RecordLeaderboardBuildDuration(1.25)
				metrics.RecordExport()
				metrics.RecordImportBatch()
				metrics.RecordImportRowOK()
				metrics.RecordImportRowFailed()
				metrics.UpdateStoreShardCount(16)
				metrics.RecordStoreUpsertLatency(0.4)
				metrics.UpdateStoreScoreRecords(3)
				metrics.RecordHTTPRequest("events", "GET", "200")
				metrics.RecordHTTPRequestDuration("events", "GET", "200", 2.5)
			}

			Convey("Then none of the helpers should panic", func() {
				So(record, ShouldNotPanic)
			})

			Convey("And the registry should expose the collectors", func() {
				record()
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["podium_judging_scores_submitted_total"], ShouldBeTrue)
				So(names["podium_judging_scores_rejected_total"], ShouldBeTrue)
				So(names["podium_judging_store_shard_count"], ShouldBeTrue)
				So(names["podium_judging_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
