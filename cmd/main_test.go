package main

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/internal/adapters/http/api"
	app "github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/config"
	"github.com/podiumhq/podium/pkg/logger"
	"github.com/podiumhq/podium/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("PODIUM_ADDR", ":8080")
			_ = os.Setenv("PODIUM_SHARD_COUNT", "8")
			defer func() {
				_ = os.Unsetenv("PODIUM_ADDR")
				_ = os.Unsetenv("PODIUM_SHARD_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithShardCount(4),
					app.WithMaxImportRows(100),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		svc := app.New(app.WithShardCount(2))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When collecting stats for the updater", func() {
			stats := svc.GetStats(ctx)

			convey.Convey("Then the snapshot should carry store counters", func() {
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["shardCount"], convey.ShouldEqual, 2)
				convey.So(stats["scores"], convey.ShouldEqual, 0)
			})
		})
	})
}
