package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/podiumhq/podium/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New()

		Convey("Then it should carry the documented defaults", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":8081")
			So(cfg.ShardCount, ShouldEqual, 16)
			So(cfg.MaxImportRows, ShouldEqual, 5000)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()
		vars := []string{"PODIUM_CONFIG", "PODIUM_LOG_LEVEL", "PODIUM_ADDR", "PODIUM_SHARD_COUNT", "PODIUM_MAX_IMPORT_ROWS"}
		for _, v := range vars {
			So(os.Unsetenv(v), ShouldBeNil)
		}

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8081")
				So(cfg.ShardCount, ShouldEqual, 16)
			})
		})

		Convey("When environment variables override defaults", func() {
			So(os.Setenv("PODIUM_ADDR", ":9000"), ShouldBeNil)
			So(os.Setenv("PODIUM_SHARD_COUNT", "32"), ShouldBeNil)
			So(os.Setenv("PODIUM_LOG_LEVEL", "debug"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("PODIUM_ADDR")
				_ = os.Unsetenv("PODIUM_SHARD_COUNT")
				_ = os.Unsetenv("PODIUM_LOG_LEVEL")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then the overrides should win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9000")
				So(cfg.ShardCount, ShouldEqual, 32)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When a YAML file is referenced", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "podium.yaml")
			So(os.WriteFile(path, []byte("addr: \":7777\"\nmax_import_rows: 100\n"), 0600), ShouldBeNil)
			So(os.Setenv("PODIUM_CONFIG", path), ShouldBeNil)
			defer func() { _ = os.Unsetenv("PODIUM_CONFIG") }()

			Convey("Then file values should override defaults", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7777")
				So(cfg.MaxImportRows, ShouldEqual, 100)
				So(cfg.ShardCount, ShouldEqual, 16)
			})

			Convey("And env should still beat the file", func() {
				So(os.Setenv("PODIUM_ADDR", ":6666"), ShouldBeNil)
				defer func() { _ = os.Unsetenv("PODIUM_ADDR") }()

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6666")
			})
		})

		Convey("When the referenced file does not exist", func() {
			So(os.Setenv("PODIUM_CONFIG", "/nonexistent/podium.yaml"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("PODIUM_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then loading should fail with ErrLoadConfig", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When a value fails validation", func() {
			So(os.Setenv("PODIUM_SHARD_COUNT", "0"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("PODIUM_SHARD_COUNT") }()

			_, err := config.Load(ctx)

			Convey("Then loading should fail with ErrInvalidConfig", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
