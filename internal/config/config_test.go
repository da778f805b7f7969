package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/scorevault/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		os.Unsetenv("SCOREVAULT_CONFIG")

		Convey("When loading", func() {
			cfg, err := config.Load()
			So(err, ShouldBeNil)

			Convey("Then defaults apply", func() {
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DataDir, ShouldEqual, "./data")
				So(cfg.Timezone, ShouldEqual, "America/Los_Angeles")
				So(cfg.AllTimeSize, ShouldEqual, 50)
				So(cfg.ViewSize, ShouldEqual, 10)
				So(cfg.SourceURL, ShouldBeEmpty)
			})
		})
	})

	Convey("Given environment overrides", t, func() {
		t.Setenv("SCOREVAULT_ADDR", ":7777")
		t.Setenv("SCOREVAULT_SOURCE_URL", "https://arcade.example/scores")
		t.Setenv("SCOREVAULT_VIEW_SIZE", "5")

		Convey("When loading", func() {
			cfg, err := config.Load()
			So(err, ShouldBeNil)

			Convey("Then env values win over defaults", func() {
				So(cfg.Addr, ShouldEqual, ":7777")
				So(cfg.SourceURL, ShouldEqual, "https://arcade.example/scores")
				So(cfg.ViewSize, ShouldEqual, 5)
				So(cfg.DataDir, ShouldEqual, "./data")
			})
		})
	})

	Convey("Given a YAML config file", t, func() {
		// t.Setenv from the previous block lasts until test end; drop it
		// so the file value is visible here.
		os.Unsetenv("SCOREVAULT_ADDR")
		dir := t.TempDir()
		path := filepath.Join(dir, "scorevault.yaml")
		body := "addr: \":6060\"\ndata_dir: /var/lib/scorevault\ntimezone: UTC\n"
		So(os.WriteFile(path, []byte(body), 0o644), ShouldBeNil)
		t.Setenv("SCOREVAULT_CONFIG", path)

		Convey("When loading", func() {
			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.DataDir, ShouldEqual, "/var/lib/scorevault")
			So(cfg.Timezone, ShouldEqual, "UTC")
		})

		Convey("When env overrides the file", func() {
			t.Setenv("SCOREVAULT_ADDR", ":6061")
			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6061")
			So(cfg.DataDir, ShouldEqual, "/var/lib/scorevault")
		})
	})

	Convey("Given an invalid override", t, func() {
		os.Unsetenv("SCOREVAULT_CONFIG")
		t.Setenv("SCOREVAULT_ADDR", "")

		Convey("When loading", func() {
			cfg, err := config.Load()
			So(cfg, ShouldBeNil)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a missing config file", t, func() {
		t.Setenv("SCOREVAULT_CONFIG", "/nonexistent/scorevault.yaml")

		Convey("When loading", func() {
			cfg, err := config.Load()
			So(cfg, ShouldBeNil)
			So(err, ShouldNotBeNil)
		})
	})
}
