package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/scorevault/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at every level", func() {
			l := logger.Get()

			So(func() {
				l.Debug(ctx, "debug line", logger.String("k", "v"))
				l.Info(ctx, "info line", logger.Int("n", 1))
				l.Warn(ctx, "warn line", logger.Error(errors.New("boom")))
				l.Error(ctx, "error line", logger.Any("payload", map[string]int{"a": 1}))
			}, ShouldNotPanic)
		})

		Convey("When deriving a named logger", func() {
			So(func() {
				logger.Named("ingest").Info(ctx, "named line")
			}, ShouldNotPanic)
		})

		Convey("When setting levels by string", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})

		Convey("When syncing", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
