package metrics_test

import (
	"testing"

	"github.com/okian/scorevault/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(reg))
		So(m, ShouldNotBeNil)

		Convey("When gathering", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)

			Convey("Then the service metric families are registered", func() {
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["scorevault_archive_ingest_runs_total"], ShouldBeTrue)
				So(names["scorevault_archive_snapshots"], ShouldBeTrue)
				So(names["scorevault_archive_tracked_users"], ShouldBeTrue)
			})
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("When recording through them", func() {
			So(func() {
				metrics.RecordIngestRun()
				metrics.RecordQueryDuration("week", 1.5)
				metrics.RecordSnapshotCacheHit()
				metrics.UpdateTrackedUsers(3)
				metrics.RecordHTTPRequest("leaderboard", "GET", "200")
			}, ShouldNotPanic)
		})

		Convey("Then the backing registry is exposed for /healthz", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
