package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When analyses and errors are recorded", func() {
			m.RecordAnalysis("completed")
			m.RecordAnalysis("completed")
			m.RecordAnalysis("failed")
			m.RecordCollaboratorError("generation")
			m.RecordCacheLookup(true)
			m.RecordCacheLookup(false)
			m.RecordCacheLookup(false)
			m.RecordIndexed()

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.analyses.WithLabelValues("completed")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.analyses.WithLabelValues("failed")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.collaboratorErrors.WithLabelValues("generation")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.casesIndexed), ShouldEqual, 1)
			})
		})

		Convey("When stage latency and confidence are observed", func() {
			m.ObserveStage(StageGeneration, 1500*time.Millisecond)
			m.ObserveConfidence(6.2)

			Convey("Then the histograms are collected", func() {
				So(testutil.CollectAndCount(m.stageLatency), ShouldEqual, 1)
				So(testutil.CollectAndCount(m.confidenceScore), ShouldEqual, 1)
			})
		})

		Convey("When the handler is scraped", func() {
			m.RecordAnalysis("no_comparables")
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the namespaced series are exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `casevalue_analysis_analyses_total{status="no_comparables"} 1`)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithMetricsEnabled(false), WithNamespace("test"))
		m.RecordAnalysis("completed")

		Convey("Then nothing is recorded", func() {
			So(testutil.ToFloat64(m.analyses.WithLabelValues("completed")), ShouldEqual, 0)
		})
	})

	Convey("Given a nil manager", t, func() {
		var m *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.RecordAnalysis("completed")
				m.ObserveStage(StageSearch, time.Second)
				m.RecordCacheLookup(true)
			}, ShouldNotPanic)
		})
	})

	Convey("Given custom buckets", t, func() {
		m := NewManager(WithHistogramBuckets([]float64{0.1, 1}), WithSubsystem("custom"))
		m.ObserveStage(StageEmbedding, 50*time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		So(strings.Contains(rec.Body.String(), `casevalue_custom_stage_duration_seconds_bucket{stage="embedding",le="0.1"} 1`), ShouldBeTrue)
	})
}
