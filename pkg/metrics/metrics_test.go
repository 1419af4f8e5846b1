package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("grade"),
				WithPercentBuckets([]float64{0.5, 1.0}),
				WithLatencyBuckets([]float64{10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordEvaluation(0.8, 12)

			Convey("Then metric names should carry the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_grade_evaluations_total"], ShouldBeTrue)
				So(names["test_grade_age_graded_percent"], ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording evaluator metrics", func() {
			manager.RecordEvaluation(0.91, 3)
			manager.RecordEvaluation(1.02, 4)
			manager.RecordEvaluationError(KindInvalidInput)
			manager.RecordMissingAgeFactor()

			Convey("Then the counters should reflect the calls", func() {
				So(testutil.ToFloat64(manager.evaluations), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.evaluationErrors.WithLabelValues(KindInvalidInput)), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.missingAgeFactors), ShouldEqual, 1)
			})
		})

		Convey("When recording builder and import metrics", func() {
			manager.SetTableEvents("men", 14)
			manager.RecordTableRowSkipped("women", "excluded")
			manager.RecordTableRowSkipped("women", "excluded")
			manager.RecordResultInvalid()
			manager.RecordResultDuplicate()
			manager.RecordRaceRanked()

			Convey("Then the collectors should reflect the calls", func() {
				So(testutil.ToFloat64(manager.tableEvents.WithLabelValues("men")), ShouldEqual, 14)
				So(testutil.ToFloat64(manager.tableRowsSkipped.WithLabelValues("women", "excluded")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.resultsInvalid), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.resultsDuplicate), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.racesRanked), ShouldEqual, 1)
			})
		})

		Convey("When metrics are disabled", func() {
			disabled := NewManager(WithMetricsEnabled(false))
			disabled.RecordEvaluation(0.5, 1)

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(disabled.evaluations), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		So(func() {
			RecordEvaluation(0.75, 2)
			RecordEvaluationError(KindInvalidGender)
			RecordMissingAgeFactor()
			SetTableEvents("women", 12)
			RecordTableRowSkipped("men", "no_distance")
			RecordResultInvalid()
			RecordResultDuplicate()
			RecordRaceRanked()
		}, ShouldNotPanic)
		So(GetRegistry(), ShouldNotBeNil)
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded values", t, func() {
		manager := NewManager()
		manager.RecordEvaluation(0.9, 5)
		path := filepath.Join(t.TempDir(), "agegrade.prom")

		Convey("When writing the textfile", func() {
			err := manager.WriteTextfile(path)

			Convey("Then the file should contain the exposition", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "agegrade_evaluations_total 1")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := manager.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))

			Convey("Then it should fail with ErrExportFailed", func() {
				So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
			})
		})
	})
}
