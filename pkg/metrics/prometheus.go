package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error kind label values for evaluation errors.
const (
	KindInvalidTable  = "invalid_table"
	KindInvalidGender = "invalid_gender"
	KindInvalidInput  = "invalid_input"
	KindUnknown       = "unknown"
)

// Manager owns every Prometheus collector of the module.
type Manager struct {
	namespace      string
	subsystem      string
	percentBuckets []float64
	latencyBuckets []float64
	enabled        bool
	constLabels    map[string]string
	registry       *prometheus.Registry

	// Evaluator
	evaluations       prometheus.Counter
	evaluationErrors  *prometheus.CounterVec
	missingAgeFactors prometheus.Counter
	agePercent        prometheus.Histogram
	evaluationLatency prometheus.Histogram

	// Table builder
	tableEvents      *prometheus.GaugeVec
	tableRowsSkipped *prometheus.CounterVec

	// Results import and ranking
	resultsInvalid   prometheus.Counter
	resultsDuplicate prometheus.Counter
	racesRanked      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a fresh private registry, never on the default one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "agegrade",
		subsystem:      "",
		percentBuckets: []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.1},
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		enabled:        true,
		constLabels:    map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.evaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Total number of successful age-grade evaluations",
		ConstLabels: labels,
	})

	m.evaluationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_errors_total",
		Help:        "Total number of failed evaluations by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.missingAgeFactors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "missing_age_factor_total",
		Help:        "Evaluations that fell back to a neutral age factor",
		ConstLabels: labels,
	})

	m.agePercent = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "age_graded_percent",
		Help:        "Distribution of computed age-graded percents (1.0 = standard)",
		Buckets:     m.percentBuckets,
		ConstLabels: labels,
	})

	m.evaluationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_latency_microseconds",
		Help:        "Time spent in a single evaluation in microseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.tableEvents = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_events",
		Help:        "Running events kept in the built standards table",
		ConstLabels: labels,
	}, []string{"gender"})

	m.tableRowsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_rows_skipped_total",
		Help:        "Source rows dropped while building the standards table",
		ConstLabels: labels,
	}, []string{"gender", "reason"})

	m.resultsInvalid = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_invalid_total",
		Help:        "Result rows rejected during import",
		ConstLabels: labels,
	})

	m.resultsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_duplicate_total",
		Help:        "Duplicate race/runner rows dropped during import",
		ConstLabels: labels,
	})

	m.racesRanked = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "races_ranked_total",
		Help:        "Races for which placings were computed",
		ConstLabels: labels,
	})
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordEvaluation counts a successful evaluation and observes its result.
func (m *Manager) RecordEvaluation(percent, latencyMicros float64) {
	if !m.enabled {
		return
	}
	m.evaluations.Inc()
	m.agePercent.Observe(percent)
	m.evaluationLatency.Observe(latencyMicros)
}

// RecordEvaluationError counts a failed evaluation.
func (m *Manager) RecordEvaluationError(kind string) {
	if !m.enabled {
		return
	}
	m.evaluationErrors.WithLabelValues(kind).Inc()
}

// RecordMissingAgeFactor counts a neutral-factor fallback.
func (m *Manager) RecordMissingAgeFactor() {
	if !m.enabled {
		return
	}
	m.missingAgeFactors.Inc()
}

// SetTableEvents sets the number of events kept for a gender.
func (m *Manager) SetTableEvents(gender string, n int) {
	if !m.enabled {
		return
	}
	m.tableEvents.WithLabelValues(gender).Set(float64(n))
}

// RecordTableRowSkipped counts a dropped source row.
func (m *Manager) RecordTableRowSkipped(gender, reason string) {
	if !m.enabled {
		return
	}
	m.tableRowsSkipped.WithLabelValues(gender, reason).Inc()
}

// RecordResultInvalid counts a rejected result row.
func (m *Manager) RecordResultInvalid() {
	if !m.enabled {
		return
	}
	m.resultsInvalid.Inc()
}

// RecordResultDuplicate counts a duplicate result row.
func (m *Manager) RecordResultDuplicate() {
	if !m.enabled {
		return
	}
	m.resultsDuplicate.Inc()
}

// RecordRaceRanked counts a ranked race.
func (m *Manager) RecordRaceRanked() {
	if !m.enabled {
		return
	}
	m.racesRanked.Inc()
}

// WriteTextfile dumps the registry in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// Package-level recorders backed by the global manager.

// RecordEvaluation records a successful evaluation on the global manager.
func RecordEvaluation(percent, latencyMicros float64) {
	globalManager.RecordEvaluation(percent, latencyMicros)
}

// RecordEvaluationError records a failed evaluation on the global manager.
func RecordEvaluationError(kind string) { globalManager.RecordEvaluationError(kind) }

// RecordMissingAgeFactor records a neutral-factor fallback on the global manager.
func RecordMissingAgeFactor() { globalManager.RecordMissingAgeFactor() }

// SetTableEvents sets the per-gender event gauge on the global manager.
func SetTableEvents(gender string, n int) { globalManager.SetTableEvents(gender, n) }

// RecordTableRowSkipped records a dropped source row on the global manager.
func RecordTableRowSkipped(gender, reason string) {
	globalManager.RecordTableRowSkipped(gender, reason)
}

// RecordResultInvalid records a rejected result row on the global manager.
func RecordResultInvalid() { globalManager.RecordResultInvalid() }

// RecordResultDuplicate records a duplicate result row on the global manager.
func RecordResultDuplicate() { globalManager.RecordResultDuplicate() }

// RecordRaceRanked records a ranked race on the global manager.
func RecordRaceRanked() { globalManager.RecordRaceRanked() }

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// Default returns the global manager.
func Default() *Manager { return globalManager }

// GetRegistry returns the registry of the global manager.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}
