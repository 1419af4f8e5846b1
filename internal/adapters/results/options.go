package results

import (
	"github.com/google/uuid"

	"github.com/okian/agegrade/internal/domain/dedupe"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

type options struct {
	logger  logger.Logger
	metrics *metrics.Manager
	newID   func() string
	deduper dedupe.Deduper
	runners map[string]string
}

func defaultOptions() options {
	return options{
		logger:  logger.Nop(),
		metrics: metrics.Default(),
		newID:   func() string { return uuid.New().String() },
	}
}

// Option configures the importer.
type Option func(*options)

// WithLogger sets the logger for invalid and duplicate row warnings.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records import metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithIDGenerator replaces the uuid generator used for runners that have
// no id and no name match.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithDeduper shares a deduper across imports so a result already imported
// from an earlier file is reported as a duplicate.
func WithDeduper(d dedupe.Deduper) Option {
	return func(o *options) {
		if d != nil {
			o.deduper = d
		}
	}
}

// WithKnownRunners seeds the name to id index with existing runners.
// Names are matched case-insensitively.
func WithKnownRunners(byName map[string]string) Option {
	return func(o *options) {
		o.runners = make(map[string]string, len(byName))
		for name, id := range byName {
			o.runners[nameKey(name)] = id
		}
	}
}
