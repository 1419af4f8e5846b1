package wava

import (
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// Default source column headers.
const (
	DefaultEventColumn    = "Event"
	DefaultDistanceColumn = "dist(km)"
	DefaultStandardColumn = "OC"
)

// DefaultExcludeKeywords match walking, hurdles, jumps, throws and
// steeplechase events.
var DefaultExcludeKeywords = []string{ //nolint:gochecknoglobals // read-only defaults
	"Walk", "Hur", "Jump", "Vault", "Throw", "Hammer",
	"Shot", "Discus", "Javelin", "Weight", "Steeple",
}

type options struct {
	eventCol    string
	distanceCol string
	standardCol string
	exclude     []string
	logger      logger.Logger
	metrics     *metrics.Manager
}

func defaultOptions() options {
	return options{
		eventCol:    DefaultEventColumn,
		distanceCol: DefaultDistanceColumn,
		standardCol: DefaultStandardColumn,
		exclude:     DefaultExcludeKeywords,
		logger:      logger.Nop(),
		metrics:     metrics.Default(),
	}
}

// Option configures the source parser.
type Option func(*options)

// WithColumns overrides the event name, distance and open-class standard
// headers. Empty values keep the defaults.
func WithColumns(event, distance, standard string) Option {
	return func(o *options) {
		if event != "" {
			o.eventCol = event
		}
		if distance != "" {
			o.distanceCol = distance
		}
		if standard != "" {
			o.standardCol = standard
		}
	}
}

// WithExcludeKeywords replaces the event-name exclusion list. A nil list
// keeps the defaults; an empty one keeps every event.
func WithExcludeKeywords(keywords []string) Option {
	return func(o *options) {
		if keywords != nil {
			o.exclude = keywords
		}
	}
}

// WithLogger sets the logger for skipped-row warnings.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records builder metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
