package service

import (
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// Default championship settings.
const (
	DefaultMaxPoints = 25
	DefaultBestOf    = 6
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEvaluator sets the evaluator used to grade results.
func WithEvaluator(e *agegrade.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = e
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records service metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMaxPoints sets the points awarded to the winner of a race.
func WithMaxPoints(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithBestOf sets how many age-graded results count towards the
// age-graded championship.
func WithBestOf(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bestOf = n
		}
	}
}

// WithWorkerCount sets the number of grading goroutines.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}
