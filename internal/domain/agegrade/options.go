package agegrade

import (
	"context"

	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// WarningHandler receives recoverable problems found while evaluating.
type WarningHandler func(ctx context.Context, q Query, warning error)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for warnings and debug records.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records evaluations on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Evaluator) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithWarningHandler installs a handler called once per warning, after the
// warning has been logged.
func WithWarningHandler(h WarningHandler) Option {
	return func(e *Evaluator) {
		e.onWarning = h
	}
}
