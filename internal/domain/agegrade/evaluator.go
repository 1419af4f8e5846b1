package agegrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// Query is the request type of the Evaluator.
type Query = model.Query

// Evaluator grades queries against one validated standards table. It holds
// no mutable state and is safe for concurrent use.
type Evaluator struct {
	table     standards.Gendered
	logger    logger.Logger
	metrics   *metrics.Manager
	onWarning WarningHandler
}

// NewEvaluator validates table and returns an evaluator over it. The table
// must not be modified afterwards.
func NewEvaluator(table standards.Gendered, opts ...Option) (*Evaluator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	e := &Evaluator{
		table:   table,
		logger:  logger.Nop(),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Table returns the table the evaluator reads from.
func (e *Evaluator) Table() *standards.Gendered { return &e.table }

// Evaluate grades q. Warnings are logged, counted and passed to the warning
// handler; they never fail the call.
func (e *Evaluator) Evaluate(ctx context.Context, q Query) (model.Grade, error) {
	start := time.Now()

	grade, err := Score(&e.table, q.Gender, q.Age, q.DistanceKM, q.ElapsedSeconds)
	if err != nil {
		e.metrics.RecordEvaluationError(errorKind(err))
		return model.Grade{}, fmt.Errorf("evaluate %s age %g %g km: %w", q.Gender, q.Age, q.DistanceKM, err)
	}

	for _, w := range grade.Warnings {
		if errors.Is(w, ErrMissingAgeFactor) {
			e.metrics.RecordMissingAgeFactor()
		}
		e.logger.Warn(ctx, "degraded age grade",
			logger.String("gender", q.Gender),
			logger.Int("age", grade.AgeKey),
			logger.Float64("distance_km", q.DistanceKM),
			logger.Error(w),
		)
		if e.onWarning != nil {
			e.onWarning(ctx, q, w)
		}
	}

	e.metrics.RecordEvaluation(grade.Percent, float64(time.Since(start).Microseconds()))
	e.logger.Debug(ctx, "graded",
		logger.Float64("percent", grade.Percent),
		logger.Float64("standard_seconds", grade.StandardSeconds),
		logger.Float64("factor", grade.Factor),
	)
	return grade, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTable):
		return metrics.KindInvalidTable
	case errors.Is(err, ErrInvalidGender):
		return metrics.KindInvalidGender
	case errors.Is(err, ErrInvalidInput):
		return metrics.KindInvalidInput
	}
	return metrics.KindUnknown
}
