package agegrade

import (
	"fmt"
	"math"

	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
)

// Score grades a finishing time. The percent is the runner's speed over the
// age-adjusted standard speed; 1.0 matches the standard exactly.
func Score(table *standards.Gendered, gender string, age, distanceKM, elapsedSeconds float64) (model.Grade, error) {
	if !positive(distanceKM) {
		return model.Grade{}, fmt.Errorf("%w: distance must be positive, got %g km", ErrInvalidInput, distanceKM)
	}
	if !positive(elapsedSeconds) {
		return model.Grade{}, fmt.Errorf("%w: elapsed time must be positive, got %g s", ErrInvalidInput, elapsedSeconds)
	}

	res, err := Resolve(table, gender, age, distanceKM)
	if err != nil {
		return model.Grade{}, err
	}
	if !positive(res.StandardSeconds) {
		return model.Grade{}, fmt.Errorf("%w: standard at %g km is %g s", ErrInvalidInput, distanceKM, res.StandardSeconds)
	}
	if !positive(res.Factor) {
		return model.Grade{}, fmt.Errorf("%w: factor at %g km for age %d is %g", ErrInvalidInput, distanceKM, res.AgeKey, res.Factor)
	}

	return model.Grade{
		Percent:         Percent(distanceKM, elapsedSeconds, res.StandardSeconds, res.Factor),
		StandardSeconds: res.StandardSeconds,
		Factor:          res.Factor,
		AgeKey:          res.AgeKey,
		Warnings:        res.Warnings,
	}, nil
}

// Percent is the reference form: runner speed divided by the age-graded
// standard speed.
func Percent(distanceKM, elapsedSeconds, standardSeconds, factor float64) float64 {
	runnerSpeed := distanceKM / elapsedSeconds
	ageGradedSpeed := (distanceKM / standardSeconds) * factor
	return runnerSpeed / ageGradedSpeed
}

// PercentSimplified is Percent with the distance cancelled out.
func PercentSimplified(elapsedSeconds, standardSeconds, factor float64) float64 {
	return standardSeconds / (elapsedSeconds * factor)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
