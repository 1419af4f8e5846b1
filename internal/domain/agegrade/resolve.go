// Package agegrade computes age-graded performance percentages from a
// gendered standards table.
package agegrade

import (
	"fmt"
	"math"

	"github.com/okian/agegrade/internal/domain/interp"
	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
)

// neutralFactor replaces a missing age row.
const neutralFactor = 1.0

// Resolution is the standard and factor found for one query distance.
type Resolution struct {
	StandardSeconds float64
	Factor          float64
	AgeKey          int
	Warnings        []error
}

// Resolve looks up the open-class standard and the age factor of gender at
// distanceKM. Distances outside the table extrapolate along the edge
// segments. An age without a factor row degrades to a factor of 1.0 and adds
// an ErrMissingAgeFactor warning.
func Resolve(table *standards.Gendered, gender string, age, distanceKM float64) (Resolution, error) {
	g, err := model.ParseGender(gender)
	if err != nil {
		return Resolution{}, err
	}
	if math.IsNaN(age) {
		return Resolution{}, fmt.Errorf("%w: age is NaN", ErrInvalidInput)
	}
	if math.IsNaN(distanceKM) {
		return Resolution{}, fmt.Errorf("%w: distance is NaN", ErrInvalidInput)
	}

	t := table.For(g)
	std, err := interp.ByTable(distanceKM, t.Distances, t.Standards)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %s standards: %w", ErrInvalidTable, g.Key(), err)
	}

	res := Resolution{StandardSeconds: std, AgeKey: standards.AgeKey(age)}

	factors, ok := t.Factors(res.AgeKey)
	if !ok {
		res.Factor = neutralFactor
		res.Warnings = append(res.Warnings,
			fmt.Errorf("%w: no %s factors for age %d, using %.1f", ErrMissingAgeFactor, g.Key(), res.AgeKey, neutralFactor))
		return res, nil
	}

	res.Factor, err = interp.ByTable(distanceKM, t.Distances, factors)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %s factors for age %d: %w", ErrInvalidTable, g.Key(), res.AgeKey, err)
	}
	return res, nil
}
