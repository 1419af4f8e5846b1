// Package standards holds the open-class standard times and per-age factors
// the evaluator interpolates over.
package standards

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/agegrade/internal/domain/model"
)

// Age range covered by the factor tables.
const (
	MinAge = 5
	MaxAge = 100
)

// ErrInvalidTable reports a table that breaks the alignment or ordering
// invariants. It is fatal for evaluation.
var ErrInvalidTable = errors.New("invalid standards table")

// Table is the standards curve for one gender. Distances are kilometers in
// strictly ascending order; Standards and every AgeFactors entry are aligned
// with them index for index.
type Table struct {
	Distances  []float64         `json:"distances"`
	Standards  []float64         `json:"standards"`
	AgeFactors map[int][]float64 `json:"ageFactors"`
}

// Gendered pairs the men's and women's tables. It is read-only once
// validated and may be shared between goroutines.
type Gendered struct {
	Men   Table `json:"men"`
	Women Table `json:"women"`
}

// For returns the table of gender g.
func (g *Gendered) For(gender model.Gender) *Table {
	if gender == model.Women {
		return &g.Women
	}
	return &g.Men
}

// Validate checks both tables.
func (g *Gendered) Validate() error {
	if err := g.Men.Validate(); err != nil {
		return fmt.Errorf("men: %w", err)
	}
	if err := g.Women.Validate(); err != nil {
		return fmt.Errorf("women: %w", err)
	}
	return nil
}

// Validate checks the table invariants.
func (t *Table) Validate() error {
	n := len(t.Distances)
	if n == 0 {
		return fmt.Errorf("%w: no reference distances", ErrInvalidTable)
	}
	if floats.HasNaN(t.Distances) || floats.HasNaN(t.Standards) {
		return fmt.Errorf("%w: NaN distance or standard", ErrInvalidTable)
	}
	if len(t.Standards) != n {
		return fmt.Errorf("%w: %d standards for %d distances", ErrInvalidTable, len(t.Standards), n)
	}
	if t.Distances[0] <= 0 || math.IsInf(t.Distances[n-1], 0) {
		return fmt.Errorf("%w: distances must be positive and finite", ErrInvalidTable)
	}
	for i := 1; i < n; i++ {
		if t.Distances[i] <= t.Distances[i-1] {
			return fmt.Errorf("%w: distances not strictly ascending at index %d (%g after %g)",
				ErrInvalidTable, i, t.Distances[i], t.Distances[i-1])
		}
	}
	for i, std := range t.Standards {
		if !finitePositive(std) {
			return fmt.Errorf("%w: standard %g at index %d must be positive and finite", ErrInvalidTable, std, i)
		}
	}
	for age, factors := range t.AgeFactors {
		if len(factors) != n {
			return fmt.Errorf("%w: age %d has %d factors for %d distances", ErrInvalidTable, age, len(factors), n)
		}
		for i, f := range factors {
			if !finitePositive(f) {
				return fmt.Errorf("%w: age %d factor %g at index %d must be positive and finite", ErrInvalidTable, age, f, i)
			}
		}
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Factors returns the factor row for an integer age.
func (t *Table) Factors(age int) ([]float64, bool) {
	f, ok := t.AgeFactors[age]
	return f, ok
}

// AgeKey clamps age into [MinAge, MaxAge] and truncates it to the integer
// key of the factor rows. Fractional ages are not interpolated.
func AgeKey(age float64) int {
	clamped := math.Max(MinAge, math.Min(MaxAge, age))
	return int(math.Floor(clamped))
}
