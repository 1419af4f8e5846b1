// Package interp implements piecewise-linear lookup over sparse, ascending
// sample tables with clamped edge extrapolation.
package interp

import (
	"errors"
	"fmt"
)

// ErrInvalidTable reports an empty or misaligned sample table.
var ErrInvalidTable = errors.New("invalid interpolation table")

// Bracket returns the indices of the two samples of xs to interpolate
// between for x. xs must be strictly ascending.
//
// Below the first sample it clamps to the first segment, above the last to
// the last segment. Inside the range it returns the first (i, i+1) with
// xs[i] <= x <= xs[i+1], so an interior knot picks its left segment. A
// single sample yields (0, 0).
func Bracket(x float64, xs []float64) (int, int, error) {
	n := len(xs)
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no samples", ErrInvalidTable)
	}
	if x <= xs[0] {
		return 0, min(1, n-1), nil
	}
	if x >= xs[n-1] {
		return max(0, n-2), n - 1, nil
	}
	for i := 0; i < n-1; i++ {
		if xs[i] <= x && x <= xs[i+1] {
			return i, i + 1, nil
		}
	}
	// Only reachable with unsorted samples or a NaN query.
	return 0, min(1, n-1), nil
}

// Linear interpolates (or extrapolates) y at x on the line through
// (x0, y0) and (x1, y1). Coincident x values return y0. Both knots are
// reproduced exactly.
func Linear(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	if x == x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// ByTable evaluates the piecewise-linear curve (xs, ys) at x.
func ByTable(x float64, xs, ys []float64) (float64, error) {
	if len(ys) != len(xs) {
		return 0, fmt.Errorf("%w: %d values for %d samples", ErrInvalidTable, len(ys), len(xs))
	}
	i, j, err := Bracket(x, xs)
	if err != nil {
		return 0, err
	}
	if i == j {
		return ys[i], nil
	}
	return Linear(x, xs[i], xs[j], ys[i], ys[j]), nil
}
