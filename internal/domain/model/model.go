// Package model contains domain values passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGender reports a gender code other than M or F.
var ErrInvalidGender = errors.New("invalid gender")

// Gender selects the men's or women's standards.
type Gender string

// Recognized gender codes.
const (
	Men   Gender = "M"
	Women Gender = "F"
)

// ParseGender accepts M or F in any case, surrounding spaces ignored.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Men):
		return Men, nil
	case string(Women):
		return Women, nil
	}
	return "", fmt.Errorf("%w: %q (want M or F)", ErrInvalidGender, s)
}

// Key is the persisted table key for the gender: "men" or "women".
func (g Gender) Key() string {
	if g == Women {
		return "women"
	}
	return "men"
}

// Query is a single age-grade request.
type Query struct {
	Gender         string  // M or F, case-insensitive
	Age            float64 // years; truncated after clamping
	DistanceKM     float64 // race distance in kilometers
	ElapsedSeconds float64 // finishing time in seconds
}

// Grade is the outcome of an evaluation.
type Grade struct {
	Percent         float64 // 1.0 means the age-adjusted standard exactly
	StandardSeconds float64 // open-class standard at the query distance
	Factor          float64 // age factor at the query distance
	AgeKey          int     // clamped integer age used for the factor lookup
	Warnings        []error // recoverable problems, e.g. a missing age row
}

// Degraded reports whether the grade was computed with a fallback.
func (g Grade) Degraded() bool { return len(g.Warnings) > 0 }

// Job asks for the grade of one result. ID ties the outcome back to the
// caller's record.
type Job struct {
	ID    int
	Query Query
}

// Outcome is the answer to a Job.
type Outcome struct {
	ID    int
	Grade Grade
	Err   error
}
