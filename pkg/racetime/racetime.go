// Package racetime parses and formats finishing times, percentages and
// race-day ages.
package racetime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	dateLayout       = "2006-01-02"
)

// Sentinel errors.
var (
	ErrInvalidTime = errors.New("invalid time")
	ErrInvalidDate = errors.New("invalid date")
)

// ParseElapsed converts HH:MM:SS, MM:SS or raw seconds to seconds. Only
// the last field may carry a fraction; minutes and seconds fields of a
// clock value must be below 60.
func ParseElapsed(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: %q: want HH:MM:SS, MM:SS or seconds", ErrInvalidTime, s)
		}
		return v, nil
	case 2, 3:
	default:
		return 0, fmt.Errorf("%w: %q: want HH:MM:SS, MM:SS or seconds", ErrInvalidTime, s)
	}

	last := parts[len(parts)-1]
	if signed(last) {
		return 0, fmt.Errorf("%w: %q: bad seconds field", ErrInvalidTime, s)
	}
	secs, err := strconv.ParseFloat(last, 64)
	if err != nil || math.IsNaN(secs) || secs < 0 || secs >= secondsPerMinute {
		return 0, fmt.Errorf("%w: %q: bad seconds field", ErrInvalidTime, s)
	}
	whole := make([]int, len(parts)-1)
	for i, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || signed(p) {
			return 0, fmt.Errorf("%w: %q: bad field %q", ErrInvalidTime, s, p)
		}
		whole[i] = n
	}

	if len(whole) == 1 {
		return float64(whole[0]*secondsPerMinute) + secs, nil
	}
	if whole[1] >= secondsPerMinute {
		return 0, fmt.Errorf("%w: %q: minutes must be below 60", ErrInvalidTime, s)
	}
	return float64(whole[0]*secondsPerHour+whole[1]*secondsPerMinute) + secs, nil
}

// signed reports whether a clock field carries an explicit sign.
func signed(field string) bool {
	return strings.HasPrefix(field, "+") || strings.HasPrefix(field, "-")
}

// FormatClock renders whole seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatClock(seconds float64) string {
	total := int(math.Max(0, math.Floor(seconds)))
	h := total / secondsPerHour
	m := (total % secondsPerHour) / secondsPerMinute
	sec := total % secondsPerMinute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// FormatPercent renders a fraction as a percentage, e.g. 0.7512 -> "75.12%".
func FormatPercent(v float64, decimals int) string {
	return strconv.FormatFloat(v*100, 'f', max(decimals, 0), 64) + "%"
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: want YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// AgeOn returns the age in whole years on raceDay.
func AgeOn(dob, raceDay time.Time) int {
	age := raceDay.Year() - dob.Year()
	if raceDay.Month() < dob.Month() || (raceDay.Month() == dob.Month() && raceDay.Day() < dob.Day()) {
		age--
	}
	return age
}
