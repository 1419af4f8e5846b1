// Package wava builds the gendered standards table from per-gender WAVA
// source CSVs and persists it as JSON.
package wava

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/pkg/logger"
)

// neutralFactor replaces factor cells that are not a positive finite number.
const neutralFactor = 1.0

// Skip reasons, also used as metric label values.
const (
	SkipNoDistance        = "no_distance"
	SkipBadDistance       = "bad_distance"
	SkipExcluded          = "excluded"
	SkipBadStandard       = "bad_standard"
	SkipDuplicateDistance = "duplicate_distance"
)

// Event is one running event of a source table.
type Event struct {
	Name            string
	DistanceKM      float64
	StandardSeconds float64
	// Factors holds the factors of ages MinAge..MaxAge, index age-MinAge.
	Factors []float64
}

// Report counts what the parser kept and dropped for one gender.
type Report struct {
	Gender  model.Gender
	Rows    int
	Kept    int
	Skipped map[string]int
}

func newReport(g model.Gender) Report {
	return Report{Gender: g, Skipped: map[string]int{}}
}

// ParseEvents reads one gender's source CSV and returns its running events
// in file order. Rows without a distance, rows whose event name contains an
// excluded keyword and rows with an unparseable standard are dropped and
// counted in the report.
func ParseEvents(ctx context.Context, r io.Reader, gender model.Gender, opts ...Option) ([]Event, Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	report := newReport(gender)

	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %s: %v", ErrReadSource, gender.Key(), err)
	}
	if len(rows) == 0 {
		return nil, report, nil
	}

	cols := headerIndex(rows[0])
	for _, want := range []string{o.eventCol, o.distanceCol, o.standardCol} {
		if _, ok := cols[normalize(want)]; !ok {
			return nil, report, fmt.Errorf("%w: %s: %q", ErrMissingColumn, gender.Key(), want)
		}
	}
	ageCols := make([]string, standards.MaxAge-standards.MinAge+1)
	for age := standards.MinAge; age <= standards.MaxAge; age++ {
		ageCols[age-standards.MinAge] = cols[strconv.Itoa(age)]
	}

	events := make([]Event, 0, len(rows))
	for i, row := range rows {
		report.Rows++
		name := strings.TrimSpace(row[cols[normalize(o.eventCol)]])

		ev, reason := parseRow(row, name, cols, o, ageCols)
		if reason != "" {
			report.Skipped[reason]++
			o.metrics.RecordTableRowSkipped(gender.Key(), reason)
			if reason != SkipExcluded && reason != SkipNoDistance {
				o.logger.Warn(ctx, "skipping source row",
					logger.String("gender", gender.Key()),
					logger.Int("row", i+2),
					logger.String("event", name),
					logger.String("reason", reason),
				)
			}
			continue
		}
		events = append(events, ev)
	}
	report.Kept = len(events)
	return events, report, nil
}

func parseRow(row map[string]string, name string, cols map[string]string, o options, ageCols []string) (Event, string) {
	dist := strings.TrimSpace(row[cols[normalize(o.distanceCol)]])
	if dist == "" || dist == "0" {
		return Event{}, SkipNoDistance
	}
	if excluded(name, o.exclude) {
		return Event{}, SkipExcluded
	}
	km, err := strconv.ParseFloat(dist, 64)
	if err != nil || !finitePositive(km) {
		return Event{}, SkipBadDistance
	}
	std, err := strconv.ParseFloat(strings.TrimSpace(row[cols[normalize(o.standardCol)]]), 64)
	if err != nil || !finitePositive(std) {
		return Event{}, SkipBadStandard
	}

	factors := make([]float64, len(ageCols))
	for i, col := range ageCols {
		factors[i] = parseFactor(row, col)
	}
	return Event{Name: name, DistanceKM: km, StandardSeconds: std, Factors: factors}, ""
}

func parseFactor(row map[string]string, col string) float64 {
	if col == "" {
		return neutralFactor
	}
	cell := strings.TrimSpace(row[col])
	if cell == "" {
		return neutralFactor
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || !finitePositive(f) {
		return neutralFactor
	}
	return f
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func excluded(name string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// headerIndex maps normalized header names to the raw keys gocsv produced.
func headerIndex(row map[string]string) map[string]string {
	idx := make(map[string]string, len(row))
	for k := range row {
		idx[normalize(k)] = k
	}
	return idx
}

func normalize(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}
