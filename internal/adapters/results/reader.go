// Package results imports race results from CSV and exports placings and
// standings back to CSV.
package results

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/okian/agegrade/internal/domain/dedupe"
	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/racetime"
)

const maxNameLength = 100

// Row is one line of a results file as it appears on disk.
type Row struct {
	RaceID      string `csv:"race_id"`
	RaceName    string `csv:"race_name"`
	RaceDate    string `csv:"race_date"`
	DistanceKM  string `csv:"distance_km"`
	RunnerID    string `csv:"runner_id"`
	RunnerName  string `csv:"runner_name"`
	Gender      string `csv:"gender"`
	DateOfBirth string `csv:"date_of_birth"`
	FinishTime  string `csv:"finish_time"`
}

// Entry is a validated result row.
type Entry struct {
	Line          int
	RaceID        string
	RaceName      string
	RaceDate      time.Time
	DistanceKM    float64
	RunnerID      string
	RunnerName    string
	Gender        model.Gender
	DateOfBirth   time.Time
	FinishSeconds float64
}

// HasDateOfBirth reports whether the runner's age can be computed.
func (e Entry) HasDateOfBirth() bool { return !e.DateOfBirth.IsZero() }

// Invalid is a row rejected during import.
type Invalid struct {
	Line int
	Row  Row
	Err  error
}

// Import is the outcome of reading one results file.
type Import struct {
	Entries    []Entry
	Invalid    []Invalid
	Duplicates []Entry
	// NewRunners lists the ids generated for runners seen for the first time.
	NewRunners []string
}

// Read parses a results CSV. Malformed rows and repeated (race, runner)
// pairs are collected in the import instead of failing it; only an
// unreadable file is an error.
func Read(ctx context.Context, r io.Reader, opts ...Option) (Import, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.deduper == nil {
		o.deduper = dedupe.NewInMemoryDeduper()
	}
	if o.runners == nil {
		o.runners = map[string]string{}
	}

	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Import{}, fmt.Errorf("%w: %v", ErrReadResults, err)
	}

	var out Import
	for i, row := range rows {
		line := i + 2
		entry, err := parseRow(row)
		if err != nil {
			out.Invalid = append(out.Invalid, Invalid{Line: line, Row: row, Err: err})
			o.metrics.RecordResultInvalid()
			o.logger.Warn(ctx, "skipping invalid result row", logger.Int("line", line), logger.Error(err))
			continue
		}
		entry.Line = line

		if entry.RunnerID == "" {
			id, known := o.runners[nameKey(entry.RunnerName)]
			if !known {
				id = o.newID()
				out.NewRunners = append(out.NewRunners, id)
			}
			entry.RunnerID = id
		}
		o.runners[nameKey(entry.RunnerName)] = entry.RunnerID

		if o.deduper.SeenAndRecord(ctx, entry.RaceID+"/"+entry.RunnerID) {
			out.Duplicates = append(out.Duplicates, entry)
			o.metrics.RecordResultDuplicate()
			o.logger.Warn(ctx, "skipping duplicate result",
				logger.Int("line", line),
				logger.String("race", entry.RaceID),
				logger.String("runner", entry.RunnerName),
			)
			continue
		}
		out.Entries = append(out.Entries, entry)
	}

	o.logger.Info(ctx, "imported results",
		logger.Int("rows", len(rows)),
		logger.Int("entries", len(out.Entries)),
		logger.Int("invalid", len(out.Invalid)),
		logger.Int("duplicates", len(out.Duplicates)),
	)
	return out, nil
}

func parseRow(row Row) (Entry, error) {
	e := Entry{
		RaceID:     strings.TrimSpace(row.RaceID),
		RaceName:   strings.TrimSpace(row.RaceName),
		RunnerID:   strings.TrimSpace(row.RunnerID),
		RunnerName: strings.TrimSpace(row.RunnerName),
	}
	if e.RaceID == "" {
		e.RaceID = e.RaceName
	}
	if e.RaceID == "" {
		return Entry{}, fmt.Errorf("%w: race id or name is required", ErrInvalidRow)
	}
	if e.RunnerName == "" {
		return Entry{}, fmt.Errorf("%w: runner name is required", ErrInvalidRow)
	}
	if len(e.RunnerName) > maxNameLength {
		return Entry{}, fmt.Errorf("%w: runner name longer than %d characters", ErrInvalidRow, maxNameLength)
	}

	var err error
	if e.RaceDate, err = racetime.ParseDate(row.RaceDate); err != nil {
		return Entry{}, fmt.Errorf("%w: race_date: %w", ErrInvalidRow, err)
	}
	e.DistanceKM, err = strconv.ParseFloat(strings.TrimSpace(row.DistanceKM), 64)
	if err != nil || !(e.DistanceKM > 0) {
		return Entry{}, fmt.Errorf("%w: distance_km %q must be a positive number", ErrInvalidRow, row.DistanceKM)
	}
	if e.Gender, err = model.ParseGender(row.Gender); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	if e.FinishSeconds, err = racetime.ParseElapsed(row.FinishTime); err != nil {
		return Entry{}, fmt.Errorf("%w: finish_time: %w", ErrInvalidRow, err)
	}
	if !(e.FinishSeconds > 0) || math.IsInf(e.FinishSeconds, 0) {
		return Entry{}, fmt.Errorf("%w: finish_time must be positive", ErrInvalidRow)
	}
	if strings.TrimSpace(row.DateOfBirth) != "" {
		if e.DateOfBirth, err = racetime.ParseDate(row.DateOfBirth); err != nil {
			return Entry{}, fmt.Errorf("%w: date_of_birth: %w", ErrInvalidRow, err)
		}
		if e.DateOfBirth.After(e.RaceDate) {
			return Entry{}, fmt.Errorf("%w: date_of_birth after race_date", ErrInvalidRow)
		}
	}
	return e, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
