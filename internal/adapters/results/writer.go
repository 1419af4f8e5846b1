package results

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/okian/agegrade/internal/domain/ranking"
	"github.com/okian/agegrade/pkg/racetime"
)

// percentDecimals is the display precision of age-graded percents.
const percentDecimals = 2

type placingRow struct {
	RaceID            string `csv:"race_id"`
	Position          int    `csv:"position"`
	RunnerID          string `csv:"runner_id"`
	RunnerName        string `csv:"runner_name"`
	Gender            string `csv:"gender"`
	FinishTime        string `csv:"finish_time"`
	Points            int    `csv:"points"`
	AgeGraded         string `csv:"age_graded"`
	AgeGradedPosition string `csv:"age_graded_position"`
	AgeGradedPoints   int    `csv:"age_graded_points"`
}

type standingRow struct {
	Position    int    `csv:"position"`
	RunnerID    string `csv:"runner_id"`
	RunnerName  string `csv:"runner_name"`
	Gender      string `csv:"gender"`
	TotalPoints int    `csv:"total_points"`
	Races       int    `csv:"races"`
}

// WritePlacings writes race placings as CSV. Runners without an age-graded
// percent get empty age-graded cells.
func WritePlacings(w io.Writer, placings []ranking.Placing) error {
	rows := make([]placingRow, len(placings))
	for i, p := range placings {
		rows[i] = placingRow{
			RaceID:          p.RaceID,
			Position:        p.Position,
			RunnerID:        p.RunnerID,
			RunnerName:      p.RunnerName,
			Gender:          string(p.Gender),
			FinishTime:      racetime.FormatClock(p.FinishSeconds),
			Points:          p.Points,
			AgeGradedPoints: p.AgeGradedPoints,
		}
		if p.AgeGraded != nil {
			rows[i].AgeGraded = racetime.FormatPercent(*p.AgeGraded, percentDecimals)
		}
		if p.HasAgeGraded() {
			rows[i].AgeGradedPosition = strconv.Itoa(p.AgeGradedPosition)
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("%w: placings: %v", ErrWriteResults, err)
	}
	return nil
}

// WriteStandings writes championship standings as CSV.
func WriteStandings(w io.Writer, standings []ranking.Standing) error {
	rows := make([]standingRow, len(standings))
	for i, s := range standings {
		rows[i] = standingRow{
			Position:    s.Position,
			RunnerID:    s.RunnerID,
			RunnerName:  s.RunnerName,
			Gender:      string(s.Gender),
			TotalPoints: s.TotalPoints,
			Races:       s.Races,
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("%w: standings: %v", ErrWriteResults, err)
	}
	return nil
}
