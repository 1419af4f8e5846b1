// Package service grades imported race results and builds race placings
// and championship standings from them.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/okian/agegrade/internal/adapters/mq/queue"
	"github.com/okian/agegrade/internal/adapters/mq/worker"
	"github.com/okian/agegrade/internal/adapters/results"
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/ranking"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
	"github.com/okian/agegrade/pkg/racetime"
)

// Service turns result entries into a championship report.
type Service struct {
	evaluator   *agegrade.Evaluator
	maxPoints   int
	bestOf      int
	workerCount int

	logger  logger.Logger
	metrics *metrics.Manager
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxPoints:   DefaultMaxPoints,
		bestOf:      DefaultBestOf,
		workerCount: runtime.NumCPU(),
		logger:      logger.Nop(),
		metrics:     metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RaceReport is the outcome of one race.
type RaceReport struct {
	RaceID     string
	RaceName   string
	RaceDate   time.Time
	DistanceKM float64
	Placings   []ranking.Placing
	Summary    ranking.RaceSummary
}

// Ungraded is an entry ranked on finish time only.
type Ungraded struct {
	Line       int
	RaceID     string
	RunnerName string
	Err        error
}

// Report is the outcome of Process.
type Report struct {
	// Races are ordered by date, then id.
	Races              []RaceReport
	Standings          []ranking.Standing
	AgeGradedStandings []ranking.Standing
	Ungraded           []Ungraded
}

// Process grades every entry that has a date of birth, using the age on
// race day, then ranks each race and both championships. An entry that
// cannot be graded still takes part in the finish-time ranking and is
// listed in Report.Ungraded.
func (s *Service) Process(ctx context.Context, entries []results.Entry) (Report, error) {
	if s.evaluator == nil {
		return Report{}, ErrNoEvaluator
	}

	outcomes, err := s.grade(ctx, entries)
	if err != nil {
		return Report{}, err
	}

	var report Report
	percents := make([]*float64, len(entries))
	for i, e := range entries {
		switch o := outcomes[i]; {
		case !e.HasDateOfBirth():
			report.Ungraded = append(report.Ungraded, ungraded(e, ErrNoDateOfBirth))
		case o.Err != nil:
			report.Ungraded = append(report.Ungraded, ungraded(e, o.Err))
			s.logger.Warn(ctx, "result not graded",
				logger.Int("line", e.Line), logger.String("runner", e.RunnerName), logger.Error(o.Err))
		default:
			pct := o.Grade.Percent
			percents[i] = &pct
		}
	}

	var all []ranking.Placing
	for _, race := range groupRaces(entries) {
		rs := make([]ranking.Result, len(race.indexes))
		for j, i := range race.indexes {
			e := entries[i]
			rs[j] = ranking.Result{
				ID:            strconv.Itoa(e.Line),
				RaceID:        e.RaceID,
				RunnerID:      e.RunnerID,
				RunnerName:    e.RunnerName,
				Gender:        e.Gender,
				FinishSeconds: e.FinishSeconds,
				AgeGraded:     percents[i],
			}
		}

		placings := ranking.RankRace(rs, s.maxPoints)
		s.metrics.RecordRaceRanked()
		all = append(all, placings...)

		first := entries[race.indexes[0]]
		report.Races = append(report.Races, RaceReport{
			RaceID:     first.RaceID,
			RaceName:   first.RaceName,
			RaceDate:   first.RaceDate,
			DistanceKM: first.DistanceKM,
			Placings:   placings,
			Summary:    ranking.Summarize(first.RaceID, placings),
		})
	}

	report.Standings = ranking.Championship(all)
	report.AgeGradedStandings = ranking.AgeGradedChampionship(all, s.bestOf)

	s.logger.Info(ctx, "processed results",
		logger.Int("entries", len(entries)),
		logger.Int("races", len(report.Races)),
		logger.Int("ungraded", len(report.Ungraded)),
	)
	return report, nil
}

// grade runs the evaluator over the entries with a date of birth on the
// worker pool. Outcomes are indexed like entries.
func (s *Service) grade(ctx context.Context, entries []results.Entry) ([]model.Outcome, error) {
	outcomes := make([]model.Outcome, len(entries))

	q := queue.NewInMemoryQueue(queue.WithCapacity(max(len(entries), 1)))
	for i, e := range entries {
		if !e.HasDateOfBirth() {
			continue
		}
		job := model.Job{ID: i, Query: model.Query{
			Gender:         string(e.Gender),
			Age:            float64(racetime.AgeOn(e.DateOfBirth, e.RaceDate)),
			DistanceKM:     e.DistanceKM,
			ElapsedSeconds: e.FinishSeconds,
		}}
		if !q.Enqueue(ctx, job) {
			_ = q.Close()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: line %d", ErrEnqueue, e.Line)
		}
	}
	_ = q.Close()

	// Each job writes only its own slot.
	collect := worker.CollectorFunc(func(_ context.Context, o model.Outcome) { outcomes[o.ID] = o })
	pool := worker.NewPool(s.workerCount, q, s.evaluator, collect, worker.WithLogger(s.logger))
	pool.Start(ctx)
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

type raceGroup struct {
	date    time.Time
	id      string
	indexes []int
}

func groupRaces(entries []results.Entry) []*raceGroup {
	byID := make(map[string]*raceGroup)
	var races []*raceGroup
	for i, e := range entries {
		g, ok := byID[e.RaceID]
		if !ok {
			g = &raceGroup{date: e.RaceDate, id: e.RaceID}
			byID[e.RaceID] = g
			races = append(races, g)
		}
		g.indexes = append(g.indexes, i)
	}
	sort.SliceStable(races, func(i, j int) bool {
		if !races[i].date.Equal(races[j].date) {
			return races[i].date.Before(races[j].date)
		}
		return races[i].id < races[j].id
	})
	return races
}

func ungraded(e results.Entry, err error) Ungraded {
	return Ungraded{Line: e.Line, RaceID: e.RaceID, RunnerName: e.RunnerName, Err: err}
}
