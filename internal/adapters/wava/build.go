package wava

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/okian/agegrade/internal/domain/dedupe"
	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/pkg/logger"
)

// BuildTable sorts events by distance and lays them out as an aligned
// standards table with a factor row for every age MinAge..MaxAge. Events
// short of factor columns get 1.0 for the missing ages. When several events
// share a distance the first one in file order wins; the names of the
// dropped ones are returned.
func BuildTable(ctx context.Context, events []Event) (standards.Table, []string) {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DistanceKM < sorted[j].DistanceKM })

	seen := dedupe.NewInMemoryDeduper()
	kept := sorted[:0]
	var dropped []string
	for _, ev := range sorted {
		if seen.SeenAndRecord(ctx, strconv.FormatFloat(ev.DistanceKM, 'g', -1, 64)) {
			dropped = append(dropped, ev.Name)
			continue
		}
		kept = append(kept, ev)
	}

	t := standards.Table{
		Distances:  make([]float64, len(kept)),
		Standards:  make([]float64, len(kept)),
		AgeFactors: make(map[int][]float64, standards.MaxAge-standards.MinAge+1),
	}
	for i, ev := range kept {
		t.Distances[i] = ev.DistanceKM
		t.Standards[i] = ev.StandardSeconds
	}
	for age := standards.MinAge; age <= standards.MaxAge; age++ {
		idx := age - standards.MinAge
		row := make([]float64, len(kept))
		for i, ev := range kept {
			row[i] = neutralFactor
			if idx < len(ev.Factors) {
				row[i] = ev.Factors[idx]
			}
		}
		t.AgeFactors[age] = row
	}
	return t, dropped
}

// Build parses both source files, builds and validates the gendered table.
func Build(ctx context.Context, menCSV, womenCSV string, opts ...Option) (standards.Gendered, []Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		out     standards.Gendered
		reports []Report
	)
	for _, src := range []struct {
		gender model.Gender
		path   string
	}{{model.Men, menCSV}, {model.Women, womenCSV}} {
		table, report, err := buildOne(ctx, src.gender, src.path, o, opts)
		if err != nil {
			return standards.Gendered{}, reports, err
		}
		*out.For(src.gender) = table
		reports = append(reports, report)
	}

	if err := out.Validate(); err != nil {
		return standards.Gendered{}, reports, err
	}
	return out, reports, nil
}

func buildOne(ctx context.Context, g model.Gender, path string, o options, opts []Option) (standards.Table, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return standards.Table{}, newReport(g), fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	defer func() { _ = f.Close() }()

	events, report, err := ParseEvents(ctx, f, g, opts...)
	if err != nil {
		return standards.Table{}, report, err
	}

	table, dropped := BuildTable(ctx, events)
	for _, name := range dropped {
		report.Skipped[SkipDuplicateDistance]++
		o.metrics.RecordTableRowSkipped(g.Key(), SkipDuplicateDistance)
		o.logger.Warn(ctx, "dropping event with duplicate distance",
			logger.String("gender", g.Key()), logger.String("event", name))
	}
	report.Kept = len(table.Distances)
	o.metrics.SetTableEvents(g.Key(), report.Kept)

	o.logger.Info(ctx, "built standards table",
		logger.String("gender", g.Key()),
		logger.String("source", path),
		logger.Int("rows", report.Rows),
		logger.Int("events", report.Kept),
	)
	return table, report, nil
}
