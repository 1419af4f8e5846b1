// Command standings grades one or more race results files and writes race
// placings plus the finish-points and age-graded championship tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/okian/agegrade/internal/adapters/results"
	"github.com/okian/agegrade/internal/adapters/wava"
	service "github.com/okian/agegrade/internal/app"
	"github.com/okian/agegrade/internal/cli"
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/dedupe"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/racetime"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("standings", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		table  = fs.String("table", "", "Standards table JSON (default: table_path from config)")
		out    = fs.String("out", "", "Directory for placings and standings CSVs (default: print standings)")
		bestOf = fs.Int("best-of", 0, "Age-graded results counted per runner (default: best_of from config)")
	)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "usage: standings [flags] results.csv [more.csv ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return cli.ExitUsage
	}

	env, err := cli.Setup(ctx, "standings", stderr)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	defer env.Close(ctx)

	cfg := env.Config
	path := cfg.TablePath
	if *table != "" {
		path = *table
	}
	std, err := wava.LoadFile(path)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	ev, err := agegrade.NewEvaluator(std, agegrade.WithLogger(env.Logger), agegrade.WithMetrics(env.Metrics))
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}

	entries, err := importAll(ctx, env, fs.Args())
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}

	best := cfg.BestOf
	if *bestOf > 0 {
		best = *bestOf
	}
	svc := service.New(
		service.WithEvaluator(ev),
		service.WithLogger(env.Logger),
		service.WithMetrics(env.Metrics),
		service.WithMaxPoints(cfg.MaxPoints),
		service.WithBestOf(best),
	)
	report, err := svc.Process(ctx, entries)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}

	if *out == "" {
		printReport(stdout, report)
		return cli.ExitOK
	}
	if err := writeReport(*out, report); err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	_, _ = fmt.Fprintf(stdout, "wrote %d races and standings to %s\n", len(report.Races), *out)
	return cli.ExitOK
}

// importAll reads every file with one deduper and one runner index, so a
// runner's id carries across files and a result repeated in a later file is
// dropped.
func importAll(ctx context.Context, env *cli.Env, paths []string) ([]results.Entry, error) {
	seen := dedupe.NewInMemoryDeduper()
	known := map[string]string{}

	var entries []results.Entry
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", results.ErrReadResults, err)
		}
		imp, err := results.Read(ctx, f,
			results.WithDeduper(seen),
			results.WithKnownRunners(known),
			results.WithLogger(env.Logger),
			results.WithMetrics(env.Metrics))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		for _, inv := range imp.Invalid {
			env.Logger.Warn(ctx, "invalid row", logger.String("file", p), logger.Int("line", inv.Line), logger.Error(inv.Err))
		}
		for _, e := range imp.Entries {
			known[e.RunnerName] = e.RunnerID
		}
		entries = append(entries, imp.Entries...)
	}
	return entries, nil
}

func printReport(w io.Writer, report service.Report) {
	for _, race := range report.Races {
		s := race.Summary
		_, _ = fmt.Fprintf(w, "%s %s (%g km): %d finishers, %d graded", race.RaceDate.Format("2006-01-02"),
			race.RaceName, race.DistanceKM, s.Finishers, s.Graded)
		if s.Graded > 0 {
			_, _ = fmt.Fprintf(w, ", best %s %s, median %s", s.BestRunner,
				racetime.FormatPercent(s.BestPct, 2), racetime.FormatPercent(s.MedianPct, 2))
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w, "\nchampionship")
	_ = results.WriteStandings(w, report.Standings)
	_, _ = fmt.Fprintln(w, "\nage-graded championship")
	_ = results.WriteStandings(w, report.AgeGradedStandings)
}

func writeReport(dir string, report service.Report) error {
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, race := range report.Races {
		name := "race-" + safeName(race.RaceID) + ".csv"
		if err := writeFile(filepath.Join(dir, name), func(w io.Writer) error {
			return results.WritePlacings(w, race.Placings)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(filepath.Join(dir, "standings.csv"), func(w io.Writer) error {
		return results.WriteStandings(w, report.Standings)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "standings-age-graded.csv"), func(w io.Writer) error {
		return results.WriteStandings(w, report.AgeGradedStandings)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// safeName keeps letters, digits, dash and underscore of a race id.
func safeName(id string) string {
	b := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b = append(b, r)
		default:
			b = append(b, '_')
		}
	}
	return string(b)
}
