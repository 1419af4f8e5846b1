// Command agegrade prints the age-graded percentage of one performance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/agegrade/internal/adapters/wava"
	"github.com/okian/agegrade/internal/cli"
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/pkg/racetime"
)

const percentDecimals = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("agegrade", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		gender = fs.String("gender", "", "Gender code, M or F")
		age    = fs.Float64("age", 0, "Age in years on race day")
		dist   = fs.Float64("dist", 0, "Race distance in kilometers")
		clock  = fs.String("time", "", "Finishing time as HH:MM:SS, MM:SS or seconds")
		table  = fs.String("table", "", "Standards table JSON (default: table_path from config)")
	)
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range []string{"gender", "age", "dist", "time"} {
		if !set[name] {
			_, _ = fmt.Fprintf(stderr, "missing required flag -%s\n", name)
			fs.Usage()
			return cli.ExitUsage
		}
	}
	if *gender == "" || *clock == "" {
		fs.Usage()
		return cli.ExitUsage
	}
	elapsed, err := racetime.ParseElapsed(*clock)
	if err != nil {
		return cli.Fail(stderr, cli.ExitUsage, err)
	}

	env, err := cli.Setup(ctx, "agegrade", stderr)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	defer env.Close(ctx)

	path := env.Config.TablePath
	if *table != "" {
		path = *table
	}
	standards, err := wava.LoadFile(path)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	ev, err := agegrade.NewEvaluator(standards,
		agegrade.WithLogger(env.Logger),
		agegrade.WithMetrics(env.Metrics))
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}

	q := agegrade.Query{Gender: *gender, Age: *age, DistanceKM: *dist, ElapsedSeconds: elapsed}
	grade, err := ev.Evaluate(ctx, q)
	if err != nil {
		code := cli.ExitFailure
		if errors.Is(err, agegrade.ErrInvalidInput) || errors.Is(err, agegrade.ErrInvalidGender) {
			code = cli.ExitUsage
		}
		return cli.Fail(stderr, code, err)
	}

	_, _ = fmt.Fprintf(stdout, "age-graded: %s\n", racetime.FormatPercent(grade.Percent, percentDecimals))
	_, _ = fmt.Fprintf(stdout, "standard:   %s\n", racetime.FormatClock(grade.StandardSeconds))
	_, _ = fmt.Fprintf(stdout, "factor:     %.4f (age %d)\n", grade.Factor, grade.AgeKey)
	for _, w := range grade.Warnings {
		_, _ = fmt.Fprintf(stdout, "note:       %v\n", w)
	}
	return cli.ExitOK
}
