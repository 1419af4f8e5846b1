package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/agegrade/internal/adapters/wava"
	"github.com/okian/agegrade/internal/cli"
	"github.com/okian/agegrade/internal/domain/standards"
)

func writeTable(t *testing.T) string {
	t.Helper()
	table := standards.Gendered{
		Men: standards.Table{
			Distances:  []float64{5, 10},
			Standards:  []float64{1200, 2500},
			AgeFactors: map[int][]float64{50: {0.90, 0.92}},
		},
		Women: standards.Table{
			Distances:  []float64{5},
			Standards:  []float64{1350},
			AgeFactors: map[int][]float64{40: {0.95}},
		},
	}
	path := filepath.Join(t.TempDir(), "wava.json")
	if err := wava.SaveFile(path, table); err != nil {
		t.Fatalf("save table: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	convey.Convey("Given a standards table on disk", t, func() {
		t.Setenv("AGEGRADE_TABLE_PATH", writeTable(t))
		var stdout, stderr bytes.Buffer
		ctx := context.Background()

		convey.Convey("When grading the reference performance", func() {
			code := run(ctx, []string{"-gender", "M", "-age", "50", "-dist", "7.5", "-time", "30:00"}, &stdout, &stderr)

			convey.Convey("Then it prints the percent, standard and factor", func() {
				convey.So(code, convey.ShouldEqual, cli.ExitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "age-graded: 112.94%")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "standard:   00:30:50")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "factor:     0.9100 (age 50)")
			})
		})

		convey.Convey("When the age has no factor row", func() {
			code := run(ctx, []string{"-gender", "f", "-age", "33", "-dist", "5", "-time", "1350"}, &stdout, &stderr)

			convey.So(code, convey.ShouldEqual, cli.ExitOK)
			convey.So(stdout.String(), convey.ShouldContainSubstring, "age-graded: 100.00%")
			convey.So(stdout.String(), convey.ShouldContainSubstring, "note:")
		})

		convey.Convey("When the time is not a clock value", func() {
			code := run(ctx, []string{"-gender", "M", "-age", "50", "-dist", "5", "-time", "fast"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "invalid time")
		})

		convey.Convey("When the gender is unknown", func() {
			code := run(ctx, []string{"-gender", "X", "-age", "50", "-dist", "5", "-time", "20:00"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "invalid gender")
		})

		convey.Convey("When the elapsed time is zero", func() {
			code := run(ctx, []string{"-gender", "M", "-age", "50", "-dist", "5", "-time", "0"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
		})

		convey.Convey("When required flags are missing", func() {
			code := run(ctx, []string{"-age", "50"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
		})

		convey.Convey("When the age or distance is omitted", func() {
			code := run(ctx, []string{"-gender", "M", "-dist", "5", "-time", "20:00"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "missing required flag -age")
			convey.So(stdout.String(), convey.ShouldBeEmpty)

			stderr.Reset()
			code = run(ctx, []string{"-gender", "M", "-age", "50", "-time", "20:00"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitUsage)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "missing required flag -dist")
		})

		convey.Convey("When the table file does not exist", func() {
			code := run(ctx, []string{"-gender", "M", "-age", "50", "-dist", "5", "-time", "20:00",
				"-table", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, cli.ExitFailure)
		})
	})
}
