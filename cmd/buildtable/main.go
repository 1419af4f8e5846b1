// Command buildtable converts the per-gender WAVA source CSVs into the
// standards table JSON read by the other commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/okian/agegrade/internal/adapters/wava"
	"github.com/okian/agegrade/internal/cli"
	"github.com/okian/agegrade/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("buildtable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		men     = fs.String("men", "", "Men's source CSV (default: men_csv from config)")
		women   = fs.String("women", "", "Women's source CSV (default: women_csv from config)")
		out     = fs.String("out", "", "Output JSON path (default: table_path from config)")
		exclude = fs.String("exclude", "", "Comma-separated event keywords to drop (default: exclude_keywords from config)")
	)
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	env, err := cli.Setup(ctx, "buildtable", stderr)
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	defer env.Close(ctx)

	cfg := env.Config
	menPath, womenPath, outPath := pick(*men, cfg.MenCSV), pick(*women, cfg.WomenCSV), pick(*out, cfg.TablePath)
	keywords := cfg.ExcludeKeywords
	if *exclude != "" {
		keywords = splitList(*exclude)
	}

	table, reports, err := wava.Build(ctx, menPath, womenPath,
		wava.WithExcludeKeywords(keywords),
		wava.WithLogger(env.Logger),
		wava.WithMetrics(env.Metrics))
	if err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}
	if err := wava.SaveFile(outPath, table); err != nil {
		return cli.Fail(stderr, cli.ExitFailure, err)
	}

	for _, r := range reports {
		_, _ = fmt.Fprintf(stdout, "%-5s %3d events from %3d rows%s\n", r.Gender.Key(), r.Kept, r.Rows, skipped(r.Skipped))
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", outPath)
	env.Logger.Info(ctx, "standards table written", logger.String("path", outPath))
	return cli.ExitOK
}

func pick(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// skipped renders skip counts in a stable order, e.g. " (excluded 3, no_distance 1)".
func skipped(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = fmt.Sprintf("%s %d", reason, counts[reason])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
