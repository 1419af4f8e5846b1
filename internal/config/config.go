// Package config defines process configuration and its loading hooks.
//
// Values are layered: defaults from New, an optional YAML file named by
// AGEGRADE_CONFIG, then AGEGRADE_* environment variables. CLI flags are
// applied on top by the commands themselves.
package config

import "github.com/okian/agegrade/internal/adapters/wava"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TablePath is the JSON standards table read by the evaluator and
	// written by the table builder.
	TablePath string `koanf:"table_path"`

	// MenCSV and WomenCSV are the raw per-gender source tables.
	MenCSV   string `koanf:"men_csv"`
	WomenCSV string `koanf:"women_csv"`

	// ExcludeKeywords drops non-running events whose name contains any of them.
	ExcludeKeywords []string `koanf:"exclude_keywords"`

	// MaxPoints is awarded to the winner of a race; each later position gets one less.
	MaxPoints int `koanf:"max_points"`

	// BestOf caps how many age-graded scores count towards the age-graded
	// championship total.
	BestOf int `koanf:"best_of"`

	// MetricsFile, when set, receives a Prometheus textfile dump on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	keywords := make([]string, len(wava.DefaultExcludeKeywords))
	copy(keywords, wava.DefaultExcludeKeywords)

	return &Config{
		LogLevel:        "info",
		TablePath:       "data/wava-standards.json",
		MenCSV:          "data_sources/men.csv",
		WomenCSV:        "data_sources/women.csv",
		ExcludeKeywords: keywords,
		MaxPoints:       25,
		BestOf:          6,
		MetricsFile:     "",
	}
}
