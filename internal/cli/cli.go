// Package cli holds the setup shared by the command line tools: layered
// configuration, the global logger on stderr and the optional metrics
// textfile dump.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/agegrade/internal/config"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Env is what every command starts from.
type Env struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Manager
}

// Setup loads the configuration and initializes the global logger on
// stderr at the configured level. An unknown level falls back to info.
func Setup(ctx context.Context, name string, stderr io.Writer) (*Env, error) {
	if err := logger.InitWriter(stderr); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Named(name)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	return &Env{Config: cfg, Logger: log, Metrics: metrics.Default()}, nil
}

// Close writes the metrics textfile when metrics_file is configured.
func (e *Env) Close(ctx context.Context) {
	if e.Config.MetricsFile == "" {
		return
	}
	if err := e.Metrics.WriteTextfile(e.Config.MetricsFile); err != nil {
		e.Logger.Error(ctx, "failed to write metrics", logger.Error(err))
		return
	}
	e.Logger.Debug(ctx, "wrote metrics", logger.String("path", e.Config.MetricsFile))
}

// Fail prints err on stderr and returns code.
func Fail(stderr io.Writer, code int, err error) int {
	_, _ = fmt.Fprintln(stderr, "error:", err)
	return code
}
