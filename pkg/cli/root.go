/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/logging"
	"github.com/NVIDIA/scoreboard/pkg/store"
)

const (
	name           = "scoreboard"
	versionDefault = "dev"

	// envFileVar names an env file loaded before flags are parsed.
	envFileVar     = "SCOREBOARD_ENV_FILE"
	defaultEnvFile = ".env"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flag constructors return fresh instances: urfave flags keep parse state.

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   fmt.Sprintf("Record store: a SQLite path, sqlite://<path> or mem:// (default %s)", store.DefaultDSN),
		Sources: cli.EnvVars("SCOREBOARD_DB"),
	}
}

func collectionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "collection",
		Aliases: []string{"c"},
		Usage:   "Collection to read from or write to",
		Sources: cli.EnvVars("SCOREBOARD_COLLECTION"),
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:      "out",
		Aliases:   []string{"o"},
		Usage:     "Output file path (default: stdout)",
		TakesFile: true,
	}
}

// NewCommand returns the root command with every subcommand attached.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Record experiment measurements and summarize them into tables",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:      "metrics-textfile",
				Usage:     "Write Prometheus metrics to this file on exit",
				Sources:   cli.EnvVars("SCOREBOARD_METRICS_TEXTFILE"),
				TakesFile: true,
			},
		},
		Before: initLogger,
		After:  writeMetrics,
		Commands: []*cli.Command{
			summarizeCmd(),
			recordCmd(),
			importCmd(),
			workspaceCmd(),
			serveCmd(),
		},
	}
}

// Execute runs the root command against os.Args. It is called by main.main()
// and exits non-zero when the command fails.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnvFile(os.Getenv(envFileVar)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. The default .env is optional.
func loadEnvFile(path string) error {
	if path == "" {
		path = defaultEnvFile
		if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// initLogger configures slog after flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
	return ctx, nil
}

func writeMetrics(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-textfile")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("wrote metrics textfile", "path", path)
	return nil
}

// openStore opens the store named by the --db flag.
func openStore(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.StoreOpenTimeout)
	defer cancel()

	dsn := cmd.String("db")
	st, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", dsn, err)
	}
	return st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}
