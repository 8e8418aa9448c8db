// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/logging"
	"github.com/NVIDIA/scoreboard/pkg/recorder"
	"github.com/NVIDIA/scoreboard/pkg/server"
	"github.com/NVIDIA/scoreboard/pkg/store"
)

const (
	name           = "scoreboardd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/scoreboard/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Config holds what the API server needs beyond pkg/server settings.
type Config struct {
	// DSN addresses the record store, see store.Open.
	DSN string
	// Collection receives batches that do not name one.
	Collection string
	// Address and Port override the server listen address when set.
	Address string
	Port    int
	// ImportConcurrency bounds in-flight inserts per batch.
	ImportConcurrency int
	Version           string
}

// ConfigFromEnv reads SCOREBOARD_DB, SCOREBOARD_COLLECTION and
// SCOREBOARD_IMPORT_CONCURRENCY. PORT is read by pkg/server.
func ConfigFromEnv() Config {
	cfg := Config{
		DSN:               os.Getenv("SCOREBOARD_DB"),
		Collection:        os.Getenv("SCOREBOARD_COLLECTION"),
		ImportConcurrency: defaults.CLIImportConcurrency,
		Version:           version,
	}
	if v := os.Getenv("SCOREBOARD_IMPORT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ImportConcurrency = n
		}
	}
	return cfg
}

// Serve starts the API server configured from the environment and blocks
// until shutdown.
func Serve() error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)
	return ServeWithConfig(context.Background(), ConfigFromEnv())
}

// ServeWithConfig opens the store, mounts the record and summary handlers
// and runs the server until ctx is canceled or a signal arrives.
func ServeWithConfig(ctx context.Context, cfg Config) error {
	if cfg.Version == "" {
		cfg.Version = version
	}

	openCtx, cancel := context.WithTimeout(ctx, defaults.StoreOpenTimeout)
	st, err := store.Open(openCtx, cfg.DSN)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close store", "error", cerr)
		}
	}()

	srv, err := NewServer(st, cfg)
	if err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// NewServer mounts the record and summary handlers over st and gates /ready
// on the store answering a ping. opts apply first, so a server.WithConfig
// among them keeps the mounted routes.
func NewServer(st store.Store, cfg Config, opts ...server.Option) (*server.Server, error) {
	if cfg.Version == "" {
		cfg.Version = version
	}
	h, err := newHandler(st, cfg)
	if err != nil {
		return nil, err
	}

	opts = append(opts,
		server.WithName(name),
		server.WithVersion(cfg.Version),
		server.WithHandler(h.Routes()),
		server.WithReadinessCheck("store", st.Ping),
	)
	if cfg.Address != "" || cfg.Port > 0 {
		opts = append(opts, server.WithAddress(cfg.Address, cfg.Port))
	}
	return server.New(opts...), nil
}

func newHandler(st store.Store, cfg Config) (*Handler, error) {
	var ropts []recorder.Option
	if cfg.Collection != "" {
		ropts = append(ropts, recorder.WithCollection(cfg.Collection))
	}
	rec, err := recorder.New(st, nil, ropts...)
	if err != nil {
		return nil, err
	}
	imp := recorder.NewImporter(rec, recorder.WithConcurrency(cfg.ImportConcurrency))
	return NewHandler(st, imp, cfg.Version), nil
}
