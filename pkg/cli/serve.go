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

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoreboard/pkg/api"
	"github.com/NVIDIA/scoreboard/pkg/defaults"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the record and summary HTTP API",
		Description: `Run the HTTP API over the store named by --db:

  POST /v1/records   record a RecordBatch
  GET  /v1/summary   summarize a collection

Health, readiness and Prometheus metrics are served on /health, /ready and
/metrics. PORT and SHUTDOWN_TIMEOUT_SECONDS are honored.`,
		Flags: []cli.Flag{
			collectionFlag(),
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address (default: all interfaces)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default: $PORT or 8080)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: defaults.CLIImportConcurrency,
				Usage: "In-flight inserts per posted batch",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.ServeWithConfig(ctx, api.Config{
				DSN:               cmd.String("db"),
				Collection:        cmd.String("collection"),
				Address:           cmd.String("address"),
				Port:              cmd.Int("port"),
				ImportConcurrency: cmd.Int("concurrency"),
				Version:           version,
			})
		},
	}
}
