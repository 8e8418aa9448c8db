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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/recorder"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:                  "import",
		EnableShellCompletion: true,
		Usage:                 "Record measurement batches from files or URLs",
		ArgsUsage:             "FILE...",
		Description: `Record every entry of one or more RecordBatch documents (YAML or JSON, local
paths or http(s) URLs). A batch may name its collection and workspace; the
flags apply to batches that do not.

  scoreboard import -c runs --concurrency 8 --rate 200 results/*.yaml`,
		Flags: append([]cli.Flag{
			collectionFlag(),
			&cli.IntFlag{
				Name:  "concurrency",
				Value: defaults.CLIImportConcurrency,
				Usage: "In-flight inserts per batch",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum inserts per second (0 disables throttling)",
			},
			&cli.IntFlag{
				Name:  "burst",
				Value: 1,
				Usage: "Insert burst allowed above --rate",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLIImportTimeout,
				Usage: "Deadline for the whole import",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatYAML),
				Usage:   "Result format (json, yaml or table)",
			},
			outFlag(),
		}, workspaceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("at least one batch file is required")
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			if outFormat.IsGridOnly() {
				return fmt.Errorf("output format %q cannot render import results", outFormat)
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			st, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore(st)

			rec, err := newRecorder(cmd, st)
			if err != nil {
				return err
			}
			imp := recorder.NewImporter(rec,
				recorder.WithConcurrency(cmd.Int("concurrency")),
				recorder.WithRateLimit(cmd.Float("rate"), cmd.Int("burst")),
			)

			results := make([]*recorder.Result, 0, cmd.NArg())
			for _, path := range cmd.Args().Slice() {
				res, err := imp.ImportFile(ctx, path)
				if err != nil {
					return fmt.Errorf("failed to import %q: %w", path, err)
				}
				results = append(results, res)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("out"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, results)
		},
	}
}
