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
	"math"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoreboard/pkg/recorder"
	"github.com/NVIDIA/scoreboard/pkg/store"
	"github.com/NVIDIA/scoreboard/pkg/workspace"
)

func workspaceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workspace",
			Aliases: []string{"w"},
			Usage:   fmt.Sprintf("Workspace identity stored in the %q tag (default %s)", "ws", workspace.DefaultID),
			Sources: cli.EnvVars("SCOREBOARD_WORKSPACE"),
		},
		&cli.StringFlag{
			Name:      "workspace-file",
			Usage:     "Workspace document (YAML or JSON, path or URL) whose settings tag every record",
			Sources:   cli.EnvVars("SCOREBOARD_WORKSPACE_FILE"),
			TakesFile: true,
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tag",
			Usage: "Tag key pattern (prefix*, *suffix, exact) left out of stored records, repeatable",
		},
	}
}

func recordCmd() *cli.Command {
	return &cli.Command{
		Name:                  "record",
		EnableShellCompletion: true,
		Usage:                 "Record one measurement",
		ArgsUsage:             "METRIC VALUE",
		Description: `Insert one measurement into a collection. A trailing "-" on the metric marks
lower-is-better, a trailing "+" (or nothing) higher-is-better:

  scoreboard record -c runs -w ws/lstm-1 --tag split=val rmse- 0.42`,
		Flags: append([]cli.Flag{
			collectionFlag(),
			&cli.BoolFlag{
				Name:  "descending",
				Usage: "Override the metric direction: lower is better",
			},
			&cli.StringMapFlag{
				Name:  "tag",
				Usage: "Additional tag (key=value), repeatable",
			},
		}, workspaceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("expected METRIC VALUE, got %d arguments", cmd.NArg())
			}
			metric := cmd.Args().Get(0)
			value, err := strconv.ParseFloat(cmd.Args().Get(1), 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", cmd.Args().Get(1), err)
			}

			var descending *bool
			if cmd.IsSet("descending") {
				d := cmd.Bool("descending")
				descending = &d
			}

			tags := make(map[string]any)
			for k, v := range cmd.StringMap("tag") {
				tags[k] = parseScalar(v)
			}

			st, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore(st)

			rec, err := newRecorder(cmd, st)
			if err != nil {
				return err
			}

			if err := rec.Record(ctx, value, metric, descending, tags); err != nil {
				return fmt.Errorf("failed to record %s: %w", metric, err)
			}

			slog.Info("recorded measurement",
				"collection", rec.Collection(),
				"ws", rec.Workspace(),
				"metric", metric,
				"value", value)
			return nil
		},
	}
}

// loadProvider resolves the workspace flags. It returns nil when neither is
// set so the recorder falls back to the default workspace.
func loadProvider(cmd *cli.Command) (workspace.Provider, error) {
	path := cmd.String("workspace-file")
	id := cmd.String("workspace")

	if path == "" {
		if id == "" {
			return nil, nil
		}
		return workspace.New(id), nil
	}

	ws, err := workspace.Load(path)
	if err != nil {
		return nil, err
	}
	if id != "" {
		ws.ID = id
	}
	return ws, nil
}

func newRecorder(cmd *cli.Command, st store.Store) (*recorder.Recorder, error) {
	provider, err := loadProvider(cmd)
	if err != nil {
		return nil, err
	}

	var opts []recorder.Option
	if c := cmd.String("collection"); c != "" {
		opts = append(opts, recorder.WithCollection(c))
	}
	if ex := cmd.StringSlice("exclude-tag"); len(ex) > 0 {
		opts = append(opts, recorder.WithExcludedTags(ex...))
	}
	return recorder.New(st, provider, opts...)
}

// parseScalar types a command-line value: integers, finite floats and
// true/false keep their type, anything else stays a string.
func parseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
