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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoreboard/pkg/serializer"
	"github.com/NVIDIA/scoreboard/pkg/workspace"
)

func workspaceCmd() *cli.Command {
	return &cli.Command{
		Name:                  "workspace",
		EnableShellCompletion: true,
		Usage:                 "Write a workspace document",
		Description: `Create a workspace document, or update an existing one with --from. Settings
are given as namespace:key=value and become "namespace:key" tags on every
record made with the workspace:

  scoreboard workspace --id ws/lstm-1 --set train:lr=0.01 --set model:layers=2 -o ws.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Workspace identity",
			},
			&cli.StringFlag{
				Name:      "from",
				Usage:     "Existing workspace document to start from",
				TakesFile: true,
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Setting as namespace:key=value, repeatable",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatYAML),
				Usage:   "Document format (json or yaml)",
			},
			outFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := noArgs(cmd); err != nil {
				return err
			}
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			ws := workspace.New(cmd.String("id"))
			if path := cmd.String("from"); path != "" {
				if ws, err = workspace.Load(path); err != nil {
					return err
				}
				if id := cmd.String("id"); id != "" {
					ws.ID = id
				}
			}
			if ws.ID == "" {
				ws.ID = workspace.DefaultID
			}

			for _, s := range cmd.StringSlice("set") {
				ns, key, value, err := parseSetting(s)
				if err != nil {
					return err
				}
				ws.Set(ns, key, value)
			}
			if err := ws.Validate(); err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("out"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, ws)
		},
	}
}

// parseSetting splits "namespace:key=value".
func parseSetting(s string) (string, string, any, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", nil, fmt.Errorf("setting %q must be namespace:key=value", s)
	}
	ns, key, ok := strings.Cut(name, workspace.NamespaceSeparator)
	if !ok || ns == "" || key == "" {
		return "", "", nil, fmt.Errorf("setting %q must be namespace:key=value", s)
	}
	return ns, key, parseScalar(value), nil
}
