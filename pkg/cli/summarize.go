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

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
	"github.com/NVIDIA/scoreboard/pkg/summary"
)

func summarizeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "summarize",
		EnableShellCompletion: true,
		Usage:                 "Summarize a collection into a pivoted table",
		Description: `Retrieve the records of a collection, group them by the row and column keys,
reduce every group with a scheme and print the pivoted table.

Without --rows and --columns the table has one column per metric and one row
per combination of the remaining tags. Selections reorder (and in strict mode
restrict) an axis; "_" separates the levels of a multi-level selection. List
values are comma separated or given by repeating the flag:

  scoreboard summarize -c runs --rows ws --columns train:lr,metrics \
    --column-selection 0.01,0.1,_,acc,rmse --scheme mean_with_error --float-format .3f`,
		Flags: []cli.Flag{
			collectionFlag(),
			&cli.StringSliceFlag{
				Name:  "rows",
				Usage: "Tag keys grouping the rows (inferred when omitted)",
			},
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "Tag keys grouping the columns (default: metrics)",
			},
			&cli.StringSliceFlag{
				Name:  "row-selection",
				Usage: `Row labels in display order, "_" between levels`,
			},
			&cli.StringSliceFlag{
				Name:  "column-selection",
				Usage: `Column labels in display order, "_" between levels`,
			},
			&cli.StringFlag{
				Name:  "scheme",
				Value: summary.SchemeBest,
				Usage: fmt.Sprintf("Reduction scheme (supported values: %s)",
					strings.Join(summary.SchemeNames(), ", ")),
			},
			&cli.IntFlag{
				Name:  "topk",
				Value: -1,
				Usage: "Keep the k best values of each group before reducing (-1 keeps all)",
			},
			&cli.StringFlag{
				Name:  "regex",
				Usage: "Keep records whose workspace matches this expression",
			},
			&cli.StringFlag{
				Name:  "float-format",
				Usage: "Format applied to reduced values (e.g. .4f)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatTable),
				Usage: fmt.Sprintf("Output format (supported values: %s)",
					strings.Join(serializer.SupportedFormats(), ", ")),
			},
			&cli.BoolFlag{
				Name:  "last",
				Usage: "Use only the latest record of each workspace",
			},
			&cli.StringSliceFlag{
				Name:  "drop-tag",
				Usage: "Tag patterns removed before grouping (e.g. train:*)",
			},
			&cli.StringMapFlag{
				Name:  "tag",
				Usage: "Only retrieve records with this tag value (key=value)",
			},
			&cli.StringFlag{
				Name:  "reindex",
				Value: "strict",
				Usage: "Selection mode: strict drops unlisted labels, pad keeps them after the listed ones",
			},
			&cli.BoolFlag{
				Name:  "strict-directions",
				Usage: "Fail when a metric was recorded with conflicting directions",
			},
			&cli.StringFlag{
				Name:  "placeholder",
				Usage: "Value standing in for tags a record does not carry",
			},
			outFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.String("collection") == "" {
				return fmt.Errorf("collection is required")
			}
			if err := noArgs(cmd); err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			req := buildRequestFromCmd(cmd, outFormat)

			st, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore(st)

			doc, err := req.Execute(ctx, st, version)
			if err != nil {
				return fmt.Errorf("failed to summarize collection %q: %w", req.Collection, err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("out"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, doc)
		},
	}
}

// noArgs rejects positional arguments. A list flag takes one value per
// occurrence, so "--rows ws model" leaves "model" behind as an argument.
func noArgs(cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"unexpected arguments: list values are comma separated or given by repeating the flag",
		map[string]any{"args": cmd.Args().Slice()})
}

// buildRequestFromCmd maps summarize flags onto a summary.Request.
func buildRequestFromCmd(cmd *cli.Command, format serializer.Format) summary.Request {
	return summary.Request{
		Collection:      cmd.String("collection"),
		Rows:            keysFlag(cmd, "rows"),
		Columns:         keysFlag(cmd, "columns"),
		RowSelection:    cmd.StringSlice("row-selection"),
		ColumnSelection: cmd.StringSlice("column-selection"),
		Scheme:          cmd.String("scheme"),
		TopK:            cmd.Int("topk"),
		Regex:           cmd.String("regex"),
		FloatFormat:     cmd.String("float-format"),
		LaTeX:           format == serializer.FormatLaTeX,
		Last:            cmd.Bool("last"),
		DropTags:        cmd.StringSlice("drop-tag"),
		Tags:            cmd.StringMap("tag"),
		Reindex:         cmd.String("reindex"),
		Placeholder:     cmd.String("placeholder"),

		StrictDirections: cmd.Bool("strict-directions"),
	}
}

// keysFlag returns nil for an unset flag so the keys are inferred, and a
// non-nil (possibly empty) slice once the flag is given.
func keysFlag(cmd *cli.Command, flag string) []string {
	if !cmd.IsSet(flag) {
		return nil
	}
	keys := []string{}
	for _, k := range cmd.StringSlice(flag) {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// parseOutputFormat validates the --output flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("output"))
	if err != nil {
		return "", fmt.Errorf("invalid output format: %w", err)
	}
	return f, nil
}
