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

package summary

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/order"
)

// Options control a Summarize call. Nil Rows and Columns are inferred from
// the frame; an explicitly empty slice is kept as is.
type Options struct {
	Rows    []string
	Columns []string

	// RowOrder and ColumnOrder reindex the pivoted axes. In ReindexStrict
	// mode computed labels missing from an order are dropped.
	RowOrder    *order.Spec
	ColumnOrder *order.Spec
	Reindex     ReindexMode

	// Scheme defaults to Best.
	Scheme Scheme
	// TopK keeps the k best values of each group before reduction when > 0.
	TopK int

	Filter      Filter
	Placeholder string
}

// Summarize groups the accumulated records, reduces each group with the
// scheme and pivots the result into a Table.
func (s *Summarizer) Summarize(opts Options) (*Table, error) {
	scheme := opts.Scheme
	if scheme == nil {
		scheme = Scheme{Best}
	}
	if err := scheme.Validate(); err != nil {
		return nil, err
	}

	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	frame := s.Frame(placeholder)
	if opts.Filter != nil {
		frame = opts.Filter(frame)
		if err := validateFrame(frame); err != nil {
			return nil, err
		}
	}
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyResult, "no results found")
	}

	rowKeys, colKeys, err := inferKeys(frame, opts.Rows, opts.Columns)
	if err != nil {
		return nil, err
	}
	keys := slices.Concat(rowKeys, colKeys)

	groups := groupFrame(frame, keys)
	metricLevel := slices.Index(keys, measurement.KeyMetrics)

	reduced := make([]reducedGroup, 0, len(groups))
	for _, g := range groups {
		dir, err := s.groupDirection(g, metricLevel)
		if err != nil {
			return nil, err
		}

		values := g.values
		if opts.TopK > 0 {
			values = topK(values, dir, opts.TopK)
		}

		v, err := scheme.Reduce(values, dir)
		if err != nil {
			code := errors.CodeOf(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.WrapWithContext(code, "failed to reduce group", err,
				map[string]any{"group": tupleKey(g.readings), "scheme": scheme.String()})
		}

		reduced = append(reduced, reducedGroup{
			row:   newAxisLabel(g.readings[:len(rowKeys)]),
			col:   newAxisLabel(g.readings[len(rowKeys):]),
			value: v,
		})
	}

	s.logger.Debug("summarized records",
		slog.Int("records", frame.Len()),
		slog.Int("groups", len(reduced)),
		slog.Any("rows", rowKeys),
		slog.Any("columns", colKeys),
		slog.String("scheme", scheme.String()))

	t := pivot(rowKeys, colKeys, reduced)
	if opts.RowOrder == nil && opts.ColumnOrder == nil {
		return t, nil
	}
	return reindex(t, opts.RowOrder, opts.ColumnOrder, opts.Reindex)
}

// inferKeys resolves the grouping keys. With neither side given, columns are
// the metrics key and rows every other key. With one side given, the other is
// every remaining key in frame order. The value column never groups.
func inferKeys(f *Frame, rows, cols []string) ([]string, []string, error) {
	if rows == nil && cols == nil {
		cols = []string{measurement.KeyMetrics}
	}
	if rows == nil || cols == nil {
		given := rows
		if given == nil {
			given = cols
		}
		var rest []string
		for _, c := range f.Columns {
			if c != measurement.KeyValue && !slices.Contains(given, c) {
				rest = append(rest, c)
			}
		}
		if rows == nil {
			rows = rest
		} else {
			cols = rest
		}
	}

	for _, k := range slices.Concat(rows, cols) {
		if k == measurement.KeyValue || !f.HasColumn(k) {
			return nil, nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"unknown grouping key", map[string]any{"key": k, "available": f.Columns})
		}
	}
	return rows, cols, nil
}

type group struct {
	readings   []measurement.Reading
	values     []float64
	directions []measurement.Direction
}

// groupFrame groups rows by their key tuple, in first-seen order.
func groupFrame(f *Frame, keys []string) []*group {
	index := make(map[string]*group)
	var out []*group
	for _, r := range f.Rows {
		readings := make([]measurement.Reading, len(keys))
		for i, k := range keys {
			readings[i] = r.Get(k)
		}
		key := tupleKey(readings)
		g, ok := index[key]
		if !ok {
			g = &group{readings: readings}
			index[key] = g
			out = append(out, g)
		}
		g.values = append(g.values, r.Value())
		g.directions = append(g.directions, r.Direction)
	}
	return out
}

// groupDirection resolves the direction of a group from its metric when the
// metric is a grouping key, and from its members otherwise.
func (s *Summarizer) groupDirection(g *group, metricLevel int) (measurement.Direction, error) {
	if metricLevel >= 0 {
		if d, ok := s.directions[g.readings[metricLevel].String()]; ok {
			return d, nil
		}
	}
	dir := g.directions[0]
	for _, d := range g.directions[1:] {
		if d != dir {
			return dir, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"group mixes metrics of different directions; group by metrics", map[string]any{
					"group": tupleKey(g.readings),
				})
		}
	}
	return dir, nil
}

// topK returns the k best values, best first. Ties keep input order.
func topK(values []float64, dir measurement.Direction, k int) []float64 {
	sorted := slices.Clone(values)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == measurement.LowerIsBetter {
			return sorted[i] < sorted[j]
		}
		return sorted[i] > sorted[j]
	})
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}
