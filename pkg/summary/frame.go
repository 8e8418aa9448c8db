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
	"slices"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

// DefaultPlaceholder fills tags a record does not carry.
const DefaultPlaceholder = "-"

// Row is one materialized record. Values holds every frame column, including
// the metrics and value columns.
type Row struct {
	Values    map[string]measurement.Reading
	Direction measurement.Direction
}

// Get returns the reading stored under key, or nil.
func (r Row) Get(key string) measurement.Reading {
	return r.Values[key]
}

// String returns the string form of the reading stored under key.
func (r Row) String(key string) string {
	if v := r.Values[key]; v != nil {
		return v.String()
	}
	return ""
}

// Metric returns the canonical metric name of the row.
func (r Row) Metric() string {
	return r.String(measurement.KeyMetrics)
}

// Value returns the measured value of the row.
func (r Row) Value() float64 {
	v := r.Values[measurement.KeyValue]
	if v == nil {
		return 0
	}
	f, _ := v.Any().(float64)
	return f
}

// Frame is the tabular view of accumulated records: the metrics column, tag
// columns in first-seen order, then the value column.
type Frame struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// HasColumn reports whether the frame carries column key.
func (f *Frame) HasColumn(key string) bool {
	return slices.Contains(f.Columns, key)
}

// Frame materializes the accumulated records. Tags missing from a record are
// filled with placeholder.
func (s *Summarizer) Frame(placeholder string) *Frame {
	columns := []string{measurement.KeyMetrics}
	seen := map[string]bool{
		measurement.KeyMetrics: true,
		measurement.KeyValue:   true,
	}
	for _, rec := range s.records {
		// tag maps are unordered; a record contributes its new keys sorted
		for _, key := range rec.TagKeys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	columns = append(columns, measurement.KeyValue)

	filler := measurement.Str(placeholder)
	rows := make([]Row, 0, len(s.records))
	for _, rec := range s.records {
		name := rec.CanonicalMetric()
		dir, ok := s.directions[name]
		if !ok {
			dir = rec.Direction()
		}
		values := make(map[string]measurement.Reading, len(columns))
		for _, key := range columns {
			switch key {
			case measurement.KeyMetrics:
				values[key] = measurement.Str(name)
			case measurement.KeyValue:
				values[key] = measurement.Float64(rec.Value)
			default:
				if v, ok := rec.Tags[key]; ok && v != nil {
					values[key] = v
				} else {
					values[key] = filler
				}
			}
		}
		rows = append(rows, Row{Values: values, Direction: dir})
	}

	return &Frame{Columns: columns, Rows: rows}
}

// Filter transforms a frame before grouping.
type Filter func(*Frame) *Frame

// Where keeps the rows for which pred returns true.
func Where(pred func(Row) bool) Filter {
	return func(f *Frame) *Frame {
		out := &Frame{Columns: f.Columns}
		for _, r := range f.Rows {
			if pred(r) {
				out.Rows = append(out.Rows, r)
			}
		}
		return out
	}
}

// TagEquals keeps rows whose tag key renders as value.
func TagEquals(key, value string) Filter {
	return Where(func(r Row) bool {
		return r.String(key) == value
	})
}

// DropTags removes tag columns matching any of the wildcard patterns. The
// metrics and value columns are never dropped.
func DropTags(patterns ...string) Filter {
	return func(f *Frame) *Frame {
		var drop []string
		out := &Frame{}
		for _, c := range f.Columns {
			if c != measurement.KeyMetrics && c != measurement.KeyValue && measurement.MatchesAny(c, patterns) {
				drop = append(drop, c)
				continue
			}
			out.Columns = append(out.Columns, c)
		}
		if len(drop) == 0 {
			return f
		}
		out.Rows = make([]Row, len(f.Rows))
		for i, r := range f.Rows {
			values := make(map[string]measurement.Reading, len(out.Columns))
			for _, c := range out.Columns {
				values[c] = r.Values[c]
			}
			out.Rows[i] = Row{Values: values, Direction: r.Direction}
		}
		return out
	}
}

// Chain applies filters in order.
func Chain(filters ...Filter) Filter {
	return func(f *Frame) *Frame {
		for _, fn := range filters {
			if fn != nil {
				f = fn(f)
			}
		}
		return f
	}
}

// validateFrame checks that a filter returned a usable frame.
func validateFrame(f *Frame) error {
	if f == nil {
		return nil
	}
	for _, key := range []string{measurement.KeyMetrics, measurement.KeyValue} {
		if !f.HasColumn(key) {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"filter removed a reserved column", map[string]any{"column": key})
		}
	}
	return nil
}
