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
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/order"
)

// MissingText is the display form of a cell without a value.
const MissingText = "NaN"

// ReindexMode selects how an axis is reindexed against an explicit order.
type ReindexMode int

const (
	// ReindexStrict keeps exactly the ordered labels. Computed labels absent
	// from the order are dropped along with their cells.
	ReindexStrict ReindexMode = iota
	// ReindexPadOnly places the ordered labels first and keeps the remaining
	// computed labels after them in sorted order.
	ReindexPadOnly
)

// String returns the mode name.
func (m ReindexMode) String() string {
	if m == ReindexPadOnly {
		return "pad"
	}
	return "strict"
}

// ParseReindexMode parses "strict" (or empty) and "pad".
func ParseReindexMode(s string) (ReindexMode, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return ReindexStrict, nil
	case "pad", "pad-only", "padonly":
		return ReindexPadOnly, nil
	}
	return ReindexStrict, errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"unknown reindex mode", map[string]any{"mode": s})
}

// Label is one entry of a table axis, one element per grouping key.
type Label []string

// String joins the label levels.
func (l Label) String() string {
	return strings.Join(l, ", ")
}

// Cell is a reduced value. Cells without contributing records are not Valid.
type Cell struct {
	Value any
	Valid bool
}

// String returns the display form of the cell.
func (c Cell) String() string {
	if !c.Valid || c.Value == nil {
		return MissingText
	}
	switch v := c.Value.(type) {
	case string:
		return v
	case float64:
		return ReprFloat(v)
	case float32:
		return ReprFloat(float64(v))
	case bool:
		return pyBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", c.Value)
}

// MarshalJSON emits null for missing cells and a string for non-finite floats.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	if f, ok := c.Value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return json.Marshal(ReprFloat(f))
	}
	return json.Marshal(c.Value)
}

// MarshalYAML mirrors MarshalJSON.
func (c Cell) MarshalYAML() (any, error) {
	if !c.Valid {
		return nil, nil
	}
	return c.Value, nil
}

// Table is a pivoted summary: rows and columns are labeled by the values of
// their grouping keys.
type Table struct {
	RowKeys    []string `json:"rowKeys" yaml:"rowKeys"`
	ColumnKeys []string `json:"columnKeys" yaml:"columnKeys"`
	Rows       []Label  `json:"rows" yaml:"rows"`
	Columns    []Label  `json:"columns" yaml:"columns"`
	Cells      [][]Cell `json:"cells" yaml:"cells"`
}

// RowHeader returns the row grouping keys.
func (t *Table) RowHeader() []string { return t.RowKeys }

// ColumnHeader returns the column grouping keys.
func (t *Table) ColumnHeader() []string { return t.ColumnKeys }

// RowLabels returns the row labels.
func (t *Table) RowLabels() [][]string { return labelsOf(t.Rows) }

// ColumnLabels returns the column labels.
func (t *Table) ColumnLabels() [][]string { return labelsOf(t.Columns) }

// CellText returns the display form of cell (i, j).
func (t *Table) CellText(i, j int) string {
	return t.Cells[i][j].String()
}

// Lookup returns the cell at the given row and column labels.
func (t *Table) Lookup(row, col []string) (Cell, bool) {
	i := slices.IndexFunc(t.Rows, func(l Label) bool { return slices.Equal(l, row) })
	j := slices.IndexFunc(t.Columns, func(l Label) bool { return slices.Equal(l, col) })
	if i < 0 || j < 0 {
		return Cell{}, false
	}
	return t.Cells[i][j], true
}

func labelsOf(ls []Label) [][]string {
	out := make([][]string, len(ls))
	for i, l := range ls {
		out[i] = l
	}
	return out
}

// axisLabel is a label that still carries its typed readings for sorting.
type axisLabel struct {
	key      string
	readings []measurement.Reading
}

func (a axisLabel) label() Label {
	l := make(Label, len(a.readings))
	for i, r := range a.readings {
		l[i] = r.String()
	}
	return l
}

func newAxisLabel(readings []measurement.Reading) axisLabel {
	return axisLabel{key: tupleKey(readings), readings: readings}
}

func tupleKey(readings []measurement.Reading) string {
	parts := make([]string, len(readings))
	for i, r := range readings {
		parts[i] = r.String()
	}
	return strings.Join(parts, "\x1f")
}

// compareLabels orders labels level by level. Numbers sort numerically and
// before strings; strings sort lexically.
func compareLabels(a, b axisLabel) int {
	for i := range min(len(a.readings), len(b.readings)) {
		if c := compareReadings(a.readings[i], b.readings[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.readings), len(b.readings))
}

func compareReadings(a, b measurement.Reading) int {
	af, aNum := numeric(a)
	bf, bNum := numeric(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(af, bf)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a.String(), b.String())
}

func numeric(r measurement.Reading) (float64, bool) {
	switch v := r.Any().(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// reducedGroup is one reduced group split into its row and column labels.
type reducedGroup struct {
	row   axisLabel
	col   axisLabel
	value any
}

// pivot reshapes reduced groups into a table with sorted axes.
func pivot(rowKeys, colKeys []string, groups []reducedGroup) *Table {
	rows := uniqueLabels(groups, func(g reducedGroup) axisLabel { return g.row })
	cols := uniqueLabels(groups, func(g reducedGroup) axisLabel { return g.col })

	rowIndex := indexOf(rows)
	colIndex := indexOf(cols)

	t := &Table{
		RowKeys:    rowKeys,
		ColumnKeys: colKeys,
		Rows:       make([]Label, len(rows)),
		Columns:    make([]Label, len(cols)),
		Cells:      make([][]Cell, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = r.label()
		t.Cells[i] = make([]Cell, len(cols))
	}
	for j, c := range cols {
		t.Columns[j] = c.label()
	}
	for _, g := range groups {
		t.Cells[rowIndex[g.row.key]][colIndex[g.col.key]] = Cell{Value: g.value, Valid: true}
	}
	return t
}

func uniqueLabels(groups []reducedGroup, pick func(reducedGroup) axisLabel) []axisLabel {
	seen := make(map[string]bool)
	var out []axisLabel
	for _, g := range groups {
		l := pick(g)
		if !seen[l.key] {
			seen[l.key] = true
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, compareLabels)
	return out
}

func indexOf(labels []axisLabel) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l.key] = i
	}
	return m
}

// reindexAxis maps an axis onto spec. It returns the new labels and, for each,
// the position of the matching computed label or -1.
func reindexAxis(axis string, labels []Label, depth int, spec *order.Spec, mode ReindexMode) ([]Label, []int, error) {
	if spec.Depth() != depth || (depth > 1 && !spec.IsMultiLevel()) {
		return nil, nil, errors.NewWithContext(errors.ErrCodeMalformedOrder,
			"order does not match axis depth", map[string]any{
				"axis":        axis,
				"axisLevels":  depth,
				"orderLevels": spec.Depth(),
				"order":       spec.String(),
			})
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[strings.Join(l, "\x1f")] = i
	}

	var out []Label
	var pos []int
	listed := make(map[int]bool)
	for _, tuple := range spec.Labels() {
		i, ok := index[strings.Join(tuple, "\x1f")]
		if !ok {
			i = -1
		} else {
			listed[i] = true
		}
		out = append(out, Label(tuple))
		pos = append(pos, i)
	}

	if mode == ReindexPadOnly {
		for i, l := range labels {
			if !listed[i] {
				out = append(out, l)
				pos = append(pos, i)
			}
		}
	}
	return out, pos, nil
}

// reindex applies the row and column orders to t.
func reindex(t *Table, rowOrder, colOrder *order.Spec, mode ReindexMode) (*Table, error) {
	rowPos := identity(len(t.Rows))
	colPos := identity(len(t.Columns))
	rows, cols := t.Rows, t.Columns

	var err error
	if rowOrder != nil {
		if rows, rowPos, err = reindexAxis("rows", t.Rows, len(t.RowKeys), rowOrder, mode); err != nil {
			return nil, err
		}
	}
	if colOrder != nil {
		if cols, colPos, err = reindexAxis("columns", t.Columns, len(t.ColumnKeys), colOrder, mode); err != nil {
			return nil, err
		}
	}

	out := &Table{
		RowKeys:    t.RowKeys,
		ColumnKeys: t.ColumnKeys,
		Rows:       rows,
		Columns:    cols,
		Cells:      make([][]Cell, len(rows)),
	}
	for i, ri := range rowPos {
		out.Cells[i] = make([]Cell, len(cols))
		if ri < 0 {
			continue
		}
		for j, cj := range colPos {
			if cj >= 0 {
				out.Cells[i][j] = t.Cells[ri][cj]
			}
		}
	}
	return out, nil
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
