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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/order"
)

func boolPtr(b bool) *bool { return &b }

func sizeRuns(t *testing.T) *Summarizer {
	t.Helper()
	s := NewSummarizer()
	require.NoError(t, s.Add(0.40, "rmse-", map[string]any{"ws": "A", "size": 3}))
	require.NoError(t, s.Add(0.35, "rmse-", map[string]any{"ws": "A", "size": 4}))
	require.NoError(t, s.Add(0.30, "rmse-", map[string]any{"ws": "A", "size": 5}))
	return s
}

func cellValue(t *testing.T, tbl *Table, row, col []string) any {
	t.Helper()
	c, ok := tbl.Lookup(row, col)
	require.True(t, ok, "no cell at %v/%v", row, col)
	require.True(t, c.Valid, "cell at %v/%v is missing", row, col)
	return c.Value
}

func TestSummarizer_DirectionInference(t *testing.T) {
	a := NewSummarizer()
	require.NoError(t, a.Add(0.35, "rmse-", nil))
	b := NewSummarizer()
	require.NoError(t, b.AddWithDirection(0.35, "rmse", boolPtr(true), nil))

	assert.Equal(t, a.Records(), b.Records())
	assert.Equal(t, "rmse-", a.Records()[0].Metric)

	d, ok := b.Direction("rmse")
	require.True(t, ok)
	assert.Equal(t, measurement.LowerIsBetter, d)

	c := NewSummarizer()
	require.NoError(t, c.AddWithDirection(0.9, "acc-", boolPtr(false), nil))
	assert.Equal(t, "acc+", c.Records()[0].Metric)
}

func TestSummarizer_DirectionPolicy(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		s := NewSummarizer()
		require.NoError(t, s.Add(0.2, "loss-", map[string]any{"ws": "A"}))
		require.NoError(t, s.Add(0.4, "loss+", map[string]any{"ws": "A"}))

		d, _ := s.Direction("loss")
		assert.Equal(t, measurement.HigherIsBetter, d)

		tbl, err := s.Summarize(Options{})
		require.NoError(t, err)
		assert.Equal(t, 0.4, cellValue(t, tbl, []string{"A"}, []string{"loss"}))
	})

	t.Run("reject conflicts", func(t *testing.T) {
		s := NewSummarizer(WithDirectionPolicy(RejectConflicts))
		require.NoError(t, s.Add(0.2, "loss-", nil))
		require.NoError(t, s.Add(0.1, "loss-", nil))
		err := s.Add(0.4, "loss+", nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
		assert.Equal(t, 2, s.Len())
	})
}

func TestSummarizer_AddInvalid(t *testing.T) {
	s := NewSummarizer()
	err := s.Add(1, "-", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	err = s.Add(1, "acc", map[string]any{"value": 3})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	assert.Zero(t, s.Len())
}

func TestSummarize_BestByDirection(t *testing.T) {
	s := sizeRuns(t)
	tbl, err := s.Summarize(Options{Rows: []string{"ws", "size"}, Scheme: Scheme{Best}})
	require.NoError(t, err)

	assert.Equal(t, []string{"ws", "size"}, tbl.RowKeys)
	assert.Equal(t, []string{"metrics"}, tbl.ColumnKeys)
	assert.Equal(t, []Label{{"A", "3"}, {"A", "4"}, {"A", "5"}}, tbl.Rows)
	assert.Equal(t, []Label{{"rmse"}}, tbl.Columns)

	assert.Equal(t, 0.40, cellValue(t, tbl, []string{"A", "3"}, []string{"rmse"}))
	assert.Equal(t, 0.35, cellValue(t, tbl, []string{"A", "4"}, []string{"rmse"}))
	assert.Equal(t, 0.30, cellValue(t, tbl, []string{"A", "5"}, []string{"rmse"}))
}

func TestSummarize_DefaultKeys(t *testing.T) {
	s := sizeRuns(t)
	tbl, err := s.Summarize(Options{})
	require.NoError(t, err)

	// tags enter the frame sorted per record: size before ws
	assert.Equal(t, []string{"size", "ws"}, tbl.RowKeys)
	assert.Equal(t, []string{"metrics"}, tbl.ColumnKeys)
	assert.Len(t, tbl.Rows, 3)
}

func TestSummarize_InferColumns(t *testing.T) {
	s := sizeRuns(t)
	tbl, err := s.Summarize(Options{Rows: []string{"ws"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"metrics", "size"}, tbl.ColumnKeys)
	assert.Equal(t, []Label{{"A"}}, tbl.Rows)
	assert.Equal(t, []Label{{"rmse", "3"}, {"rmse", "4"}, {"rmse", "5"}}, tbl.Columns)
	assert.Equal(t, 0.35, cellValue(t, tbl, []string{"A"}, []string{"rmse", "4"}))
}

func TestSummarize_InferRows(t *testing.T) {
	s := sizeRuns(t)
	tbl, err := s.Summarize(Options{Columns: []string{"size"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"metrics", "ws"}, tbl.RowKeys)
	assert.Equal(t, []Label{{"rmse", "A"}}, tbl.Rows)
	assert.Equal(t, []Label{{"3"}, {"4"}, {"5"}}, tbl.Columns)
}

func TestSummarize_UnknownKey(t *testing.T) {
	s := sizeRuns(t)
	for _, opts := range []Options{
		{Rows: []string{"nope"}},
		{Rows: []string{"ws"}, Columns: []string{"value"}},
	} {
		_, err := s.Summarize(opts)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest), "%v", opts)
	}
}

func TestSummarize_Mean(t *testing.T) {
	s := NewSummarizer()
	for _, v := range []float64{1, 2, 3} {
		require.NoError(t, s.Add(v, "acc", map[string]any{"ws": "A"}))
	}
	require.NoError(t, s.Add(10, "acc", map[string]any{"ws": "B"}))

	tbl, err := s.Summarize(Options{Scheme: Scheme{Mean}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cellValue(t, tbl, []string{"A"}, []string{"acc"}), 1e-12)
	assert.InDelta(t, 10.0, cellValue(t, tbl, []string{"B"}, []string{"acc"}), 1e-12)
}

func TestSummarize_MeanWithError(t *testing.T) {
	s := NewSummarizer()
	for _, v := range []float64{1, 2, 3} {
		require.NoError(t, s.Add(v, "acc", map[string]any{"ws": "A"}))
	}
	scheme, err := ParseScheme(SchemeMeanWithError, ".4f", false)
	require.NoError(t, err)

	tbl, err := s.Summarize(Options{Scheme: scheme})
	require.NoError(t, err)
	assert.Equal(t, "2.0000±1.0000", cellValue(t, tbl, []string{"A"}, []string{"acc"}))
	assert.Equal(t, "2.0000±1.0000", tbl.CellText(0, 0))
}

func TestSummarize_TopK(t *testing.T) {
	s := NewSummarizer()
	for _, v := range []float64{0.5, 0.3, 0.4} {
		require.NoError(t, s.Add(v, "rmse-", map[string]any{"ws": "A"}))
	}
	for _, v := range []float64{0.5, 0.9, 0.7} {
		require.NoError(t, s.Add(v, "acc", map[string]any{"ws": "A"}))
	}

	tbl, err := s.Summarize(Options{Scheme: Scheme{Mean}, TopK: 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, cellValue(t, tbl, []string{"A"}, []string{"rmse"}), 1e-12)
	assert.InDelta(t, 0.8, cellValue(t, tbl, []string{"A"}, []string{"acc"}), 1e-12)

	tbl, err = s.Summarize(Options{Scheme: Scheme{Mean}, TopK: 10})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cellValue(t, tbl, []string{"A"}, []string{"rmse"}), 1e-12)
}

func TestSummarize_TopKEquivalence(t *testing.T) {
	single := sizeRuns(t)
	multi := NewSummarizer()
	for _, v := range []float64{0.5, 0.3, 0.4} {
		require.NoError(t, multi.Add(v, "rmse-", map[string]any{"ws": "A"}))
		require.NoError(t, multi.Add(v*2, "acc", map[string]any{"ws": "A"}))
	}

	for name, s := range map[string]*Summarizer{"single": single, "multi": multi} {
		t.Run(name, func(t *testing.T) {
			all, err := s.Summarize(Options{Scheme: Scheme{Best}, TopK: -1})
			require.NoError(t, err)
			top, err := s.Summarize(Options{Scheme: Scheme{Best}, TopK: 1})
			require.NoError(t, err)
			assert.Equal(t, all, top)
		})
	}
}

func TestTopK_Stable(t *testing.T) {
	values := []float64{2, 1, 2, 3, 1}
	assert.Equal(t, []float64{3, 2, 2}, topK(values, measurement.HigherIsBetter, 3))
	assert.Equal(t, []float64{1, 1}, topK(values, measurement.LowerIsBetter, 2))
	assert.Equal(t, []float64{2, 1, 2, 3, 1}, values, "input must not be reordered")
}

func TestSummarize_FlatReorder(t *testing.T) {
	s := sizeRuns(t)
	tbl, err := s.Summarize(Options{
		Rows:     []string{"size"},
		Columns:  []string{"metrics"},
		RowOrder: order.NewFlat("5", "3", "4", "6"),
	})
	require.NoError(t, err)

	assert.Equal(t, []Label{{"5"}, {"3"}, {"4"}, {"6"}}, tbl.Rows)
	assert.Equal(t, 0.30, cellValue(t, tbl, []string{"5"}, []string{"rmse"}))
	assert.Equal(t, 0.40, cellValue(t, tbl, []string{"3"}, []string{"rmse"}))

	missing, ok := tbl.Lookup([]string{"6"}, []string{"rmse"})
	require.True(t, ok)
	assert.False(t, missing.Valid)
	assert.Equal(t, MissingText, tbl.CellText(3, 0))
}

func TestSummarize_ReindexModes(t *testing.T) {
	s := sizeRuns(t)

	byMetric := []string{"metrics"}
	strict, err := s.Summarize(Options{Rows: []string{"size"}, Columns: byMetric, RowOrder: order.NewFlat("5", "3")})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"5"}, {"3"}}, strict.Rows, "unlisted labels are dropped")

	pad, err := s.Summarize(Options{Rows: []string{"size"}, Columns: byMetric, RowOrder: order.NewFlat("5", "3"), Reindex: ReindexPadOnly})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"5"}, {"3"}, {"4"}}, pad.Rows)
	assert.Equal(t, 0.35, cellValue(t, pad, []string{"4"}, []string{"rmse"}))
}

func TestSummarize_MultiLevelReorder(t *testing.T) {
	s := NewSummarizer()
	for _, ws := range []string{"C", "B", "A"} {
		for _, seed := range []int{2, 1} {
			require.NoError(t, s.Add(float64(seed), "acc", map[string]any{"ws": ws, "seed": seed}))
		}
	}

	tbl, err := s.Summarize(Options{
		Rows:     []string{"ws", "seed"},
		RowOrder: order.NewLevels([]string{"A", "B"}, []string{"1", "2"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"A", "1"}, {"A", "2"}, {"B", "1"}, {"B", "2"}}, tbl.Rows)
	assert.Equal(t, 2.0, cellValue(t, tbl, []string{"B", "2"}, []string{"acc"}))
}

func TestSummarize_ColumnOrder(t *testing.T) {
	s := NewSummarizer()
	require.NoError(t, s.Add(0.9, "acc", map[string]any{"ws": "A"}))
	require.NoError(t, s.Add(0.1, "rmse-", map[string]any{"ws": "A"}))

	tbl, err := s.Summarize(Options{ColumnOrder: order.NewFlat("rmse", "f1", "acc")})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"rmse"}, {"f1"}, {"acc"}}, tbl.Columns)
	assert.Equal(t, "0.1", tbl.CellText(0, 0))
	assert.Equal(t, MissingText, tbl.CellText(0, 1))
	assert.Equal(t, "0.9", tbl.CellText(0, 2))
}

func TestSummarize_MalformedOrder(t *testing.T) {
	s := NewSummarizer()
	require.NoError(t, s.Add(1, "acc", map[string]any{"ws": "A", "seed": 1}))

	tests := []struct {
		name string
		opts Options
	}{
		{name: "flat order on two levels", opts: Options{Rows: []string{"ws", "seed"}, RowOrder: order.NewFlat("A")}},
		{name: "levels on one level", opts: Options{Rows: []string{"ws"}, RowOrder: order.NewLevels([]string{"A"}, []string{"1"})}},
		{name: "three levels on two", opts: Options{Rows: []string{"ws", "seed"}, RowOrder: order.NewLevels([]string{"A"}, []string{"1"}, []string{"x"})}},
		{name: "columns", opts: Options{ColumnOrder: order.NewLevels([]string{"acc"}, []string{"x"})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Summarize(tt.opts)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedOrder))
		})
	}
}

func TestSummarize_EmptyResult(t *testing.T) {
	_, err := NewSummarizer().Summarize(Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyResult))

	s := sizeRuns(t)
	_, err = s.Summarize(Options{Filter: TagEquals("ws", "Z")})
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyResult))
}

func TestSummarize_UnsupportedScheme(t *testing.T) {
	s := sizeRuns(t)
	_, err := s.Summarize(Options{Scheme: Scheme{{}}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedScheme))
}

func TestSummarize_Placeholder(t *testing.T) {
	s := NewSummarizer()
	require.NoError(t, s.Add(1, "acc", map[string]any{"ws": "A", "lr": 0.1}))
	require.NoError(t, s.Add(2, "acc", map[string]any{"ws": "B"}))

	tbl, err := s.Summarize(Options{Rows: []string{"ws", "lr"}})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"A", "0.1"}, {"B", DefaultPlaceholder}}, tbl.Rows)

	tbl, err = s.Summarize(Options{Rows: []string{"ws", "lr"}, Placeholder: "n/a"})
	require.NoError(t, err)
	assert.Equal(t, Label{"B", "n/a"}, tbl.Rows[1])
}

func TestSummarize_Filters(t *testing.T) {
	s := NewSummarizer()
	require.NoError(t, s.Add(1, "acc", map[string]any{"ws": "A", "seed": 1, "host:name": "n1"}))
	require.NoError(t, s.Add(3, "acc", map[string]any{"ws": "A", "seed": 2, "host:name": "n2"}))
	require.NoError(t, s.Add(5, "acc", map[string]any{"ws": "B", "seed": 1, "host:name": "n1"}))

	t.Run("where", func(t *testing.T) {
		tbl, err := s.Summarize(Options{
			Rows:   []string{"ws"},
			Filter: Where(func(r Row) bool { return r.Value() > 2 }),
		})
		require.NoError(t, err)
		assert.Equal(t, []Label{{"A"}, {"B"}}, tbl.Rows)
	})

	t.Run("drop tags collapses groups", func(t *testing.T) {
		tbl, err := s.Summarize(Options{
			Filter: Chain(DropTags("host:*", "seed"), TagEquals("ws", "A")),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ws"}, tbl.RowKeys)
		assert.Equal(t, 3.0, cellValue(t, tbl, []string{"A"}, []string{"acc"}))
	})

	t.Run("reserved columns survive", func(t *testing.T) {
		tbl, err := s.Summarize(Options{Columns: []string{"metrics"}, Filter: DropTags("*")})
		require.NoError(t, err)
		assert.Empty(t, tbl.RowKeys)
		assert.Equal(t, 5.0, cellValue(t, tbl, []string{}, []string{"acc"}))
	})

	t.Run("broken filter", func(t *testing.T) {
		_, err := s.Summarize(Options{Filter: func(f *Frame) *Frame {
			return &Frame{Columns: []string{"ws"}, Rows: f.Rows}
		}})
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	})
}

func TestSummarize_GroupDirectionWithoutMetrics(t *testing.T) {
	s := NewSummarizer()
	require.NoError(t, s.Add(0.3, "rmse-", map[string]any{"ws": "A", "seed": 1}))
	require.NoError(t, s.Add(0.2, "rmse-", map[string]any{"ws": "A", "seed": 2}))

	tbl, err := s.Summarize(Options{Rows: []string{"seed"}, Columns: []string{"ws"}})
	require.NoError(t, err)
	assert.Equal(t, 0.3, cellValue(t, tbl, []string{"1"}, []string{"A"}))

	tbl, err = s.Summarize(Options{Rows: []string{}, Columns: []string{"ws"}})
	require.NoError(t, err)
	assert.Equal(t, []Label{{}}, tbl.Rows)
	assert.Equal(t, 0.2, cellValue(t, tbl, []string{}, []string{"A"}))

	require.NoError(t, s.Add(0.9, "acc", map[string]any{"ws": "A", "seed": 1}))
	_, err = s.Summarize(Options{Rows: []string{"seed"}, Columns: []string{"ws"}})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestSummarize_CustomReducer(t *testing.T) {
	s := sizeRuns(t)
	require.NoError(t, s.Add(0.45, "rmse-", map[string]any{"ws": "A", "size": 3}))

	count := Custom("count", func(x any, _ measurement.Direction) (any, error) {
		return len(x.([]float64)), nil
	})
	tbl, err := s.Summarize(Options{Rows: []string{"size"}, Columns: []string{"metrics"}, Scheme: Scheme{count}})
	require.NoError(t, err)
	assert.Equal(t, "2", tbl.CellText(0, 0))
	assert.Equal(t, "1", tbl.CellText(1, 0))
}

func TestSummarize_NumericLabelSort(t *testing.T) {
	s := NewSummarizer()
	for _, size := range []int{10, 9, 100} {
		require.NoError(t, s.Add(1, "acc", map[string]any{"size": size}))
	}
	require.NoError(t, s.Add(1, "acc", map[string]any{"size": "big"}))

	tbl, err := s.Summarize(Options{Rows: []string{"size"}})
	require.NoError(t, err)
	assert.Equal(t, []Label{{"9"}, {"10"}, {"100"}, {"big"}}, tbl.Rows)
}
