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

package serializer

import (
	"context"
	"testing"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// testGrid is a 2x2 table with one row key and one column key.
type testGrid struct {
	rowKeys []string
	colKeys []string
	rows    [][]string
	cols    [][]string
	cells   [][]string
}

func (g testGrid) RowHeader() []string      { return g.rowKeys }
func (g testGrid) ColumnHeader() []string   { return g.colKeys }
func (g testGrid) RowLabels() [][]string    { return g.rows }
func (g testGrid) ColumnLabels() [][]string { return g.cols }
func (g testGrid) CellText(i, j int) string { return g.cells[i][j] }

func sampleGrid() testGrid {
	return testGrid{
		rowKeys: []string{"size"},
		colKeys: []string{"metrics"},
		rows:    [][]string{{"1"}, {"2"}},
		cols:    [][]string{{"acc"}, {"rmse"}},
		cells: [][]string{
			{"0.80±0.02", "NaN"},
			{"0.90", "0.12"},
		},
	}
}

var _ Grid = testGrid{}

func mustSerialize(t *testing.T, w *Writer, v any) {
	t.Helper()
	if err := w.Serialize(context.Background(), v); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
}
