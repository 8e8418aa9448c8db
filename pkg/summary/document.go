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
	"github.com/NVIDIA/scoreboard/pkg/header"
)

// Document wraps a Table with the envelope written by the command line and
// the HTTP endpoint.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Collection string `json:"collection" yaml:"collection"`
	Scheme     string `json:"scheme" yaml:"scheme"`
	Table      *Table `json:"table" yaml:"table"`
}

// NewDocument returns a Summary document for t.
func NewDocument(collection string, scheme Scheme, t *Table, version string) *Document {
	d := &Document{
		Collection: collection,
		Scheme:     scheme.String(),
		Table:      t,
	}
	d.Init(header.KindSummary, header.APIVersion, version)
	return d
}

// RowHeader returns the row grouping keys.
func (d *Document) RowHeader() []string { return d.Table.RowHeader() }

// ColumnHeader returns the column grouping keys.
func (d *Document) ColumnHeader() []string { return d.Table.ColumnHeader() }

// RowLabels returns the row labels.
func (d *Document) RowLabels() [][]string { return d.Table.RowLabels() }

// ColumnLabels returns the column labels.
func (d *Document) ColumnLabels() [][]string { return d.Table.ColumnLabels() }

// CellText returns the display form of cell (i, j).
func (d *Document) CellText(i, j int) string { return d.Table.CellText(i, j) }
