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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridFields(out string) [][]string {
	var lines [][]string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		lines = append(lines, strings.Fields(line))
	}
	return lines
}

func TestWriteGridText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGridText(&buf, sampleGrid()))

	assert.Equal(t, [][]string{
		{"metrics", "acc", "rmse"},
		{"size"},
		{"1", "0.80±0.02", "NaN"},
		{"2", "0.90", "0.12"},
	}, gridFields(buf.String()))
}

func TestWriteGridText_MultiLevelColumns(t *testing.T) {
	g := testGrid{
		rowKeys: []string{"size"},
		colKeys: []string{"metrics", "model"},
		rows:    [][]string{{"1"}},
		cols:    [][]string{{"acc", "lr"}, {"acc", "svm"}},
		cells:   [][]string{{"0.7", "0.8"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeGridText(&buf, g))

	assert.Equal(t, [][]string{
		{"metrics", "acc", "acc"},
		{"model", "lr", "svm"},
		{"size"},
		{"1", "0.7", "0.8"},
	}, gridFields(buf.String()))
}

func TestWriteGridText_NoRowKeys(t *testing.T) {
	g := testGrid{
		colKeys: []string{"metrics"},
		rows:    [][]string{{}},
		cols:    [][]string{{"acc"}},
		cells:   [][]string{{"0.9"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeGridText(&buf, g))

	assert.Equal(t, [][]string{
		{"metrics", "acc"},
		{"0.9"},
	}, gridFields(buf.String()))
}

func TestWriteGridHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGridHTML(&buf, sampleGrid()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<table border=\"1\" class=\"dataframe\">"))
	assert.Contains(t, out, "<th>metrics</th>")
	assert.Contains(t, out, "<th>size</th>")
	assert.Contains(t, out, "<th>1</th>")
	assert.Contains(t, out, "<td>0.80±0.02</td>")
	assert.Contains(t, out, "<td>NaN</td>")
	assert.Equal(t, 4, strings.Count(out, "<tr>"))
}

func TestWriteGridLaTeX(t *testing.T) {
	g := sampleGrid()
	g.cells[0][0] = `0.80$\pm$0.02`

	var buf bytes.Buffer
	require.NoError(t, writeGridLaTeX(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\\begin{tabular}{lrr}\n\\toprule\n"))
	assert.Contains(t, out, "metrics & acc & rmse \\\\\n")
	assert.Contains(t, out, "size &  &  \\\\\n")
	assert.Contains(t, out, "\\midrule\n1 & 0.80$\\pm$0.02 & NaN \\\\\n")
	assert.True(t, strings.HasSuffix(out, "\\bottomrule\n\\end{tabular}\n"))
}
