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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/workspace"
)

// run executes the root command against a temporary SQLite database.
func run(t *testing.T, db string, args ...string) error {
	t.Helper()
	argv := append([]string{name, "--db", db, "--log-level", "error"}, args...)
	return NewCommand().Run(context.Background(), argv)
}

type summaryDoc struct {
	Kind  string `json:"kind"`
	Table struct {
		RowKeys    []string   `json:"rowKeys"`
		ColumnKeys []string   `json:"columnKeys"`
		Rows       [][]string `json:"rows"`
		Columns    [][]string `json:"columns"`
		Cells      [][]any    `json:"cells"`
	} `json:"table"`
}

func readSummary(t *testing.T, path string) summaryDoc {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc summaryDoc
	require.NoError(t, json.Unmarshal(data, &doc), string(data))
	return doc
}

func TestCommands_RecordAndSummarize(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scores.db")

	require.NoError(t, run(t, db, "record", "-c", "runs", "-w", "ws/lstm-1", "rmse-", "0.5"))
	require.NoError(t, run(t, db, "record", "-c", "runs", "-w", "ws/lstm-1", "rmse-", "0.45"))
	require.NoError(t, run(t, db, "record", "-c", "runs", "-w", "ws/gru-1", "--tag", "split=val", "rmse-", "0.4"))
	require.NoError(t, run(t, db, "record", "-c", "runs", "-w", "ws/gru-1", "acc", "0.8"))

	out := filepath.Join(dir, "summary.json")
	require.NoError(t, run(t, db, "summarize", "-c", "runs",
		"--rows", "ws", "--columns", "metrics", "--output", "json", "--out", out))

	doc := readSummary(t, out)
	assert.Equal(t, "Summary", doc.Kind)
	assert.Equal(t, []string{"ws"}, doc.Table.RowKeys)
	assert.Equal(t, [][]string{{"ws/gru-1"}, {"ws/lstm-1"}}, doc.Table.Rows)
	assert.Equal(t, [][]string{{"acc"}, {"rmse"}}, doc.Table.Columns)
	assert.Equal(t, [][]any{{0.8, 0.4}, {nil, 0.45}}, doc.Table.Cells)

	latex := filepath.Join(dir, "summary.tex")
	require.NoError(t, run(t, db, "summarize", "-c", "runs",
		"--rows", "ws", "--columns", "metrics", "--column-selection", "rmse",
		"--scheme", "mean_with_error", "--float-format", ".3f",
		"--regex", "lstm", "--output", "latex", "--out", latex))

	data, err := os.ReadFile(latex)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\begin{tabular}`)
	assert.Contains(t, string(data), `0.475$\pm$0.035`)
}

func TestCommands_SummarizeErrors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scores.db")
	require.NoError(t, run(t, db, "record", "-c", "runs", "-w", "ws/a", "rmse-", "0.5"))

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"empty result", []string{"summarize", "-c", "other"}, errors.ErrCodeEmptyResult},
		{"unsupported scheme", []string{"summarize", "-c", "runs", "--scheme", "median"}, errors.ErrCodeUnsupportedScheme},
		{"malformed order", []string{"summarize", "-c", "runs", "--row-selection", "a,_,b"}, errors.ErrCodeMalformedOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, db, append(tt.args, "--out", filepath.Join(dir, "out.txt"))...)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}

	assert.Error(t, run(t, db, "summarize"))
	assert.Error(t, run(t, db, "summarize", "-c", "runs", "--output", "pdf"))
}

func TestCommands_SummarizeSelectionValues(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scores.db")
	for i, ws := range []string{"a", "b", "c"} {
		require.NoError(t, run(t, db, "record", "-c", "runs", "-w", ws, "acc", fmt.Sprintf("0.%d", i+1)))
	}

	out := filepath.Join(dir, "summary.json")
	base := []string{"summarize", "-c", "runs", "--rows", "ws", "--output", "json", "--out", out}

	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{"comma separated", []string{"--row-selection", "c,a,b"}, [][]string{{"c"}, {"a"}, {"b"}}},
		{"repeated flag", []string{"--row-selection", "b", "--row-selection", "a"}, [][]string{{"b"}, {"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, run(t, db, append(base, tt.args...)...))
			assert.Equal(t, tt.want, readSummary(t, out).Table.Rows)
		})
	}

	t.Run("space separated values are rejected", func(t *testing.T) {
		err := run(t, db, append(base, "--row-selection", "c", "a", "b")...)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest), "got %v", err)
		assert.Contains(t, err.Error(), "unexpected arguments")
	})

	t.Run("workspace rejects stray settings", func(t *testing.T) {
		err := run(t, db, "workspace", "--set", "train:lr=0.1", "model:layers=2",
			"--out", filepath.Join(dir, "ws.yaml"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest), "got %v", err)
	})
}

func TestCommands_WorkspaceAndImport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scores.db")
	wsFile := filepath.Join(dir, "ws.yaml")

	require.NoError(t, run(t, db, "workspace", "--id", "ws/lstm-1",
		"--set", "train:lr=0.01", "--set", "model:cell=lstm", "--out", wsFile))

	ws, err := workspace.Load(wsFile)
	require.NoError(t, err)
	assert.Equal(t, "ws/lstm-1", ws.Identity())
	assert.Equal(t, []string{"model:cell", "train:lr"}, workspace.Keys(ws))

	batch := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(batch, []byte(`kind: RecordBatch
collection: runs
records:
  - metrics: rmse-
    value: 0.5
  - metrics: rmse-
    value: 0.3
  - metrics: acc
    value: 0.7
`), 0o600))

	results := filepath.Join(dir, "results.json")
	require.NoError(t, run(t, db, "import", "--workspace-file", wsFile,
		"--concurrency", "2", "--rate", "1000", "--burst", "10",
		"--output", "json", "--out", results, batch))

	data, err := os.ReadFile(results)
	require.NoError(t, err)
	var res []map[string]any
	require.NoError(t, json.Unmarshal(data, &res))
	require.Len(t, res, 1)
	assert.Equal(t, "runs", res[0]["collection"])
	assert.Equal(t, "ws/lstm-1", res[0]["workspace"])
	assert.EqualValues(t, 3, res[0]["recorded"])

	out := filepath.Join(dir, "summary.json")
	require.NoError(t, run(t, db, "summarize", "-c", "runs",
		"--rows", "train:lr", "--columns", "metrics", "--output", "json", "--out", out))

	doc := readSummary(t, out)
	assert.Equal(t, [][]string{{"0.01"}}, doc.Table.Rows)
	assert.Equal(t, [][]any{{0.7, 0.3}}, doc.Table.Cells)
}

func TestCommands_ImportErrors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scores.db")

	assert.Error(t, run(t, db, "import"))
	assert.Error(t, run(t, db, "import", filepath.Join(dir, "missing.yaml")))
	assert.Error(t, run(t, db, "import", "--output", "html", filepath.Join(dir, "missing.yaml")))
}

func TestCommands_RecordErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scores.db")

	assert.Error(t, run(t, db, "record", "rmse-"))
	assert.Error(t, run(t, db, "record", "rmse-", "high"))
	assert.Error(t, run(t, db, "record", "-", "0.5"))
}
