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
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"runs.json", FormatJSON},
		{"RUNS.JSON", FormatJSON},
		{"ws.yaml", FormatYAML},
		{"ws.yml", FormatYAML},
		{"out.txt", FormatTable},
		{"out.html", FormatHTML},
		{"paper.tex", FormatLaTeX},
		{"noext", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader_RejectsWriteOnlyFormats(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatHTML, FormatLaTeX, Format("xml")} {
		_, err := NewReader(f, strings.NewReader(""))
		assert.Error(t, err, f)
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		want   testConfig
	}{
		{"json", FormatJSON, `{"name":"a","value":1}`, testConfig{"a", 1}},
		{"yaml", FormatYAML, "name: b\nvalue: 2\n", testConfig{"b", 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			require.NoError(t, err)
			defer r.Close()

			var got testConfig
			require.NoError(t, r.Deserialize(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_DeserializeJSONNumbers(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`{"seed": 3, "lr": 0.1}`))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "3", fmt.Sprint(got["seed"]))
	assert.Equal(t, "0.1", fmt.Sprint(got["lr"]))
}

func TestReader_NilChecks(t *testing.T) {
	var r *Reader
	assert.Error(t, r.Deserialize(&testConfig{}))
	assert.NoError(t, r.Close())

	r, err := NewReader(FormatJSON, nil)
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&testConfig{}))
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\nvalue: 5\n"), 0600))

	got, err := FromFile[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, testConfig{"file", 5}, *got)

	_, err = FromFile[testConfig](filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = FromFile[testConfig](bad)
	assert.Error(t, err)
}

func TestFromFile_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"name":"remote","value":8}`)
	}))
	defer srv.Close()

	got, err := FromFile[testConfig](srv.URL + "/cfg.json")
	require.NoError(t, err)
	assert.Equal(t, testConfig{"remote", 8}, *got)
}
