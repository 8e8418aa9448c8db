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

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/scoreboard/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		wantFlat   []string
		wantLevels [][]string
	}{
		{
			name:     "no separator",
			tokens:   []string{"H1", "H2"},
			wantFlat: []string{"H1", "H2"},
		},
		{
			name:       "two levels",
			tokens:     []string{"H1", "H2", "_", "h1", "h2"},
			wantLevels: [][]string{{"H1", "H2"}, {"h1", "h2"}},
		},
		{
			name:       "three levels",
			tokens:     []string{"a", "_", "b", "c", "_", "d"},
			wantLevels: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name:       "trailing separator keeps empty level",
			tokens:     []string{"H1", "H2", "_"},
			wantLevels: [][]string{{"H1", "H2"}, {}},
		},
		{
			name:       "leading separator keeps empty level",
			tokens:     []string{"_", "h1"},
			wantLevels: [][]string{{}, {"h1"}},
		},
		{
			name:       "separator only",
			tokens:     []string{"_"},
			wantLevels: [][]string{{}, {}},
		},
		{
			name:     "single label",
			tokens:   []string{"5"},
			wantFlat: []string{"5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.tokens)
			require.NoError(t, err)
			if tt.wantLevels != nil {
				require.True(t, spec.IsMultiLevel())
				require.Len(t, spec.Levels, len(tt.wantLevels))
				for i := range tt.wantLevels {
					assert.ElementsMatch(t, tt.wantLevels[i], spec.Levels[i], "level %d", i)
					assert.Len(t, spec.Levels[i], len(tt.wantLevels[i]))
				}
				return
			}
			assert.False(t, spec.IsMultiLevel())
			assert.Equal(t, tt.wantFlat, spec.Flat)
		})
	}
}

func TestParse_PreservesOrder(t *testing.T) {
	spec, err := Parse([]string{"5", "3", "4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3", "4"}, spec.Flat)
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	tokens := []string{"a", "_", "b"}
	spec, err := Parse(tokens)
	require.NoError(t, err)
	spec.Levels[0] = append(spec.Levels[0], "x")
	assert.Equal(t, []string{"a", "_", "b"}, tokens)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedOrder))
}

func TestParseWithSeparator(t *testing.T) {
	spec, err := ParseWithSeparator([]string{"a", "/", "b"}, "/")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, spec.Levels)

	_, err = ParseWithSeparator([]string{"a"}, "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedOrder))
}

func TestSpec_Labels(t *testing.T) {
	flat := NewFlat("5", "3", "4")
	assert.Equal(t, 1, flat.Depth())
	assert.Equal(t, [][]string{{"5"}, {"3"}, {"4"}}, flat.Labels())

	multi := NewLevels([]string{"A", "B"}, []string{"1", "2"})
	assert.Equal(t, 2, multi.Depth())
	assert.Equal(t, [][]string{{"A", "1"}, {"A", "2"}, {"B", "1"}, {"B", "2"}}, multi.Labels())
}

func TestSpec_LabelsWithEmptyLevel(t *testing.T) {
	spec, err := Parse([]string{"A", "B", "_"})
	require.NoError(t, err)
	assert.Empty(t, spec.Labels())
}

func TestSpec_String(t *testing.T) {
	assert.Equal(t, "H1 H2", NewFlat("H1", "H2").String())
	assert.Equal(t, "H1 H2 _ h1", NewLevels([]string{"H1", "H2"}, []string{"h1"}).String())
}

func TestProduct(t *testing.T) {
	assert.Nil(t, Product(nil))
	got := Product([][]string{{"a", "b"}, {"x"}, {"1", "2"}})
	assert.Equal(t, [][]string{
		{"a", "x", "1"}, {"a", "x", "2"},
		{"b", "x", "1"}, {"b", "x", "2"},
	}, got)
}
