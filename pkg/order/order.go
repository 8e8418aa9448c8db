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

// Package order parses explicit label orderings used to reindex summary tables.
//
// A selection is a flat token list in which a reserved separator token ("_")
// splits per-level groups:
//
//	Parse([]string{"H1", "H2"})                 // flat: [H1 H2]
//	Parse([]string{"H1", "H2", "_", "h1", "h2"}) // levels: [[H1 H2] [h1 h2]]
//
// A multi-level Spec targets the cartesian product of its levels, in level
// order: [[A B] [1 2]] expands to (A,1) (A,2) (B,1) (B,2).
//
// A selection ending with the separator yields a trailing empty level, which
// expands to no labels at all.
package order

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/scoreboard/pkg/errors"
)

// Separator is the reserved token splitting ordering levels.
const Separator = "_"

// Spec is a parsed ordering: either a single flat list or a list of levels.
type Spec struct {
	Flat   []string   `json:"flat,omitempty" yaml:"flat,omitempty"`
	Levels [][]string `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// NewFlat returns a single-level Spec.
func NewFlat(labels ...string) *Spec {
	return &Spec{Flat: labels}
}

// NewLevels returns a multi-level Spec.
func NewLevels(levels ...[]string) *Spec {
	return &Spec{Levels: levels}
}

// Parse splits tokens on the default separator.
func Parse(tokens []string) (*Spec, error) {
	return ParseWithSeparator(tokens, Separator)
}

// ParseWithSeparator splits tokens on every occurrence of sep. Each run between
// separators, including a trailing empty run, becomes one level.
func ParseWithSeparator(tokens []string, sep string) (*Spec, error) {
	if len(tokens) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedOrder, "order selection is empty")
	}
	if sep == "" {
		return nil, errors.New(errors.ErrCodeMalformedOrder, "order separator is empty")
	}

	var levels [][]string
	lo := 0
	for i, tok := range tokens {
		if tok == sep {
			levels = append(levels, tokens[lo:i:i])
			lo = i + 1
		}
	}
	levels = append(levels, tokens[lo:])

	if len(levels) == 1 {
		return &Spec{Flat: levels[0]}, nil
	}
	return &Spec{Levels: levels}, nil
}

// IsMultiLevel reports whether the Spec holds per-level groups.
func (s *Spec) IsMultiLevel() bool {
	return len(s.Levels) > 0
}

// Depth returns the number of label levels the Spec targets.
func (s *Spec) Depth() int {
	if s.IsMultiLevel() {
		return len(s.Levels)
	}
	return 1
}

// Labels expands the Spec into label tuples. A flat Spec yields one-element
// tuples; a multi-level Spec yields the cartesian product of its levels.
func (s *Spec) Labels() [][]string {
	if !s.IsMultiLevel() {
		out := make([][]string, len(s.Flat))
		for i, l := range s.Flat {
			out[i] = []string{l}
		}
		return out
	}
	return Product(s.Levels)
}

// String renders the Spec back into its token form.
func (s *Spec) String() string {
	if !s.IsMultiLevel() {
		return strings.Join(s.Flat, " ")
	}
	parts := make([]string, len(s.Levels))
	for i, l := range s.Levels {
		parts[i] = strings.Join(l, " ")
	}
	return strings.Join(parts, fmt.Sprintf(" %s ", Separator))
}

// Product returns the cartesian product of levels, varying the last level fastest.
func Product(levels [][]string) [][]string {
	if len(levels) == 0 {
		return nil
	}
	out := [][]string{{}}
	for _, level := range levels {
		next := make([][]string, 0, len(out)*len(level))
		for _, prefix := range out {
			for _, l := range level {
				tuple := make([]string, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, l))
			}
		}
		out = next
	}
	return out
}
