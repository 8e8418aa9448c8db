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

package measurement

import "strings"

// Direction tells whether larger or smaller values of a metric are better.
type Direction int

const (
	// HigherIsBetter marks metrics such as accuracy. It is the default.
	HigherIsBetter Direction = iota
	// LowerIsBetter marks metrics such as error rates or losses.
	LowerIsBetter
)

// Direction markers appended to metric labels.
const (
	MarkerHigher = "+"
	MarkerLower  = "-"
)

// String returns the marker of the direction.
func (d Direction) String() string {
	if d == LowerIsBetter {
		return MarkerLower
	}
	return MarkerHigher
}

// Descending reports whether the metric was declared descending, i.e. lower
// values rank first.
func (d Direction) Descending() bool {
	return d == LowerIsBetter
}

// DirectionOf converts an explicit descending flag into a Direction.
func DirectionOf(descending bool) Direction {
	if descending {
		return LowerIsBetter
	}
	return HigherIsBetter
}

// ParseMetric splits a metric label into its canonical name and direction.
// An explicit descending flag wins over the label's trailing marker; without
// one a trailing "-" means lower-is-better and anything else higher-is-better.
// All trailing markers are stripped from the canonical name.
func ParseMetric(label string, descending *bool) (string, Direction) {
	name := strings.TrimRight(label, MarkerHigher+MarkerLower)
	if descending != nil {
		return name, DirectionOf(*descending)
	}
	return name, DirectionOf(strings.HasSuffix(label, MarkerLower))
}

// TagMetric returns the stored, direction-tagged form of a metric name.
func TagMetric(name string, d Direction) string {
	return name + d.String()
}

// NormalizeMetric resolves a raw label into its stored, direction-tagged form.
func NormalizeMetric(label string, descending *bool) string {
	name, d := ParseMetric(label, descending)
	return TagMetric(name, d)
}
