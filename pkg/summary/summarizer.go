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
	"log/slog"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

// DirectionPolicy decides what happens when a canonical metric is added with
// a direction different from the one already known.
type DirectionPolicy int

const (
	// LastWriteWins lets the most recent Add override the metric direction.
	LastWriteWins DirectionPolicy = iota
	// RejectConflicts fails the Add with ErrCodeConflict.
	RejectConflicts
)

// String returns the policy name.
func (p DirectionPolicy) String() string {
	if p == RejectConflicts {
		return "reject"
	}
	return "last-write-wins"
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithDirectionPolicy sets how conflicting metric directions are handled.
func WithDirectionPolicy(p DirectionPolicy) Option {
	return func(s *Summarizer) {
		s.policy = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Summarizer accumulates records in memory and reduces them into a Table.
// It is owned by a single goroutine: Add and Summarize must not be called
// concurrently.
type Summarizer struct {
	records    []measurement.Record
	directions map[string]measurement.Direction
	policy     DirectionPolicy
	logger     *slog.Logger
}

// NewSummarizer returns an empty Summarizer.
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{
		directions: make(map[string]measurement.Direction),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of accumulated records.
func (s *Summarizer) Len() int {
	return len(s.records)
}

// Records returns the accumulated records in insertion order.
func (s *Summarizer) Records() []measurement.Record {
	out := make([]measurement.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Direction returns the known direction of a canonical metric.
func (s *Summarizer) Direction(metric string) (measurement.Direction, bool) {
	d, ok := s.directions[metric]
	return d, ok
}

// Add appends a measurement, inferring the direction from the label marker.
func (s *Summarizer) Add(value float64, metricLabel string, tags map[string]any) error {
	return s.AddWithDirection(value, metricLabel, nil, tags)
}

// AddWithDirection appends a measurement. A non-nil descending overrides the
// label marker.
func (s *Summarizer) AddWithDirection(value float64, metricLabel string, descending *bool, tags map[string]any) error {
	rec := measurement.NewRecordBuilder(metricLabel, value).SetAll(tags)
	if descending != nil {
		rec.Descending(*descending)
	}
	return s.AddRecord(rec.Build())
}

// AddRecord appends a record whose metric is already direction-tagged.
func (s *Summarizer) AddRecord(rec measurement.Record) error {
	if err := rec.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid record", err)
	}

	name, dir := measurement.ParseMetric(rec.Metric, nil)
	if prev, ok := s.directions[name]; ok && prev != dir {
		if s.policy == RejectConflicts {
			return errors.NewWithContext(errors.ErrCodeConflict,
				"metric declared with conflicting directions", map[string]any{
					"metric":   name,
					"previous": prev.String(),
					"current":  dir.String(),
				})
		}
		s.logger.Debug("metric direction overridden",
			slog.String("metric", name),
			slog.String("previous", prev.String()),
			slog.String("current", dir.String()))
	}
	s.directions[name] = dir

	rec.Metric = measurement.TagMetric(name, dir)
	s.records = append(s.records, rec)
	return nil
}
