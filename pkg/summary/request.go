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
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/order"
	"github.com/NVIDIA/scoreboard/pkg/store"
)

// Request is a summarize invocation in the string form used by the command
// line and the HTTP endpoint. Nil Rows or Columns are inferred.
type Request struct {
	Collection      string            `json:"collection" yaml:"collection"`
	Rows            []string          `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns         []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	RowSelection    []string          `json:"rowSelection,omitempty" yaml:"rowSelection,omitempty"`
	ColumnSelection []string          `json:"columnSelection,omitempty" yaml:"columnSelection,omitempty"`
	Scheme          string            `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	TopK            int               `json:"topk,omitempty" yaml:"topk,omitempty"`
	Regex           string            `json:"regex,omitempty" yaml:"regex,omitempty"`
	FloatFormat     string            `json:"floatFormat,omitempty" yaml:"floatFormat,omitempty"`
	LaTeX           bool              `json:"latex,omitempty" yaml:"latex,omitempty"`
	Last            bool              `json:"last,omitempty" yaml:"last,omitempty"`
	DropTags        []string          `json:"dropTags,omitempty" yaml:"dropTags,omitempty"`
	Tags            map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Reindex         string            `json:"reindex,omitempty" yaml:"reindex,omitempty"`
	Placeholder     string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// StrictDirections rejects a metric recorded with conflicting directions
	// instead of letting the latest record win.
	StrictDirections bool `json:"strictDirections,omitempty" yaml:"strictDirections,omitempty"`
}

// Options resolves r into collection and summarize options.
func (r Request) Options() (CollectOptions, Options, error) {
	if r.Collection == "" {
		return CollectOptions{}, Options{}, errors.New(errors.ErrCodeInvalidRequest, "collection name is required")
	}

	name := r.Scheme
	if name == "" {
		name = SchemeBest
	}
	scheme, err := ParseScheme(name, r.FloatFormat, r.LaTeX)
	if err != nil {
		return CollectOptions{}, Options{}, err
	}

	mode, err := ParseReindexMode(r.Reindex)
	if err != nil {
		return CollectOptions{}, Options{}, err
	}

	opts := Options{
		Rows:        r.Rows,
		Columns:     r.Columns,
		Scheme:      scheme,
		TopK:        r.TopK,
		Reindex:     mode,
		Placeholder: r.Placeholder,
	}
	if len(r.RowSelection) > 0 {
		if opts.RowOrder, err = order.Parse(r.RowSelection); err != nil {
			return CollectOptions{}, Options{}, err
		}
	}
	if len(r.ColumnSelection) > 0 {
		if opts.ColumnOrder, err = order.Parse(r.ColumnSelection); err != nil {
			return CollectOptions{}, Options{}, err
		}
	}
	if len(r.DropTags) > 0 {
		opts.Filter = DropTags(r.DropTags...)
	}

	copts := CollectOptions{
		Collection: r.Collection,
		Regex:      r.Regex,
		Last:       r.Last,
		Tags:       r.Tags,
	}
	return copts, opts, nil
}

// Execute collects the records of r from st, summarizes them and wraps the
// table in a Summary document stamped with version.
func (r Request) Execute(ctx context.Context, st store.Store, version string, sopts ...Option) (*Document, error) {
	copts, opts, err := r.Options()
	if err != nil {
		return nil, err
	}

	if r.StrictDirections {
		sopts = append([]Option{WithDirectionPolicy(RejectConflicts)}, sopts...)
	}

	start := time.Now()
	s, err := Collect(ctx, st, copts, sopts...)
	if err != nil {
		return nil, err
	}

	tbl, err := s.Summarize(opts)
	if err != nil {
		return nil, err
	}

	slog.Debug("summarized collection",
		"collection", r.Collection,
		"records", s.Len(),
		"rows", len(tbl.Rows),
		"columns", len(tbl.Columns),
		"duration", time.Since(start))
	return NewDocument(r.Collection, opts.Scheme, tbl, version), nil
}
