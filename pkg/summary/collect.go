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
	"regexp"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/store"
)

// CollectOptions select the records fed into a Summarizer.
type CollectOptions struct {
	Collection string
	// Regex keeps records whose workspace tag matches (unanchored).
	Regex string
	// Last keeps only the latest record of each workspace.
	Last bool
	// Tags restricts retrieval to exact tag values.
	Tags map[string]string
}

// Collect retrieves records from st and adds them to a new Summarizer.
func Collect(ctx context.Context, st store.Store, opts CollectOptions, sopts ...Option) (*Summarizer, error) {
	var re *regexp.Regexp
	if opts.Regex != "" {
		var err error
		if re, err = regexp.Compile(opts.Regex); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid workspace regex", err,
				map[string]any{"regex": opts.Regex})
		}
	}

	q := store.Query{Collection: opts.Collection, Tags: opts.Tags}
	var (
		recs []measurement.Record
		err  error
	)
	if opts.Last {
		recs, err = st.LatestPerGroup(ctx, q, measurement.KeyWorkspace)
	} else {
		recs, err = st.Find(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	s := NewSummarizer(sopts...)
	for _, rec := range recs {
		if re != nil {
			ws := rec.Tag(measurement.KeyWorkspace)
			if ws == nil || !re.MatchString(ws.String()) {
				continue
			}
		}
		if err := s.AddRecord(rec); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("collected records",
		slog.String("collection", opts.Collection),
		slog.Int("retrieved", len(recs)),
		slog.Int("kept", s.Len()),
		slog.Bool("last", opts.Last))
	return s, nil
}
