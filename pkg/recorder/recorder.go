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

package recorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/store"
	"github.com/NVIDIA/scoreboard/pkg/workspace"
)

// DefaultCollection receives records when no collection is configured.
const DefaultCollection = "default"

// Recorder inserts measurements into a store. It is safe for concurrent use.
type Recorder struct {
	store      store.Store
	provider   workspace.Provider
	collection string
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
	exclude    []string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCollection sets the collection records are written to.
func WithCollection(name string) Option {
	return func(r *Recorder) {
		r.collection = name
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the function producing record IDs.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithExcludedTags drops tag keys matching any of the wildcard patterns
// before a record is stored. The workspace identity tag is always kept.
func WithExcludedTags(patterns ...string) Option {
	return func(r *Recorder) {
		r.exclude = append(r.exclude, patterns...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Recorder writing to st. A nil provider records under the
// default workspace.
func New(st store.Store, provider workspace.Provider, opts ...Option) (*Recorder, error) {
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "store is required")
	}
	if provider == nil {
		provider = workspace.New("")
	}

	r := &Recorder{
		store:      st,
		provider:   provider,
		collection: DefaultCollection,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "collection name is required")
	}
	return r, nil
}

// Collection returns the target collection.
func (r *Recorder) Collection() string {
	return r.collection
}

// Workspace returns the workspace identity stamped on records.
func (r *Recorder) Workspace() string {
	return r.provider.Identity()
}

// For returns a Recorder sharing r's store and workspace that writes to
// collection. An empty name keeps r's collection.
func (r *Recorder) For(collection string) *Recorder {
	c := *r
	if collection != "" {
		c.collection = collection
	}
	return &c
}

// WithProvider returns a Recorder sharing r's store and collection that
// stamps records with provider.
func (r *Recorder) WithProvider(provider workspace.Provider) *Recorder {
	c := *r
	if provider != nil {
		c.provider = provider
	}
	return &c
}

// Build returns the record Record would insert.
func (r *Recorder) Build(value float64, metricLabel string, descending *bool, tags map[string]any) (measurement.Record, error) {
	name, dir := measurement.ParseMetric(metricLabel, descending)
	if name == "" {
		return measurement.Record{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"metric name is required", map[string]any{"label": metricLabel})
	}

	b := measurement.NewRecordBuilder(name, value).
		Descending(dir.Descending()).
		WithID(r.newID()).
		At(r.now().UTC()).
		SetAll(workspace.Tags(r.provider)).
		SetAll(tags).
		SetString(measurement.KeyWorkspace, r.provider.Identity())

	rec := b.Build()
	if len(r.exclude) > 0 {
		rec.Tags = measurement.FilterOut(rec.Tags, r.exclude)
		rec.Tags[measurement.KeyWorkspace] = measurement.Str(r.provider.Identity())
	}
	if err := rec.Validate(); err != nil {
		return measurement.Record{}, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid record", err)
	}
	return rec, nil
}

// Record inserts one measurement. descending overrides the direction marker
// of metricLabel when set.
func (r *Recorder) Record(ctx context.Context, value float64, metricLabel string, descending *bool, tags map[string]any) error {
	rec, err := r.Build(value, metricLabel, descending, tags)
	if err != nil {
		recordsTotal.WithLabelValues(r.collection, statusError).Inc()
		return err
	}

	if err := r.store.Insert(ctx, r.collection, rec); err != nil {
		recordsTotal.WithLabelValues(r.collection, statusError).Inc()
		code := errors.CodeOf(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return errors.WrapWithContext(code, "failed to record measurement", err,
			map[string]any{"collection": r.collection, "metric": rec.Metric})
	}

	recordsTotal.WithLabelValues(r.collection, statusSuccess).Inc()
	r.logger.Debug("recorded measurement",
		"collection", r.collection,
		"metric", rec.Metric,
		"value", rec.Value,
		"ws", r.provider.Identity())
	return nil
}
