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
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/header"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
	"github.com/NVIDIA/scoreboard/pkg/workspace"
)

// Entry is one measurement of a batch.
type Entry struct {
	Metric     string         `json:"metrics" yaml:"metrics"`
	Value      float64        `json:"value" yaml:"value"`
	Descending *bool          `json:"descending,omitempty" yaml:"descending,omitempty"`
	Tags       map[string]any `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Batch is a RecordBatch document. Collection and Workspace, when set,
// override the importing recorder's.
type Batch struct {
	header.Header `json:",inline" yaml:",inline"`

	Collection string               `json:"collection,omitempty" yaml:"collection,omitempty"`
	Workspace  *workspace.Workspace `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Records    []Entry              `json:"records" yaml:"records"`
}

// NewBatch returns an empty batch for collection.
func NewBatch(collection string) *Batch {
	b := &Batch{Collection: collection}
	b.Init(header.KindRecordBatch, header.APIVersion, "")
	return b
}

// Add appends an entry.
func (b *Batch) Add(value float64, metricLabel string, tags map[string]any) *Batch {
	b.Records = append(b.Records, Entry{Metric: metricLabel, Value: value, Tags: tags})
	return b
}

// Validate checks the batch envelope and its workspace.
func (b *Batch) Validate() error {
	if err := b.Check(header.KindRecordBatch); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid record batch", err)
	}
	if b.Workspace != nil {
		return b.Workspace.Validate()
	}
	return nil
}

// Result summarizes an import.
type Result struct {
	Collection string `json:"collection" yaml:"collection"`
	Workspace  string `json:"workspace" yaml:"workspace"`
	Total      int    `json:"total" yaml:"total"`
	Recorded   int    `json:"recorded" yaml:"recorded"`
}

// Importer records batches concurrently through a Recorder.
type Importer struct {
	recorder    *Recorder
	concurrency int
	limiter     *rate.Limiter
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithConcurrency bounds the number of in-flight inserts.
func WithConcurrency(n int) ImporterOption {
	return func(i *Importer) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithRateLimit throttles inserts to perSecond with the given burst.
// A non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) ImporterOption {
	return func(i *Importer) {
		if perSecond <= 0 {
			i.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		i.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewImporter returns an Importer recording through r.
func NewImporter(r *Recorder, opts ...ImporterOption) *Importer {
	i := &Importer{
		recorder:    r,
		concurrency: defaults.CLIImportConcurrency,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportFile loads a batch from a local path or http(s) URL and records it.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	batch, err := serializer.FromFile[Batch](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"failed to load record batch", err, map[string]any{"path": path})
	}
	slog.Debug("loaded record batch", "path", path, "records", len(batch.Records))
	return i.Import(ctx, batch)
}

// Import records every entry of batch. The first failure cancels the
// remaining inserts; records already inserted stay.
func (i *Importer) Import(ctx context.Context, batch *Batch) (*Result, error) {
	if batch == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "record batch is required")
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		importDuration.Observe(time.Since(start).Seconds())
	}()

	rec := i.recorder.For(batch.Collection)
	if batch.Workspace != nil {
		rec = rec.WithProvider(batch.Workspace)
	}

	res := &Result{
		Collection: rec.Collection(),
		Workspace:  rec.Workspace(),
		Total:      len(batch.Records),
	}

	var recorded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	var waitErr error
	for idx, e := range batch.Records {
		if waitErr = i.wait(gctx); waitErr != nil {
			break
		}
		g.Go(func() error {
			if err := rec.Record(gctx, e.Value, e.Metric, e.Descending, e.Tags); err != nil {
				return fmt.Errorf("record %d: %w", idx, err)
			}
			recorded.Add(1)
			return nil
		})
	}

	err := g.Wait()
	res.Recorded = int(recorded.Load())
	if err == nil && waitErr != nil {
		code := errors.ErrCodeTimeout
		if stderrors.Is(waitErr, context.Canceled) {
			code = errors.ErrCodeUnavailable
		}
		err = errors.WrapWithContext(code, "record batch import stopped early", waitErr,
			map[string]any{"recorded": res.Recorded, "total": res.Total})
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		slog.Error("record batch import failed",
			"collection", res.Collection,
			"recorded", res.Recorded,
			"total", res.Total,
			"error", err)
		return res, err
	}

	slog.Info("imported record batch",
		"collection", res.Collection,
		"ws", res.Workspace,
		"records", res.Recorded,
		"duration", time.Since(start))
	return res, nil
}

func (i *Importer) wait(ctx context.Context) error {
	if i.limiter == nil {
		return ctx.Err()
	}
	start := time.Now()
	err := i.limiter.Wait(ctx)
	importThrottleWait.Add(time.Since(start).Seconds())
	return err
}
