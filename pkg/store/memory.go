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

package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

const backendMemory = "memory"

type memoryEntry struct {
	seq uint64
	rec measurement.Record
}

// Memory is an in-memory Store.
type Memory struct {
	mu          sync.RWMutex
	seq         uint64
	closed      bool
	collections map[string][]memoryEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]memoryEntry)}
}

// Insert implements Store.
func (m *Memory) Insert(ctx context.Context, collection string, rec measurement.Record) error {
	defer observe(backendMemory, opInsert, time.Now())
	if err := checkInsert(collection, rec); err != nil {
		return countErr(backendMemory, opInsert, err)
	}
	if err := ctx.Err(); err != nil {
		return countErr(backendMemory, opInsert, err)
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.collections[collection] = append(m.collections[collection], memoryEntry{seq: m.seq, rec: rec})
	return countErr(backendMemory, opInsert, nil)
}

// Find implements Store.
func (m *Memory) Find(ctx context.Context, q Query) ([]measurement.Record, error) {
	defer observe(backendMemory, opFind, time.Now())
	entries, err := m.matching(ctx, q)
	if err != nil {
		return nil, countErr(backendMemory, opFind, err)
	}
	return recordsOf(entries), countErr(backendMemory, opFind, nil)
}

// LatestPerGroup implements Store.
func (m *Memory) LatestPerGroup(ctx context.Context, q Query, groupKey string) ([]measurement.Record, error) {
	defer observe(backendMemory, opLatest, time.Now())
	entries, err := m.matching(ctx, q)
	if err != nil {
		return nil, countErr(backendMemory, opLatest, err)
	}

	return recordsOf(latestEntries(entries, groupKey)), countErr(backendMemory, opLatest, nil)
}

// Ping implements Store. It fails once the store is closed.
func (m *Memory) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "record store ping canceled", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errors.NewWithContext(errors.ErrCodeUnavailable, "record store is closed",
			map[string]any{"backend": backendMemory})
	}
	return nil
}

// Close implements Store. Records stay readable; only Ping reports the closed state.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) matching(ctx context.Context, q Query) ([]memoryEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterEntries(m.collections[q.Collection], q), nil
}

func filterEntries(entries []memoryEntry, q Query) []memoryEntry {
	var out []memoryEntry
	for _, e := range entries {
		if q.Matches(e.rec) {
			out = append(out, e)
		}
	}
	return out
}

// latestEntries keeps the last entry per group value by time, then sequence,
// and returns them in sequence order.
func latestEntries(entries []memoryEntry, groupKey string) []memoryEntry {
	latest := make(map[string]memoryEntry)
	for _, e := range entries {
		key := groupValue(e.rec, groupKey)
		prev, ok := latest[key]
		if !ok || !e.rec.Time.Before(prev.rec.Time) {
			latest[key] = e
		}
	}

	out := make([]memoryEntry, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b memoryEntry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

func recordsOf(entries []memoryEntry) []measurement.Record {
	out := make([]measurement.Record, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

// entriesOf wraps records already in insertion order.
func entriesOf(recs []measurement.Record) []memoryEntry {
	out := make([]memoryEntry, len(recs))
	for i, r := range recs {
		out[i] = memoryEntry{seq: uint64(i), rec: r}
	}
	return out
}

// groupValue returns the grouping value of rec. Records without the tag
// share one group.
func groupValue(rec measurement.Record, key string) string {
	if v := rec.Tag(key); v != nil {
		return v.String()
	}
	return "\x00"
}
