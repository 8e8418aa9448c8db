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
	"context"
	"strings"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

// DSN schemes understood by Open.
const (
	SchemeMemory = "mem://"
	SchemeSQLite = "sqlite://"
)

// DefaultDSN is used when no store is configured.
const DefaultDSN = "scoreboard.db"

// Query selects records of one collection. Tags restricts the result to
// records whose tag renders exactly as the given string.
type Query struct {
	Collection string
	Tags       map[string]string
}

// Matches reports whether rec satisfies the tag filter of q.
func (q Query) Matches(rec measurement.Record) bool {
	for k, want := range q.Tags {
		got := rec.Tag(k)
		if got == nil || got.String() != want {
			return false
		}
	}
	return true
}

// Validate checks the query names a collection.
func (q Query) Validate() error {
	if q.Collection == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "collection name is required")
	}
	return nil
}

// Store is a record store. Implementations are safe for concurrent use.
type Store interface {
	// Insert adds one record to collection.
	Insert(ctx context.Context, collection string, rec measurement.Record) error
	// Find returns the matching records in insertion order.
	Find(ctx context.Context, q Query) ([]measurement.Record, error)
	// LatestPerGroup returns, for each distinct value of tag groupKey among
	// the matching records, the last one by time then insertion order.
	// Records without the tag form their own group.
	LatestPerGroup(ctx context.Context, q Query, groupKey string) ([]measurement.Record, error)
	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
	// Close releases the store.
	Close() error
}

// Open returns the store addressed by dsn: "mem://" for an in-memory store,
// "sqlite://<path>" or a bare path for SQLite.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return OpenSQLite(ctx, DefaultDSN)
	case strings.HasPrefix(dsn, SchemeMemory):
		return NewMemory(), nil
	case strings.HasPrefix(dsn, SchemeSQLite):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, SchemeSQLite))
	case strings.Contains(dsn, "://"):
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"unsupported store scheme", map[string]any{"dsn": dsn})
	}
	return OpenSQLite(ctx, dsn)
}

func checkInsert(collection string, rec measurement.Record) error {
	if collection == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "collection name is required")
	}
	if err := rec.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid record", err)
	}
	return nil
}
