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
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

const backendSQLite = "sqlite"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT    NOT NULL,
	collection  TEXT    NOT NULL,
	recorded_at INTEGER NOT NULL,
	metric      TEXT    NOT NULL,
	value       REAL    NOT NULL,
	tags        TEXT    NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_records_collection ON records (collection, seq);
`

const selectColumns = `seq, id, recorded_at, metric, value, tags`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.StoreOpenTimeout)
	defer cancel()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to open database", err,
			map[string]any{"path": path})
	}
	// one connection serializes writers and keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", defaults.StoreBusyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to set pragma", err,
				map[string]any{"pragma": pragma})
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to apply schema", err)
	}

	slog.Debug("record store opened", "backend", backendSQLite, "path", path)
	return &SQLite{db: db, path: path}, nil
}

// Insert implements Store.
func (s *SQLite) Insert(ctx context.Context, collection string, rec measurement.Record) error {
	defer observe(backendSQLite, opInsert, time.Now())
	if err := checkInsert(collection, rec); err != nil {
		return countErr(backendSQLite, opInsert, err)
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return countErr(backendSQLite, opInsert,
			errors.Wrap(errors.ErrCodeInvalidRequest, "failed to encode tags", err))
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.StoreInsertTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, collection, recorded_at, metric, value, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, collection, rec.Time.UnixNano(), rec.Metric, rec.Value, string(tags))
	if err != nil {
		return countErr(backendSQLite, opInsert, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to insert record", err, map[string]any{"collection": collection, "metric": rec.Metric}))
	}
	return countErr(backendSQLite, opInsert, nil)
}

// Find implements Store.
func (s *SQLite) Find(ctx context.Context, q Query) ([]measurement.Record, error) {
	defer observe(backendSQLite, opFind, time.Now())
	recs, err := s.find(ctx, q)
	return recs, countErr(backendSQLite, opFind, err)
}

func (s *SQLite) find(ctx context.Context, q Query) ([]measurement.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.StoreQueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM records WHERE collection = ? ORDER BY seq`, q.Collection)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to query records", err,
			map[string]any{"collection": q.Collection})
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	return recordsOf(filterEntries(entries, q)), nil
}

// LatestPerGroup implements Store. Without a tag filter the selection runs in
// SQL with a window over the JSON-extracted group value.
func (s *SQLite) LatestPerGroup(ctx context.Context, q Query, groupKey string) ([]measurement.Record, error) {
	defer observe(backendSQLite, opLatest, time.Now())
	if err := q.Validate(); err != nil {
		return nil, countErr(backendSQLite, opLatest, err)
	}

	if len(q.Tags) > 0 {
		recs, err := s.find(ctx, q)
		if err != nil {
			return nil, countErr(backendSQLite, opLatest, err)
		}
		return recordsOf(latestEntries(entriesOf(recs), groupKey)), countErr(backendSQLite, opLatest, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.StoreQueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT `+selectColumns+` FROM (
	SELECT `+selectColumns+`, ROW_NUMBER() OVER (
		PARTITION BY json_extract(tags, ?1)
		ORDER BY recorded_at DESC, seq DESC
	) AS rn
	FROM records WHERE collection = ?2
) WHERE rn = 1 ORDER BY seq`, jsonPath(groupKey), q.Collection)
	if err != nil {
		return nil, countErr(backendSQLite, opLatest, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to query latest records", err, map[string]any{"collection": q.Collection, "group": groupKey}))
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, countErr(backendSQLite, opLatest, err)
	}
	return recordsOf(entries), countErr(backendSQLite, opLatest, nil)
}

// Ping implements Store. It checks the connection and that the records table
// is readable.
func (s *SQLite) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.StorePingTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM (SELECT 1 FROM records LIMIT 1)`).Scan(&n)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "record store is not reachable", err,
			map[string]any{"backend": backendSQLite, "path": s.path})
	}
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *SQLite) Path() string {
	return s.path
}

func scanEntries(rows *sql.Rows) ([]memoryEntry, error) {
	defer rows.Close()

	var out []memoryEntry
	for rows.Next() {
		var (
			e    memoryEntry
			nano int64
			tags string
		)
		if err := rows.Scan(&e.seq, &e.rec.ID, &nano, &e.rec.Metric, &e.rec.Value, &tags); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to scan record", err)
		}
		e.rec.Time = time.Unix(0, nano).UTC()
		decoded, err := decodeTags(tags)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to decode tags", err,
				map[string]any{"id": e.rec.ID})
		}
		e.rec.Tags = decoded
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read records", err)
	}
	return out, nil
}

// decodeTags keeps integral JSON numbers as integers.
func decodeTags(data string) (map[string]measurement.Reading, error) {
	dec := json.NewDecoder(bytes.NewBufferString(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]measurement.Reading, len(raw))
	for k, v := range raw {
		r, ok := measurement.ToReadingWithType(v)
		if !ok {
			return nil, fmt.Errorf("unsupported tag value for %q: %v", k, v)
		}
		out[k] = r
	}
	return out, nil
}

func jsonPath(key string) string {
	return `$."` + strings.ReplaceAll(key, `"`, `\"`) + `"`
}
