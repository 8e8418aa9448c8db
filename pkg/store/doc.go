// Package store persists measurement records.
//
// A Store holds records in named collections. Records are independent
// documents: inserts may arrive concurrently, unordered and more than once,
// and are never coordinated with each other.
//
// Two backends are provided:
//
//   - SQLite (modernc.org/sqlite, no cgo), opened from a file path or a
//     "sqlite://" DSN. This is the default durable store.
//   - Memory, opened with the "mem://" DSN, for tests and one-shot runs.
//
// Usage:
//
//	st, err := store.Open(ctx, "sqlite://scores.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = st.Insert(ctx, "runs", rec)
//	recs, err := st.LatestPerGroup(ctx, store.Query{Collection: "runs"}, "ws")
package store
