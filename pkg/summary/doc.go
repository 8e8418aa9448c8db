// Package summary reduces tagged measurements into pivoted summary tables.
//
// A Summarizer accumulates records in memory, either directly through Add or
// from a record store through Collect, then Summarize groups them by chosen
// tag keys, reduces each group with a Scheme and pivots the result into a
// Table of rows by columns:
//
//	s := summary.NewSummarizer()
//	s.Add(0.40, "rmse-", map[string]any{"ws": "A", "size": 3})
//	s.Add(0.35, "rmse-", map[string]any{"ws": "A", "size": 4})
//
//	tbl, err := s.Summarize(summary.Options{
//	    Rows:     []string{"ws", "size"},
//	    Columns:  []string{"metrics"},
//	    Scheme:   summary.Scheme{summary.Best},
//	})
//
// Metric labels carry their direction: a trailing "-" marks lower-is-better
// ("rmse-"), anything else higher-is-better. Best and top-k selection follow
// the direction.
//
// Grouping keys default to metrics on the columns and every other tag on the
// rows. Tags a record lacks are filled with a placeholder ("-").
//
// Explicit orders (see package order) reindex the pivoted axes. In the
// default ReindexStrict mode the axis holds exactly the ordered labels:
// labels absent from the data become empty cells and computed labels absent
// from the order are dropped. ReindexPadOnly keeps them after the ordered ones.
//
// Failures carry structured codes: ErrCodeEmptyResult when nothing is left to
// summarize, ErrCodeUnsupportedScheme for invalid reducers and
// ErrCodeMalformedOrder for orders that do not fit an axis.
package summary
