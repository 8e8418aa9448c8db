// Package recorder writes measurements into a record store.
//
// A Recorder normalizes the metric label into its direction-tagged form,
// merges the workspace settings with the caller's tags and inserts exactly
// one record per call:
//
//	rec, err := recorder.New(st, ws, recorder.WithCollection("train"))
//	if err != nil {
//	    return err
//	}
//	err = rec.Record(ctx, 0.35, "rmse-", nil, map[string]any{"model_size": 4})
//
// Tag precedence, lowest first: workspace settings as "<namespace>:<key>",
// caller tags, then the "ws" tag holding the workspace identity.
//
// An Importer records whole batch files concurrently, optionally throttled
// to a number of inserts per second.
package recorder
