// Package api provides the HTTP API layer of the scoreboard service.
//
// It is a thin wrapper around pkg/server: it opens the record store, builds
// a Recorder and Importer over it and mounts the record and summary handlers.
// Server lifecycle, middleware, health and metrics endpoints stay in
// pkg/server.
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - POST /v1/records - record a RecordBatch (JSON or YAML body)
//   - GET /v1/summary  - summarize a collection
//
// System endpoints:
//   - GET /health  - liveness
//   - GET /ready   - readiness
//   - GET /metrics - Prometheus metrics
//
// # Summary parameters
//
// GET /v1/summary mirrors the summarize command:
//   - collection (required)
//   - rows, columns: grouping keys; present but empty means no keys
//   - row-selection, column-selection: order tokens, "_" separates levels
//   - scheme: best, mean or mean_with_error
//   - topk, regex, float-format, last, latex, reindex, placeholder
//   - strict-directions: fail on metrics recorded with both directions
//   - drop-tag: tag patterns removed before grouping (repeatable)
//   - tag: key=value retrieval filter (repeatable)
//   - output: json (default), yaml, table, html or latex
//
// Example:
//
//	curl "http://localhost:8080/v1/summary?collection=runs&scheme=mean_with_error&float-format=.3f&output=table"
//
// # Record batches
//
//	kind: RecordBatch
//	apiVersion: scoreboard.nvidia.com/v1
//	collection: runs
//	workspace:
//	  id: ws/lstm-1
//	  config:
//	    train:
//	      lr: 0.01
//	records:
//	  - metrics: rmse-
//	    value: 0.42
//
// # Configuration
//
//   - SCOREBOARD_DB: store DSN (default scoreboard.db)
//   - SCOREBOARD_COLLECTION: collection for batches that do not name one
//   - SCOREBOARD_IMPORT_CONCURRENCY: in-flight inserts per batch
//   - PORT, SHUTDOWN_TIMEOUT_SECONDS: see pkg/server
//   - LOG_LEVEL: debug, info, warn or error
package api
