// Package cli implements the scoreboard command-line interface.
//
// # Commands
//
// record - Insert one measurement:
//
//	scoreboard record -c runs -w ws/lstm-1 --tag split=val rmse- 0.42
//
// import - Record RecordBatch documents from files or URLs:
//
//	scoreboard import -c runs --concurrency 8 --rate 200 batch.yaml
//
// Both record and import accept --exclude-tag patterns (e.g. "debug:*") for
// tag keys that should not be stored.
//
// workspace - Write a workspace document whose settings tag records:
//
//	scoreboard workspace --id ws/lstm-1 --set train:lr=0.01 -o ws.yaml
//
// summarize - Pivot a collection into a table:
//
//	scoreboard summarize -c runs --scheme mean_with_error --float-format .3f --output latex
//
// serve - Run the HTTP API (see pkg/api).
//
// # Global Flags
//
//   - --db: record store DSN ($SCOREBOARD_DB, default scoreboard.db)
//   - --log-level: debug, info, warn or error ($LOG_LEVEL)
//   - --metrics-textfile: write Prometheus metrics to a file on exit
//
// An env file named by $SCOREBOARD_ENV_FILE, or ./.env when present, is
// loaded before flags are parsed. Variables already set win.
//
// # Output Formats
//
// summarize renders table (default), html, latex, json or yaml. The other
// commands write json or yaml documents.
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/scoreboard/pkg/cli.version=1.0.0'"
package cli
