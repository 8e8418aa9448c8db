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

package defaults

import "time"

// Store timeouts for record store operations.
const (
	// StoreOpenTimeout bounds opening the database and applying the schema.
	StoreOpenTimeout = 10 * time.Second

	// StoreInsertTimeout bounds a single record insert.
	StoreInsertTimeout = 5 * time.Second

	// StoreQueryTimeout bounds a bulk retrieval for summarization.
	StoreQueryTimeout = 60 * time.Second

	// StoreBusyTimeout is how long SQLite waits on a locked database before failing.
	StoreBusyTimeout = 5 * time.Second

	// StorePingTimeout bounds the record store readiness check.
	StorePingTimeout = 2 * time.Second
)

// Handler timeouts for HTTP request processing.
const (
	// RecordHandlerTimeout is the timeout for record ingestion requests.
	RecordHandlerTimeout = 30 * time.Second

	// SummaryHandlerTimeout is the timeout for summary requests.
	// Longer than ingestion since it includes a bulk retrieval.
	SummaryHandlerTimeout = 90 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 120 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 180 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// ServerReadinessTimeout bounds all readiness checks of one /ready call.
	ServerReadinessTimeout = 5 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIImportTimeout is the default timeout for a batch import.
	CLIImportTimeout = 10 * time.Minute

	// CLIImportConcurrency is the default number of in-flight inserts per imported batch.
	CLIImportConcurrency = 4
)
