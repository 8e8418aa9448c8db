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

// Package server provides the HTTP runtime of scoreboardd: routing,
// middleware, health and readiness endpoints, Prometheus metrics and structured error replies.
//
// Domain handlers are registered by path and run behind the middleware
// chain (metrics, API version, request ID, panic recovery, rate limiting,
// logging):
//
//	s := server.New(
//	    server.WithName("scoreboardd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "POST /v1/records": h.HandleRecords,
//	        "GET /v1/summary":  h.HandleSummary,
//	    }),
//	    server.WithReadinessCheck("store", st.Ping),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # System endpoints
//
//   - GET /health: liveness, always 200
//   - GET /ready: 200 once serving and every readiness check passes; 503
//     while starting, draining or when a check fails (named in "reason")
//   - GET /metrics: Prometheus exposition
//   - GET /: server name, version and routes
//
// # Errors
//
// All errors share one JSON body:
//
//	{
//	  "code": "EMPTY_RESULT",
//	  "message": "no records to summarize",
//	  "details": {"collection": "train"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr derives status and code from a structured error.
//
// # Configuration
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the listen port and the
// graceful shutdown window. Requests carry an X-Request-Id (generated when
// absent or not a UUID) and rate limit headers; rejected requests get 429
// with Retry-After. Clients may pin the API version with
// "Accept: application/vnd.nvidia.scoreboard.v1+json"; the served version is
// echoed in X-API-Version.
package server
