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


package server

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
)

const checkOK = "ok"

// ReadinessCheck reports whether a dependency, such as the record store, can
// serve traffic. A nil error means ready.
type ReadinessCheck func(ctx context.Context) error

// WithReadinessCheck registers a named check consulted by /ready. Checks run
// in name order under one shared timeout.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		if check == nil {
			return
		}
		if s.config.ReadinessChecks == nil {
			s.config.ReadinessChecks = make(map[string]ReadinessCheck)
		}
		s.config.ReadinessChecks[name] = check
	}
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// handleHealth reports liveness. It never consults dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// handleReady reports 503 until the server is started and while any
// readiness check fails. The failing checks are named in Reason.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now(),
			Reason:    "service is initializing",
		})
		return
	}

	checks, failures := s.runReadinessChecks(r.Context())
	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Checks:    checks,
	}
	if len(failures) > 0 {
		resp.Status = "not_ready"
		resp.Reason = strings.Join(failures, "; ")
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// runReadinessChecks returns the outcome of every check keyed by name and
// a "name: error" entry per failure.
func (s *Server) runReadinessChecks(ctx context.Context) (map[string]string, []string) {
	if len(s.config.ReadinessChecks) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.ServerReadinessTimeout)
	defer cancel()

	names := make([]string, 0, len(s.config.ReadinessChecks))
	for name := range s.config.ReadinessChecks {
		names = append(names, name)
	}
	slices.Sort(names)

	checks := make(map[string]string, len(names))
	var failures []string
	for _, name := range names {
		if err := s.config.ReadinessChecks[name](ctx); err != nil {
			readinessFailures.WithLabelValues(name).Inc()
			checks[name] = err.Error()
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		checks[name] = checkOK
	}
	return checks, failures
}
