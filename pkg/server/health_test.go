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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func getHealth(t *testing.T, s *Server, path string) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return w.Code, resp
}

func TestHealthEndpoint_IgnoresReadinessChecks(t *testing.T) {
	s := New(WithReadinessCheck("store", func(context.Context) error {
		return fmt.Errorf("database is locked")
	}))

	code, resp := getHealth(t, s, "/health")
	if code != http.StatusOK || resp.Status != "healthy" {
		t.Errorf("/health = %d %q, want 200 healthy", code, resp.Status)
	}
}

func TestReadyEndpoint(t *testing.T) {
	storeErr := fmt.Errorf("sql: database is closed")

	tests := []struct {
		name       string
		started    bool
		checks     map[string]ReadinessCheck
		wantStatus int
		wantReason string
		wantChecks map[string]string
	}{
		{
			name:       "not started",
			started:    false,
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "service is initializing",
		},
		{
			name:       "started without checks",
			started:    true,
			wantStatus: http.StatusOK,
		},
		{
			name:    "store reachable",
			started: true,
			checks: map[string]ReadinessCheck{
				"store": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"store": checkOK},
		},
		{
			name:    "store unreachable",
			started: true,
			checks: map[string]ReadinessCheck{
				"store":  func(context.Context) error { return storeErr },
				"schema": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "store: sql: database is closed",
			wantChecks: map[string]string{"store": storeErr.Error(), "schema": checkOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			for name, check := range tt.checks {
				opts = append(opts, WithReadinessCheck(name, check))
			}
			s := New(opts...)
			s.setReady(tt.started)

			code, resp := getHealth(t, s, "/ready")
			if code != tt.wantStatus {
				t.Errorf("status = %d, want %d", code, tt.wantStatus)
			}
			if resp.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", resp.Reason, tt.wantReason)
			}
			if len(resp.Checks) != len(tt.wantChecks) {
				t.Fatalf("checks = %v, want %v", resp.Checks, tt.wantChecks)
			}
			for name, want := range tt.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("check %s = %q, want %q", name, resp.Checks[name], want)
				}
			}
		})
	}
}

func TestReadyEndpoint_ReasonListsEveryFailure(t *testing.T) {
	s := New(
		WithReadinessCheck("store", func(context.Context) error { return fmt.Errorf("locked") }),
		WithReadinessCheck("importer", func(context.Context) error { return fmt.Errorf("draining") }),
	)
	s.setReady(true)

	_, resp := getHealth(t, s, "/ready")
	if resp.Reason != "importer: draining; store: locked" {
		t.Errorf("reason = %q, want checks in name order", resp.Reason)
	}
}

func TestReadyEndpoint_ChecksAreBounded(t *testing.T) {
	var deadline time.Time
	s := New(WithReadinessCheck("store", func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	}))
	s.setReady(true)

	if code, _ := getHealth(t, s, "/ready"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if deadline.IsZero() {
		t.Error("readiness checks should run under a deadline")
	}
}

func TestWithReadinessCheck_IgnoresNil(t *testing.T) {
	s := New(WithReadinessCheck("store", nil))
	if len(s.config.ReadinessChecks) != 0 {
		t.Errorf("nil check should not be registered, got %v", s.config.ReadinessChecks)
	}
}

func TestReadyEndpoint_MethodNotAllowed(t *testing.T) {
	s := New()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ready", strings.NewReader("")))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
