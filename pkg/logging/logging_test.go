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

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "scoreboard", "v0.1.0", slog.LevelInfo)
	logger.Info("summarized", "rows", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["module"] != "scoreboard" {
		t.Errorf("module = %v, want scoreboard", entry["module"])
	}
	if entry["version"] != "v0.1.0" {
		t.Errorf("version = %v, want v0.1.0", entry["version"])
	}
	if entry["msg"] != "summarized" {
		t.Errorf("msg = %v, want summarized", entry["msg"])
	}
	if _, ok := entry["source"]; ok {
		t.Error("source should only be attached at debug level")
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "scoreboard", "dev", slog.LevelWarn)
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("expected warn record to be written")
	}
}

func TestNewLogLogger(t *testing.T) {
	l := NewLogLogger(slog.LevelWarn, false)
	if l == nil {
		t.Fatal("expected a logger")
	}
	if l.Flags() != 0 {
		t.Errorf("flags = %d, want 0", l.Flags())
	}
}

func TestNewStructuredLogger_Level(t *testing.T) {
	l := NewStructuredLogger("scoreboard", "dev", "error")
	if l.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("warn should be disabled at error level")
	}
	if !l.Enabled(t.Context(), slog.LevelError) {
		t.Error("error should be enabled")
	}
}
