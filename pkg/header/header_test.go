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

package header

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindRecordBatch, true},
		{KindSummary, true},
		{KindWorkspace, true},
		{Kind("Snapshot"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	h := New(WithKind(KindSummary), WithAPIVersion(APIVersion), WithMetadata("collection", "runs"))
	if h.Kind != KindSummary {
		t.Errorf("Kind = %q", h.Kind)
	}
	if h.APIVersion != APIVersion {
		t.Errorf("APIVersion = %q", h.APIVersion)
	}
	if h.Metadata["collection"] != "runs" {
		t.Errorf("Metadata = %v", h.Metadata)
	}
}

func TestInit(t *testing.T) {
	var h Header
	h.Init(KindRecordBatch, APIVersion, "v1.2.3")

	if h.Kind != KindRecordBatch {
		t.Errorf("Kind = %q", h.Kind)
	}
	if h.Metadata["version"] != "v1.2.3" {
		t.Errorf("version = %q", h.Metadata["version"])
	}
	if _, err := time.Parse(time.RFC3339, h.Metadata["timestamp"]); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}

	h.Init(KindSummary, APIVersion, "")
	if _, ok := h.Metadata["version"]; ok {
		t.Error("empty version should not be recorded")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		header  Header
		want    Kind
		wantErr bool
	}{
		{name: "empty accepted", header: Header{}, want: KindRecordBatch},
		{name: "matching", header: Header{Kind: KindRecordBatch, APIVersion: APIVersion}, want: KindRecordBatch},
		{name: "no version", header: Header{Kind: KindRecordBatch}, want: KindRecordBatch},
		{name: "wrong kind", header: Header{Kind: KindSummary}, want: KindRecordBatch, wantErr: true},
		{name: "wrong version", header: Header{Kind: KindRecordBatch, APIVersion: "v0"}, want: KindRecordBatch, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.header.Check(tt.want)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeader_InlineSerialization(t *testing.T) {
	type doc struct {
		Header `json:",inline" yaml:",inline"`
		Name   string `json:"name" yaml:"name"`
	}
	d := doc{Header: Header{Kind: KindSummary, APIVersion: APIVersion}, Name: "x"}

	j, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(j, &m); err != nil {
		t.Fatal(err)
	}
	if m["kind"] != "Summary" || m["name"] != "x" {
		t.Errorf("unexpected JSON: %s", j)
	}

	y, err := yaml.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var back doc
	if err := yaml.Unmarshal(y, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != KindSummary || back.Name != "x" {
		t.Errorf("unexpected YAML round trip: %+v", back)
	}
}
