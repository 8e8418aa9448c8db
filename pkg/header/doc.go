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

// Package header provides the common envelope of scoreboard documents.
//
// Record batch files and rendered summaries carry a Kubernetes-style header
// so that tooling can recognize them:
//
//	kind: RecordBatch
//	apiVersion: scoreboard.nvidia.com/v1
//	metadata:
//	  timestamp: "2025-03-01T12:00:00Z"
//	  version: v0.4.0
//
// Embed Header inline and call Init:
//
//	type Summary struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    Table *summary.Table `json:"table" yaml:"table"`
//	}
//
//	doc.Init(header.KindSummary, header.APIVersion, version)
package header
