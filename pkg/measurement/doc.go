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

// Package measurement defines the scalar experiment records that scoreboard
// ingests and summarizes.
//
// # Core Types
//
//   - Record: one measured value with its direction-tagged metric and tags
//   - Direction: HigherIsBetter or LowerIsBetter
//   - Reading: interface for type-safe scalar tag values (int, float64, string, bool, etc.)
//
// # Metric Labels
//
// A metric label may end with a direction marker: "+" for higher-is-better
// and "-" for lower-is-better. Labels without a marker are higher-is-better.
// Records always store the label with its resolved marker:
//
//	ParseMetric("rmse-", nil)        // "rmse", LowerIsBetter
//	NormalizeMetric("rmse", &yes)    // "rmse-"
//	NormalizeMetric("acc", nil)      // "acc+"
//
// # Creating Records
//
//	rec := NewRecordBuilder("rmse-", 0.35).
//	    SetString("ws", "runs/lstm").
//	    SetInt("size", 4).
//	    SetFloat64("optim:lr", 0.01).
//	    Build()
//
// # Filtering Tags
//
// Drop or keep tags using wildcard patterns, e.g. a whole config namespace:
//
//	kept := FilterOut(rec.Tags, []string{"optim:*", "debug"})
//	only := FilterIn(rec.Tags, []string{"model:*"})
//
// # Serialization
//
// Records support JSON and YAML marshaling/unmarshaling. The Reading interface
// is marshaled to its underlying value, avoiding wrapper structures:
//
//	{"metrics": "rmse-", "value": 0.35, "tags": {"ws": "runs/lstm", "size": 4}}
package measurement
