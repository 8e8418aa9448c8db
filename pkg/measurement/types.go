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

package measurement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Reserved keys of the materialized record table.
const (
	// KeyMetrics is the column holding the canonical metric name.
	KeyMetrics = "metrics"
	// KeyValue is the column holding the measured value.
	KeyValue = "value"
	// KeyWorkspace is the tag holding the workspace identity of a record.
	KeyWorkspace = "ws"
)

// Record is a single scalar measurement with its tags.
// Metric is stored direction-tagged (e.g. "rmse-", "acc+").
type Record struct {
	ID     string             `json:"id,omitempty" yaml:"id,omitempty"`
	Time   time.Time          `json:"time,omitzero" yaml:"time,omitempty"`
	Metric string             `json:"metrics" yaml:"metrics"`
	Value  float64            `json:"value" yaml:"value"`
	Tags   map[string]Reading `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// CanonicalMetric returns the metric name with its direction marker stripped.
func (r *Record) CanonicalMetric() string {
	name, _ := ParseMetric(r.Metric, nil)
	return name
}

// Direction returns the direction encoded in the stored metric label.
func (r *Record) Direction() Direction {
	_, d := ParseMetric(r.Metric, nil)
	return d
}

// Tag returns the tag stored under key, or nil.
func (r *Record) Tag(key string) Reading {
	return r.Tags[key]
}

// TagKeys returns the record's tag keys in sorted order.
func (r *Record) TagKeys() []string {
	keys := make([]string, 0, len(r.Tags))
	for k := range r.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks if the record is properly formed.
func (r *Record) Validate() error {
	if r.CanonicalMetric() == "" {
		return errors.New("record metric cannot be empty")
	}
	for _, key := range []string{KeyMetrics, KeyValue} {
		if _, ok := r.Tags[key]; ok {
			return fmt.Errorf("tag %q is reserved", key)
		}
	}
	return nil
}

// UnmarshalJSON custom unmarshaler for Record to handle Reading interface
func (r *Record) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ID     string         `json:"id"`
		Time   time.Time      `json:"time"`
		Metric string         `json:"metrics"`
		Value  float64        `json:"value"`
		Tags   map[string]any `json:"tags"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tmp); err != nil {
		return err
	}

	r.ID = tmp.ID
	r.Time = tmp.Time
	r.Metric = tmp.Metric
	r.Value = tmp.Value
	r.Tags = ToReadings(tmp.Tags)
	return nil
}

// UnmarshalYAML custom unmarshaler for Record to handle Reading interface
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	var tmp struct {
		ID     string         `yaml:"id"`
		Time   time.Time      `yaml:"time"`
		Metric string         `yaml:"metrics"`
		Value  float64        `yaml:"value"`
		Tags   map[string]any `yaml:"tags"`
	}

	if err := node.Decode(&tmp); err != nil {
		return err
	}

	r.ID = tmp.ID
	r.Time = tmp.Time
	r.Metric = tmp.Metric
	r.Value = tmp.Value
	r.Tags = ToReadings(tmp.Tags)
	return nil
}

// AllowedScalar is a constraint (compile-time) for what we allow as readings.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Reading is a *runtime* interface (so it can be stored in a map with mixed types).
type Reading interface {
	isReading()
	Any() any
	String() string

	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Scalar wraps an allowed scalar type.
// This is how we keep compile-time constraints while still using a runtime interface.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isReading() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
// Floats render as ReprFloat does, so 1.0 and 1 stay distinct labels.
func (s Scalar[T]) String() string {
	if f, bits, ok := s.float(); ok {
		return reprFloat(f, bits)
	}
	return fmt.Sprintf("%v", s.V)
}

func (s Scalar[T]) float() (float64, int, bool) {
	switch v := any(s.V).(type) {
	case float64:
		return v, 64, true
	case float32:
		return float64(v), 32, true
	}
	return 0, 0, false
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
// Integral floats keep their fraction so they decode back as floats.
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	if f, bits, ok := s.float(); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return []byte(reprFloat(f, bits)), nil
	}
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	if f, bits, ok := s.float(); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: reprFloat(f, bits)}, nil
	}
	return s.V, nil
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// UnmarshalYAML unmarshals a YAML value into the underlying scalar.
func (s *Scalar[T]) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.V)
}

// ToReading creates a Reading from any allowed scalar type.
// If the type is not allowed, it returns a string representation.
func ToReading(v any) Reading {
	r, _ := ToReadingWithType(v)
	return r
}

// ToReadingWithType converts a value to a Reading and returns whether the conversion
// was lossless (false means it fell back to fmt.Sprintf).
// This allows callers to detect if unexpected types were encountered.
func ToReadingWithType(v any) (Reading, bool) {
	switch val := v.(type) {
	case Reading:
		return val, true
	case int:
		return Int(val), true
	case int32:
		return Int64(int64(val)), true
	case int64:
		return Int64(val), true
	case uint:
		return Uint(val), true
	case uint64:
		return Uint64(val), true
	case float32:
		return Float64(float64(val)), true
	case float64:
		return Float64(val), true
	case bool:
		return Bool(val), true
	case string:
		return Str(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int64(i), true
		}
		if f, err := val.Float64(); err == nil {
			return Float64(f), true
		}
		return Str(val.String()), false
	default:
		return Str(fmt.Sprintf("%v", val)), false
	}
}

// ToReadings converts a plain map into readings. A nil map yields nil.
func ToReadings(values map[string]any) map[string]Reading {
	if values == nil {
		return nil
	}
	out := make(map[string]Reading, len(values))
	for k, v := range values {
		out[k] = ToReading(v)
	}
	return out
}

// ReprFloat renders v the way an interactive session prints a float: the
// shortest round-trip digits, always with a fraction or exponent, and
// nan, inf or -inf for the special values.
func ReprFloat(v float64) string {
	return reprFloat(v, 64)
}

func reprFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, bits)
	}
	s := strconv.FormatFloat(v, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Reading         { return &Scalar[int]{V: v} }
func Int64(v int64) Reading     { return &Scalar[int64]{V: v} }
func Uint(v uint) Reading       { return &Scalar[uint]{V: v} }
func Uint64(v uint64) Reading   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Reading { return &Scalar[float64]{V: v} }
func Bool(v bool) Reading       { return &Scalar[bool]{V: v} }
func Str(v string) Reading      { return &Scalar[string]{V: v} }

// copyReadings creates a shallow copy of a readings map.
func copyReadings(src map[string]Reading) map[string]Reading {
	dst := make(map[string]Reading, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
