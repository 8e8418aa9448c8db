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

import "time"

// RecordBuilder provides a fluent API for building Record instances.
type RecordBuilder struct {
	metric     string
	descending *bool
	value      float64
	tags       map[string]Reading
	id         string
	at         time.Time
}

// NewRecordBuilder creates a new RecordBuilder for the given metric label.
// The label may carry a direction marker ("rmse-").
func NewRecordBuilder(metric string, value float64) *RecordBuilder {
	return &RecordBuilder{
		metric: metric,
		value:  value,
		tags:   make(map[string]Reading),
	}
}

// Descending forces the metric direction regardless of the label's marker.
func (b *RecordBuilder) Descending(descending bool) *RecordBuilder {
	b.descending = &descending
	return b
}

// WithID sets the record identifier.
func (b *RecordBuilder) WithID(id string) *RecordBuilder {
	b.id = id
	return b
}

// At sets the record timestamp.
func (b *RecordBuilder) At(t time.Time) *RecordBuilder {
	b.at = t
	return b
}

// Set adds or updates a tag.
func (b *RecordBuilder) Set(key string, value Reading) *RecordBuilder {
	b.tags[key] = value
	return b
}

// SetString is a convenience method for adding string tags.
func (b *RecordBuilder) SetString(key, value string) *RecordBuilder {
	b.tags[key] = Str(value)
	return b
}

// SetInt is a convenience method for adding int tags.
func (b *RecordBuilder) SetInt(key string, value int) *RecordBuilder {
	b.tags[key] = Int(value)
	return b
}

// SetFloat64 is a convenience method for adding float64 tags.
func (b *RecordBuilder) SetFloat64(key string, value float64) *RecordBuilder {
	b.tags[key] = Float64(value)
	return b
}

// SetBool is a convenience method for adding bool tags.
func (b *RecordBuilder) SetBool(key string, value bool) *RecordBuilder {
	b.tags[key] = Bool(value)
	return b
}

// SetAll merges plain values into the tags; existing keys are overwritten.
func (b *RecordBuilder) SetAll(values map[string]any) *RecordBuilder {
	for k, v := range values {
		b.tags[k] = ToReading(v)
	}
	return b
}

// Build constructs the Record with its metric stored direction-tagged.
func (b *RecordBuilder) Build() Record {
	return Record{
		ID:     b.id,
		Time:   b.at,
		Metric: NormalizeMetric(b.metric, b.descending),
		Value:  b.value,
		Tags:   copyReadings(b.tags),
	}
}
