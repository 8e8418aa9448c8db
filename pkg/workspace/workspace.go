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

package workspace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/header"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
)

const (
	// DefaultID is the identity used when none is configured.
	DefaultID = "ws/_default"

	// NamespaceSeparator joins a namespace and a key in tag names.
	NamespaceSeparator = ":"
)

// Provider supplies the workspace identity and settings to a recorder.
type Provider interface {
	Identity() string
	Settings() map[string]map[string]any
}

// Workspace is a static Provider.
type Workspace struct {
	header.Header `json:",inline" yaml:",inline"`

	ID     string                    `json:"id" yaml:"id"`
	Config map[string]map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// New returns a workspace with the given identity. An empty id yields DefaultID.
func New(id string) *Workspace {
	ws := &Workspace{ID: id, Config: make(map[string]map[string]any)}
	ws.Init(header.KindWorkspace, header.APIVersion, "")
	return ws
}

// Set stores value under namespace and key.
func (w *Workspace) Set(namespace, key string, value any) *Workspace {
	if w.Config == nil {
		w.Config = make(map[string]map[string]any)
	}
	if w.Config[namespace] == nil {
		w.Config[namespace] = make(map[string]any)
	}
	w.Config[namespace][key] = value
	return w
}

// Identity returns the workspace identity.
func (w *Workspace) Identity() string {
	if w == nil || w.ID == "" {
		return DefaultID
	}
	return w.ID
}

// Settings returns the namespaced settings.
func (w *Workspace) Settings() map[string]map[string]any {
	if w == nil {
		return nil
	}
	return w.Config
}

// Validate checks namespaces and keys for characters that would make
// flattened tag names ambiguous, and values for non-scalar types.
func (w *Workspace) Validate() error {
	if err := w.Check(header.KindWorkspace); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid workspace header", err)
	}
	for ns, values := range w.Config {
		if ns == "" || strings.Contains(ns, NamespaceSeparator) {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"invalid workspace namespace", map[string]any{"namespace": ns})
		}
		for key, v := range values {
			if key == "" {
				return errors.NewWithContext(errors.ErrCodeInvalidRequest,
					"empty workspace key", map[string]any{"namespace": ns})
			}
			if _, ok := measurement.ToReadingWithType(v); !ok {
				return errors.NewWithContext(errors.ErrCodeInvalidRequest,
					"workspace setting is not a scalar",
					map[string]any{"namespace": ns, "key": key, "type": fmt.Sprintf("%T", v)})
			}
		}
	}
	return nil
}

// Tags flattens the settings of p into "<namespace>:<key>" tags.
func Tags(p Provider) map[string]any {
	settings := p.Settings()
	out := make(map[string]any)
	for ns, values := range settings {
		for key, v := range values {
			out[ns+NamespaceSeparator+key] = v
		}
	}
	return out
}

// Keys returns the flattened tag names of p in sorted order.
func Keys(p Provider) []string {
	tags := Tags(p)
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads a workspace from a YAML or JSON file or URL.
func Load(path string) (*Workspace, error) {
	ws, err := serializer.FromFile[Workspace](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"failed to load workspace", err, map[string]any{"path": path})
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}
