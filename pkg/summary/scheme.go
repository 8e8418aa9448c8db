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

package summary

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

// Scheme names accepted by ParseScheme.
const (
	SchemeBest          = "best"
	SchemeMean          = "mean"
	SchemeMeanWithError = "mean_with_error"
)

// Separators joining a mean and its spread.
const (
	PlusMinus      = "±"
	LatexPlusMinus = `$\pm$`
)

// SchemeNames returns the names accepted by ParseScheme.
func SchemeNames() []string {
	return []string{SchemeBest, SchemeMean, SchemeMeanWithError}
}

type reducerKind int

const (
	kindUnset reducerKind = iota
	kindBest
	kindMean
	kindCustom
)

// ReduceFunc maps a group to a new value. The first reducer of a scheme
// receives the group's values as []float64; later ones receive the previous
// reducer's output.
type ReduceFunc func(x any, dir measurement.Direction) (any, error)

// Reducer is one step of a Scheme: Best, Mean or a Custom function.
// The zero Reducer is invalid.
type Reducer struct {
	kind reducerKind
	name string
	fn   ReduceFunc
}

var (
	// Best reduces a group to its minimum for lower-is-better metrics and to
	// its maximum otherwise.
	Best = Reducer{kind: kindBest, name: SchemeBest}
	// Mean reduces a group to its arithmetic mean.
	Mean = Reducer{kind: kindMean, name: SchemeMean}
)

// Custom wraps fn as a Reducer.
func Custom(name string, fn ReduceFunc) Reducer {
	return Reducer{kind: kindCustom, name: name, fn: fn}
}

// Name returns the reducer name.
func (r Reducer) Name() string {
	return r.name
}

func (r Reducer) validate() error {
	switch r.kind {
	case kindBest, kindMean:
		return nil
	case kindCustom:
		if r.fn != nil {
			return nil
		}
		return errors.NewWithContext(errors.ErrCodeUnsupportedScheme,
			"custom reducer has no function", map[string]any{"reducer": r.name})
	}
	return errors.New(errors.ErrCodeUnsupportedScheme, "scheme not supported")
}

func (r Reducer) apply(x any, dir measurement.Direction) (any, error) {
	switch r.kind {
	case kindBest:
		switch v := x.(type) {
		case []float64:
			if len(v) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidRequest, "best of an empty group")
			}
			best := v[0]
			for _, f := range v[1:] {
				if (dir == measurement.LowerIsBetter && f < best) ||
					(dir == measurement.HigherIsBetter && f > best) {
					best = f
				}
			}
			return best, nil
		case float64:
			return v, nil
		}
	case kindMean:
		switch v := x.(type) {
		case []float64:
			if len(v) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidRequest, "mean of an empty group")
			}
			return stat.Mean(v, nil), nil
		case float64:
			return v, nil
		}
	case kindCustom:
		return r.fn(x, dir)
	default:
		return nil, r.validate()
	}
	return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"reducer expects numeric input", map[string]any{
			"reducer": r.name,
			"input":   fmt.Sprintf("%T", x),
		})
}

// Scheme is an ordered chain of reducers.
type Scheme []Reducer

// NewScheme validates reducers and returns them as a Scheme.
func NewScheme(reducers ...Reducer) (Scheme, error) {
	s := Scheme(reducers)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports the first unsupported reducer.
func (s Scheme) Validate() error {
	if len(s) == 0 {
		return errors.New(errors.ErrCodeUnsupportedScheme, "scheme is empty")
	}
	for _, r := range s {
		if err := r.validate(); err != nil {
			return err
		}
	}
	return nil
}

// String joins the reducer names.
func (s Scheme) String() string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.name
	}
	return strings.Join(names, ",")
}

// Reduce runs values through the chain.
func (s Scheme) Reduce(values []float64, dir measurement.Direction) (any, error) {
	var x any = values
	for _, r := range s {
		var err error
		if x, err = r.apply(x, dir); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Pair is a central value with its spread.
type Pair struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Spread float64 `json:"spread" yaml:"spread"`
}

// String renders the pair with the plus-minus glyph.
func (p Pair) String() string {
	return ReprFloat(p.Mean) + PlusMinus + ReprFloat(p.Spread)
}

// MeanStd reduces a group to its mean paired with the sample standard
// deviation. A single-valued group has an undefined (NaN) spread.
func MeanStd() Reducer {
	return Custom("mean_std", func(x any, _ measurement.Direction) (any, error) {
		v, ok := x.([]float64)
		if !ok || len(v) == 0 {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"mean_std expects the group values", map[string]any{"input": fmt.Sprintf("%T", x)})
		}
		mean, std := stat.MeanStdDev(v, nil)
		return Pair{Mean: mean, Spread: std}, nil
	})
}

// Format renders the previous value as a display string. A Pair is rendered
// as mean and spread joined by the plus-minus glyph.
func Format(spec FormatSpec) Reducer {
	return FormatPair(spec, PlusMinus)
}

// FormatPair is like Format with a custom separator between the parts of a Pair.
func FormatPair(spec FormatSpec, sep string) Reducer {
	return Custom("format", func(x any, _ measurement.Direction) (any, error) {
		if p, ok := x.(Pair); ok {
			mean, err := spec.FormatFloat(p.Mean)
			if err != nil {
				return nil, err
			}
			spread, err := spec.FormatFloat(p.Spread)
			if err != nil {
				return nil, err
			}
			return mean + sep + spread, nil
		}
		return spec.Format(x)
	})
}

// ParseScheme builds the scheme named by a command-line selection. A non-empty
// format appends a Format step; mean_with_error always formats, using the
// LaTeX plus-minus when latex is set.
func ParseScheme(name, format string, latex bool) (Scheme, error) {
	spec, err := ParseFormatSpec(format)
	if err != nil {
		return nil, err
	}

	switch name {
	case SchemeBest, SchemeMean:
		s := Scheme{Best}
		if name == SchemeMean {
			s = Scheme{Mean}
		}
		if !spec.IsZero() {
			s = append(s, Format(spec))
		}
		return s, nil
	case SchemeMeanWithError:
		sep := PlusMinus
		if latex {
			sep = LatexPlusMinus
		}
		return Scheme{MeanStd(), FormatPair(spec, sep)}, nil
	}

	return nil, errors.NewWithContext(errors.ErrCodeUnsupportedScheme,
		"scheme not supported", map[string]any{
			"scheme":    name,
			"supported": SchemeNames(),
		})
}
