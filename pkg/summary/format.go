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
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/measurement"
)

// FormatSpec is a parsed numeric format specification of the form
// [[fill]align][sign][#][0][width][grouping][.precision][type], e.g. ".4f",
// "+.2e" or ">10,.1f". Supported types are e E f F g G n % d s and none.
type FormatSpec struct {
	Fill      rune
	Align     byte
	Sign      byte
	Alt       bool
	Width     int
	Grouping  byte
	Precision int
	Type      byte

	raw string
}

// ParseFormatSpec parses spec. An empty spec formats floats in their
// shortest round-trip form with at least one fractional digit.
func ParseFormatSpec(spec string) (FormatSpec, error) {
	f := FormatSpec{Fill: ' ', Precision: -1, raw: spec}
	if spec == "" {
		return f, nil
	}

	bad := func(reason string) (FormatSpec, error) {
		return FormatSpec{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"invalid format spec", map[string]any{"spec": spec, "reason": reason})
	}

	s := spec
	if r, size := utf8.DecodeRuneInString(s); len(s) > size && isAlign(s[size]) {
		f.Fill, f.Align = r, s[size]
		s = s[size+1:]
	} else if isAlign(s[0]) {
		f.Align = s[0]
		s = s[1:]
	}

	if s != "" && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		f.Sign = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '#' {
		f.Alt = true
		s = s[1:]
	}
	if s != "" && s[0] == '0' {
		if f.Align == 0 {
			f.Fill, f.Align = '0', '='
		}
		s = s[1:]
	}

	n := leadingDigits(s)
	if n > 0 {
		w, err := strconv.Atoi(s[:n])
		if err != nil {
			return bad("width out of range")
		}
		f.Width = w
		s = s[n:]
	}
	if s != "" && (s[0] == ',' || s[0] == '_') {
		f.Grouping = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		s = s[1:]
		n = leadingDigits(s)
		if n == 0 {
			return bad("precision not specified")
		}
		p, err := strconv.Atoi(s[:n])
		if err != nil {
			return bad("precision out of range")
		}
		f.Precision = p
		s = s[n:]
	}

	switch {
	case s == "":
	case len(s) == 1 && strings.IndexByte("eEfFgGn%ds", s[0]) >= 0:
		f.Type = s[0]
	default:
		return bad(fmt.Sprintf("unknown format code %q", s))
	}

	return f, nil
}

// MustParseFormatSpec is like ParseFormatSpec but panics on error.
func MustParseFormatSpec(spec string) FormatSpec {
	f, err := ParseFormatSpec(spec)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the spec as it was parsed.
func (f FormatSpec) String() string {
	return f.raw
}

// IsZero reports whether the spec carries no formatting directives.
func (f FormatSpec) IsZero() bool {
	return f.raw == ""
}

// FormatFloat renders v according to the spec.
func (f FormatSpec) FormatFloat(v float64) (string, error) {
	neg := math.Signbit(v) && !math.IsNaN(v)
	abs := math.Abs(v)
	prec := f.Precision

	var body, suffix string
	switch {
	case math.IsNaN(v):
		body = "nan"
	case math.IsInf(v, 0):
		body = "inf"
	}

	if body == "" {
		switch f.Type {
		case 'f', 'F':
			body = strconv.FormatFloat(abs, 'f', precOr(prec, 6), 64)
		case 'e', 'E':
			body = strconv.FormatFloat(abs, 'e', precOr(prec, 6), 64)
		case 'g', 'G', 'n':
			p := precOr(prec, 6)
			if p == 0 {
				p = 1
			}
			body = strconv.FormatFloat(abs, 'g', p, 64)
		case '%':
			body = strconv.FormatFloat(abs*100, 'f', precOr(prec, 6), 64)
		case 'd':
			if abs != math.Trunc(abs) {
				return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
					"format code 'd' requires an integral value", map[string]any{"value": v})
			}
			body = strconv.FormatFloat(abs, 'f', 0, 64)
		case 's':
			return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"format code 's' cannot format a number", map[string]any{"value": v})
		default:
			if prec < 0 {
				body = ReprFloat(abs)
			} else {
				body = strconv.FormatFloat(abs, 'g', max(prec, 1), 64)
				if !strings.ContainsAny(body, ".e") {
					body += ".0"
				}
			}
		}
	}
	if f.Type == '%' {
		suffix = "%"
	}
	if f.Grouping != 0 {
		body = groupDigits(body, f.Grouping)
	}
	if f.Type == 'F' || f.Type == 'E' || f.Type == 'G' {
		body = strings.ToUpper(body)
	}

	return f.pad(f.signOf(neg), body+suffix, '>'), nil
}

// FormatInt renders an integer according to the spec.
func (f FormatSpec) FormatInt(v int64) (string, error) {
	switch f.Type {
	case 0, 'd', 'n':
		if f.Precision >= 0 {
			return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"precision not allowed in integer format", map[string]any{"spec": f.raw})
		}
		neg := v < 0
		body := strconv.FormatUint(absInt(v), 10)
		if f.Grouping != 0 {
			body = groupDigits(body, f.Grouping)
		}
		return f.pad(f.signOf(neg), body, '>'), nil
	case 's':
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"format code 's' cannot format a number", map[string]any{"value": v})
	}
	return f.FormatFloat(float64(v))
}

// FormatString renders s according to the spec. Only alignment, width and
// precision (truncation) apply.
func (f FormatSpec) FormatString(s string) (string, error) {
	if f.Type != 0 && f.Type != 's' {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"numeric format code applied to a string", map[string]any{"spec": f.raw, "value": s})
	}
	if f.Precision >= 0 && utf8.RuneCountInString(s) > f.Precision {
		s = string([]rune(s)[:f.Precision])
	}
	return f.pad("", s, '<'), nil
}

// Format renders any display scalar according to the spec.
func (f FormatSpec) Format(v any) (string, error) {
	switch x := v.(type) {
	case float64:
		return f.FormatFloat(x)
	case float32:
		return f.FormatFloat(float64(x))
	case int:
		return f.FormatInt(int64(x))
	case int64:
		return f.FormatInt(x)
	case int32:
		return f.FormatInt(int64(x))
	case uint:
		return f.FormatInt(int64(x))
	case uint64:
		return f.FormatInt(int64(x))
	case bool:
		if f.Type == 0 {
			return f.FormatString(pyBool(x))
		}
		if x {
			return f.FormatInt(1)
		}
		return f.FormatInt(0)
	case string:
		return f.FormatString(x)
	case fmt.Stringer:
		return f.FormatString(x.String())
	}
	return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"value cannot be formatted", map[string]any{"type": fmt.Sprintf("%T", v)})
}

// ReprFloat renders v the way record tag labels render floats.
func ReprFloat(v float64) string {
	return measurement.ReprFloat(v)
}

func (f FormatSpec) signOf(neg bool) string {
	switch {
	case neg:
		return "-"
	case f.Sign == '+':
		return "+"
	case f.Sign == ' ':
		return " "
	}
	return ""
}

func (f FormatSpec) pad(sign, body string, defaultAlign byte) string {
	n := utf8.RuneCountInString(sign) + utf8.RuneCountInString(body)
	if f.Width <= n {
		return sign + body
	}
	fill := strings.Repeat(string(f.Fill), f.Width-n)
	align := f.Align
	if align == 0 {
		align = defaultAlign
	}
	switch align {
	case '<':
		return sign + body + fill
	case '^':
		left := (f.Width - n) / 2
		return strings.Repeat(string(f.Fill), left) + sign + body +
			strings.Repeat(string(f.Fill), f.Width-n-left)
	case '=':
		return sign + fill + body
	default:
		return fill + sign + body
	}
}

func groupDigits(body string, sep byte) string {
	end := strings.IndexAny(body, ".eE")
	if end < 0 {
		end = len(body)
	}
	intPart := body[:end]
	if len(intPart) <= 3 || strings.IndexFunc(intPart, isNotDigit) >= 0 {
		return body
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + body[end:]
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func precOr(p, def int) int {
	if p < 0 {
		return def
	}
	return p
}

func absInt(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
