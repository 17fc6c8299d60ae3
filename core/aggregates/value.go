/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package aggregates

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

type valueKind int

const (
	kindNone valueKind = iota
	kindText
	kindNumber
)

// Value is the scalar result of an aggregate: nothing, a raw string, or a number.
type Value struct {
	kind valueKind
	text string
	num  float64
}

// None is the absent result; callers render it as the missing character.
func None() Value { return Value{} }

// Text wraps a raw value.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Number wraps a numeric result.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// IsNone reports whether the value is absent.
func (v Value) IsNone() bool { return v.kind == kindNone }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float returns the numeric value, parsing raw text when needed. The second
// result is false when no finite number is available.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, !math.IsNaN(v.num)
	case kindText:
		return ParseFinite(v.text)
	}
	return 0, false
}

// Format renders the value, substituting missing for None.
func (v Value) Format(missing string) string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return FormatNumber(v.num)
	}
	return missing
}

// String renders the value with "-" for None.
func (v Value) String() string {
	return v.Format("-")
}

// FormatNumber renders integral values without a fraction and everything else
// with the shortest representation that round-trips.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Round rounds f to the given number of decimals, half away from zero.
// Non-finite inputs are returned unchanged.
func Round(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return decimal.NewFromFloat(f).Round(int32(places)).InexactFloat64()
}
