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

// Package aggregates implements the named reductions shared by grouping,
// top-N selection and pivoting: first, last, count, concat, max, min, sum,
// mean, median, pN, stddev and diff.
package aggregates

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/abhi-bops/da/core/query"
)

// DefaultPrecision is the number of decimals stddev is rounded to.
const DefaultPrecision = 3

// Options tunes Apply. The zero value uses DefaultPrecision.
type Options struct {
	// Precision is the number of decimals for stddev; negative means DefaultPrecision.
	Precision int
	set       bool
}

// WithPrecision returns options rounding stddev to p decimals.
func WithPrecision(p int) Options {
	return Options{Precision: p, set: true}
}

func (o Options) precision() int {
	if !o.set || o.Precision < 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// Apply reduces values with the aggregate function. It returns None when the
// list is empty, when a numeric function finds no finite numbers, or when the
// function is unknown.
//
// first, last, count and concat work on the raw values in their given order.
// The numeric functions only see values that parse to finite numbers.
func Apply(values []string, agg query.Aggregate, opts Options) Value {
	if len(values) == 0 {
		return None()
	}
	switch agg.Type {
	case query.AggFirst:
		return Text(values[0])
	case query.AggLast:
		return Text(values[len(values)-1])
	case query.AggCount:
		return Number(float64(len(values)))
	case query.AggConcat:
		return Text(strings.Join(values, " "))
	case query.AggUnknown:
		return None()
	}

	nums := Numbers(values)
	if len(nums) == 0 {
		return None()
	}
	switch agg.Type {
	case query.AggMax:
		return Number(maxOf(nums))
	case query.AggMin:
		return Number(minOf(nums))
	case query.AggSum:
		return Number(Round(sum(nums), 2))
	case query.AggMean:
		return Number(Round(sum(nums)/float64(len(nums)), 2))
	case query.AggMedian:
		sort.Float64s(nums)
		return Number(median(nums))
	case query.AggPercentile:
		sort.Float64s(nums)
		return Number(Percentile(nums, agg.Percentile))
	case query.AggStdDev:
		return Number(Round(PStdDev(nums), opts.precision()))
	case query.AggDiff:
		return Number(maxOf(nums) - minOf(nums))
	}
	return None()
}

// Numbers returns the values that parse to finite numbers, in input order.
func Numbers(values []string) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ParseFinite(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// ParseFinite parses s as a float, rejecting NaN and infinities.
func ParseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Percentile returns the value at index floor(n/100 * len(sorted)), clamped
// into range. No interpolation is done; sorted must be ascending.
func Percentile(sorted []float64, n int) float64 {
	idx := n * len(sorted) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// PStdDev is the population standard deviation.
func PStdDev(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	mean := sum(nums) / float64(len(nums))
	var ss float64
	for _, v := range nums {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(nums)))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func sum(nums []float64) float64 {
	var s float64
	for _, v := range nums {
		s += v
	}
	return s
}

func maxOf(nums []float64) float64 {
	m := nums[0]
	for _, v := range nums[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(nums []float64) float64 {
	m := nums[0]
	for _, v := range nums[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
