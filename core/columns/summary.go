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

package columns

import (
	"math"
	"sort"

	"github.com/abhi-bops/da/core/aggregates"
)

// SummaryPercentiles are reported for continuous columns.
var SummaryPercentiles = []int{5, 25, 50, 75, 90, 95, 99}

// Continuous describes a column holding at least one finite number.
type Continuous struct {
	Name        string
	Count       int
	Min, Max    float64
	Mean        float64
	StdDev      float64
	Percentiles []float64 // aligned with SummaryPercentiles
}

// Rows renders the description as (statistic, value) pairs.
func (s Continuous) Rows() [][]string {
	rows := [][]string{
		{"count", aggregates.FormatNumber(float64(s.Count))},
		{"min", aggregates.FormatNumber(s.Min)},
		{"max", aggregates.FormatNumber(s.Max)},
		{"mean", aggregates.FormatNumber(s.Mean)},
		{"stddev", aggregates.FormatNumber(s.StdDev)},
	}
	for i, p := range SummaryPercentiles {
		rows = append(rows, []string{aggregates.FormatNumber(float64(p)) + "p", aggregates.FormatNumber(s.Percentiles[i])})
	}
	return rows
}

// Categorical describes a column with no numeric values.
type Categorical struct {
	Name   string
	Unique int
	Count  int
	// TopShares are the cumulative percentage shares of the most common
	// values, at most five.
	TopShares   []float64
	Most, Least string
}

// Rows renders the description as (statistic, value) pairs, padding missing
// top shares with missing.
func (s Categorical) Rows(missing string) [][]string {
	rows := [][]string{
		{"unique", aggregates.FormatNumber(float64(s.Unique))},
		{"count", aggregates.FormatNumber(float64(s.Count))},
	}
	for i := 0; i < 5; i++ {
		v := missing
		if i < len(s.TopShares) {
			v = aggregates.FormatNumber(s.TopShares[i])
		}
		rows = append(rows, []string{"top" + aggregates.FormatNumber(float64(i+1)), v})
	}
	return append(rows, []string{"most", s.Most}, []string{"least", s.Least})
}

// Describe computes continuous statistics. It returns false when the column
// has no finite numbers.
func (c *Column) Describe() (Continuous, bool) {
	nums := c.Numbers()
	if len(nums) == 0 {
		return Continuous{}, false
	}
	sort.Float64s(nums)
	state := aggregates.NewNumericState()
	for _, f := range nums {
		state.Add(f)
	}
	s := Continuous{
		Name:   c.Name,
		Count:  int(state.Count),
		Min:    state.Min,
		Max:    state.Max,
		Mean:   aggregates.Round(state.Mean(), 2),
		StdDev: aggregates.Round(aggregates.PStdDev(nums), 2),
	}
	n := len(nums)
	for _, p := range SummaryPercentiles {
		idx := int(math.Ceil(float64(p*n) / 100))
		idx = max(0, min(idx, n-1))
		s.Percentiles = append(s.Percentiles, nums[idx])
	}
	return s, true
}

// DescribeCategorical counts the distinct raw values of the column.
func (c *Column) DescribeCategorical() Categorical {
	counts := Frequencies(c.Raw)
	s := Categorical{Name: c.Name, Unique: len(counts)}
	for _, f := range counts {
		s.Count += f.Count
	}
	if len(counts) == 0 {
		return s
	}
	cum := 0.0
	for i, f := range counts {
		if i == 5 {
			break
		}
		cum += float64(f.Count) * 100 / float64(s.Count)
		s.TopShares = append(s.TopShares, aggregates.Round(cum, 2))
	}
	s.Most = counts[0].Value
	s.Least = counts[len(counts)-1].Value
	return s
}

// Frequency is a distinct value and how often it occurs.
type Frequency struct {
	Value string
	Count int
}

// Frequencies counts the non-empty values, most common first. Ties keep
// first-seen order.
func Frequencies(values []string) []Frequency {
	index := make(map[string]int)
	var out []Frequency
	for _, v := range values {
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, Frequency{Value: v})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Correlation returns the Pearson correlation of two columns over the rows
// where both are finite. It returns false with fewer than two such rows or
// when either side has zero variance.
func Correlation(x, y *Column) (float64, bool) {
	var xs, ys []float64
	for i := 0; i < x.Len() && i < y.Len(); i++ {
		a, b := x.Numeric[i], y.Numeric[i]
		if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
			continue
		}
		xs = append(xs, a)
		ys = append(ys, b)
	}
	n := float64(len(xs))
	if n < 2 {
		return 0, false
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}
