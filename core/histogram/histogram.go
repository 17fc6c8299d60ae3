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

// Package histogram buckets numeric data into right-inclusive bins.
package histogram

import (
	"math"
	"sort"
)

// DefaultCount is the number of bins used when none of edges, size or count
// is given.
const DefaultCount = 20

// Options selects how edges are built. Edges take precedence over Size,
// which takes precedence over Count.
type Options struct {
	Edges []float64
	Size  float64
	Count int
	// Min and Max override the data range when set.
	Min, Max *float64
}

// Bin is one non-empty bucket (Lower, Upper].
type Bin struct {
	Lower, Upper float64
	Count        int
}

// Histogram is the result of bucketing.
type Histogram struct {
	Bins []Bin
	// Total is the number of values bucketed.
	Total int
}

// Compute buckets data. Non-finite values are ignored.
func Compute(data []float64, o Options) Histogram {
	sorted := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Histogram{}
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if o.Min != nil {
		lo = *o.Min
	}
	if o.Max != nil {
		hi = *o.Max
	}
	return Histogram{Bins: Assign(sorted, Edges(lo, hi, o)), Total: len(sorted)}
}

// Edges builds ascending bin edges for the range [lo, hi].
func Edges(lo, hi float64, o Options) []float64 {
	if len(o.Edges) > 0 {
		edges := append([]float64(nil), o.Edges...)
		sort.Float64s(edges)
		return edges
	}
	if o.Size > 0 {
		return stepEdges(lo, hi, o.Size)
	}
	count := float64(o.Count)
	if count <= 0 {
		count = DefaultCount
	}
	// More bins than the range would give widths below one.
	if count > hi-lo {
		count = hi - lo
	}
	width := 1.0
	if count > 0 {
		width = math.Floor((hi - lo) / count)
	}
	if width <= 0 {
		width = 1
	}
	return stepEdges(lo, hi, width)
}

// stepEdges starts at floor(lo) and steps by width until an edge reaches
// hi, which is replaced by ceil(hi).
func stepEdges(lo, hi, width float64) []float64 {
	var edges []float64
	for e := math.Floor(lo); ; e += width {
		if e >= hi {
			return append(edges, math.Ceil(hi))
		}
		edges = append(edges, e)
	}
}

// Assign counts ascending data into the bins ending at each edge. A value
// belongs to the first edge it does not exceed; values above the last edge
// get a final bin ending at the maximum. Edges that receive no value are
// left out.
func Assign(sorted, edges []float64) []Bin {
	if len(sorted) == 0 || len(edges) == 0 {
		return nil
	}
	if last := sorted[len(sorted)-1]; last > edges[len(edges)-1] {
		edges = append(append([]float64(nil), edges...), last)
	}
	counts := make([]int, len(edges))
	cursor := 0
	for _, v := range sorted {
		for v > edges[cursor] {
			cursor++
		}
		counts[cursor]++
	}

	var bins []Bin
	for i, n := range counts {
		if n == 0 {
			continue
		}
		lower := edges[i] - 1
		if i > 0 {
			lower = edges[i-1]
		}
		bins = append(bins, Bin{Lower: lower, Upper: edges[i], Count: n})
	}
	return bins
}
