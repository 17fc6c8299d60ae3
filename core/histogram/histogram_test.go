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

package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi-bops/da/core/columns"
)

func TestEdges(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		opts   Options
		want   []float64
	}{
		{"count", 0, 100, Options{Count: 10}, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"count clamped to range", 0, 3, Options{Count: 10}, []float64{0, 1, 2, 3}},
		{"default count", 0, 40, Options{}, []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36, 38, 40}},
		{"size", 1.5, 7.2, Options{Size: 2}, []float64{1, 3, 5, 7, 8}},
		{"explicit edges win", 0, 100, Options{Edges: []float64{50, 10}, Size: 3}, []float64{10, 50}},
		{"single value", 5, 5, Options{Count: 4}, []float64{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Edges(tt.lo, tt.hi, tt.opts))
		})
	}
}

func TestAssign(t *testing.T) {
	bins := Assign([]float64{1, 2, 2, 9}, []float64{0, 2, 4})
	assert.Equal(t, []Bin{
		{Lower: 0, Upper: 2, Count: 3},
		{Lower: 4, Upper: 9, Count: 1},
	}, bins)
}

func TestComputeCountsEveryValue(t *testing.T) {
	data := []float64{13, 7, 0.5, 99, 42, 42, 18, 3, 77, 64, 5, 21}
	for _, o := range []Options{{}, {Count: 3}, {Size: 7}, {Edges: []float64{10, 20}}} {
		h := Compute(data, o)
		total := 0
		for _, b := range h.Bins {
			total += b.Count
			assert.Positive(t, b.Count)
		}
		assert.Equal(t, len(data), total)
		assert.Equal(t, len(data), h.Total)
	}
}

func TestComputeRangeOverride(t *testing.T) {
	lo, hi := 0.0, 10.0
	h := Compute([]float64{3, 4, 25}, Options{Count: 2, Min: &lo, Max: &hi})
	assert.Equal(t, []Bin{
		{Lower: 0, Upper: 5, Count: 2},
		{Lower: 10, Upper: 25, Count: 1},
	}, h.Bins)
}

func TestRows(t *testing.T) {
	h := Histogram{Bins: []Bin{{0, 2, 3}, {4, 9, 1}}, Total: 4}
	assert.Equal(t, [][]string{
		{"(0-2]", "3", "75", "75", "ooo "},
		{"(4-9]", "1", "25", "100", "o   "},
	}, h.Rows(Bar{Char: "o", Width: 4}))
}

func TestCategories(t *testing.T) {
	cats := Categories([]string{"b", "a", "b", "-"})
	assert.Equal(t, []Category{{"b", 2}, {"a", 1}, {"-", 1}}, cats)
	assert.Equal(t, [][]string{
		{"b", "2", "50", "50", "##  "},
		{"a", "1", "25", "75", "#   "},
		{"-", "1", "25", "100", "#   "},
	}, CategoryRows(cats, Bar{Char: "#", Width: 4}))
}

func TestTableFallsBackToCategories(t *testing.T) {
	c := columns.New("os", []string{"linux", "mac", "linux"}, "-")
	dt := Table(c, Options{}, Bar{Char: "o", Width: 10}, "-")
	require.Equal(t, Heading, dt.Heading())
	assert.Equal(t, "linux", dt.Rows()[0][0])
	assert.Equal(t, "66.67", dt.Rows()[0][2])

	n := columns.New("n", []string{"1", "2", "x"}, "-")
	dt = Table(n, Options{Count: 1}, Bar{Char: "o", Width: 10}, "-")
	assert.Equal(t, [][]string{
		{"(0-1]", "1", "50", "50", "ooooo     "},
		{"(1-2]", "1", "50", "100", "ooooo     "},
	}, dt.Rows())
}
