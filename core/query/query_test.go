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

package query

import (
	"slices"
	"testing"

	"github.com/abhi-bops/da/core/errs"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		spec     string
		expected []int
	}{
		{"0-2,1,4", []int{0, 1, 2, 4}},
		{"3", []int{3}},
		{" 2 , 0 ", []int{2, 0}},
		{"1,1,1", []int{1}},
		{"4-4", []int{4}},
		{"", []int{}},
		{"5,0-1,", []int{5, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseFields(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseFieldsErrors(t *testing.T) {
	for _, spec := range []string{"a", "1-b", "1.5", "3-1", "-2"} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseFields(spec)
			if err == nil {
				t.Fatalf("expected error for %q", spec)
			}
			if !errs.Is(err, errs.KindParse) {
				t.Errorf("expected a parse error, got %v", err)
			}
		})
	}
}

func TestParseAggregate(t *testing.T) {
	tests := []struct {
		name       string
		typ        AggregateType
		percentile int
	}{
		{"first", AggFirst, 0},
		{"avg", AggMean, 0},
		{"average", AggMean, 0},
		{"p50", AggMedian, 0},
		{"p90", AggPercentile, 90},
		{"p0", AggPercentile, 0},
		{"p100", AggPercentile, 100},
		{"p101", AggUnknown, 0},
		{"px", AggUnknown, 0},
		{"mode", AggUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ParseAggregate(tt.name)
			if a.Type != tt.typ || a.Percentile != tt.percentile {
				t.Errorf("expected (%v, %d), got (%v, %d)", tt.typ, tt.percentile, a.Type, a.Percentile)
			}
		})
	}
}

func TestParseInts(t *testing.T) {
	got, err := ParseInts("bins", []string{"10", "20,30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []int{10, 20, 30}) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseInts("bins", []string{"1.5"}); !errs.Is(err, errs.KindParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestParseHeading(t *testing.T) {
	if got := ParseHeading("a, b,c"); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v", got)
	}
	if got := ParseHeading(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestParseSortColumns(t *testing.T) {
	got, err := ParseSortColumns("2,0", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []SortColumn{{Field: 2, Descending: true}, {Field: 0, Descending: true}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := ParseSortColumns("", false); !errs.Is(err, errs.KindParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestParseBinEdges(t *testing.T) {
	got, err := ParseBinEdges([]string{"30,10", "20", "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []float64{10, 20, 30}) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseBinEdges([]string{"x"}); !errs.Is(err, errs.KindParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}
