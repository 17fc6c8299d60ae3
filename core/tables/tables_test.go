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

package tables

import (
	"reflect"
	"testing"

	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
)

func sample() *DataTable {
	return FromRows([]string{"name", "qty", "price"}, [][]string{
		{"pear", "10", "1.5"},
		{"apple", "2", "-"},
		{"fig", "10", "0.5"},
		{"kiwi", "-", "3"},
	}, "-")
}

func column(dt *DataTable, c int) []string {
	out := make([]string, dt.Len())
	for i, row := range dt.Rows() {
		out[i] = row[c]
	}
	return out
}

func TestAppendRowFitsHeading(t *testing.T) {
	dt := NewDataTable([]string{"a", "b", "c"}, "-")
	dt.AppendRow([]string{"1"})
	dt.AppendRow([]string{"1", "2", "3", "4"})
	for i, row := range dt.Rows() {
		if len(row) != dt.Width() {
			t.Errorf("row %d has width %d, want %d", i, len(row), dt.Width())
		}
	}
	if got := dt.Rows()[0]; !reflect.DeepEqual(got, []string{"1", "-", "-"}) {
		t.Errorf("padded row = %v", got)
	}
}

func TestFields(t *testing.T) {
	dt := NewDataTable([]string{"x", "y"}, "-")
	dt.SetFields([]int{4, 1})
	dt.AppendRow([]string{"a", "b"})
	dt.AppendRow([]string{"c", "d"})

	got, err := dt.Fields([]int{1})
	if err != nil {
		t.Fatalf("Fields() error: %v", err)
	}
	if got[0].Name != "y" || !reflect.DeepEqual(got[0].Values, []string{"b", "d"}) {
		t.Errorf("Fields([1]) = %+v", got[0])
	}

	all, err := dt.Fields(nil)
	if err != nil {
		t.Fatalf("Fields() error: %v", err)
	}
	if len(all) != 2 || all[0].Input != 4 || all[1].Input != 1 {
		t.Errorf("Fields(nil) = %+v", all)
	}

	if _, err := dt.Fields([]int{0}); !errs.Is(err, errs.KindParse) {
		t.Errorf("expected parse error for unread field, got %v", err)
	}
}

func TestColumn(t *testing.T) {
	c, err := sample().Column(2)
	if err != nil {
		t.Fatalf("Column() error: %v", err)
	}
	if c.Name != "price" || c.Raw[1] != "" || c.Numeric[0] != 1.5 {
		t.Errorf("Column(2) = %v %v", c.Raw, c.Numeric)
	}
}

func TestSort(t *testing.T) {
	testCases := []struct {
		name string
		keys []query.SortColumn
		want []string
	}{
		{"numeric ascending, missing last", []query.SortColumn{{Field: 1}}, []string{"apple", "pear", "fig", "kiwi"}},
		{"numeric descending, missing last", []query.SortColumn{{Field: 1, Descending: true}}, []string{"pear", "fig", "apple", "kiwi"}},
		{"two keys", []query.SortColumn{{Field: 1}, {Field: 0}}, []string{"apple", "fig", "pear", "kiwi"}},
		{"text", []query.SortColumn{{Field: 0}}, []string{"apple", "fig", "kiwi", "pear"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dt := sample()
			if err := dt.Sort(tc.keys); err != nil {
				t.Fatalf("Sort() error: %v", err)
			}
			if got := column(dt, 0); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortRowsMixedValuesIgnoresInputOrder(t *testing.T) {
	want := [][]string{{"9"}, {"10"}, {"1a"}}
	for _, in := range [][]string{{"10", "9", "1a"}, {"1a", "10", "9"}, {"9", "1a", "10"}} {
		rows := make([][]string, len(in))
		for i, v := range in {
			rows[i] = []string{v}
		}
		SortRows(rows, NewRowOrder([]int{0}, false, "-"))
		if !reflect.DeepEqual(rows, want) {
			t.Errorf("SortRows(%v) = %v, want %v", in, rows, want)
		}
	}
}

func TestTopRowsMatchesSort(t *testing.T) {
	rows := [][]string{{"5"}, {"1"}, {"9"}, {"3"}, {"7"}, {"3"}, {"-"}}
	o := NewRowOrder([]int{0}, true, "-")
	for k := 1; k <= len(rows)+1; k++ {
		full := append([][]string(nil), rows...)
		SortRows(full, o)
		got := TopRows(rows, o, k)
		want := full
		if k < len(full) {
			want = full[:k]
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("k=%d: got %v, want %v", k, got, want)
		}
	}
}

func TestSortTop(t *testing.T) {
	dt := sample()
	if err := dt.SortTop([]query.SortColumn{{Field: 2, Descending: true}}, 2); err != nil {
		t.Fatalf("SortTop() error: %v", err)
	}
	if got := column(dt, 0); !reflect.DeepEqual(got, []string{"kiwi", "pear"}) {
		t.Errorf("got %v", got)
	}
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		expr string
		want []string
	}{
		{"qty > 5", []string{"pear", "fig"}},
		{"f1 >= 10 and price < 1", []string{"fig"}},
		{`name.startswith("k") or price == None`, []string{"apple", "kiwi"}},
		{"qty < 100", []string{"pear", "apple", "fig"}},
	}
	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			dt := sample()
			if err := dt.Filter(tc.expr, false); err != nil {
				t.Fatalf("Filter() error: %v", err)
			}
			if got := column(dt, 0); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterTag(t *testing.T) {
	dt := sample()
	if err := dt.Filter("qty > 5", true); err != nil {
		t.Fatalf("Filter() error: %v", err)
	}
	if dt.Len() != 4 || dt.Heading()[3] != FilteredColumn {
		t.Fatalf("heading = %v, rows = %d", dt.Heading(), dt.Len())
	}
	if got := column(dt, 3); !reflect.DeepEqual(got, []string{"1", "0", "1", "0"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestFilterErrors(t *testing.T) {
	for _, src := range []string{"qty >", "nosuch > 1", "f9 > 1"} {
		if err := sample().Filter(src, false); !errs.Is(err, errs.KindParse) {
			t.Errorf("Filter(%q) = %v, want parse error", src, err)
		}
	}
}

func TestTranspose(t *testing.T) {
	dt := FromRows([]string{"k", "a", "b"}, [][]string{{"x", "1", "2"}, {"y", "3", "4"}}, "-")
	dt.Transpose()
	if want := []string{"k", "x", "y"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("heading = %v, want %v", dt.Heading(), want)
	}
	want := [][]string{{"a", "1", "3"}, {"b", "2", "4"}}
	if !reflect.DeepEqual(dt.Rows(), want) {
		t.Errorf("rows = %v, want %v", dt.Rows(), want)
	}
}
