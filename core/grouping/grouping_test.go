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

package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/tables"
)

func aggs(names ...string) []query.Aggregate {
	return query.ParseAggregates(names)
}

func TestGroupSumCount(t *testing.T) {
	dt := tables.FromRows([]string{"k", "v"}, [][]string{
		{"A", "10"}, {"B", "5"}, {"A", "20"},
	}, "-")
	out, err := Group(dt, GroupSpec{Keys: []int{0}, Values: []int{1}, Funcs: aggs("sum", "count")})
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "sum(v)", "count(v)"}, out.Heading())
	assert.Equal(t, [][]string{{"A", "30", "2"}, {"B", "5", "1"}}, out.Rows())
}

func TestGroupMultipleKeysSorted(t *testing.T) {
	dt := tables.FromRows([]string{"a", "b", "v"}, [][]string{
		{"y", "2", "1"}, {"x", "10", "2"}, {"x", "9", "3"}, {"y", "2", "4"},
	}, "-")
	out, err := Group(dt, GroupSpec{Keys: []int{0, 1}, Values: []int{2}, Funcs: aggs("max")})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "9", "3"}, {"x", "10", "2"}, {"y", "2", "4"}}, out.Rows())
}

func TestGroupRowsSumToInput(t *testing.T) {
	dt := tables.FromRows([]string{"k", "v"}, [][]string{
		{"a", "1"}, {"b", "1"}, {"a", "1"}, {"c", "1"}, {"a", "1"},
	}, "-")
	out, err := Group(dt, GroupSpec{Keys: []int{0}, Values: []int{1}, Funcs: aggs("count")})
	require.NoError(t, err)
	total := 0
	for _, r := range out.Rows() {
		switch r[1] {
		case "1":
			total++
		case "3":
			total += 3
		}
	}
	assert.Equal(t, dt.Len(), total)
}

func TestGroupErrors(t *testing.T) {
	dt := tables.FromRows([]string{"k", "v"}, [][]string{{"a", "1"}}, "-")

	_, err := Group(dt, GroupSpec{Values: []int{1}, Funcs: aggs("sum")})
	assert.True(t, errs.Is(err, errs.KindParse))

	_, err = Group(dt, GroupSpec{Keys: []int{0}, Values: []int{1}})
	assert.True(t, errs.Is(err, errs.KindParse))

	_, err = Group(dt, GroupSpec{Keys: []int{7}, Values: []int{1}, Funcs: aggs("sum")})
	assert.True(t, errs.Is(err, errs.KindParse))
}

func TestGroupUnknownFunctionIsMissing(t *testing.T) {
	dt := tables.FromRows([]string{"k", "v"}, [][]string{{"a", "1"}}, "-")
	out, err := Group(dt, GroupSpec{Keys: []int{0}, Values: []int{1}, Funcs: aggs("bogus")})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "-"}}, out.Rows())
}

func TestTopN(t *testing.T) {
	dt := tables.FromRows([]string{"host", "path", "bytes"}, [][]string{
		{"h1", "/a", "10"},
		{"h1", "/b", "30"},
		{"h1", "/a", "5"},
		{"h1", "/c", "1"},
		{"h2", "/a", "7"},
	}, "-")
	out, err := TopN(dt, TopNSpec{
		Keys: []int{0}, Top: []int{1}, Values: []int{2},
		Funcs: aggs("sum"), N: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "top1", "top2"}, out.Heading())
	assert.Equal(t, [][]string{
		{"h1", "30(/b)", "15(/a)"},
		{"h2", "7(/a)", "-"},
	}, out.Rows())
}

func TestTopNMultipleTopFields(t *testing.T) {
	dt := tables.FromRows([]string{"k", "a", "b", "v"}, [][]string{
		{"x", "p", "q", "1"},
		{"x", "r", "s", "2"},
	}, "-")
	out, err := TopN(dt, TopNSpec{
		Keys: []int{0}, Top: []int{1, 2}, Values: []int{3},
		Funcs: aggs("count", "sum"), N: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "2(r s)"}}, out.Rows())
}

func TestTopNRejectsBadN(t *testing.T) {
	dt := tables.FromRows([]string{"k", "v"}, [][]string{{"a", "1"}}, "-")
	_, err := TopN(dt, TopNSpec{Keys: []int{0}, Top: []int{1}, Values: []int{1}, Funcs: aggs("sum")})
	assert.True(t, errs.Is(err, errs.KindParse))
}

func pivotInput() *tables.DataTable {
	return tables.FromRows([]string{"v", "r", "c"}, [][]string{
		{"1", "a", "x"},
		{"2", "a", "y"},
		{"3", "b", "x"},
		{"4", "a", "x"},
		{"9", "-", "x"},
		{"-", "b", "y"},
	}, "-")
}

func TestPivotShape(t *testing.T) {
	p, err := Pivot(pivotInput(), PivotSpec{Row: 1, Col: 2, Value: 0, Func: query.ParseAggregate("sum")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.RowKeys)
	assert.Equal(t, []string{"x", "y"}, p.ColKeys)
	assert.Equal(t, [][]string{{"5", "2"}, {"3", "0"}}, p.Matrix)

	out := p.Table()
	assert.Equal(t, []string{"sum(r/c)", "x", "y"}, out.Heading())
	assert.Equal(t, [][]string{{"a", "5", "2"}, {"b", "3", "0"}}, out.Rows())
	assert.Equal(t, 0, p.SummaryRows())
}

func TestPivotEmptyCellIsMissing(t *testing.T) {
	dt := tables.FromRows([]string{"v", "r", "c"}, [][]string{
		{"1", "a", "x"}, {"2", "b", "y"},
	}, "-")
	p, err := Pivot(dt, PivotSpec{Row: 1, Col: 2, Value: 0, Func: query.ParseAggregate("sum")})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "-"}, {"-", "2"}}, p.Matrix)
}

func TestPivotNumericKeysSortNumerically(t *testing.T) {
	dt := tables.FromRows([]string{"v", "r", "c"}, [][]string{
		{"1", "10", "x"}, {"1", "9", "x"}, {"1", "100", "x"},
	}, "-")
	p, err := Pivot(dt, PivotSpec{Row: 1, Col: 2, Value: 0, Func: query.ParseAggregate("count")})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, p.RowKeys)
}

func TestPivotSummaries(t *testing.T) {
	p, err := Pivot(pivotInput(), PivotSpec{
		Row: 1, Col: 2, Value: 0,
		Func:    query.ParseAggregate("sum"),
		Summary: true, SummaryFuncs: aggs("max"),
	})
	require.NoError(t, err)
	out := p.Table()
	assert.Equal(t, []string{"sum(r/c)", "x", "y", ":RSummary(sum):", ":RSummary(max):"}, out.Heading())
	assert.Equal(t, [][]string{
		{"a", "5", "2", "7", "5"},
		{"b", "3", "0", "3", "3"},
		{":CSummary(sum):", "8", "2", "*", "*"},
		{":CSummary(max):", "5", "2", "*", "*"},
	}, out.Rows())
	assert.Equal(t, 2, p.SummaryRows())
}

func TestPivotSummarySides(t *testing.T) {
	base := PivotSpec{Row: 1, Col: 2, Value: 0, Func: query.ParseAggregate("sum"), Summary: true}

	rowOnly := base
	rowOnly.RowSummary = true
	p, err := Pivot(pivotInput(), rowOnly)
	require.NoError(t, err)
	assert.NotNil(t, p.RowSummaries)
	assert.Nil(t, p.ColSummaries)
	assert.Equal(t, []string{"sum(r/c)", "x", "y", ":RSummary(sum):"}, p.Table().Heading())

	colOnly := base
	colOnly.ColSummary = true
	p, err = Pivot(pivotInput(), colOnly)
	require.NoError(t, err)
	assert.Nil(t, p.RowSummaries)
	assert.Equal(t, [][]string{{"8", "2"}}, p.ColSummaries)
	assert.Equal(t, []string{":CSummary(sum):", "8", "2"}, p.Table().Rows()[2])

	both := base
	both.RowSummary, both.ColSummary = true, true
	both.NotApplicable = "n/a"
	p, err = Pivot(pivotInput(), both)
	require.NoError(t, err)
	assert.Equal(t, []string{":CSummary(sum):", "8", "2", "n/a"}, p.Table().Rows()[2])
}

func TestPivotByRow(t *testing.T) {
	out, err := PivotByRow(pivotInput(), PivotSpec{
		Row: 1, Value: 0, NoColumn: true,
		Func: query.ParseAggregate("sum"), SummaryFuncs: aggs("count", "max"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"(v)", "count", "max"}, out.Heading())
	assert.Equal(t, [][]string{{"a", "3", "4"}, {"b", "2", "3"}}, out.Rows())

	out, err = PivotByRow(pivotInput(), PivotSpec{Row: 1, Value: 0, NoColumn: true, Func: query.ParseAggregate("sum")})
	require.NoError(t, err)
	assert.Equal(t, []string{"(v)", "sum"}, out.Heading())
	assert.Equal(t, [][]string{{"a", "7"}, {"b", "3"}}, out.Rows())

	out, err = PivotByRow(pivotInput(), PivotSpec{
		Row: 1, Value: 0, NoColumn: true,
		Func: query.ParseAggregate("sum"), Summary: true, SummaryFuncs: aggs("max"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"(v)", "sum", "max"}, out.Heading())
	assert.Equal(t, [][]string{{"a", "7", "4"}, {"b", "3", "3"}}, out.Rows())
}

func TestPivotRequiresColumn(t *testing.T) {
	_, err := Pivot(pivotInput(), PivotSpec{Row: 1, Value: 0, NoColumn: true, Func: query.ParseAggregate("sum")})
	assert.True(t, errs.Is(err, errs.KindParse))
}
