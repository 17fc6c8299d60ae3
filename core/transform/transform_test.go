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

package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/tables"
)

func mustParse(t *testing.T, specs ...string) []Spec {
	t.Helper()
	out, err := ParseAll(specs)
	require.NoError(t, err)
	return out
}

func numbers(values ...string) *tables.DataTable {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return tables.FromRows([]string{"v"}, rows, "-")
}

func column(t *testing.T, dt *tables.DataTable, i int) []string {
	t.Helper()
	out := make([]string, dt.Len())
	for r, row := range dt.Rows() {
		out[r] = row[i]
	}
	return out
}

func TestParse(t *testing.T) {
	spec, err := Parse("f0:divide:2")
	require.NoError(t, err)
	assert.Equal(t, Spec{Field: 0, Step: Step{Func: "divide", Param: Param{Literal: "2"}}}, spec)

	spec, err = Parse("1:add:f2|mul:3|cumsum=total")
	require.NoError(t, err)
	assert.Equal(t, 1, spec.Field)
	assert.Equal(t, Param{Field: 2, IsField: true}, spec.Param)
	assert.Equal(t, "total", spec.Alias)
	assert.Equal(t, []Step{
		{Func: "mul", Param: Param{Literal: "3"}},
		{Func: "cumsum", Param: Param{Literal: DefaultParam}},
	}, spec.Chain)
	assert.Equal(t, []int{1, 2}, spec.Fields())

	spec, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Spec{Step: Step{Param: Param{Literal: DefaultParam}}}, spec)

	spec, err = Parse("0:csvmap:hosts.csv,0,2")
	require.NoError(t, err)
	assert.Equal(t, "hosts.csv,0,2", spec.Param.Literal)
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"x:add:1", "0:add:1|", "f-1:add"} {
		_, err := Parse(s)
		assert.True(t, errs.Is(err, errs.KindParse), s)
	}
}

func TestPipelineDivideAndChain(t *testing.T) {
	dt := numbers("2", "4", "6")
	p := NewPipeline(Default(LibraryOptions{}))

	out, err := p.Apply(dt, nil, mustParse(t, "f0:divide:2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "divide(v,2)"}, out.Heading())
	assert.Equal(t, []string{"1", "2", "3"}, column(t, out, 1))

	out, err = p.Apply(dt, nil, mustParse(t, "f0:divide:2|add:1=next"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "next"}, out.Heading())
	assert.Equal(t, []string{"2", "3", "4"}, column(t, out, 1))
}

func TestPipelineFieldParameter(t *testing.T) {
	dt := tables.FromRows([]string{"a", "b"}, [][]string{{"1", "10"}, {"2", "-"}, {"3", "0"}}, "-")
	p := NewPipeline(Default(LibraryOptions{}))
	out, err := p.Apply(dt, []int{0}, mustParse(t, "0:add:f1", "0:div:f1", "0:subtract_from:f1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "add(a,b)", "div(a,b)", "subtract_from(a,b)"}, out.Heading())
	assert.Equal(t, []string{"11", "-", "3"}, column(t, out, 1))
	assert.Equal(t, []string{"0.1", "-", "+Inf"}, column(t, out, 2))
	assert.Equal(t, []string{"9", "-", "-3"}, column(t, out, 3))
}

func TestPipelineComparisonsAndDummy(t *testing.T) {
	dt := numbers("1", "2", "3")
	p := NewPipeline(Default(LibraryOptions{}))
	out, err := p.Apply(dt, nil, mustParse(t, "0:ge:2", "0:lt:2", "0:dummy:x=const"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "1"}, column(t, out, 1))
	assert.Equal(t, []string{"1", "0", "0"}, column(t, out, 2))
	assert.Equal(t, []string{"x", "x", "x"}, column(t, out, 3))
}

func TestPipelineUnknownFunctionLeavesColumn(t *testing.T) {
	dt := numbers("1", "2")
	p := NewPipeline(Default(LibraryOptions{}))
	out, err := p.Apply(dt, nil, mustParse(t, "0:nosuch:3", "0:add:1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "nosuch(v,3)", "add(v,1)"}, out.Heading())
	assert.Equal(t, []string{"1", "2"}, column(t, out, 1))
	assert.Equal(t, []string{"2", "3"}, column(t, out, 2))
}

func TestPipelineMissingSideFileSkipsTransform(t *testing.T) {
	dt := numbers("1", "2")
	p := NewPipeline(Default(LibraryOptions{}))
	missing := filepath.Join(t.TempDir(), "absent.csv")
	out, err := p.Apply(dt, nil, mustParse(t, "0:csvmap:"+missing, "0:mul:2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "mul(v,2)"}, out.Heading())
}

func TestPipelineUnreadFieldIsFatal(t *testing.T) {
	dt := numbers("1")
	p := NewPipeline(Default(LibraryOptions{}))
	_, err := p.Apply(dt, nil, mustParse(t, "4:add:1"))
	assert.True(t, errs.Is(err, errs.KindParse))
}

func TestRegistryCall(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call("cumsum", columns.New("v", []string{"1"}, "-"), columns.Scalar("1"))
	assert.ErrorIs(t, err, errs.ErrFunctionNotFound)

	r.Register("cumsum", cumsum)
	out, err := r.Call("cumsum", columns.New("v", []string{"1", "2"}, "-"), columns.Scalar("1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, out.Raw)
	assert.Contains(t, r.Names(), "add")
}

func call(t *testing.T, name string, param string, values ...string) []string {
	t.Helper()
	fn, ok := Default(LibraryOptions{BarChar: "#", BarWidth: 4}).Lookup(name)
	require.True(t, ok, name)
	out, err := fn(columns.New("v", values, "-"), columns.Scalar(param))
	require.NoError(t, err)
	return out.Raw
}

func TestShift(t *testing.T) {
	assert.Equal(t, []string{"", "1", "2", "3"}, call(t, "shift", "1", "1", "2", "3", "4"))
	assert.Equal(t, []string{"2", "3", "4", ""}, call(t, "shift", "-1", "1", "2", "3", "4"))
	assert.Equal(t, []string{"", "", "1", "2"}, call(t, "lag", "2", "1", "2", "3", "4"))
	assert.Equal(t, []string{"2", "3", "4", ""}, call(t, "lead", "1", "1", "2", "3", "4"))
	assert.Equal(t, []string{"", "1", "3", "-4"}, call(t, "diff", "1", "1", "2", "5", "1"))
}

func TestLibraryNumeric(t *testing.T) {
	assert.Equal(t, []string{"1", "", "3"}, call(t, "cumsum", "1", "1", "-", "2"))
	assert.Equal(t, []string{"0.25", "0.75", ""}, call(t, "share", "1", "1", "3", "x"))
	assert.Equal(t, []string{" 0.25 |#   ", " 0.75 |### "}, call(t, "share", "g", "1", "3"))
	assert.Equal(t, []string{"", ""}, call(t, "share", "1", "0", "0"))
	assert.Equal(t, []string{"0.25", "0.5"}, call(t, "normalise", "3", "1", "3"))
	assert.Equal(t, []string{"1.2", "-2.6"}, call(t, "round", "1", "1.23", "-2.55"))
	assert.Equal(t, []string{"", "1.5", "2.5", "3.5"}, call(t, "sma", "2", "1", "2", "3", "4"))
	assert.Equal(t, []string{"1.5", "2.5", "3.5", ""}, call(t, "sma", "-2", "1", "2", "3", "4"))
	assert.Equal(t, []string{"", "", ""}, call(t, "sma", "2", "1", "x", "3"))
}

func TestFormatUnixTime(t *testing.T) {
	assert.Equal(t, []string{"1970-01-01 00:00:00", "later"}, call(t, "formatunixtime", "1", "0", "later"))
	assert.Equal(t, []string{"1970/01/02 00h"}, call(t, "formatunixtime", "%Y/%m/%d %Hh", "86400"))
}

func TestTag(t *testing.T) {
	assert.Equal(t, []string{"one", "two", ""}, call(t, "tag", "a,one;b,two", "a", "b", "c"))
}

func TestLookupMissesAreReported(t *testing.T) {
	values := columns.New("host", []string{"a", "x", "y"}, "-")
	out, err := lookupCells("tag", values, map[string]string{"a": "one"})
	assert.True(t, errs.Is(err, errs.KindLookupMiss))
	assert.ErrorIs(t, err, errs.ErrLookupMiss)
	assert.Contains(t, err.Error(), `"x"`)
	assert.Contains(t, err.Error(), "1 more")
	assert.Equal(t, []string{"one", "-", "-"}, out.Strings("-"))

	_, err = lookupCells("tag", values, map[string]string{"a": "1", "x": "2", "y": "3"})
	assert.NoError(t, err)
}

func TestNonIntegerParameterSkipsTransform(t *testing.T) {
	_, err := shiftBy(1)(columns.New("v", []string{"1"}, "-"), columns.Scalar("x"))
	assert.True(t, errs.Is(err, errs.KindCoercion))

	p := NewPipeline(Default(LibraryOptions{}))
	out, err := p.Apply(numbers("1", "2"), nil, mustParse(t, "0:shift:x", "0:add:1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "add(v,1)"}, out.Heading())
}

func TestSideFileLookups(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "map.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("k1,v1\nk2,\"v,2\"\nk1,v3\n"), 0o644))
	assert.Equal(t, []string{"v3", "v,2", ""}, call(t, "csvmap", csvPath, "k1", "k2", "k9"))

	txtPath := filepath.Join(dir, "map.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x  a  10\ny  b  20\n"), 0o644))
	assert.Equal(t, []string{"10", "20"}, call(t, "filemap", txtPath+",1,2", "a", "b"))

	zstPath := filepath.Join(dir, "map.txt.zst")
	f, err := os.Create(zstPath)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte("a alpha\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, []string{"alpha"}, call(t, "filemap", zstPath, "a"))

	xlsxPath := filepath.Join(dir, "map.xlsx")
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]any{"k", "sheet-value"}))
	require.NoError(t, book.SaveAs(xlsxPath))
	require.NoError(t, book.Close())
	assert.Equal(t, []string{"sheet-value"}, call(t, "csvmap", xlsxPath, "k"))
}

func TestParseSideFile(t *testing.T) {
	sf, err := ParseSideFile("a.csv")
	require.NoError(t, err)
	assert.Equal(t, SideFile{Path: "a.csv", Key: 0, Value: 1}, sf)

	sf, err = ParseSideFile("a.csv,2,0")
	require.NoError(t, err)
	assert.Equal(t, SideFile{Path: "a.csv", Key: 2, Value: 0}, sf)

	_, err = ParseSideFile("a.csv,x")
	assert.True(t, errs.Is(err, errs.KindParse))
}

const script = `package custom

import "strings"

var Functions = map[string]func(values []string, param []string) []string{
	"shout": func(values []string, param []string) []string {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = strings.ToUpper(v) + param[i]
		}
		return out
	},
}
`

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.go")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadScript(path))

	dt := tables.FromRows([]string{"name"}, [][]string{{"ab"}, {"-"}}, "-")
	out, err := NewPipeline(r).Apply(dt, nil, mustParse(t, "0:shout:!"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AB!", "!"}, column(t, out, 1))

	err = r.LoadScript(filepath.Join(t.TempDir(), "none.go"))
	assert.True(t, errs.Is(err, errs.KindUnavailable))
}
