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

// Package tables holds the materialized result of ingestion: a heading, rows
// of equal width, the missing marker, and the map from input field positions
// to table columns. Sort, filter and transpose rewrite the table in place.
package tables

import (
	"fmt"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
)

// DataTable is a heading plus rows. Every row is exactly as wide as the
// heading.
type DataTable struct {
	heading     []string
	rows        [][]string
	missingChar string
	// fieldMap maps input field positions to column indices.
	fieldMap map[int]int
}

// NewDataTable creates an empty table. The field map defaults to the
// identity over the heading.
func NewDataTable(heading []string, missingChar string) *DataTable {
	dt := &DataTable{
		heading:     append([]string(nil), heading...),
		missingChar: missingChar,
	}
	dt.SetFields(nil)
	return dt
}

// FromRows creates a table and appends rows, fitting each to the heading.
func FromRows(heading []string, rows [][]string, missingChar string) *DataTable {
	dt := NewDataTable(heading, missingChar)
	for _, r := range rows {
		dt.AppendRow(r)
	}
	return dt
}

// SetFields records which input field each column came from. A nil list
// maps column i to field i.
func (dt *DataTable) SetFields(fields []int) {
	dt.fieldMap = make(map[int]int, len(dt.heading))
	if fields == nil {
		for i := range dt.heading {
			dt.fieldMap[i] = i
		}
		return
	}
	for i, f := range fields {
		if i >= len(dt.heading) {
			break
		}
		dt.fieldMap[f] = i
	}
}

// AppendRow adds a row, padding it with the missing marker or truncating it
// to the heading width.
func (dt *DataTable) AppendRow(row []string) {
	out := make([]string, len(dt.heading))
	n := copy(out, row)
	for i := n; i < len(out); i++ {
		out[i] = dt.missingChar
	}
	dt.rows = append(dt.rows, out)
}

// Heading returns the column names.
func (dt *DataTable) Heading() []string {
	return dt.heading
}

// Rows returns the rows. Callers must not modify them.
func (dt *DataTable) Rows() [][]string {
	return dt.rows
}

// MissingChar returns the marker used for absent values.
func (dt *DataTable) MissingChar() string {
	return dt.missingChar
}

// Width returns the number of columns.
func (dt *DataTable) Width() int {
	return len(dt.heading)
}

// Len returns the number of rows.
func (dt *DataTable) Len() int {
	return len(dt.rows)
}

// ColumnIndex maps an input field position to its column.
func (dt *DataTable) ColumnIndex(field int) (int, bool) {
	i, ok := dt.fieldMap[field]
	return i, ok
}

func errUnreadField(op string, field int) error {
	return errs.Parse(op, "field %d was not read", field)
}

// Field is one extracted column.
type Field struct {
	Input  int
	Name   string
	Values []string
}

// Fields extracts the requested input fields. An empty request returns every
// column in field order.
func (dt *DataTable) Fields(fields []int) ([]Field, error) {
	if len(fields) == 0 {
		fields = dt.inputFields()
	}
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		col, ok := dt.ColumnIndex(f)
		if !ok {
			return nil, errUnreadField("fields", f)
		}
		values := make([]string, len(dt.rows))
		for i, row := range dt.rows {
			values[i] = row[col]
		}
		out = append(out, Field{Input: f, Name: dt.heading[col], Values: values})
	}
	return out, nil
}

// inputFields lists the input fields in column order.
func (dt *DataTable) inputFields() []int {
	byCol := make([]int, len(dt.heading))
	for i := range byCol {
		byCol[i] = -1
	}
	for f, col := range dt.fieldMap {
		byCol[col] = f
	}
	out := make([]int, 0, len(byCol))
	for _, f := range byCol {
		if f >= 0 {
			out = append(out, f)
		}
	}
	return out
}

// Column returns an input field as a Column.
func (dt *DataTable) Column(field int) (*columns.Column, error) {
	fs, err := dt.Fields([]int{field})
	if err != nil {
		return nil, err
	}
	return columns.New(fs[0].Name, fs[0].Values, dt.missingChar), nil
}

// AppendColumn adds a column at the right edge of the table.
func (dt *DataTable) AppendColumn(name string, values []string) error {
	if len(values) != len(dt.rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(dt.rows))
	}
	dt.heading = append(dt.heading, name)
	for i := range dt.rows {
		dt.rows[i] = append(dt.rows[i], values[i])
	}
	return nil
}

// Transpose swaps rows and columns. The heading is treated as the first row,
// and the first row of the result becomes the new heading.
func (dt *DataTable) Transpose() {
	all := append([][]string{dt.heading}, dt.rows...)
	width := len(dt.heading)
	out := make([][]string, width)
	for c := 0; c < width; c++ {
		out[c] = make([]string, len(all))
		for r, row := range all {
			out[c][r] = row[c]
		}
	}
	if width == 0 {
		dt.heading, dt.rows = nil, nil
	} else {
		dt.heading, dt.rows = out[0], out[1:]
	}
	dt.SetFields(nil)
}
