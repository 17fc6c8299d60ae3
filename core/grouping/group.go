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

// Package grouping implements the aggregation engine: Group partitions rows
// by key fields and reduces value fields, TopN ranks sub-keys inside each
// group, and Pivot spreads one value field over a row-key by column-key grid.
//
// Fields are always given as input field positions and resolved through the
// table's field map.
package grouping

import (
	"fmt"
	"strings"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/tables"
)

// GroupSpec configures Group.
type GroupSpec struct {
	// Keys are the row-key fields; at least one.
	Keys []int
	// Values are the fields to reduce.
	Values []int
	// Funcs are applied to every value field, in order.
	Funcs   []query.Aggregate
	Options aggregates.Options
}

// group is one distinct key tuple and the row indices that carry it, in
// input order.
type group struct {
	key  []string
	rows []int
}

// Group reduces the table by key. The result has one row per distinct key
// tuple, sorted ascending by key; its columns are the key fields followed by
// one column per (value field, function) pair.
func Group(dt *tables.DataTable, spec GroupSpec) (*tables.DataTable, error) {
	if len(spec.Keys) == 0 {
		return nil, errs.Parse("group", "no row-key fields")
	}
	if len(spec.Funcs) == 0 {
		return nil, errs.Parse("group", "no aggregate functions")
	}
	keyCols, err := resolve(dt, "group", spec.Keys)
	if err != nil {
		return nil, err
	}
	valCols, err := resolve(dt, "group", spec.Values)
	if err != nil {
		return nil, err
	}

	heading := make([]string, 0, len(keyCols)+len(valCols)*len(spec.Funcs))
	for _, c := range keyCols {
		heading = append(heading, dt.Heading()[c])
	}
	for _, c := range valCols {
		for _, f := range spec.Funcs {
			heading = append(heading, fmt.Sprintf("%s(%s)", f, dt.Heading()[c]))
		}
	}

	rows := dt.Rows()
	var result [][]string
	for _, g := range partition(rows, keyCols) {
		row := append([]string(nil), g.key...)
		for _, c := range valCols {
			values := make([]string, len(g.rows))
			for i, r := range g.rows {
				values[i] = rows[r][c]
			}
			for _, f := range spec.Funcs {
				row = append(row, aggregates.Apply(values, f, spec.Options).Format(dt.MissingChar()))
			}
		}
		result = append(result, row)
	}
	tables.SortRows(result, tables.NewRowOrder(seq(len(keyCols)), false, dt.MissingChar()))
	return tables.FromRows(heading, result, dt.MissingChar()), nil
}

// partition buckets row indices by their key tuple, in order of first
// appearance.
func partition(rows [][]string, keyCols []int) []*group {
	index := make(map[string]*group)
	var groups []*group
	for i, row := range rows {
		key := make([]string, len(keyCols))
		for j, c := range keyCols {
			key[j] = row[c]
		}
		id := strings.Join(key, "\x00")
		g, ok := index[id]
		if !ok {
			g = &group{key: key}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	return groups
}

func resolve(dt *tables.DataTable, op string, fields []int) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		c, ok := dt.ColumnIndex(f)
		if !ok {
			return nil, errs.Parse(op, "field %d was not read", f)
		}
		out[i] = c
	}
	return out, nil
}
