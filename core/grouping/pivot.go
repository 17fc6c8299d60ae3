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
	"fmt"
	"sort"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/tables"
)

// DefaultNotApplicable marks the cells where row summaries meet column
// summaries.
const DefaultNotApplicable = "*"

// PivotSpec configures Pivot.
type PivotSpec struct {
	Row, Col, Value int
	// NoColumn selects the degenerate pivot that groups by Row only.
	NoColumn bool
	Func     query.Aggregate
	// Summary adds Func to the summary functions.
	Summary bool
	// SummaryFuncs are further summary functions, after Func.
	SummaryFuncs []query.Aggregate
	// RowSummary and ColSummary request only one side; when both or
	// neither are set, both sides are produced.
	RowSummary, ColSummary bool
	// NotApplicable fills summary corner cells; empty means
	// DefaultNotApplicable.
	NotApplicable string
	Options       aggregates.Options
}

func (s PivotSpec) summaryFuncs() []query.Aggregate {
	var out []query.Aggregate
	if s.Summary {
		out = append(out, s.Func)
	}
	return append(out, s.SummaryFuncs...)
}

// sides applies the exclusive-or rule to the summary flags.
func (s PivotSpec) sides() (row, col bool) {
	if s.RowSummary != s.ColSummary {
		return s.RowSummary, s.ColSummary
	}
	return true, true
}

// PivotResult is the row-key by column-key matrix plus its summaries.
type PivotResult struct {
	// Corner is the heading of the key column: "func(row/col)".
	Corner  string
	RowKeys []string
	ColKeys []string
	// Matrix is indexed [row][col]; empty combinations hold the missing
	// marker.
	Matrix [][]string
	// SummaryFuncs name the summary rows and columns.
	SummaryFuncs []query.Aggregate
	// RowSummaries is indexed [row][func]; nil when not produced.
	RowSummaries [][]string
	// ColSummaries is indexed [func][col]; nil when not produced.
	ColSummaries [][]string

	missing, notApplicable string
}

// Pivot spreads the value field over a row-key by column-key grid. Rows with a
// missing row or column key are left out of the grid; a missing value counts
// as 0. Keys are ordered numerically when all of them are numbers and
// lexicographically otherwise.
func Pivot(dt *tables.DataTable, spec PivotSpec) (*PivotResult, error) {
	if spec.NoColumn {
		return nil, errs.Parse("pivot", "no column-key field; use PivotByRow")
	}
	cols, err := resolve(dt, "pivot", []int{spec.Row, spec.Col, spec.Value})
	if err != nil {
		return nil, err
	}
	rc, cc, vc := cols[0], cols[1], cols[2]
	missing := dt.MissingChar()

	cells := make(map[string]map[string][]string)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for _, row := range dt.Rows() {
		r, c, v := row[rc], row[cc], row[vc]
		if r == missing || c == missing {
			continue
		}
		if v == missing {
			v = "0"
		}
		rowSet[r] = true
		colSet[c] = true
		if cells[r] == nil {
			cells[r] = make(map[string][]string)
		}
		cells[r][c] = append(cells[r][c], v)
	}

	p := &PivotResult{
		Corner:        fmt.Sprintf("%s(%s/%s)", spec.Func, dt.Heading()[rc], dt.Heading()[cc]),
		RowKeys:       sortedKeys(rowSet),
		ColKeys:       sortedKeys(colSet),
		SummaryFuncs:  spec.summaryFuncs(),
		missing:       missing,
		notApplicable: spec.NotApplicable,
	}
	if p.notApplicable == "" {
		p.notApplicable = DefaultNotApplicable
	}

	for _, r := range p.RowKeys {
		line := make([]string, len(p.ColKeys))
		for j, c := range p.ColKeys {
			values := sortValues(cells[r][c], missing)
			line[j] = aggregates.Apply(values, spec.Func, spec.Options).Format(missing)
		}
		p.Matrix = append(p.Matrix, line)
	}

	if len(p.SummaryFuncs) == 0 {
		return p, nil
	}
	rowSide, colSide := spec.sides()
	if rowSide {
		for _, line := range p.Matrix {
			var sums []string
			for _, f := range p.SummaryFuncs {
				sums = append(sums, summarize(line, f, missing, spec.Options))
			}
			p.RowSummaries = append(p.RowSummaries, sums)
		}
	}
	if colSide {
		for _, f := range p.SummaryFuncs {
			sums := make([]string, len(p.ColKeys))
			for j := range p.ColKeys {
				column := make([]string, len(p.Matrix))
				for i, line := range p.Matrix {
					column[i] = line[j]
				}
				sums[j] = summarize(column, f, missing, spec.Options)
			}
			p.ColSummaries = append(p.ColSummaries, sums)
		}
	}
	return p, nil
}

// summarize aggregates the non-missing cells of one matrix line.
func summarize(cells []string, f query.Aggregate, missing string, opts aggregates.Options) string {
	var present []string
	for _, c := range cells {
		if c != missing {
			present = append(present, c)
		}
	}
	return aggregates.Apply(sortValues(present, missing), f, opts).Format(missing)
}

// Heading returns the assembled heading: the corner, the column keys, then
// one ":RSummary(f):" column per summary function when row summaries exist.
func (p *PivotResult) Heading() []string {
	h := append([]string{p.Corner}, p.ColKeys...)
	if p.RowSummaries != nil {
		for _, f := range p.SummaryFuncs {
			h = append(h, fmt.Sprintf(":RSummary(%s):", f))
		}
	}
	return h
}

// SummaryRows is the number of column-summary rows at the bottom of Table.
func (p *PivotResult) SummaryRows() int {
	return len(p.ColSummaries)
}

// Table assembles the matrix, its row summaries as trailing columns and its
// column summaries as trailing rows.
func (p *PivotResult) Table() *tables.DataTable {
	var rows [][]string
	for i, r := range p.RowKeys {
		row := append([]string{r}, p.Matrix[i]...)
		if p.RowSummaries != nil {
			row = append(row, p.RowSummaries[i]...)
		}
		rows = append(rows, row)
	}
	for k, f := range p.SummaryFuncs {
		if p.ColSummaries == nil {
			break
		}
		row := append([]string{fmt.Sprintf(":CSummary(%s):", f)}, p.ColSummaries[k]...)
		if p.RowSummaries != nil {
			for range p.SummaryFuncs {
				row = append(row, p.notApplicable)
			}
		}
		rows = append(rows, row)
	}
	return tables.FromRows(p.Heading(), rows, p.missing)
}

// PivotByRow is the degenerate pivot without a column key: it groups the
// value field by the row key and applies every summary function to each
// group: Func when Summary is set, then SummaryFuncs. With none of them,
// Func is used.
func PivotByRow(dt *tables.DataTable, spec PivotSpec) (*tables.DataTable, error) {
	cols, err := resolve(dt, "pivot", []int{spec.Row, spec.Value})
	if err != nil {
		return nil, err
	}
	rc, vc := cols[0], cols[1]
	missing := dt.MissingChar()
	funcs := spec.summaryFuncs()
	if len(funcs) == 0 {
		funcs = []query.Aggregate{spec.Func}
	}

	groups := make(map[string][]string)
	keys := make(map[string]bool)
	for _, row := range dt.Rows() {
		r, v := row[rc], row[vc]
		if r == missing {
			continue
		}
		if v == missing {
			v = "0"
		}
		keys[r] = true
		groups[r] = append(groups[r], v)
	}

	heading := []string{fmt.Sprintf("(%s)", dt.Heading()[vc])}
	for _, f := range funcs {
		heading = append(heading, f.String())
	}
	var rows [][]string
	for _, r := range sortedKeys(keys) {
		values := sortValues(groups[r], missing)
		row := []string{r}
		for _, f := range funcs {
			row = append(row, aggregates.Apply(values, f, spec.Options).Format(missing))
		}
		rows = append(rows, row)
	}
	return tables.FromRows(heading, rows, missing), nil
}

// sortedKeys orders keys numerically when every key is a number and as text
// otherwise.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	numeric := true
	for k := range set {
		keys = append(keys, k)
		if _, ok := aggregates.ParseFinite(k); !ok {
			numeric = false
		}
	}
	if numeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := aggregates.ParseFinite(keys[i])
			b, _ := aggregates.ParseFinite(keys[j])
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		})
	} else {
		sort.Strings(keys)
	}
	return keys
}

// sortValues returns a sorted copy of values: numbers, then text, then
// missing cells.
func sortValues(values []string, missing string) []string {
	out := append([]string(nil), values...)
	sort.SliceStable(out, func(i, j int) bool {
		return columns.CompareValues(out[i], out[j], missing) < 0
	})
	return out
}
