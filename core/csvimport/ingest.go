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

// Package csvimport turns delimiter-split input lines into a table: it
// selects and reorders fields, imputes missing values, and resolves the
// heading.
package csvimport

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhi-bops/da/core/tables"
)

// Options configures Ingest.
type Options struct {
	// Fields selects and orders input fields; nil keeps every field.
	Fields []int
	// Heading names the output columns when the input has no heading line.
	Heading []string
	// FirstLineHeading takes the heading from the first record.
	FirstLineHeading bool
	// MissingChar replaces absent and empty values.
	MissingChar string
	// MaxFields fixes the table width; zero uses the widest projected row.
	MaxFields int
}

// Ingest builds a table from records. Every row of the result is exactly
// as wide as the heading. Empty source lines are dropped; a line whose
// projected values are all empty is kept and imputed.
func Ingest(records [][]string, opts Options) *tables.DataTable {
	var heading []string
	if opts.FirstLineHeading && len(records) > 0 {
		first := project(records[0], opts.Fields)
		heading = make([]string, len(first))
		for i, v := range first {
			if v = strings.TrimSpace(v); v == "" {
				v = synthName(opts.Fields, i)
			}
			heading[i] = v
		}
		records = records[1:]
	}

	rows := make([][]string, 0, len(records))
	dropped := 0
	width := 0
	for _, rec := range records {
		if isBlankLine(rec) {
			dropped++
			continue
		}
		row := project(rec, opts.Fields)
		width = max(width, len(row))
		rows = append(rows, row)
	}
	if dropped > 0 {
		slog.Debug("dropped empty rows", slog.Int("rows", dropped))
	}

	maxFields := opts.MaxFields
	if maxFields == 0 {
		maxFields = width
		if len(rows) == 0 {
			maxFields = max(len(heading), len(opts.Heading), len(opts.Fields))
		}
	}

	if heading == nil {
		if opts.Heading != nil {
			heading = append([]string(nil), opts.Heading...)
		} else {
			for i := range opts.Fields {
				heading = append(heading, synthName(opts.Fields, i))
			}
		}
	}
	heading = fitHeading(heading, maxFields)

	dt := tables.NewDataTable(heading, opts.MissingChar)
	dt.SetFields(opts.Fields)
	for _, row := range rows {
		dt.AppendRow(impute(row, opts.MissingChar))
	}
	return dt
}

// project picks the selected fields in order. A field past the end of the
// record is empty.
func project(rec []string, fields []int) []string {
	if fields == nil {
		return rec
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if f < len(rec) {
			out[i] = rec[f]
		}
	}
	return out
}

// isBlankLine reports whether rec came from an empty source line.
func isBlankLine(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "")
}

// impute trims every value and replaces empty ones with missing.
func impute(row []string, missing string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v = strings.TrimSpace(v); v == "" {
			v = missing
		}
		out[i] = v
	}
	return out
}

// synthName names the i-th output column after the input field it came from.
func synthName(fields []int, i int) string {
	if fields != nil && i < len(fields) {
		return fmt.Sprintf("col%d", fields[i])
	}
	return fmt.Sprintf("col%d", i)
}

// fitHeading pads the heading with colN names, N being the column position,
// or truncates it to width.
func fitHeading(heading []string, width int) []string {
	if len(heading) > width {
		return heading[:width]
	}
	for i := len(heading); i < width; i++ {
		heading = append(heading, fmt.Sprintf("col%d", i))
	}
	return heading
}
