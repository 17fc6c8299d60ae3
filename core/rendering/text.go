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

package rendering

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/abhi-bops/da/core/tables"
)

// displayWidth counts terminal columns, two for wide and fullwidth runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, w int, right bool) string {
	gap := w - displayWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// WriteASCII writes an aligned table: the first column left-aligned, the
// others right-aligned, every cell followed by " | ".
func WriteASCII(w io.Writer, dt *tables.DataTable, o Options) error {
	heading := dt.Heading()
	rows := dt.Rows()
	widths := make([]int, len(heading))
	for _, line := range append([][]string{heading}, rows...) {
		for i, cell := range line {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}
	format := func(line []string) string {
		var b strings.Builder
		for i, cell := range line {
			b.WriteString(pad(cell, widths[i], i > 0))
			b.WriteString(" | ")
		}
		return b.String()
	}
	return writeLines(w, format, heading, rows, o)
}

// WriteFast writes every cell left-aligned in a fixed width without
// measuring the table first.
func WriteFast(w io.Writer, dt *tables.DataTable, o Options) error {
	cw := o.CellWidth
	if cw <= 0 {
		cw = 15
	}
	format := func(line []string) string {
		var b strings.Builder
		for _, cell := range line {
			b.WriteString(pad(cell, cw, false))
			b.WriteString(" | ")
		}
		return b.String()
	}
	return writeLines(w, format, dt.Heading(), dt.Rows(), o)
}

func writeLines(w io.Writer, format func([]string) string, heading []string, rows [][]string, o Options) error {
	bw := bufio.NewWriter(w)
	if o.Title != "" {
		fmt.Fprintln(bw, o.Title)
	}
	head := format(heading)
	border := strings.Repeat("-", max(displayWidth(head)-1, 0))
	if !o.NoHeading {
		fmt.Fprintln(bw, head)
		fmt.Fprintln(bw, border)
	}
	body := len(rows) - min(max(o.SummaryRows, 0), len(rows))
	for i, row := range rows[:body] {
		if !o.NoHeading && o.RepeatHeading > 0 && (i+1)%o.RepeatHeading == 0 {
			fmt.Fprintln(bw, border)
			fmt.Fprintln(bw, head)
			fmt.Fprintln(bw, border)
		}
		fmt.Fprintln(bw, format(row))
	}
	if body < len(rows) {
		fmt.Fprintln(bw, strings.Repeat("=", len(border)))
		for _, row := range rows[body:] {
			fmt.Fprintln(bw, format(row))
		}
	}
	return bw.Flush()
}

// WritePipe joins cells with delim, one row per line.
func WritePipe(w io.Writer, dt *tables.DataTable, delim string, noHeading bool) error {
	bw := bufio.NewWriter(w)
	if !noHeading {
		fmt.Fprintln(bw, strings.Join(dt.Heading(), delim))
	}
	for _, row := range dt.Rows() {
		fmt.Fprintln(bw, strings.Join(row, delim))
	}
	return bw.Flush()
}

// WriteCSV writes RFC 4180 CSV.
func WriteCSV(w io.Writer, dt *tables.DataTable, noHeading bool) error {
	cw := csv.NewWriter(w)
	if !noHeading {
		if err := cw.Write(dt.Heading()); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(dt.Rows()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
