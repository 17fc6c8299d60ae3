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

// Package rendering writes tables for people and for other programs: aligned
// ASCII, delimiter-joined text, CSV, HTML and spreadsheets.
package rendering

import (
	"fmt"
	"io"

	"github.com/abhi-bops/da/core/tables"
)

// Format selects a writer.
type Format int

const (
	FormatASCII Format = iota
	FormatFast
	FormatPipe
	FormatCSV
	FormatHTML
)

// Options control how a table is written.
type Options struct {
	Format Format
	// Delimiter joins cells for FormatPipe.
	Delimiter string
	NoHeading bool
	// RepeatHeading reprints the heading every that many rows; zero never does.
	RepeatHeading int
	// CellWidth is the fixed cell width for FormatFast.
	CellWidth int
	// SummaryRows are the trailing rows set apart by a '=' border.
	SummaryRows int
	// Title is printed above ASCII tables and used as the HTML caption.
	Title string
}

// Render writes dt in the requested format.
func Render(w io.Writer, dt *tables.DataTable, o Options) error {
	switch o.Format {
	case FormatASCII:
		return WriteASCII(w, dt, o)
	case FormatFast:
		return WriteFast(w, dt, o)
	case FormatPipe:
		return WritePipe(w, dt, o.Delimiter, o.NoHeading)
	case FormatCSV:
		return WriteCSV(w, dt, o.NoHeading)
	case FormatHTML:
		r, err := NewTableRenderer()
		if err != nil {
			return err
		}
		return r.Render(w, NewTableView(dt, o))
	}
	return fmt.Errorf("unknown output format %d", o.Format)
}
