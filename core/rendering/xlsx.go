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
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/tables"
)

// Sheet is one named table of a workbook.
type Sheet struct {
	Name  string
	Table *tables.DataTable
}

// WriteXLSX writes a workbook with one sheet per table. Cells that parse as
// finite numbers are stored as numbers.
func WriteXLSX(w io.Writer, sheets []Sheet, noHeading bool) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, noHeading); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet, noHeading bool) error {
	line := 1
	put := func(cells []any) error {
		addr, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(sh.Name, addr, &cells)
	}
	if !noHeading {
		heading := make([]any, len(sh.Table.Heading()))
		for i, h := range sh.Table.Heading() {
			heading[i] = h
		}
		if err := put(heading); err != nil {
			return fmt.Errorf("failed to write heading of %q: %w", sh.Name, err)
		}
	}
	for _, row := range sh.Table.Rows() {
		cells := make([]any, len(row))
		for i, s := range row {
			if v, ok := aggregates.ParseFinite(s); ok {
				cells[i] = v
			} else {
				cells[i] = s
			}
		}
		if err := put(cells); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", line, sh.Name, err)
		}
	}
	return nil
}
