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
	"log/slog"
	"strconv"
	"strings"

	"github.com/abhi-bops/da/core/expr"
)

// FilteredColumn is the name of the column added by tag-mode filtering.
const FilteredColumn = "filtered"

// resolver maps an identifier to a column index. Heading names win over
// fN input-field references.
func (dt *DataTable) resolver() func(name string) (int, bool) {
	byName := make(map[string]int, len(dt.heading))
	for i := len(dt.heading) - 1; i >= 0; i-- {
		byName[dt.heading[i]] = i
	}
	return func(name string) (int, bool) {
		if i, ok := byName[name]; ok {
			return i, true
		}
		digits, ok := strings.CutPrefix(name, "f")
		if !ok {
			return 0, false
		}
		f, err := strconv.Atoi(digits)
		if err != nil || f < 0 {
			return 0, false
		}
		return dt.ColumnIndex(f)
	}
}

// Filter keeps the rows for which the expression holds. With tag set every
// row is kept and a "filtered" column holding 1 or 0 is appended instead.
// A malformed expression or an unknown column fails before any row is
// evaluated; a row whose evaluation fails does not match.
func (dt *DataTable) Filter(source string, tag bool) error {
	e, err := expr.Compile(source)
	if err != nil {
		return err
	}
	resolve := dt.resolver()
	if err := e.Check(func(name string) bool { _, ok := resolve(name); return ok }); err != nil {
		return err
	}

	var (
		kept   [][]string
		tags   []string
		failed int
	)
	for _, row := range dt.rows {
		env := func(name string) (expr.Value, bool) {
			col, ok := resolve(name)
			if !ok {
				return expr.NilValue(), false
			}
			return expr.FromCell(row[col], dt.missingChar), true
		}
		match, err := e.Match(env)
		if err != nil {
			failed++
			match = false
		}
		switch {
		case tag && match:
			tags = append(tags, "1")
		case tag:
			tags = append(tags, "0")
		case match:
			kept = append(kept, row)
		}
	}
	if failed > 0 {
		slog.Warn("filter expression failed on some rows",
			slog.String("expression", source),
			slog.Int("rows", failed))
	}

	if tag {
		return dt.AppendColumn(FilteredColumn, tags)
	}
	dt.rows = kept
	return nil
}
