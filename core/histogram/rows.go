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

package histogram

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/tables"
)

// Heading is the heading of histogram tables.
var Heading = []string{"bins", "count", "share%", "cumshare%", "histogram"}

// Bar draws shares as bars of Char, Width characters for 100%.
type Bar struct {
	Char  string
	Width int
}

func (b Bar) draw(share float64) string {
	n := int(float64(b.Width) * share / 100)
	n = max(0, min(n, b.Width))
	return strings.Repeat(b.Char, n) + strings.Repeat(" ", b.Width-n)
}

// Rows renders each bin as (label, count, share%, cumshare%, bar). Shares are
// whole percentages of Total.
func (h Histogram) Rows(bar Bar) [][]string {
	var rows [][]string
	var cum float64
	for _, b := range h.Bins {
		share := math.Round(float64(b.Count) * 100 / float64(h.Total))
		cum += share
		rows = append(rows, []string{
			fmt.Sprintf("(%s-%s]", aggregates.FormatNumber(b.Lower), aggregates.FormatNumber(b.Upper)),
			fmt.Sprint(b.Count),
			aggregates.FormatNumber(share),
			aggregates.FormatNumber(cum),
			bar.draw(share),
		})
	}
	return rows
}

// Category is one distinct value of a non-numeric column.
type Category struct {
	Value string
	Count int
}

// Categories counts distinct values in first-seen order.
func Categories(values []string) []Category {
	index := make(map[string]int)
	var out []Category
	for _, v := range values {
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, Category{Value: v})
		}
		out[i].Count++
	}
	return out
}

// CategoryRows renders categories with shares to 2 decimals.
func CategoryRows(cats []Category, bar Bar) [][]string {
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	var rows [][]string
	var cum float64
	for _, c := range cats {
		share := aggregates.Round(float64(c.Count)*100/float64(total), 2)
		cum = aggregates.Round(cum+share, 2)
		rows = append(rows, []string{
			c.Value,
			fmt.Sprint(c.Count),
			aggregates.FormatNumber(share),
			aggregates.FormatNumber(cum),
			bar.draw(share),
		})
	}
	return rows
}

// Table bins a column. Columns without any number fall back to a frequency
// table of their exact values.
func Table(c *columns.Column, o Options, bar Bar, missing string) *tables.DataTable {
	var rows [][]string
	if c.IsNumeric() {
		rows = Compute(c.Numbers(), o).Rows(bar)
	} else {
		rows = CategoryRows(Categories(c.Strings(missing)), bar)
	}
	return tables.FromRows(Heading, rows, missing)
}
