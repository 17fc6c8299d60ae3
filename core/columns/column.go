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

// Package columns holds the column model used by transforms and summaries:
// each column keeps the raw strings it was read from next to their numeric
// coercion.
package columns

import (
	"fmt"
	"math"

	"github.com/abhi-bops/da/core/aggregates"
)

// Column is one field's values. Raw holds the original strings with "" for
// absent cells; Numeric holds the coerced values with NaN where a cell is
// absent or not a finite number. Both slices always have the same length.
type Column struct {
	Name    string
	Raw     []string
	Numeric []float64
}

// New builds a column from raw strings. Cells equal to missing (or empty)
// are absent.
func New(name string, raw []string, missing string) *Column {
	c := &Column{
		Name:    name,
		Raw:     make([]string, len(raw)),
		Numeric: make([]float64, len(raw)),
	}
	for i, s := range raw {
		if s == missing {
			s = ""
		}
		c.Raw[i] = s
		c.Numeric[i] = Coerce(s)
	}
	return c
}

// FromCells builds a column from cells.
func FromCells(name string, cells []Cell) *Column {
	c := &Column{
		Name:    name,
		Raw:     make([]string, len(cells)),
		Numeric: make([]float64, len(cells)),
	}
	for i, cell := range cells {
		c.set(i, cell)
	}
	return c
}

// Coerce parses s as a finite number, returning NaN otherwise. Overflowing
// literals such as 12e12312 are NaN as well.
func Coerce(s string) float64 {
	f, ok := aggregates.ParseFinite(s)
	if !ok {
		return math.NaN()
	}
	return f
}

// Len returns the number of cells.
func (c *Column) Len() int {
	return len(c.Raw)
}

// Cell returns the i-th cell.
func (c *Column) Cell(i int) Cell {
	return Cell{Raw: c.Raw[i], Num: c.Numeric[i]}
}

func (c *Column) set(i int, cell Cell) {
	c.Raw[i] = cell.Raw
	c.Numeric[i] = cell.Num
}

// Cells returns a copy of the column as cells.
func (c *Column) Cells() []Cell {
	out := make([]Cell, c.Len())
	for i := range out {
		out[i] = c.Cell(i)
	}
	return out
}

// Strings renders the column, substituting missing for absent cells.
func (c *Column) Strings(missing string) []string {
	out := make([]string, c.Len())
	for i, s := range c.Raw {
		if s == "" {
			s = missing
		}
		out[i] = s
	}
	return out
}

// Numbers returns the finite numeric values in order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, c.Len())
	for _, f := range c.Numeric {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			out = append(out, f)
		}
	}
	return out
}

// IsNumeric reports whether at least one cell is a finite number.
func (c *Column) IsNumeric() bool {
	for _, f := range c.Numeric {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return true
		}
	}
	return false
}

// Rename returns a shallow copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	return &Column{Name: name, Raw: c.Raw, Numeric: c.Numeric}
}

func (c *Column) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Raw)
}

// Cell is a single value in both representations.
type Cell struct {
	Raw string
	Num float64
}

// NumberCell wraps a computed number. NaN is absent.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{Num: f}
	}
	return Cell{Raw: aggregates.FormatNumber(f), Num: f}
}

// TextCell wraps a computed string, coercing it opportunistically.
func TextCell(s string) Cell {
	return Cell{Raw: s, Num: Coerce(s)}
}

// Absent is the empty cell.
func Absent() Cell {
	return Cell{Num: math.NaN()}
}

// IsAbsent reports whether the cell holds no value.
func (c Cell) IsAbsent() bool {
	return c.Raw == ""
}

// IsNumber reports whether the cell holds a number, including infinities
// produced by division by zero.
func (c Cell) IsNumber() bool {
	return !math.IsNaN(c.Num)
}
