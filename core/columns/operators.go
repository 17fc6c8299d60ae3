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

package columns

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BinaryFunc combines a cell with its positional operand.
type BinaryFunc func(a, b Cell) Cell

// Operand is the right-hand side of an elementwise operation: either a whole
// column paired positionally or a scalar broadcast to every row.
type Operand struct {
	col    *Column
	scalar string
}

// ColumnOperand pairs a column positionally.
func ColumnOperand(c *Column) Operand {
	return Operand{col: c}
}

// Scalar broadcasts a literal. Numeric-looking literals act as numbers.
func Scalar(s string) Operand {
	return Operand{scalar: s}
}

// Describe names the operand for synthesized column names.
func (o Operand) Describe() string {
	if o.col != nil {
		return o.col.Name
	}
	return o.scalar
}

// Literal returns the scalar text; ok is false for column operands.
func (o Operand) Literal() (s string, ok bool) {
	return o.scalar, o.col == nil
}

// Expand returns the operand as a column of n cells.
func (o Operand) Expand(n int) (*Column, error) {
	if o.col != nil {
		if o.col.Len() != n {
			return nil, fmt.Errorf("operand %q has %d values, want %d", o.col.Name, o.col.Len(), n)
		}
		return o.col, nil
	}
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = TextCell(o.scalar)
	}
	return FromCells(o.scalar, cells), nil
}

// Map applies fn to every positional pair of a and b. A row where either side
// is absent yields an absent cell.
func Map(name string, a *Column, b Operand, fn BinaryFunc) (*Column, error) {
	other, err := b.Expand(a.Len())
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, a.Len())
	for i := range cells {
		x, y := a.Cell(i), other.Cell(i)
		if x.IsAbsent() || y.IsAbsent() {
			cells[i] = Absent()
			continue
		}
		cells[i] = fn(x, y)
	}
	return FromCells(name, cells), nil
}

var builtins = map[string]BinaryFunc{
	"add":           arith(func(a, b float64) float64 { return a + b }),
	"sub":           arith(func(a, b float64) float64 { return a - b }),
	"subtract":      arith(func(a, b float64) float64 { return a - b }),
	"subtract_from": arith(func(a, b float64) float64 { return b - a }),
	"mul":           arith(func(a, b float64) float64 { return a * b }),
	"multiply":      arith(func(a, b float64) float64 { return a * b }),
	"div":           arith(divide),
	"divide":        arith(divide),
	"floordiv":      arith(floorDivide),
	"mod":           arith(modulo),
	"sample":        arith(func(a, b float64) float64 { return a - modulo(a, b) }),
	"eq":            compare(func(c int) bool { return c == 0 }),
	"ne":            compare(func(c int) bool { return c != 0 }),
	"lt":            compare(func(c int) bool { return c < 0 }),
	"gt":            compare(func(c int) bool { return c > 0 }),
	"le":            compare(func(c int) bool { return c <= 0 }),
	"ge":            compare(func(c int) bool { return c >= 0 }),
	"concat":        func(a, b Cell) Cell { return TextCell(a.Raw + b.Raw) },
	"dummy":         func(_, b Cell) Cell { return b },
}

// Builtin looks up an elementwise operator by name.
func Builtin(name string) (BinaryFunc, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

// BuiltinNames lists the operator names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func arith(op func(a, b float64) float64) BinaryFunc {
	return func(a, b Cell) Cell {
		if !a.IsNumber() || !b.IsNumber() {
			return Absent()
		}
		return NumberCell(op(a.Num, b.Num))
	}
}

// compare orders two cells numerically when both are numbers and by their
// raw text otherwise, emitting 1 or 0.
func compare(pred func(int) bool) BinaryFunc {
	return func(a, b Cell) Cell {
		var c int
		if a.IsNumber() && b.IsNumber() {
			c = compareFloat64s(a.Num, b.Num)
		} else {
			c = strings.Compare(a.Raw, b.Raw)
		}
		if pred(c) {
			return NumberCell(1)
		}
		return NumberCell(0)
	}
}

func divide(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return a / b
}

func floorDivide(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return math.Floor(a / b)
}

// modulo follows the sign of the divisor.
func modulo(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
