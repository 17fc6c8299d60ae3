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

package transform

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/csvimport"
	"github.com/abhi-bops/da/core/errs"
)

// LibraryOptions tunes the default extension functions.
type LibraryOptions struct {
	// BarChar draws share bars; empty means "o".
	BarChar string
	// BarWidth is the length of a 100% bar; zero means 20.
	BarWidth int
}

// DefaultTimeLayout is used by formatunixtime when no layout is given.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Library returns the default extension functions.
func Library(opts LibraryOptions) map[string]Func {
	if opts.BarChar == "" {
		opts.BarChar = "o"
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = 20
	}
	return map[string]Func{
		"share":          share(opts),
		"normalise":      normalise,
		"round":          round,
		"cumsum":         cumsum,
		"shift":          shiftBy(1),
		"lag":            shiftBy(1),
		"lead":           shiftBy(-1),
		"diff":           diff,
		"sma":            sma,
		"formatunixtime": formatUnixTime,
		"csvmap":         lookup(csvimport.SourceOptions{Delimiter: ",", Quoted: true}),
		"filemap":        lookup(csvimport.SourceOptions{}),
		"tag":            tag,
	}
}

func finite(c columns.Cell) bool {
	return c.IsNumber() && !math.IsInf(c.Num, 0)
}

func literal(name string, param columns.Operand) (string, error) {
	s, ok := param.Literal()
	if !ok {
		return "", fmt.Errorf("%s needs a literal parameter, got field %s", name, param.Describe())
	}
	return s, nil
}

func intLiteral(name string, param columns.Operand) (int, error) {
	s, err := literal(name, param)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, errs.Coercion(name, "needs an integer parameter, got %q", s)
	}
	return int(f), nil
}

// share divides every value by the column total, rounded to 2 decimals.
// The parameter "g" renders a bar next to the share.
func share(opts LibraryOptions) Func {
	return func(values *columns.Column, param columns.Operand) (*columns.Column, error) {
		var total float64
		for _, f := range values.Numbers() {
			total += f
		}
		s, _ := param.Literal()
		graph := s == "g"
		cells := make([]columns.Cell, values.Len())
		for i, c := range values.Cells() {
			if !finite(c) || total == 0 {
				cells[i] = columns.Absent()
				continue
			}
			v := aggregates.Round(c.Num/total, 2)
			if !graph {
				cells[i] = columns.NumberCell(v)
				continue
			}
			n := int(float64(opts.BarWidth) * v)
			if n < 0 {
				n = 0
			}
			bar := strings.Repeat(opts.BarChar, n)
			cells[i] = columns.TextCell(fmt.Sprintf("%5s |%-*s", aggregates.FormatNumber(v), opts.BarWidth, bar))
		}
		return columns.FromCells(values.Name, cells), nil
	}
}

// normalise computes a / (a + b).
func normalise(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	add, _ := columns.Builtin("add")
	div, _ := columns.Builtin("divide")
	return columns.Map(values.Name, values, param, func(a, b columns.Cell) columns.Cell {
		total := add(a, b)
		if total.IsAbsent() {
			return total
		}
		return div(a, total)
	})
}

func round(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	places, err := intLiteral("round", param)
	if err != nil {
		return nil, err
	}
	cells := make([]columns.Cell, values.Len())
	for i, c := range values.Cells() {
		if !finite(c) {
			cells[i] = columns.Absent()
			continue
		}
		cells[i] = columns.NumberCell(aggregates.Round(c.Num, places))
	}
	return columns.FromCells(values.Name, cells), nil
}

// cumsum is the running total. Non-numeric cells stay absent and do not
// reset the total.
func cumsum(values *columns.Column, _ columns.Operand) (*columns.Column, error) {
	var total float64
	cells := make([]columns.Cell, values.Len())
	for i, c := range values.Cells() {
		if !finite(c) {
			cells[i] = columns.Absent()
			continue
		}
		total += c.Num
		cells[i] = columns.NumberCell(total)
	}
	return columns.FromCells(values.Name, cells), nil
}

// shiftBy moves values sign*n positions toward larger indices; vacated
// slots are absent.
func shiftBy(sign int) Func {
	return func(values *columns.Column, param columns.Operand) (*columns.Column, error) {
		n, err := intLiteral("shift", param)
		if err != nil {
			return nil, err
		}
		return shift(values, sign*n), nil
	}
}

func shift(values *columns.Column, n int) *columns.Column {
	cells := make([]columns.Cell, values.Len())
	for i := range cells {
		j := i - n
		if j < 0 || j >= len(cells) {
			cells[i] = columns.Absent()
			continue
		}
		cells[i] = values.Cell(j)
	}
	return columns.FromCells(values.Name, cells)
}

// diff subtracts from each value the value n positions earlier.
func diff(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	n, err := intLiteral("diff", param)
	if err != nil {
		return nil, err
	}
	sub, _ := columns.Builtin("subtract")
	return columns.Map(values.Name, values, columns.ColumnOperand(shift(values, n)), sub)
}

// sma is the simple moving average over a window of n values ending at the
// current row, or starting at it when n is negative. Rows without a full
// window of numbers are absent.
func sma(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	n, err := intLiteral("sma", param)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("sma window must not be 0")
	}
	size := n
	if size < 0 {
		size = -size
	}
	cells := make([]columns.Cell, values.Len())
	for i := range cells {
		lo := i - size + 1
		if n < 0 {
			lo = i
		}
		cells[i] = windowMean(values, lo, size)
	}
	return columns.FromCells(values.Name, cells), nil
}

func windowMean(values *columns.Column, lo, size int) columns.Cell {
	if lo < 0 || lo+size > values.Len() {
		return columns.Absent()
	}
	var total float64
	for j := lo; j < lo+size; j++ {
		c := values.Cell(j)
		if !finite(c) {
			return columns.Absent()
		}
		total += c.Num
	}
	return columns.NumberCell(total / float64(size))
}

// formatUnixTime renders epoch seconds in UTC with a strftime-style layout.
// Values that are not numbers pass through.
func formatUnixTime(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	s, err := literal("formatunixtime", param)
	if err != nil {
		return nil, err
	}
	layout := DefaultTimeLayout
	if strings.Contains(s, "%") {
		layout = goLayout(s)
	}
	cells := make([]columns.Cell, values.Len())
	for i, c := range values.Cells() {
		if !finite(c) {
			cells[i] = c
			continue
		}
		sec, frac := math.Modf(c.Num)
		t := time.Unix(int64(sec), int64(frac*1e9)).UTC()
		cells[i] = columns.TextCell(t.Format(layout))
	}
	return columns.FromCells(values.Name, cells), nil
}

var strftime = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02", 'e': "_2",
	'H': "15", 'I': "03", 'M': "04", 'S': "05", 'p': "PM",
	'b': "Jan", 'h': "Jan", 'B': "January", 'a': "Mon", 'A': "Monday",
	'j': "002", 'f': "000000", 'z': "-0700", 'Z': "MST", '%': "%",
	'F': "2006-01-02", 'T': "15:04:05", 'D': "01/02/06",
}

// goLayout converts strftime directives to a Go time layout. Unknown
// directives are kept as written.
func goLayout(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		if l, ok := strftime[s[i+1]]; ok {
			b.WriteString(l)
		} else {
			b.WriteByte('%')
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

// lookup maps values through a side file. Misses are absent.
func lookup(opts csvimport.SourceOptions) Func {
	return func(values *columns.Column, param columns.Operand) (*columns.Column, error) {
		s, err := literal("lookup", param)
		if err != nil {
			return nil, err
		}
		sf, err := ParseSideFile(s)
		if err != nil {
			return nil, err
		}
		m, err := sf.Load(opts)
		if err != nil {
			return nil, err
		}
		return mapValues("lookup", values, m), nil
	}
}

// tag maps values through an inline "value,tag;value,tag" table.
func tag(values *columns.Column, param columns.Operand) (*columns.Column, error) {
	s, err := literal("tag", param)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, errs.Parse("tag", "bad pair %q", pair)
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return mapValues("tag", values, m), nil
}

// mapValues replaces every value by its mapping. Misses are absent and are
// logged at debug level.
func mapValues(op string, values *columns.Column, m map[string]string) *columns.Column {
	out, miss := lookupCells(op, values, m)
	if miss != nil {
		slog.Debug("lookup misses", slog.String("function", op), slog.String("error", miss.Error()))
	}
	return out
}

// lookupCells maps values and reports the first missed key, counting the
// others.
func lookupCells(op string, values *columns.Column, m map[string]string) (*columns.Column, error) {
	cells := make([]columns.Cell, values.Len())
	var first error
	misses := 0
	for i, c := range values.Cells() {
		v, ok := m[c.Raw]
		if !ok {
			cells[i] = columns.Absent()
			if first == nil {
				first = errs.Miss(op, c.Raw)
			}
			misses++
			continue
		}
		cells[i] = columns.TextCell(v)
	}
	if misses > 1 {
		first = fmt.Errorf("%w (and %d more)", first, misses-1)
	}
	return columns.FromCells(values.Name, cells), first
}
