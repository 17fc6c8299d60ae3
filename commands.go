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

package main

import (
	"flag"
	"log/slog"
	"strconv"
	"strings"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/config"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/expr"
	"github.com/abhi-bops/da/core/grouping"
	"github.com/abhi-bops/da/core/histogram"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/tables"
	"github.com/abhi-bops/da/core/transform"
)

func stringVar(fs *flag.FlagSet, p *string, names []string, value, usage string) {
	for _, n := range names {
		fs.StringVar(p, n, value, usage)
	}
}

// optionalField parses a single field position; an empty value is unset.
func optionalField(op, s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false, errs.Parse(op, "invalid field number %q", s)
	}
	return n, true, nil
}

// aggregateList parses function names, warning about unknown ones.
func aggregateList(op, s string) ([]query.Aggregate, error) {
	names := query.ParseNames(s)
	if len(names) == 0 {
		return nil, errs.Parse(op, "no aggregate functions")
	}
	aggs := query.ParseAggregates(names)
	for _, a := range aggs {
		if !a.Known() {
			slog.Warn("unknown aggregate function", slog.String("function", a.Name), slog.String("action", op))
		}
	}
	return aggs, nil
}

type tableCmd struct{}

func (*tableCmd) Flags(*flag.FlagSet, *config.Config) {}

func (*tableCmd) Fields(selected []int) ([]int, error) { return selected, nil }

func (*tableCmd) Run(dt *tables.DataTable, out *output) error {
	return out.Table(dt, "", 0)
}

type transposeCmd struct{ tableCmd }

func (*transposeCmd) Run(dt *tables.DataTable, out *output) error {
	dt.Transpose()
	return out.Table(dt, "", 0)
}

type filterCmd struct {
	tableCmd
	pattern string
	tag     bool
}

func (c *filterCmd) Flags(fs *flag.FlagSet, _ *config.Config) {
	stringVar(fs, &c.pattern, []string{"p", "pattern"}, "", "filter `expression`, e.g. 'f1 > 10 and f0.startswith(\"a\")'")
	fs.BoolVar(&c.tag, "tag", false, "tag rows in a \""+tables.FilteredColumn+"\" column instead of dropping them")
}

func (c *filterCmd) Fields(selected []int) ([]int, error) {
	if strings.TrimSpace(c.pattern) == "" {
		return nil, errs.Parse("filter", "no filter expression")
	}
	if _, err := expr.Compile(c.pattern); err != nil {
		return nil, err
	}
	return selected, nil
}

func (c *filterCmd) Run(dt *tables.DataTable, out *output) error {
	if err := dt.Filter(c.pattern, c.tag); err != nil {
		return err
	}
	return out.Table(dt, "", 0)
}

type sortCmd struct {
	tableCmd
	keySpec string
	desc    bool
	top     int
	keys    []query.SortColumn
}

func (c *sortCmd) Flags(fs *flag.FlagSet, _ *config.Config) {
	stringVar(fs, &c.keySpec, []string{"k", "sort-key"}, "0", "input fields to sort by, in precedence order")
	fs.BoolVar(&c.desc, "desc", false, "sort in descending order")
	fs.IntVar(&c.top, "top", 0, "keep only the first `N` rows after sorting")
}

func (c *sortCmd) Fields(selected []int) ([]int, error) {
	keys, err := query.ParseSortColumns(c.keySpec, c.desc)
	if err != nil {
		return nil, err
	}
	if c.top < 0 {
		return nil, errs.Parse("sort", "negative -top %d", c.top)
	}
	c.keys = keys
	return selected, nil
}

func (c *sortCmd) Run(dt *tables.DataTable, out *output) error {
	var err error
	if c.top > 0 {
		err = dt.SortTop(c.keys, c.top)
	} else {
		err = dt.Sort(c.keys)
	}
	if err != nil {
		return err
	}
	return out.Table(dt, "", 0)
}

type summaryCmd struct{ tableCmd }

// Run writes one table for the numeric columns and one for the others, each
// with a row per column.
func (*summaryCmd) Run(dt *tables.DataTable, out *output) error {
	fields, err := dt.Fields(nil)
	if err != nil {
		return err
	}
	missing := dt.MissingChar()
	var contHeading, catHeading []string
	var contRows, catRows [][]string
	for _, f := range fields {
		col := columns.New(f.Name, f.Values, missing)
		stats := col.DescribeCategorical().Rows(missing)
		s, numeric := col.Describe()
		if numeric {
			stats = s.Rows()
		}
		heading := []string{"field"}
		row := []string{f.Name}
		for _, st := range stats {
			heading = append(heading, st[0])
			row = append(row, st[1])
		}
		if numeric {
			contHeading, contRows = heading, append(contRows, row)
		} else {
			catHeading, catRows = heading, append(catRows, row)
		}
	}
	if len(contRows) > 0 {
		if err := out.Table(tables.FromRows(contHeading, contRows, missing), "", 0); err != nil {
			return err
		}
	}
	if len(catRows) > 0 {
		return out.Table(tables.FromRows(catHeading, catRows, missing), "", 0)
	}
	return nil
}

type corrCmd struct{ tableCmd }

// Run writes the pairwise Pearson correlation matrix of the columns.
func (*corrCmd) Run(dt *tables.DataTable, out *output) error {
	fields, err := dt.Fields(nil)
	if err != nil {
		return err
	}
	missing := dt.MissingChar()
	cols := make([]*columns.Column, len(fields))
	heading := []string{"corr"}
	for i, f := range fields {
		cols[i] = columns.New(f.Name, f.Values, missing)
		heading = append(heading, f.Name)
	}
	rows := make([][]string, len(cols))
	for i, x := range cols {
		row := []string{x.Name}
		for j, y := range cols {
			switch r, ok := columns.Correlation(x, y); {
			case i == j:
				row = append(row, "1")
			case ok:
				row = append(row, aggregates.FormatNumber(aggregates.Round(r, 3)))
			default:
				row = append(row, missing)
			}
		}
		rows[i] = row
	}
	return out.Table(tables.FromRows(heading, rows, missing), "", 0)
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, " ") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type transformCmd struct {
	functions stringList
	script    string
	specs     []transform.Spec
}

func (c *transformCmd) Flags(fs *flag.FlagSet, cfg *config.Config) {
	fs.Var(&c.functions, "function", "transform `f<N>:name[:param][|name[:param]...][=alias]`; repeatable")
	fs.StringVar(&c.script, "ext", cfg.Extensions, "Go `file` declaring extra transform functions")
}

// Fields reads the selected fields plus every field a transform refers to;
// they are written ahead of the derived columns.
func (c *transformCmd) Fields(selected []int) ([]int, error) {
	if len(c.functions) == 0 {
		return nil, errs.Parse("transform", "no -function given")
	}
	specs, err := transform.ParseAll(c.functions)
	if err != nil {
		return nil, err
	}
	c.specs = specs
	fields := append([]int(nil), selected...)
	for _, s := range specs {
		fields = append(fields, s.Fields()...)
	}
	return query.Unique(fields), nil
}

func (c *transformCmd) Run(dt *tables.DataTable, out *output) error {
	char, width := out.Bar()
	r := transform.Default(transform.LibraryOptions{BarChar: char, BarWidth: width})
	if c.script != "" {
		if err := r.LoadScript(c.script); err != nil {
			slog.Error("extension functions not loaded", slog.String("file", c.script), slog.String("error", err.Error()))
		}
	}
	res, err := transform.NewPipeline(r).Apply(dt, nil, c.specs)
	if err != nil {
		return err
	}
	return out.Table(res, "", 0)
}

type histCmd struct {
	tableCmd
	bins, size string
	count      int
	min, max   string
	opts       histogram.Options
}

func (c *histCmd) Flags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&c.bins, "bins", "", "comma separated bin `edges`")
	fs.StringVar(&c.size, "size", "", "bin `width`")
	fs.IntVar(&c.count, "count", cfg.BinCount, "number of bins")
	fs.StringVar(&c.min, "min", "", "lower end of the binned range")
	fs.StringVar(&c.max, "max", "", "upper end of the binned range")
}

func (c *histCmd) Fields(selected []int) ([]int, error) {
	o := histogram.Options{Count: c.count}
	if c.bins != "" {
		edges, err := query.ParseBinEdges(query.ParseNames(c.bins))
		if err != nil {
			return nil, err
		}
		o.Edges = edges
	}
	var err error
	if o.Size, err = optionalNumber("hist", c.size); err != nil {
		return nil, err
	}
	if o.Size < 0 {
		return nil, errs.Parse("hist", "negative bin size %v", o.Size)
	}
	if c.min != "" {
		v, err := optionalNumber("hist", c.min)
		if err != nil {
			return nil, err
		}
		o.Min = &v
	}
	if c.max != "" {
		v, err := optionalNumber("hist", c.max)
		if err != nil {
			return nil, err
		}
		o.Max = &v
	}
	c.opts = o
	return selected, nil
}

func optionalNumber(op, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, ok := aggregates.ParseFinite(s)
	if !ok {
		return 0, errs.Parse(op, "invalid number %q", s)
	}
	return f, nil
}

// Run writes one histogram per column.
func (c *histCmd) Run(dt *tables.DataTable, out *output) error {
	fields, err := dt.Fields(nil)
	if err != nil {
		return err
	}
	char, width := out.Bar()
	bar := histogram.Bar{Char: char, Width: width}
	missing := dt.MissingChar()
	for _, f := range fields {
		col := columns.New(f.Name, f.Values, missing)
		if err := out.Table(histogram.Table(col, c.opts, bar, missing), "Histogram of "+f.Name, 0); err != nil {
			return err
		}
	}
	return nil
}

type pivotCmd struct {
	row, col, value string
	aggfunc         string
	summary         bool
	summaryFuncs    string
	rowSummary      bool
	colSummary      bool
	notApplicable   string
	precision       int
	spec            grouping.PivotSpec
}

func (c *pivotCmd) Flags(fs *flag.FlagSet, cfg *config.Config) {
	stringVar(fs, &c.row, []string{"r", "rowind"}, "", "row-key field")
	stringVar(fs, &c.col, []string{"c", "columnind"}, "", "column-key field; without it rows are grouped only")
	stringVar(fs, &c.value, []string{"v", "valueind"}, "", "value field")
	fs.StringVar(&c.aggfunc, "aggfunc", "first", "aggregate `function`; comma separated without -c")
	fs.BoolVar(&c.summary, "summary", false, "add row and column summaries using -aggfunc")
	fs.StringVar(&c.summaryFuncs, "summaryf", "", "comma separated summary `functions`")
	fs.BoolVar(&c.rowSummary, "rowsummary", false, "only summarise rows")
	fs.BoolVar(&c.colSummary, "colsummary", false, "only summarise columns")
	c.notApplicable = cfg.NotApplicable
	c.precision = cfg.StddevPrecision
}

func (c *pivotCmd) Fields([]int) ([]int, error) {
	row, hasRow, err := optionalField("pivot", c.row)
	if err != nil {
		return nil, err
	}
	col, hasCol, err := optionalField("pivot", c.col)
	if err != nil {
		return nil, err
	}
	value, hasValue, err := optionalField("pivot", c.value)
	if err != nil {
		return nil, err
	}
	switch {
	case !hasRow && !hasCol && !hasValue:
		row, col, value = 1, 2, 0
	case !hasRow:
		return nil, errs.Parse("pivot", "no row field")
	case !hasValue:
		return nil, errs.Parse("pivot", "no value field")
	}
	noColumn := !hasCol && (hasRow || hasValue)
	funcs, err := aggregateList("pivot", c.aggfunc)
	if err != nil {
		return nil, err
	}
	var summaryFuncs []query.Aggregate
	if c.summaryFuncs != "" {
		if summaryFuncs, err = aggregateList("pivot", c.summaryFuncs); err != nil {
			return nil, err
		}
	}
	c.spec = grouping.PivotSpec{
		Row:           row,
		Col:           col,
		Value:         value,
		NoColumn:      noColumn,
		Func:          funcs[0],
		Summary:       c.summary,
		SummaryFuncs:  summaryFuncs,
		RowSummary:    c.rowSummary,
		ColSummary:    c.colSummary,
		NotApplicable: c.notApplicable,
		Options:       aggregates.WithPrecision(c.precision),
	}
	if noColumn {
		if !c.summary && len(summaryFuncs) == 0 {
			c.spec.SummaryFuncs = funcs
		}
		return query.Unique([]int{row, value}), nil
	}
	return query.Unique([]int{row, col, value}), nil
}

func (c *pivotCmd) Run(dt *tables.DataTable, out *output) error {
	if c.spec.NoColumn {
		res, err := grouping.PivotByRow(dt, c.spec)
		if err != nil {
			return err
		}
		return out.Table(res, "", 0)
	}
	p, err := grouping.Pivot(dt, c.spec)
	if err != nil {
		return err
	}
	return out.Table(p.Table(), "", p.SummaryRows())
}

type groupCmd struct {
	keys, values, aggfunc string
	precision             int
	spec                  grouping.GroupSpec
}

func (c *groupCmd) Flags(fs *flag.FlagSet, cfg *config.Config) {
	stringVar(fs, &c.keys, []string{"r", "rowind"}, "0", "row-key fields")
	stringVar(fs, &c.values, []string{"v", "valueind"}, "1", "value fields")
	fs.StringVar(&c.aggfunc, "aggfunc", "count", "comma separated aggregate `functions`")
	c.precision = cfg.StddevPrecision
}

func (c *groupCmd) Fields([]int) ([]int, error) {
	keys, err := query.ParseFields(c.keys)
	if err != nil {
		return nil, err
	}
	values, err := query.ParseFields(c.values)
	if err != nil {
		return nil, err
	}
	funcs, err := aggregateList("group", c.aggfunc)
	if err != nil {
		return nil, err
	}
	c.spec = grouping.GroupSpec{Keys: keys, Values: values, Funcs: funcs, Options: aggregates.WithPrecision(c.precision)}
	return query.Unique(append(append([]int(nil), keys...), values...)), nil
}

func (c *groupCmd) Run(dt *tables.DataTable, out *output) error {
	res, err := grouping.Group(dt, c.spec)
	if err != nil {
		return err
	}
	return out.Table(res, "", 0)
}

type topnCmd struct {
	n                          int
	keys, top, values, aggfunc string
	precision                  int
	spec                       grouping.TopNSpec
}

func (c *topnCmd) Flags(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&c.n, "n", cfg.TopN, "entries to keep per group")
	stringVar(fs, &c.keys, []string{"r", "rowind"}, "", "row-key fields; none ranks over the whole input")
	stringVar(fs, &c.top, []string{"t", "topind"}, "", "fields whose values are ranked")
	stringVar(fs, &c.values, []string{"v", "valueind"}, "", "value fields (default the -t fields)")
	fs.StringVar(&c.aggfunc, "aggfunc", "count", "comma separated aggregate `functions`; the last ranks")
	c.precision = cfg.StddevPrecision
}

func (c *topnCmd) Fields([]int) ([]int, error) {
	if c.n <= 0 {
		return nil, errs.Parse("topn", "-n must be positive, got %d", c.n)
	}
	keys, err := query.ParseFields(c.keys)
	if err != nil {
		return nil, err
	}
	top, err := query.ParseFields(c.top)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, errs.Parse("topn", "no -t fields")
	}
	values := top
	if c.values != "" {
		if values, err = query.ParseFields(c.values); err != nil {
			return nil, err
		}
	}
	funcs, err := aggregateList("topn", c.aggfunc)
	if err != nil {
		return nil, err
	}
	c.spec = grouping.TopNSpec{
		Keys:    keys,
		Top:     top,
		Values:  values,
		Funcs:   funcs,
		N:       c.n,
		Options: aggregates.WithPrecision(c.precision),
	}
	fields := append(append(append([]int(nil), keys...), top...), values...)
	return query.Unique(fields), nil
}

func (c *topnCmd) Run(dt *tables.DataTable, out *output) error {
	res, err := grouping.TopN(dt, c.spec)
	if err != nil {
		return err
	}
	return out.Table(res, "", 0)
}
