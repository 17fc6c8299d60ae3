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
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/tables"
)

// Pipeline applies parsed transforms to a table.
type Pipeline struct {
	Registry *Registry
	Logger   *slog.Logger
}

// NewPipeline returns a pipeline over the registry that logs to the
// default logger.
func NewPipeline(r *Registry) *Pipeline {
	return &Pipeline{Registry: r, Logger: slog.Default()}
}

// Apply returns a new table holding the requested source fields followed by
// one derived column per transform. A step naming an unknown function leaves
// its column unchanged; a transform whose function fails is left out. Both are
// logged and the remaining transforms still run.
func (p *Pipeline) Apply(dt *tables.DataTable, fields []int, specs []Spec) (*tables.DataTable, error) {
	src, err := dt.Fields(fields)
	if err != nil {
		return nil, err
	}
	missing := dt.MissingChar()
	heading := make([]string, 0, len(src)+len(specs))
	var cols [][]string
	for _, f := range src {
		heading = append(heading, f.Name)
		cols = append(cols, f.Values)
	}

	for _, spec := range specs {
		col, err := p.Column(dt, spec)
		if errs.Is(err, errs.KindParse) {
			return nil, err
		}
		if err != nil {
			p.logger().Warn("transform failed",
				slog.String("function", spec.Func),
				slog.Int("field", spec.Field),
				slog.String("error", err.Error()))
			continue
		}
		heading = append(heading, col.Name)
		cols = append(cols, col.Strings(missing))
	}

	rows := make([][]string, dt.Len())
	for i := range rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		rows[i] = row
	}
	return tables.FromRows(heading, rows, missing), nil
}

// Column runs one transform and returns the derived column. It is named by
// the alias, or "function(source,parameter)" without one.
func (p *Pipeline) Column(dt *tables.DataTable, spec Spec) (*columns.Column, error) {
	col, err := dt.Column(spec.Field)
	if err != nil {
		return nil, err
	}
	first, err := p.operand(dt, spec.Param)
	if err != nil {
		return nil, err
	}
	name := spec.Alias
	if name == "" {
		name = fmt.Sprintf("%s(%s,%s)", spec.Func, col.Name, first.Describe())
	}

	col, err = p.step(col, spec.Func, first)
	if err != nil {
		return nil, err
	}
	for _, st := range spec.Chain {
		param, err := p.operand(dt, st.Param)
		if err != nil {
			return nil, err
		}
		if col, err = p.step(col, st.Func, param); err != nil {
			return nil, err
		}
	}
	return col.Rename(name), nil
}

// step applies one function. An empty name passes the column through, and an
// unregistered one is reported and skipped.
func (p *Pipeline) step(col *columns.Column, name string, param columns.Operand) (*columns.Column, error) {
	if name == "" {
		return col, nil
	}
	out, err := p.Registry.Call(name, col, param)
	if errors.Is(err, errs.ErrFunctionNotFound) {
		p.logger().Warn("function not found", slog.String("function", name))
		return col, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if out.Len() != col.Len() {
		return nil, fmt.Errorf("%s returned %d values for %d rows", name, out.Len(), col.Len())
	}
	return out, nil
}

func (p *Pipeline) operand(dt *tables.DataTable, param Param) (columns.Operand, error) {
	if !param.IsField {
		return columns.Scalar(param.Literal), nil
	}
	c, err := dt.Column(param.Field)
	if err != nil {
		return columns.Operand{}, err
	}
	return columns.ColumnOperand(c), nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
