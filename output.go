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
	"fmt"
	"io"
	"os"

	"github.com/abhi-bops/da/core/config"
	"github.com/abhi-bops/da/core/rendering"
	"github.com/abhi-bops/da/core/tables"
)

// output writes every table an action produces. With a spreadsheet path the
// tables are collected and written as sheets on Close.
type output struct {
	w      *rendering.Writer
	action string
	opts   rendering.Options
	xlsx   string
	sheets []rendering.Sheet
	caps   rendering.Capabilities
	cfg    *config.Config
}

func newOutput(w io.Writer, action string, opts rendering.Options, xlsx string, caps rendering.Capabilities, cfg *config.Config) *output {
	return &output{w: rendering.NewWriter(w), action: action, opts: opts, xlsx: xlsx, caps: caps, cfg: cfg}
}

// Table writes dt. title is printed above text tables; the last summaryRows
// rows are set apart.
func (o *output) Table(dt *tables.DataTable, title string, summaryRows int) error {
	if o.xlsx != "" {
		name := o.action
		if n := len(o.sheets); n > 0 {
			name = fmt.Sprintf("%s-%d", o.action, n+1)
		}
		o.sheets = append(o.sheets, rendering.Sheet{Name: name, Table: dt})
		return nil
	}
	opts := o.opts
	opts.Title = title
	opts.SummaryRows = summaryRows
	if opts.Format != rendering.FormatASCII && opts.Format != rendering.FormatFast && opts.Format != rendering.FormatHTML {
		opts.Title = ""
	}
	return rendering.Render(o.w, dt, opts)
}

// Bar is the bar style for histograms and shares.
func (o *output) Bar() (string, int) {
	return o.caps.BarChar(), o.cfg.BarWidth
}

// Broken reports whether the consumer stopped reading.
func (o *output) Broken() bool {
	return o.w.Broken()
}

// Close writes the collected spreadsheet, if any.
func (o *output) Close() error {
	if o.xlsx == "" {
		return nil
	}
	f, err := os.Create(o.xlsx)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", o.xlsx, err)
	}
	if err := rendering.WriteXLSX(f, o.sheets, o.opts.NoHeading); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
