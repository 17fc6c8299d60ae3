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
	"embed"
	"io"

	"github.com/google/safehtml/template"

	"github.com/abhi-bops/da/core/tables"
)

//go:embed templates/*
var templateFS embed.FS

// TableView is the data handed to the HTML template.
type TableView struct {
	Title   string
	Heading []string
	Rows    [][]string
	// Summary are the trailing summary rows, rendered in the table footer.
	Summary [][]string
}

// NewTableView splits dt into body and summary rows.
func NewTableView(dt *tables.DataTable, o Options) TableView {
	rows := dt.Rows()
	body := len(rows) - min(max(o.SummaryRows, 0), len(rows))
	vm := TableView{Title: o.Title, Rows: rows[:body], Summary: rows[body:]}
	if !o.NoHeading {
		vm.Heading = dt.Heading()
	}
	return vm
}

// TableRenderer handles rendering of table views to HTML
type TableRenderer struct {
	tableTemplate *template.Template
}

// NewTableRenderer parses the embedded templates.
func NewTableRenderer() (*TableRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	tableTemplate, err := template.New("table.html").ParseFS(trustedFS, "templates/table.html")
	if err != nil {
		return nil, err
	}
	return &TableRenderer{tableTemplate: tableTemplate}, nil
}

// Render renders a TableView to the provided writer
func (r *TableRenderer) Render(w io.Writer, vm TableView) error {
	return r.tableTemplate.Execute(w, vm)
}
