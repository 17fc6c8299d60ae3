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

package grouping

import (
	"fmt"
	"strings"

	"github.com/abhi-bops/da/core/aggregates"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/tables"
)

// TopNSpec configures TopN.
type TopNSpec struct {
	// Keys are the primary row-key fields.
	Keys []int
	// Top are the fields whose values are ranked inside each key group.
	Top []int
	// Values are reduced per (key, top) pair; the last resulting aggregate
	// column ranks the entries.
	Values  []int
	Funcs   []query.Aggregate
	N       int
	Options aggregates.Options
}

// TopN ranks, for every distinct key tuple, the sub-keys formed by the top
// fields. Each output row holds the key fields followed by exactly N
// entries rendered as "value(subkey)", best first, padded with the missing
// marker.
func TopN(dt *tables.DataTable, spec TopNSpec) (*tables.DataTable, error) {
	if spec.N <= 0 {
		return nil, errs.Parse("topn", "n must be positive, got %d", spec.N)
	}
	if len(spec.Top) == 0 {
		return nil, errs.Parse("topn", "no top fields")
	}
	grouped, err := Group(dt, GroupSpec{
		Keys:    append(append([]int(nil), spec.Keys...), spec.Top...),
		Values:  spec.Values,
		Funcs:   spec.Funcs,
		Options: spec.Options,
	})
	if err != nil {
		return nil, err
	}

	nKeys, nTop := len(spec.Keys), len(spec.Top)
	last := grouped.Width() - 1
	missing := dt.MissingChar()
	rank := tables.NewRowOrder([]int{last}, true, missing)

	heading := append([]string(nil), grouped.Heading()[:nKeys]...)
	for i := 1; i <= spec.N; i++ {
		heading = append(heading, fmt.Sprintf("top%d", i))
	}

	var rows [][]string
	for _, g := range partition(grouped.Rows(), seq(nKeys)) {
		sub := make([][]string, len(g.rows))
		for i, r := range g.rows {
			sub[i] = grouped.Rows()[r]
		}
		row := append([]string(nil), g.key...)
		for _, s := range tables.TopRows(sub, rank, spec.N) {
			subkey := strings.Join(s[nKeys:nKeys+nTop], " ")
			row = append(row, fmt.Sprintf("%s(%s)", s[last], subkey))
		}
		for len(row) < nKeys+spec.N {
			row = append(row, missing)
		}
		rows = append(rows, row)
	}
	return tables.FromRows(heading, rows, missing), nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
