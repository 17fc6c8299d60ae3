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

package query

import (
	"sort"

	"github.com/abhi-bops/da/core/errs"
)

// SortColumn is one sort key: an input field and its direction.
type SortColumn struct {
	Field      int
	Descending bool
}

// ParseSortColumns parses a field specification into sort keys sharing one
// direction. Keys apply left to right.
func ParseSortColumns(spec string, descending bool) ([]SortColumn, error) {
	fields, err := ParseFields(spec)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errs.Parse("sort", "no sort fields in %q", spec)
	}
	out := make([]SortColumn, len(fields))
	for i, f := range fields {
		out[i] = SortColumn{Field: f, Descending: descending}
	}
	return out, nil
}

// ParseBinEdges parses explicit histogram edges. Edges are integers and are
// returned in ascending order without duplicates.
func ParseBinEdges(values []string) ([]float64, error) {
	ints, err := ParseInts("bins", values)
	if err != nil {
		return nil, err
	}
	ints = Unique(ints)
	sort.Ints(ints)
	out := make([]float64, len(ints))
	for i, n := range ints {
		out[i] = float64(n)
	}
	return out, nil
}
