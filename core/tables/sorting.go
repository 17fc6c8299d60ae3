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

package tables

import (
	"container/heap"
	"sort"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/query"
)

// sortableColumn holds a column index and its sort direction
type sortableColumn struct {
	col        int
	descending bool
}

// RowOrder compares rows key by key, left to right. Cells compare
// numerically when both are numbers and as text otherwise; missing cells sort
// last whatever the direction.
type RowOrder struct {
	cols    []sortableColumn
	missing string
}

// NewRowOrder orders rows by the given column indices.
func NewRowOrder(cols []int, descending bool, missing string) RowOrder {
	o := RowOrder{missing: missing}
	for _, c := range cols {
		o.cols = append(o.cols, sortableColumn{col: c, descending: descending})
	}
	return o
}

// Compare returns negative if a sorts before b, zero if equal, positive if after.
func (o RowOrder) Compare(a, b []string) int {
	for _, sc := range o.cols {
		x, y := a[sc.col], b[sc.col]
		cmp := columns.CompareValues(x, y, o.missing)
		if cmp == 0 {
			continue
		}
		if sc.descending && !o.isMissing(x) && !o.isMissing(y) {
			return -cmp
		}
		return cmp
	}
	return 0
}

func (o RowOrder) isMissing(s string) bool {
	return s == "" || s == o.missing
}

// SortRows sorts rows in place, keeping the input order of equal rows.
func SortRows(rows [][]string, o RowOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		return o.Compare(rows[i], rows[j]) < 0
	})
}

// topKHeap implements a max-heap for top-K selection
// When we want the smallest K elements, we use a max-heap:
// - If new element is smaller than max, pop max and push new element
// - At the end, heap contains K smallest elements
type topKHeap struct {
	indices []int
	rows    [][]string
	order   RowOrder
}

func (h *topKHeap) Len() int { return len(h.indices) }

// Less puts the worst of the kept rows at the top of the heap.
func (h *topKHeap) Less(i, j int) bool {
	return h.compare(h.indices[i], h.indices[j]) > 0
}

func (h *topKHeap) Swap(i, j int) {
	h.indices[i], h.indices[j] = h.indices[j], h.indices[i]
}

func (h *topKHeap) Push(x any) {
	h.indices = append(h.indices, x.(int))
}

func (h *topKHeap) Pop() any {
	old := h.indices
	n := len(old)
	x := old[n-1]
	h.indices = old[0 : n-1]
	return x
}

// compare orders two row indices; ties go to the earlier row so selection
// agrees with a stable sort.
func (h *topKHeap) compare(i, j int) int {
	if cmp := h.order.Compare(h.rows[i], h.rows[j]); cmp != 0 {
		return cmp
	}
	return i - j
}

// TopRows returns the first k rows of rows sorted by o, without sorting the
// whole input: O(n log k) instead of O(n log n).
//
// Algorithm:
// 1. Build a max-heap of size K (keeping the K "best" rows seen so far)
// 2. Scan all rows, replacing heap top when a better row is found
// 3. Sort the final K rows
func TopRows(rows [][]string, o RowOrder, k int) [][]string {
	if len(rows) == 0 || k <= 0 {
		return nil
	}
	if k >= len(rows) {
		out := append([][]string(nil), rows...)
		SortRows(out, o)
		return out
	}

	h := &topKHeap{indices: make([]int, 0, k), rows: rows, order: o}
	for i := 0; i < k; i++ {
		h.indices = append(h.indices, i)
	}
	heap.Init(h)

	for i := k; i < len(rows); i++ {
		if h.compare(i, h.indices[0]) < 0 {
			heap.Pop(h)
			heap.Push(h, i)
		}
	}

	sort.Slice(h.indices, func(i, j int) bool {
		return h.compare(h.indices[i], h.indices[j]) < 0
	})
	out := make([][]string, len(h.indices))
	for i, idx := range h.indices {
		out[i] = rows[idx]
	}
	return out
}

// order resolves sort keys given as input fields to column indices.
func (dt *DataTable) order(keys []query.SortColumn) (RowOrder, error) {
	o := RowOrder{missing: dt.missingChar}
	for _, k := range keys {
		col, ok := dt.ColumnIndex(k.Field)
		if !ok {
			return RowOrder{}, errUnreadField("sort", k.Field)
		}
		o.cols = append(o.cols, sortableColumn{col: col, descending: k.Descending})
	}
	return o, nil
}

// Sort reorders the rows by the keys. Equal rows keep their order.
func (dt *DataTable) Sort(keys []query.SortColumn) error {
	o, err := dt.order(keys)
	if err != nil {
		return err
	}
	SortRows(dt.rows, o)
	return nil
}

// SortTop keeps only the first limit rows of the sorted table.
func (dt *DataTable) SortTop(keys []query.SortColumn, limit int) error {
	o, err := dt.order(keys)
	if err != nil {
		return err
	}
	dt.rows = TopRows(dt.rows, o, limit)
	return nil
}
