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
	"strconv"
	"strings"
)

// AggregateType identifies a named reduction over a list of values.
type AggregateType int

const (
	AggUnknown AggregateType = iota
	AggFirst
	AggLast
	AggCount
	AggConcat
	AggMax
	AggMin
	AggSum
	AggMean
	AggMedian
	AggPercentile
	AggStdDev
	AggDiff
)

var aggregateNames = map[string]AggregateType{
	"first":   AggFirst,
	"last":    AggLast,
	"count":   AggCount,
	"concat":  AggConcat,
	"max":     AggMax,
	"min":     AggMin,
	"sum":     AggSum,
	"mean":    AggMean,
	"avg":     AggMean,
	"average": AggMean,
	"median":  AggMedian,
	"p50":     AggMedian,
	"stddev":  AggStdDev,
	"stdev":   AggStdDev,
	"diff":    AggDiff,
}

// Aggregate is a parsed aggregate-function name.
type Aggregate struct {
	Name string
	Type AggregateType
	// Percentile is the rank N of a "pN" function, 0..100.
	Percentile int
}

// ParseAggregate resolves an aggregate name. Unrecognised names resolve to
// AggUnknown rather than failing; applying them yields no value.
func ParseAggregate(name string) Aggregate {
	a := Aggregate{Name: name}
	if t, ok := aggregateNames[name]; ok {
		a.Type = t
		return a
	}
	if rest, ok := strings.CutPrefix(name, "p"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= 100 {
			a.Type = AggPercentile
			a.Percentile = n
		}
	}
	return a
}

// ParseAggregates resolves a list of names, preserving order.
func ParseAggregates(names []string) []Aggregate {
	out := make([]Aggregate, len(names))
	for i, n := range names {
		out[i] = ParseAggregate(n)
	}
	return out
}

// Known reports whether the name resolved to a function.
func (a Aggregate) Known() bool {
	return a.Type != AggUnknown
}

func (a Aggregate) String() string {
	return a.Name
}
