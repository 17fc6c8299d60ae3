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

// Package query holds the small vocabulary an invocation is described in:
// field lists, aggregate-function names, and numeric options. Everything here
// is parsed before any row is read, so malformed input fails fast.
package query

import (
	"strconv"
	"strings"

	"github.com/abhi-bops/da/core/errs"
)

// ParseFields parses a field specification such as "0-2,1,4" into zero-based
// field positions. Ranges are inclusive. Duplicates are dropped, keeping the
// first occurrence, so "0-2,1,4" yields [0 1 2 4].
func ParseFields(spec string) ([]int, error) {
	var fields []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			lo, err := parseField(start)
			if err != nil {
				return nil, err
			}
			hi, err := parseField(end)
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, errs.Parse("fields", "descending range %q", part)
			}
			for f := lo; f <= hi; f++ {
				fields = append(fields, f)
			}
			continue
		}
		f, err := parseField(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return Unique(fields), nil
}

func parseField(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errs.Parse("fields", "invalid field number %q", s)
	}
	return n, nil
}

// Unique removes repeated fields, preserving the order of first occurrence.
func Unique(fields []int) []int {
	seen := make(map[int]bool, len(fields))
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// ParseInts parses whitespace or comma separated integers, as used by the
// histogram edge list and sort keys.
func ParseInts(op string, values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		for _, tok := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, errs.Parse(op, "expected an integer, got %q", tok)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// ParseHeading splits a comma separated heading override.
func ParseHeading(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseNames splits a comma or space separated list of function names.
func ParseNames(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
