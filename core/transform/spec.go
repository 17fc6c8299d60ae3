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

// Package transform derives new columns from existing ones. A transform is
// written as
//
//	field:function:parameter|function2:parameter2=alias
//
// where the parameter is a literal or an f<N> field reference, and the
// chained functions apply in order to the running result.
package transform

import (
	"strconv"
	"strings"

	"github.com/abhi-bops/da/core/errs"
)

// DefaultParam is used when a step omits its parameter.
const DefaultParam = "1"

// Param is a step's right-hand side: a literal or a reference to an input
// field.
type Param struct {
	Literal string
	Field   int
	IsField bool
}

func (p Param) String() string {
	if p.IsField {
		return "f" + strconv.Itoa(p.Field)
	}
	return p.Literal
}

// Step is one function application.
type Step struct {
	Func  string
	Param Param
}

// Spec is one parsed transform.
type Spec struct {
	// Field is the input field the transform starts from.
	Field int
	Step
	// Chain applies after the first step.
	Chain []Step
	Alias string
}

// Fields lists every input field the transform reads: the source field
// followed by any referenced parameter fields.
func (s Spec) Fields() []int {
	out := []int{s.Field}
	for _, st := range append([]Step{s.Step}, s.Chain...) {
		if st.Param.IsField {
			out = append(out, st.Param.Field)
		}
	}
	return out
}

// Parse reads one transform. A missing field is 0, a missing function passes
// the column through, and a missing parameter is DefaultParam.
func Parse(s string) (Spec, error) {
	req, alias, _ := strings.Cut(s, "=")
	req, chain, hasChain := strings.Cut(req, "|")

	var spec Spec
	spec.Alias = strings.TrimSpace(alias)
	parts := strings.SplitN(req, ":", 3)
	if f := strings.TrimSpace(parts[0]); f != "" {
		n, ok := fieldRef(f)
		if !ok {
			n, ok = number(f)
		}
		if !ok {
			return Spec{}, errs.Parse("transform", "bad source field %q in %q", f, s)
		}
		spec.Field = n
	}
	step, err := parseStep(parts[1:])
	if err != nil {
		return Spec{}, err
	}
	spec.Step = step

	if hasChain {
		for _, c := range strings.Split(chain, "|") {
			if strings.TrimSpace(c) == "" {
				return Spec{}, errs.Parse("transform", "empty chained step in %q", s)
			}
			step, err := parseStep(strings.SplitN(c, ":", 2))
			if err != nil {
				return Spec{}, err
			}
			spec.Chain = append(spec.Chain, step)
		}
	}
	return spec, nil
}

// ParseAll parses every transform, stopping at the first malformed one.
func ParseAll(specs []string) ([]Spec, error) {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		spec, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

// parseStep reads ["function", "parameter"], either of which may be absent.
func parseStep(parts []string) (Step, error) {
	step := Step{Param: Param{Literal: DefaultParam}}
	if len(parts) > 0 {
		step.Func = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 && parts[1] != "" {
		p := parts[1]
		if n, ok := fieldRef(p); ok {
			step.Param = Param{Field: n, IsField: true}
		} else {
			step.Param = Param{Literal: p}
		}
	}
	if strings.ContainsAny(step.Func, " \t") {
		return Step{}, errs.Parse("transform", "bad function name %q", step.Func)
	}
	return step, nil
}

// fieldRef recognises f<digits>.
func fieldRef(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "f")
	if !ok {
		return 0, false
	}
	return number(rest)
}

func number(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
