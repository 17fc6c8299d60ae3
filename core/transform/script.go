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
	"fmt"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
)

// ScriptFunc is the signature of functions exported by an extension script.
// Absent cells are passed and returned as empty strings.
type ScriptFunc = func(values []string, param []string) []string

// LoadScript interprets a Go source file declaring, in package custom,
//
//	var Functions = map[string]func(values []string, param []string) []string{...}
//
// and registers every entry. Script functions override registered ones of
// the same name.
func (r *Registry) LoadScript(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errs.Unavailable("script", err)
	}
	fns, err := evalScript(string(src))
	if err != nil {
		return errs.Unavailable("script", fmt.Errorf("%s: %w", path, err))
	}
	for name, fn := range fns {
		r.Register(name, scripted(name, fn))
	}
	return nil
}

func evalScript(src string) (map[string]ScriptFunc, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, err
	}
	v, err := i.Eval("custom.Functions")
	if err != nil {
		return nil, err
	}
	fns, ok := v.Interface().(map[string]func([]string, []string) []string)
	if !ok {
		return nil, fmt.Errorf("custom.Functions has type %s", v.Type())
	}
	return fns, nil
}

func scripted(name string, fn ScriptFunc) Func {
	return func(values *columns.Column, param columns.Operand) (col *columns.Column, err error) {
		p, err := param.Expand(values.Len())
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("script function %s panicked: %v", name, r)
			}
		}()
		out := fn(append([]string(nil), values.Raw...), append([]string(nil), p.Raw...))
		return columns.New(values.Name, out, ""), nil
	}
}
