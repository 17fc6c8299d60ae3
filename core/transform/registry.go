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
	"sort"

	"github.com/abhi-bops/da/core/columns"
	"github.com/abhi-bops/da/core/errs"
)

// Func computes a derived column. The result must have as many cells as
// values.
type Func func(values *columns.Column, param columns.Operand) (*columns.Column, error)

// Registry maps function names to implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry holding the elementwise built-ins.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	for _, name := range columns.BuiltinNames() {
		fn, _ := columns.Builtin(name)
		r.Register(name, elementwise(fn))
	}
	return r
}

// Default returns the built-ins plus the default extension library.
func Default(opts LibraryOptions) *Registry {
	r := NewRegistry()
	for name, fn := range Library(opts) {
		r.Register(name, fn)
	}
	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup finds a function by name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Call runs the named function. An unregistered name yields an error
// wrapping errs.ErrFunctionNotFound.
func (r *Registry) Call(name string, values *columns.Column, param columns.Operand) (*columns.Column, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, errs.Unknown("transform", name)
	}
	return fn(values, param)
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func elementwise(fn columns.BinaryFunc) Func {
	return func(values *columns.Column, param columns.Operand) (*columns.Column, error) {
		return columns.Map(values.Name, values, param, fn)
	}
}
