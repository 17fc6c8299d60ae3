/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Package expr provides the Python-like expression language used to filter
table rows. It supports:
  - Column references by heading name (e.g., price, qty), by input field
    (f0, f3), or quoted with backticks for headings that are not plain words
  - Arithmetic operators: +, -, *, /, //, %, **
  - Comparison operators: ==, !=, <, >, <=, >=, in
  - Logical operators: and, or, not
  - String concatenation with +
  - Literals: "hello", 'hello', 123, 3.14, 1e3, True, False, None
  - Built-in functions: len(), str(), int(), float(), abs(), round(), min(),
    max(), isnull()
  - String methods: .upper(), .lower(), .strip(), .startswith(), .endswith(),
    .contains(), .replace(), .count(), .find(), .isdigit()

Missing cells evaluate to None; ordering comparisons against None are false.
*/
package expr

import "github.com/abhi-bops/da/core/errs"

// Expression represents a compiled expression ready for evaluation
type Expression struct {
	source    string
	ast       Node
	evaluator *Evaluator
}

// Compile parses and compiles an expression string
func Compile(source string) (*Expression, error) {
	if source == "" {
		return nil, errs.Parse("filter", "empty expression")
	}

	ast, err := NewParser(source).Parse()
	if err != nil {
		return nil, err
	}

	return &Expression{
		source:    source,
		ast:       ast,
		evaluator: NewEvaluator(ast),
	}, nil
}

// Source returns the original expression source
func (e *Expression) Source() string {
	return e.source
}

// Eval evaluates the expression against one row
func (e *Expression) Eval(env Env) (Value, error) {
	return e.evaluator.Eval(env)
}

// Match evaluates the expression and reports its truthiness
func (e *Expression) Match(env Env) (bool, error) {
	val, err := e.evaluator.Eval(env)
	if err != nil {
		return false, err
	}
	return val.AsBool(), nil
}
