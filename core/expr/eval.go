/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value represents a runtime value
type Value struct {
	typ     valueType
	numVal  float64
	strVal  string
	boolVal bool
}

type valueType int

const (
	typeNil    valueType = iota // Missing cell or None
	typeNumber                  // Floating-point value
	typeString                  // String value
	typeBool                    // Boolean value
)

// NewNumber creates a numeric value
func NewNumber(n float64) Value {
	return Value{typ: typeNumber, numVal: n}
}

// NewString creates a string value
func NewString(s string) Value {
	return Value{typ: typeString, strVal: s}
}

// NewBool creates a boolean value
func NewBool(b bool) Value {
	return Value{typ: typeBool, boolVal: b}
}

// NilValue returns a nil value
func NilValue() Value {
	return Value{typ: typeNil}
}

// FromCell converts a table cell: the missing marker is nil, numeric-looking
// text is a number that keeps its original spelling, anything else is a string.
func FromCell(s, missing string) Value {
	if s == missing || s == "" {
		return NilValue()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return NewString(s)
	}
	return Value{typ: typeNumber, numVal: f, strVal: s}
}

// IsNumber checks if value is a number
func (v Value) IsNumber() bool { return v.typ == typeNumber }

// IsString checks if value is a string
func (v Value) IsString() bool { return v.typ == typeString }

// IsBool checks if value is a boolean
func (v Value) IsBool() bool { return v.typ == typeBool }

// IsNil checks if value is nil
func (v Value) IsNil() bool { return v.typ == typeNil }

// AsNumber returns the numeric value, 0 for non-numbers
func (v Value) AsNumber() float64 {
	switch v.typ {
	case typeNumber:
		return v.numVal
	case typeBool:
		if v.boolVal {
			return 1
		}
	}
	return 0
}

// AsString returns the string value. Numbers read from cells keep their
// original text.
func (v Value) AsString() string {
	switch v.typ {
	case typeString:
		return v.strVal
	case typeNumber:
		if v.strVal != "" {
			return v.strVal
		}
		if v.numVal == math.Trunc(v.numVal) && math.Abs(v.numVal) < 1e15 {
			return strconv.FormatFloat(v.numVal, 'f', 0, 64)
		}
		return strconv.FormatFloat(v.numVal, 'f', -1, 64)
	case typeBool:
		if v.boolVal {
			return "True"
		}
		return "False"
	}
	return "None"
}

// AsBool returns the boolean value (truthy evaluation)
func (v Value) AsBool() bool {
	switch v.typ {
	case typeBool:
		return v.boolVal
	case typeNumber:
		return v.numVal != 0 && !math.IsNaN(v.numVal)
	case typeString:
		return v.strVal != ""
	}
	return false
}

// TypeName returns a human-readable name for the value's type
func (v Value) TypeName() string {
	switch v.typ {
	case typeNumber:
		return "number"
	case typeString:
		return "string"
	case typeBool:
		return "bool"
	}
	return "None"
}

func (v Value) String() string { return v.AsString() }

// Env resolves identifiers for the row being evaluated.
type Env func(name string) (Value, bool)

// Evaluator evaluates an expression AST
type Evaluator struct {
	ast Node
}

// NewEvaluator creates a new evaluator
func NewEvaluator(ast Node) *Evaluator {
	return &Evaluator{ast: ast}
}

// Eval evaluates the expression against env
func (e *Evaluator) Eval(env Env) (Value, error) {
	return e.eval(e.ast, env)
}

func (e *Evaluator) eval(node Node, env Env) (Value, error) {
	switch n := node.(type) {
	case *NumberLit:
		return NewNumber(n.Value), nil

	case *StringLit:
		return NewString(n.Value), nil

	case *BoolLit:
		return NewBool(n.Value), nil

	case *NoneLit:
		return NilValue(), nil

	case *Ident:
		v, ok := env(n.Name)
		if !ok {
			return NilValue(), fmt.Errorf("unknown identifier: %s", n.Name)
		}
		return v, nil

	case *UnaryOp:
		val, err := e.eval(n.Expr, env)
		if err != nil {
			return NilValue(), err
		}
		switch n.Op {
		case TOKEN_MINUS:
			if val.IsNil() {
				return val, nil
			}
			if val.IsNumber() {
				return NewNumber(-val.AsNumber()), nil
			}
			return NilValue(), fmt.Errorf("cannot negate %s", val.TypeName())
		case TOKEN_NOT:
			return NewBool(!val.AsBool()), nil
		}

	case *BinaryOp:
		left, err := e.eval(n.Left, env)
		if err != nil {
			return NilValue(), err
		}

		// Short-circuit for and/or
		if n.Op == TOKEN_AND {
			if !left.AsBool() {
				return NewBool(false), nil
			}
			right, err := e.eval(n.Right, env)
			if err != nil {
				return NilValue(), err
			}
			return NewBool(right.AsBool()), nil
		}
		if n.Op == TOKEN_OR {
			if left.AsBool() {
				return NewBool(true), nil
			}
			right, err := e.eval(n.Right, env)
			if err != nil {
				return NilValue(), err
			}
			return NewBool(right.AsBool()), nil
		}

		right, err := e.eval(n.Right, env)
		if err != nil {
			return NilValue(), err
		}
		return evalBinaryOp(n.Op, left, right)

	case *CallExpr:
		args, err := e.evalArgs(n.Args, env)
		if err != nil {
			return NilValue(), err
		}
		return evalFunc(n.Func, args)

	case *MethodCall:
		obj, err := e.eval(n.Obj, env)
		if err != nil {
			return NilValue(), err
		}
		args, err := e.evalArgs(n.Args, env)
		if err != nil {
			return NilValue(), err
		}
		return evalMethod(obj, n.Method, args)
	}

	return NilValue(), fmt.Errorf("unknown node type %T", node)
}

func (e *Evaluator) evalArgs(nodes []Node, env Env) ([]Value, error) {
	args := make([]Value, 0, len(nodes))
	for _, arg := range nodes {
		val, err := e.eval(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

func evalBinaryOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case TOKEN_EQ, TOKEN_NE:
		eq := equal(left, right)
		if op == TOKEN_NE {
			eq = !eq
		}
		return NewBool(eq), nil

	case TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE:
		c, ok := order(left, right)
		if !ok {
			// Comparisons involving a missing cell or mixed types never hold.
			return NewBool(false), nil
		}
		switch op {
		case TOKEN_LT:
			return NewBool(c < 0), nil
		case TOKEN_GT:
			return NewBool(c > 0), nil
		case TOKEN_LE:
			return NewBool(c <= 0), nil
		}
		return NewBool(c >= 0), nil

	case TOKEN_IN:
		if left.IsNil() || right.IsNil() {
			return NewBool(false), nil
		}
		return NewBool(strings.Contains(right.AsString(), left.AsString())), nil
	}

	if left.IsNil() || right.IsNil() {
		return NilValue(), nil
	}

	// String concatenation with +
	if op == TOKEN_PLUS && (left.IsString() || right.IsString()) {
		return NewString(left.AsString() + right.AsString()), nil
	}

	if left.IsString() || right.IsString() {
		return NilValue(), fmt.Errorf("arithmetic operations require numbers, got %s and %s", left.TypeName(), right.TypeName())
	}

	l, r := left.AsNumber(), right.AsNumber()
	switch op {
	case TOKEN_PLUS:
		return NewNumber(l + r), nil
	case TOKEN_MINUS:
		return NewNumber(l - r), nil
	case TOKEN_STAR:
		return NewNumber(l * r), nil
	case TOKEN_SLASH:
		if r == 0 {
			return NewNumber(math.Inf(1)), nil
		}
		return NewNumber(l / r), nil
	case TOKEN_FLOOR_DIV:
		if r == 0 {
			return NewNumber(math.Inf(1)), nil
		}
		return NewNumber(math.Floor(l / r)), nil
	case TOKEN_PERCENT:
		if r == 0 {
			return NewNumber(math.NaN()), nil
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return NewNumber(m), nil
	case TOKEN_POWER:
		return NewNumber(math.Pow(l, r)), nil
	}

	return NilValue(), fmt.Errorf("unknown operator %s", op)
}

func equal(left, right Value) bool {
	switch {
	case left.IsNil() || right.IsNil():
		return left.IsNil() && right.IsNil()
	case left.IsNumber() && right.IsNumber():
		return left.AsNumber() == right.AsNumber()
	case left.IsBool() || right.IsBool():
		return left.AsBool() == right.AsBool()
	}
	return left.AsString() == right.AsString()
}

func order(left, right Value) (int, bool) {
	switch {
	case left.IsNumber() && right.IsNumber():
		l, r := left.AsNumber(), right.AsNumber()
		switch {
		case l < r:
			return -1, true
		case l > r:
			return 1, true
		}
		return 0, true
	case left.IsString() && right.IsString():
		return strings.Compare(left.AsString(), right.AsString()), true
	}
	return 0, false
}

var functions = map[string]int{
	"len":    1,
	"str":    1,
	"float":  1,
	"int":    1,
	"abs":    1,
	"round":  -1,
	"min":    -1,
	"max":    -1,
	"isnull": 1,
}

func evalFunc(name string, args []Value) (Value, error) {
	if want, ok := functions[name]; !ok {
		return NilValue(), fmt.Errorf("unknown function: %s", name)
	} else if want >= 0 && len(args) != want {
		return NilValue(), fmt.Errorf("%s() takes %d argument(s), got %d", name, want, len(args))
	}

	switch name {
	case "isnull":
		return NewBool(args[0].IsNil()), nil
	case "len":
		if args[0].IsNil() {
			return NewNumber(0), nil
		}
		return NewNumber(float64(len([]rune(args[0].AsString())))), nil
	case "str":
		return NewString(args[0].AsString()), nil
	}

	// The numeric functions propagate missing values.
	for _, a := range args {
		if a.IsNil() {
			return NilValue(), nil
		}
	}

	switch name {
	case "float", "int":
		v := args[0]
		if v.IsString() {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
			if err != nil {
				return NilValue(), nil
			}
			v = NewNumber(f)
		}
		if name == "int" {
			return NewNumber(math.Trunc(v.AsNumber())), nil
		}
		return NewNumber(v.AsNumber()), nil
	case "abs":
		return NewNumber(math.Abs(args[0].AsNumber())), nil
	case "round":
		if len(args) < 1 || len(args) > 2 {
			return NilValue(), fmt.Errorf("round() takes 1 or 2 arguments")
		}
		scale := 1.0
		if len(args) == 2 {
			scale = math.Pow(10, math.Trunc(args[1].AsNumber()))
		}
		return NewNumber(math.Round(args[0].AsNumber()*scale) / scale), nil
	case "min", "max":
		if len(args) == 0 {
			return NilValue(), fmt.Errorf("%s() requires at least one argument", name)
		}
		best := args[0].AsNumber()
		for _, a := range args[1:] {
			f := a.AsNumber()
			if (name == "min" && f < best) || (name == "max" && f > best) {
				best = f
			}
		}
		return NewNumber(best), nil
	}
	return NilValue(), fmt.Errorf("unknown function: %s", name)
}

var methods = map[string]int{
	"upper":      0,
	"lower":      0,
	"strip":      0,
	"startswith": 1,
	"endswith":   1,
	"contains":   1,
	"replace":    2,
	"count":      1,
	"find":       1,
	"isdigit":    0,
}

func evalMethod(obj Value, method string, args []Value) (Value, error) {
	want, ok := methods[method]
	if !ok {
		return NilValue(), fmt.Errorf("unknown method: %s", method)
	}
	if len(args) != want {
		return NilValue(), fmt.Errorf("%s() takes %d argument(s), got %d", method, want, len(args))
	}
	if obj.IsNil() {
		return NilValue(), nil
	}

	s := obj.AsString()
	switch method {
	case "upper":
		return NewString(strings.ToUpper(s)), nil
	case "lower":
		return NewString(strings.ToLower(s)), nil
	case "strip":
		return NewString(strings.TrimSpace(s)), nil
	case "startswith":
		return NewBool(strings.HasPrefix(s, args[0].AsString())), nil
	case "endswith":
		return NewBool(strings.HasSuffix(s, args[0].AsString())), nil
	case "contains":
		return NewBool(strings.Contains(s, args[0].AsString())), nil
	case "replace":
		return NewString(strings.ReplaceAll(s, args[0].AsString(), args[1].AsString())), nil
	case "count":
		return NewNumber(float64(strings.Count(s, args[0].AsString()))), nil
	case "find":
		return NewNumber(float64(strings.Index(s, args[0].AsString()))), nil
	case "isdigit":
		for _, r := range s {
			if r < '0' || r > '9' {
				return NewBool(false), nil
			}
		}
		return NewBool(len(s) > 0), nil
	}
	return NilValue(), fmt.Errorf("unknown method: %s", method)
}
