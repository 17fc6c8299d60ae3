/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

// Node is the interface for all AST nodes
type Node interface {
	node()
}

// NumberLit represents a numeric literal
type NumberLit struct {
	Value float64
}

func (n *NumberLit) node() {}

// StringLit represents a string literal
type StringLit struct {
	Value string
}

func (n *StringLit) node() {}

// BoolLit represents True or False
type BoolLit struct {
	Value bool
}

func (n *BoolLit) node() {}

// NoneLit represents None, the value of a missing cell
type NoneLit struct{}

func (n *NoneLit) node() {}

// Ident represents an identifier: a heading name or an fN field reference
type Ident struct {
	Name string
}

func (n *Ident) node() {}

// BinaryOp represents a binary operation
type BinaryOp struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BinaryOp) node() {}

// UnaryOp represents a unary operation
type UnaryOp struct {
	Op   TokenType
	Expr Node
}

func (n *UnaryOp) node() {}

// CallExpr represents a function call
type CallExpr struct {
	Func string
	Args []Node
}

func (n *CallExpr) node() {}

// MethodCall represents a string method call such as name.startswith("a")
type MethodCall struct {
	Obj    Node
	Method string
	Args   []Node
}

func (n *MethodCall) node() {}
