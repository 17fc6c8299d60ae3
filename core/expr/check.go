/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import "github.com/abhi-bops/da/core/errs"

// Identifiers returns the distinct identifiers referenced by the expression,
// in order of first use.
func (e *Expression) Identifiers() []string {
	var out []string
	seen := make(map[string]bool)
	walk(e.ast, func(n Node) {
		if id, ok := n.(*Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
	})
	return out
}

// Check verifies, before any row is evaluated, that every identifier
// resolves and every function and method exists.
func (e *Expression) Check(resolves func(name string) bool) error {
	var err error
	walk(e.ast, func(n Node) {
		if err != nil {
			return
		}
		switch n := n.(type) {
		case *Ident:
			if !resolves(n.Name) {
				err = errs.Parse("filter", "unknown column %q", n.Name)
			}
		case *CallExpr:
			if _, ok := functions[n.Func]; !ok {
				err = errs.Parse("filter", "unknown function %q", n.Func)
			}
		case *MethodCall:
			if _, ok := methods[n.Method]; !ok {
				err = errs.Parse("filter", "unknown method %q", n.Method)
			}
		}
	})
	return err
}

func walk(node Node, visit func(Node)) {
	visit(node)
	switch n := node.(type) {
	case *BinaryOp:
		walk(n.Left, visit)
		walk(n.Right, visit)
	case *UnaryOp:
		walk(n.Expr, visit)
	case *CallExpr:
		for _, a := range n.Args {
			walk(a, visit)
		}
	case *MethodCall:
		walk(n.Obj, visit)
		for _, a := range n.Args {
			walk(a, visit)
		}
	}
}
