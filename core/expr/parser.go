/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"strconv"

	"github.com/abhi-bops/da/core/errs"
)

// Parser parses tokens into an AST
type Parser struct {
	lexer *Lexer
	cur   Token
}

// NewParser creates a new parser
func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input)}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return errs.Parse("filter", format, args...)
}

// Parse parses the whole input and returns the AST. Trailing tokens are an
// error.
func (p *Parser) Parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TOKEN_EOF {
		return nil, p.errorf("unexpected %s at position %d", p.cur.Type, p.cur.Pos)
	}
	return node, nil
}

// Expression parsing with precedence climbing
// Precedence (low to high):
// 1. or
// 2. and
// 3. not
// 4. ==, !=, <, >, <=, >=, in
// 5. +, -
// 6. *, /, //, %
// 7. ** (right associative)
// 8. unary -
// 9. function calls, method calls

func (p *Parser) parseExpr() (Node, error) {
	return p.parseOr()
}

// parseBinary parses a left-associative chain of the given operators.
func (p *Parser) parseBinary(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.is(ops...) {
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) is(types ...TokenType) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) parseOr() (Node, error) {
	return p.parseBinary(p.parseAnd, TOKEN_OR)
}

func (p *Parser) parseAnd() (Node, error) {
	return p.parseBinary(p.parseNot, TOKEN_AND)
}

func (p *Parser) parseNot() (Node, error) {
	if p.cur.Type == TOKEN_NOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: TOKEN_NOT, Expr: expr}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Node, error) {
	return p.parseBinary(p.parseAddSub, TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE, TOKEN_IN)
}

func (p *Parser) parseAddSub() (Node, error) {
	return p.parseBinary(p.parseMulDiv, TOKEN_PLUS, TOKEN_MINUS)
}

func (p *Parser) parseMulDiv() (Node, error) {
	return p.parseBinary(p.parsePower, TOKEN_STAR, TOKEN_SLASH, TOKEN_FLOOR_DIV, TOKEN_PERCENT)
}

func (p *Parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// Power is right-associative
	if p.cur.Type == TOKEN_POWER {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: TOKEN_POWER, Left: left, Right: right}, nil
	}

	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Type == TOKEN_MINUS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: TOKEN_MINUS, Expr: expr}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur.Type {
		case TOKEN_LPAREN:
			ident, ok := node.(*Ident)
			if !ok {
				return nil, p.errorf("cannot call non-function at position %d", p.cur.Pos)
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &CallExpr{Func: ident.Name, Args: args}
		case TOKEN_DOT:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != TOKEN_IDENT {
				return nil, p.errorf("expected method name after '.', got %s", p.cur.Type)
			}
			method := p.cur.Value
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != TOKEN_LPAREN {
				return nil, p.errorf("expected '(' after .%s", method)
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &MethodCall{Obj: node, Method: method, Args: args}
		default:
			return node, nil
		}
	}
}

func (p *Parser) parseArgs() ([]Node, error) {
	// Skip '('
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Node
	if p.cur.Type != TOKEN_RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		for p.cur.Type == TOKEN_COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	if p.cur.Type != TOKEN_RPAREN {
		return nil, p.errorf("expected ')' after arguments")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.cur
	switch tok.Type {
	case TOKEN_NUMBER:
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid number: %s", tok.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLit{Value: val}, nil

	case TOKEN_STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringLit{Value: tok.Value}, nil

	case TOKEN_TRUE, TOKEN_FALSE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolLit{Value: tok.Type == TOKEN_TRUE}, nil

	case TOKEN_NONE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NoneLit{}, nil

	case TOKEN_IDENT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Ident{Name: tok.Value}, nil

	case TOKEN_LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TOKEN_RPAREN {
			return nil, p.errorf("expected ')' after expression")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil

	case TOKEN_EOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %s at position %d", tok.Type, tok.Pos)
}
