/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"strings"

	"github.com/abhi-bops/da/core/errs"
)

// Lexer tokenizes an expression string
type Lexer struct {
	input string
	pos   int
	ch    byte
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

func (l *Lexer) advance() {
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r') {
		l.advance()
	}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return errs.Parse("filter", format, args...)
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.ch == 0 {
		return Token{Type: TOKEN_EOF, Pos: l.pos}, nil
	}

	startPos := l.pos

	// Numbers
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek())) {
		return l.readNumber(startPos)
	}

	// Strings
	if l.ch == '"' || l.ch == '\'' {
		return l.readString(startPos)
	}

	// Quoted identifiers, for headings that are not plain words
	if l.ch == '`' {
		return l.readQuotedIdent(startPos)
	}

	// Identifiers and keywords
	if isLetter(l.ch) || l.ch == '_' {
		return l.readIdent(startPos)
	}

	two := func(second byte, long, short TokenType, longVal, shortVal string) Token {
		l.advance()
		if l.ch == second {
			l.advance()
			return Token{Type: long, Value: longVal, Pos: startPos}
		}
		return Token{Type: short, Value: shortVal, Pos: startPos}
	}

	switch l.ch {
	case '+':
		l.advance()
		return Token{Type: TOKEN_PLUS, Value: "+", Pos: startPos}, nil
	case '-':
		l.advance()
		return Token{Type: TOKEN_MINUS, Value: "-", Pos: startPos}, nil
	case '*':
		return two('*', TOKEN_POWER, TOKEN_STAR, "**", "*"), nil
	case '/':
		return two('/', TOKEN_FLOOR_DIV, TOKEN_SLASH, "//", "/"), nil
	case '%':
		l.advance()
		return Token{Type: TOKEN_PERCENT, Value: "%", Pos: startPos}, nil
	case '(':
		l.advance()
		return Token{Type: TOKEN_LPAREN, Value: "(", Pos: startPos}, nil
	case ')':
		l.advance()
		return Token{Type: TOKEN_RPAREN, Value: ")", Pos: startPos}, nil
	case ',':
		l.advance()
		return Token{Type: TOKEN_COMMA, Value: ",", Pos: startPos}, nil
	case '.':
		l.advance()
		return Token{Type: TOKEN_DOT, Value: ".", Pos: startPos}, nil
	case '=':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return Token{Type: TOKEN_EQ, Value: "==", Pos: startPos}, nil
		}
		return Token{}, l.errorf("unexpected '=' at position %d, did you mean '=='?", startPos)
	case '!':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return Token{Type: TOKEN_NE, Value: "!=", Pos: startPos}, nil
		}
		return Token{}, l.errorf("unexpected '!' at position %d", startPos)
	case '<':
		return two('=', TOKEN_LE, TOKEN_LT, "<=", "<"), nil
	case '>':
		return two('=', TOKEN_GE, TOKEN_GT, ">=", ">"), nil
	}

	return Token{}, l.errorf("unexpected character '%c' at position %d", l.ch, startPos)
}

func (l *Lexer) readNumber(startPos int) (Token, error) {
	var sb strings.Builder
	hasDecimal := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDecimal {
				break
			}
			hasDecimal = true
		}
		sb.WriteByte(l.ch)
		l.advance()
	}
	// Exponent: 1e3, 2.5E-4
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peek()
		if isDigit(next) || next == '+' || next == '-' {
			sb.WriteByte(l.ch)
			l.advance()
			sb.WriteByte(l.ch)
			l.advance()
			for isDigit(l.ch) {
				sb.WriteByte(l.ch)
				l.advance()
			}
		}
	}
	return Token{Type: TOKEN_NUMBER, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readString(startPos int) (Token, error) {
	quote := l.ch
	l.advance()
	var sb strings.Builder
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 0:
				return Token{}, l.errorf("unterminated string starting at position %d", startPos)
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.advance()
	}
	if l.ch != quote {
		return Token{}, l.errorf("unterminated string starting at position %d", startPos)
	}
	l.advance()
	return Token{Type: TOKEN_STRING, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readQuotedIdent(startPos int) (Token, error) {
	l.advance()
	start := l.pos
	for l.ch != 0 && l.ch != '`' {
		l.advance()
	}
	if l.ch != '`' {
		return Token{}, l.errorf("unterminated identifier starting at position %d", startPos)
	}
	name := l.input[start:l.pos]
	l.advance()
	return Token{Type: TOKEN_IDENT, Value: name, Pos: startPos}, nil
}

func (l *Lexer) readIdent(startPos int) (Token, error) {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.advance()
	}
	value := l.input[start:l.pos]

	switch value {
	case "and":
		return Token{Type: TOKEN_AND, Value: value, Pos: startPos}, nil
	case "or":
		return Token{Type: TOKEN_OR, Value: value, Pos: startPos}, nil
	case "not":
		return Token{Type: TOKEN_NOT, Value: value, Pos: startPos}, nil
	case "in":
		return Token{Type: TOKEN_IN, Value: value, Pos: startPos}, nil
	case "True":
		return Token{Type: TOKEN_TRUE, Value: value, Pos: startPos}, nil
	case "False":
		return Token{Type: TOKEN_FALSE, Value: value, Pos: startPos}, nil
	case "None":
		return Token{Type: TOKEN_NONE, Value: value, Pos: startPos}, nil
	}

	return Token{Type: TOKEN_IDENT, Value: value, Pos: startPos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter accepts ASCII letters and any byte of a multi-byte UTF-8 sequence.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}
