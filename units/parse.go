// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package units

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Resolver maps a unit name to its fully-expanded expression. It is supplied
// by the definition table; the parser itself is table-agnostic.
type Resolver func(name string) (Expr, error)

// ParseError is a positioned failure while parsing a unit-expression token
// stream. Unwrap exposes the underlying cause (ErrInvalidSyntax,
// ErrInvalidExponent, or a resolver error).
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseExpr parses a unit-expression token stream into a normalized Expr.
//
// The grammar is small: `*` and `/` are left-associative with equal
// precedence, `^` binds tighter and takes an integer literal exponent, `1`
// is the dimensionless unit, and sub-expressions may be parenthesized.
// Identifiers are expanded through the resolver.
func ParseExpr(tokens []Token, resolve Resolver) (Expr, error) {
	p := &exprParser{tokens: tokens, resolve: resolve}
	expr, err := p.parseBinary()
	if err != nil {
		return Dimensionless, err
	}
	if !p.done() {
		return Dimensionless, p.errorf(p.peek(), ErrInvalidSyntax, "unexpected %s in unit expression", p.peek().Kind)
	}
	return expr, nil
}

type exprParser struct {
	tokens  []Token
	pos     int
	resolve Resolver
}

func (p *exprParser) done() bool { return p.pos >= len(p.tokens) }

func (p *exprParser) peek() Token {
	if p.done() {
		if len(p.tokens) == 0 {
			return Token{}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *exprParser) next() Token {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *exprParser) errorf(at Token, cause error, format string, args ...interface{}) error {
	return &ParseError{
		Line:   at.Line,
		Column: at.Column,
		Msg:    fmt.Sprintf(format, args...),
		Err:    cause,
	}
}

// parseBinary parses a left-associative chain of `*` and `/` factors.
func (p *exprParser) parseBinary() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return Dimensionless, err
	}
	for !p.done() {
		op := p.peek()
		if op.Kind != TokenStar && op.Kind != TokenSlash {
			break
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return Dimensionless, err
		}
		if op.Kind == TokenStar {
			left = left.Mul(right)
		} else {
			left = left.Div(right)
		}
	}
	return left, nil
}

// parseFactor parses a primary with an optional `^ exponent` suffix.
func (p *exprParser) parseFactor() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return Dimensionless, err
	}
	if p.done() || p.peek().Kind != TokenCaret {
		return base, nil
	}
	caret := p.next()
	if p.done() || p.peek().Kind != TokenNumber {
		return Dimensionless, p.errorf(caret, ErrInvalidSyntax, "'^' must be followed by an integer exponent")
	}
	exponent := p.next()
	n, err := parseExponent(exponent.Text)
	if err != nil {
		return Dimensionless, p.errorf(exponent, err, "invalid exponent %q: %v", exponent.Text, err)
	}
	return base.Pow(n), nil
}

func (p *exprParser) parsePrimary() (Expr, error) {
	if p.done() {
		return Dimensionless, p.errorf(p.peek(), ErrInvalidSyntax, "unexpected end of unit expression")
	}
	tok := p.next()
	switch tok.Kind {
	case TokenIdent:
		expr, err := p.resolve(tok.Text)
		if err != nil {
			return Dimensionless, p.errorf(tok, err, "%v", err)
		}
		return expr, nil
	case TokenNumber:
		// The only numeric literal in a unit expression is the
		// dimensionless unit `1`.
		if tok.Text != "1" {
			return Dimensionless, p.errorf(tok, ErrInvalidSyntax, "unexpected number %q in unit expression", tok.Text)
		}
		return Dimensionless, nil
	case TokenLParen:
		inner, err := p.parseBinary()
		if err != nil {
			return Dimensionless, err
		}
		if p.done() || p.peek().Kind != TokenRParen {
			return Dimensionless, p.errorf(tok, ErrInvalidSyntax, "unbalanced '(' in unit expression")
		}
		p.next()
		return inner, nil
	default:
		return Dimensionless, p.errorf(tok, ErrInvalidSyntax, "unexpected %s in unit expression", tok.Kind)
	}
}

func parseExponent(text string) (int, error) {
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return 0, ErrInvalidExponent
	}
	return IntExponent(d)
}
