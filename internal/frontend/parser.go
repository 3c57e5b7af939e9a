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

package frontend

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/wdamron/uom/ast"
	"github.com/wdamron/uom/units"
)

// Error is a surface syntax or host-typing error. Unit diagnostics are not
// reported here; they come from the unit checker after parsing succeeds.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser parses surface source into a typed program. The parser doubles as
// the host's ordinary type checker: it assigns a base type to every
// expression and resolves call signatures, so the unit checker never sees an
// untyped node.
type Parser struct {
	tokens []Token
	pos    int
	errors []Error
	vars   map[string]ast.BaseType
	sigs   map[string]*ast.Signature
}

// NewParser lexes the given source and prepares a parser over it. The
// builtin signatures are all legacy (unitless): they model a pre-existing
// host library that was written before unit annotations existed.
func NewParser(input string) *Parser {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	p := &Parser{
		tokens: tokens,
		vars:   make(map[string]ast.BaseType),
		sigs:   make(map[string]*ast.Signature),
	}
	for _, sig := range builtins() {
		p.sigs[sig.Name] = sig
	}
	return p
}

func builtins() []*ast.Signature {
	num := ast.Param{Base: ast.Number}
	return []*ast.Signature{
		{Name: "abs", Params: []ast.Param{num}, Result: num},
		{Name: "floor", Params: []ast.Param{num}, Result: num},
		{Name: "ceil", Params: []ast.Param{num}, Result: num},
		{Name: "round", Params: []ast.Param{num}, Result: num},
		{Name: "min", Params: []ast.Param{num, num}, Result: num},
		{Name: "max", Params: []ast.Param{num, num}, Result: num},
	}
}

// Declare registers a host function signature, overriding any builtin with
// the same name. Signatures with unit annotations participate fully in unit
// checking.
func (p *Parser) Declare(sig *ast.Signature) {
	p.sigs[sig.Name] = sig
}

func (p *Parser) cur() Token  { return p.tokens[p.pos] }
func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) {
	p.errors = append(p.errors, Error{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) expect(t TokenType, context string) (Token, bool) {
	if p.cur().Type != t {
		p.errorf(p.cur(), "unexpected %q %s", p.cur().Literal, context)
		return p.cur(), false
	}
	return p.next(), true
}

// sync advances to the next statement boundary after a syntax error.
func (p *Parser) sync() {
	for p.cur().Type != SEMICOLON && p.cur().Type != EOF {
		p.next()
	}
	if p.cur().Type == SEMICOLON {
		p.next()
	}
}

// Parse consumes the whole token stream and returns the program along with
// any surface errors. A non-empty error list means the program is
// incomplete; unit checking should still run over what parsed, matching the
// usual compiler practice of reporting as much as possible in one pass.
func (p *Parser) Parse() (*ast.Program, []Error) {
	prog := &ast.Program{}
	for p.cur().Type != EOF {
		stmt := p.parseStmt()
		if stmt == nil {
			// Syntax error; resynchronize at the next statement boundary.
			// Semantic errors (undeclared names, base-type mismatches)
			// return a statement and need no recovery.
			p.sync()
			continue
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, p.errors
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case UNIT:
		return p.parseUnitDecl()
	case LET:
		return p.parseLet()
	case IDENT:
		switch p.peek().Type {
		case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
			return p.parseAssign()
		}
	}
	x := p.parseExpr()
	if x == nil {
		return nil
	}
	p.expect(SEMICOLON, "after expression")
	return &ast.ExprStmt{X: x}
}

// parseUnitDecl parses `unit m;` or `unit a = m / s ^ 2;`. The right-hand
// side is collected as a raw token stream; the engine parses and resolves it
// once all declarations are known, so forward references are legal here.
func (p *Parser) parseUnitDecl() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(IDENT, "after 'unit'")
	if !ok {
		return nil
	}
	decl := &ast.UnitDecl{Name: name.Literal, Line: kw.Line, Column: kw.Column}
	if p.cur().Type == ASSIGN {
		p.next()
		decl.RHS, decl.Raw = p.collectUnitTokens(SEMICOLON)
		if len(decl.RHS) == 0 {
			p.errorf(p.cur(), "missing unit expression after '='")
			return nil
		}
	}
	p.expect(SEMICOLON, "after unit declaration")
	return decl
}

// collectUnitTokens converts surface tokens into a unit-expression token
// stream until (not including) the given terminator. A '-' immediately
// before a number folds into a signed exponent text.
func (p *Parser) collectUnitTokens(until TokenType) ([]units.Token, string) {
	var (
		out []units.Token
		raw strings.Builder
	)
	for p.cur().Type != until && p.cur().Type != EOF {
		tok := p.next()
		ut := units.Token{Text: tok.Literal, Line: tok.Line, Column: tok.Column}
		switch tok.Type {
		case IDENT:
			ut.Kind = units.TokenIdent
		case NUMBER_LIT:
			ut.Kind = units.TokenNumber
		case STAR:
			ut.Kind = units.TokenStar
		case SLASH:
			ut.Kind = units.TokenSlash
		case CARET:
			ut.Kind = units.TokenCaret
		case LPAREN:
			ut.Kind = units.TokenLParen
		case RPAREN:
			ut.Kind = units.TokenRParen
		case MINUS:
			if p.cur().Type == NUMBER_LIT {
				num := p.next()
				ut.Kind = units.TokenNumber
				ut.Text = "-" + num.Literal
				break
			}
			fallthrough
		default:
			p.errorf(tok, "unexpected %q in unit expression", tok.Literal)
			continue
		}
		out = append(out, ut)
		raw.WriteString(ut.Text)
	}
	return out, raw.String()
}

// parseAnnotation parses `<U>` where U is a unit expression.
func (p *Parser) parseAnnotation() *ast.Annotation {
	lt := p.next() // '<'
	toks, raw := p.collectUnitTokens(GT)
	if _, ok := p.expect(GT, "in unit annotation"); !ok {
		return nil
	}
	if len(toks) == 0 {
		p.errorf(lt, "empty unit annotation")
		return nil
	}
	return &ast.Annotation{Tokens: toks, Raw: raw, Line: lt.Line, Column: lt.Column}
}

func (p *Parser) parseBaseType() (ast.BaseType, bool) {
	switch p.cur().Type {
	case NUMBER_TYPE:
		p.next()
		return ast.Number, true
	case STRING_TYPE:
		p.next()
		return ast.String, true
	case BOOLEAN_TYPE:
		p.next()
		return ast.Boolean, true
	case DATE_TYPE:
		p.next()
		return ast.Date, true
	}
	p.errorf(p.cur(), "expected a type, found %q", p.cur().Literal)
	return ast.Invalid, false
}

func (p *Parser) parseLet() ast.Stmt {
	kw := p.next()
	name, ok := p.expect(IDENT, "after 'let'")
	if !ok {
		return nil
	}
	let := &ast.Let{Name: name.Literal, Line: kw.Line, Column: kw.Column}
	if p.cur().Type == COLON {
		p.next()
		base, ok := p.parseBaseType()
		if !ok {
			return nil
		}
		let.Declared = base
		if p.cur().Type == LT {
			let.Annotation = p.parseAnnotation()
		}
	}
	if _, ok := p.expect(ASSIGN, "in let declaration"); !ok {
		return nil
	}
	let.Value = p.parseExpr()
	if let.Value == nil {
		return nil
	}
	p.expect(SEMICOLON, "after let declaration")
	if _, exists := p.vars[let.Name]; exists {
		p.errorf(name, "variable %q is already declared", let.Name)
	}
	base := let.Value.Base()
	if let.Declared != ast.Invalid {
		if base != ast.Invalid && base != let.Declared {
			p.errorf(name, "cannot assign %s value to %s variable %q",
				base, let.Declared, let.Name)
		}
		base = let.Declared
	}
	p.vars[let.Name] = base
	return let
}

func (p *Parser) parseAssign() ast.Stmt {
	name := p.next()
	opTok := p.next()
	var op ast.Op
	switch opTok.Type {
	case ASSIGN:
		op = ast.OpAssign
	case PLUS_ASSIGN:
		op = ast.OpAddAssign
	case MINUS_ASSIGN:
		op = ast.OpSubAssign
	case STAR_ASSIGN:
		op = ast.OpMulAssign
	case SLASH_ASSIGN:
		op = ast.OpDivAssign
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	p.expect(SEMICOLON, "after assignment")
	if _, ok := p.vars[name.Literal]; !ok {
		p.errorf(name, "assignment to undeclared variable %q", name.Literal)
	}
	return &ast.Assign{
		Name:   name.Literal,
		Op:     op,
		Value:  value,
		Line:   name.Line,
		Column: name.Column,
	}
}

// Expression precedence, loosest first: `as` casts, additive, multiplicative,
// exponentiation (right-associative), unary minus, primaries.

func (p *Parser) parseExpr() ast.Expr {
	x := p.parseAdditive()
	for x != nil && p.cur().Type == AS {
		asTok := p.next()
		base, ok := p.parseBaseType()
		if !ok {
			return nil
		}
		cast := &ast.Cast{Value: x}
		cast.BaseType = base
		cast.Line, cast.Column = asTok.Line, asTok.Column
		if p.cur().Type == LT {
			cast.Annotation = p.parseAnnotation()
		}
		x = cast
	}
	return x
}

func (p *Parser) parseAdditive() ast.Expr {
	x := p.parseMultiplicative()
	for x != nil {
		var op ast.Op
		switch p.cur().Type {
		case PLUS:
			op = ast.OpAdd
		case MINUS:
			op = ast.OpSub
		default:
			return x
		}
		opTok := p.next()
		y := p.parseMultiplicative()
		if y == nil {
			return nil
		}
		x = p.binary(op, opTok, x, y)
	}
	return x
}

func (p *Parser) parseMultiplicative() ast.Expr {
	x := p.parsePower()
	for x != nil {
		var op ast.Op
		switch p.cur().Type {
		case STAR:
			op = ast.OpMul
		case SLASH:
			op = ast.OpDiv
		default:
			return x
		}
		opTok := p.next()
		y := p.parsePower()
		if y == nil {
			return nil
		}
		x = p.binary(op, opTok, x, y)
	}
	return x
}

func (p *Parser) parsePower() ast.Expr {
	x := p.parseUnary()
	if x == nil || p.cur().Type != CARET {
		return x
	}
	opTok := p.next()
	y := p.parsePower() // right-associative
	if y == nil {
		return nil
	}
	return p.binary(ast.OpPow, opTok, x, y)
}

func (p *Parser) parseUnary() ast.Expr {
	if p.cur().Type == MINUS {
		opTok := p.next()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		u := &ast.Unary{Op: ast.OpSub, Operand: operand}
		u.BaseType = operand.Base()
		u.Line, u.Column = opTok.Line, opTok.Column
		if u.BaseType != ast.Number && u.BaseType != ast.Invalid {
			p.errorf(opTok, "operator '-' requires a number operand, found %s", u.BaseType)
		}
		return u
	}
	return p.parsePrimary()
}

// binary assigns the host base type of a binary operation. Arithmetic is
// defined over numbers only; '+' additionally concatenates strings.
func (p *Parser) binary(op ast.Op, tok Token, x, y ast.Expr) ast.Expr {
	b := &ast.Binary{Op: op, Left: x, Right: y}
	b.Line, b.Column = tok.Line, tok.Column
	lb, rb := x.Base(), y.Base()
	switch {
	case lb == ast.Invalid || rb == ast.Invalid:
		// Already reported; avoid cascading.
	case op == ast.OpAdd && lb == ast.String && rb == ast.String:
		b.BaseType = ast.String
		return b
	case lb != ast.Number || rb != ast.Number:
		p.errorf(tok, "operator '%s' requires number operands, found %s and %s", op, lb, rb)
	}
	b.BaseType = ast.Number
	return b
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case NUMBER_LIT:
		p.next()
		lit := &ast.Literal{Syntax: tok.Literal}
		lit.BaseType = ast.Number
		lit.Line, lit.Column = tok.Line, tok.Column
		mag, _, err := apd.NewFromString(tok.Literal)
		if err != nil {
			p.errorf(tok, "malformed number literal %q", tok.Literal)
		} else {
			lit.Magnitude = mag
		}
		if p.cur().Type == LT {
			lit.Annotation = p.parseAnnotation()
		}
		return lit
	case STRING_LIT:
		p.next()
		lit := &ast.Literal{Syntax: tok.Literal}
		lit.BaseType = ast.String
		lit.Line, lit.Column = tok.Line, tok.Column
		return lit
	case TRUE, FALSE:
		p.next()
		lit := &ast.Literal{Syntax: tok.Literal}
		lit.BaseType = ast.Boolean
		lit.Line, lit.Column = tok.Line, tok.Column
		return lit
	case IDENT:
		p.next()
		if p.cur().Type == LPAREN {
			return p.parseCall(tok)
		}
		v := &ast.Var{Name: tok.Literal}
		v.Line, v.Column = tok.Line, tok.Column
		base, ok := p.vars[tok.Literal]
		if !ok {
			p.errorf(tok, "undeclared variable %q", tok.Literal)
		}
		v.BaseType = base
		return v
	case LPAREN:
		p.next()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(RPAREN, "after expression"); !ok {
			return nil
		}
		par := &ast.Paren{Inner: inner}
		par.BaseType = inner.Base()
		par.Line, par.Column = tok.Line, tok.Column
		return par
	}
	p.errorf(tok, "unexpected %q", tok.Literal)
	p.next()
	return nil
}

func (p *Parser) parseCall(name Token) ast.Expr {
	p.next() // '('
	call := &ast.Call{Func: name.Literal}
	call.Line, call.Column = name.Line, name.Column
	for p.cur().Type != RPAREN && p.cur().Type != EOF {
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if p.cur().Type != COMMA {
			break
		}
		p.next()
	}
	if _, ok := p.expect(RPAREN, "after call arguments"); !ok {
		return nil
	}
	sig, ok := p.sigs[name.Literal]
	if !ok {
		p.errorf(name, "call to undeclared function %q", name.Literal)
		return call
	}
	call.Sig = sig
	call.BaseType = sig.Result.Base
	if len(call.Args) != len(sig.Params) {
		p.errorf(name, "%q expects %d argument(s), found %d",
			name.Literal, len(sig.Params), len(call.Args))
		return call
	}
	for i, arg := range call.Args {
		if b := arg.Base(); b != ast.Invalid && b != sig.Params[i].Base {
			p.errorf(name, "argument %d of %q must be %s, found %s",
				i+1, name.Literal, sig.Params[i].Base, b)
		}
	}
	return call
}
