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

// Package ast defines the expression and statement nodes the unit checker
// operates on. Nodes arrive already typed by the host's ordinary type
// checker: every expression carries a base type, and the unit checker
// decorates nodes with unit expressions.
package ast

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/wdamron/uom/units"
)

// BaseType is the host-assigned type of an expression, prior to unit
// decoration. Composite unit expressions are restricted to Number; the other
// base types accept only atomic units.
type BaseType int

const (
	Invalid BaseType = iota
	Number
	String
	Boolean
	Date
)

// String returns the surface name of the base type.
func (t BaseType) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	default:
		return "invalid"
	}
}

// Annotation is a postfix unit expression attached to a literal, cast, or
// type annotation, delivered as a token stream by the host's lexer. Raw
// preserves the source spelling for printing.
type Annotation struct {
	Tokens []units.Token
	Raw    string
	Line   int
	Column int
}

// Expr is the base for all expressions.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
	// Pos returns the source position of the expression.
	Pos() (line, col int)
	// Base returns the host-assigned base type of the expression.
	Base() BaseType
	// Unit returns the unit decoration of the expression. Unit decorations
	// are only available after checking; an undecorated expression is
	// dimensionless.
	Unit() units.Expr
	// SetUnit assigns a unit decoration. Assignments should occur
	// indirectly, during checking.
	SetUnit(units.Expr)
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Cast)(nil)
	_ Expr = (*Paren)(nil)
)

// exprBase carries the fields shared by all expression nodes.
type exprBase struct {
	BaseType BaseType
	Line     int
	Column   int
	unit     units.Expr
}

func (e *exprBase) Pos() (int, int)      { return e.Line, e.Column }
func (e *exprBase) Base() BaseType       { return e.BaseType }
func (e *exprBase) Unit() units.Expr     { return e.unit }
func (e *exprBase) SetUnit(u units.Expr) { e.unit = u }

// Literal is a semi-opaque literal value. Syntax preserves the source
// spelling and is printed verbatim; Magnitude carries the parsed numeric
// value for Number literals.
type Literal struct {
	exprBase
	Syntax     string
	Magnitude  *apd.Decimal
	Annotation *Annotation
}

func (e *Literal) ExprName() string { return "Literal" }

// IsInteger reports whether a Number literal holds an integral magnitude,
// as required for statically-known exponents.
func (e *Literal) IsInteger() bool {
	if e.BaseType != Number || e.Magnitude == nil {
		return false
	}
	_, err := e.Magnitude.Int64()
	return err == nil
}

// Var is a variable reference.
type Var struct {
	exprBase
	Name string
}

func (e *Var) ExprName() string { return "Var" }

// Op is a binary or assignment operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

// String returns the operator's surface spelling.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpAssign:
		return "="
	case OpAddAssign:
		return "+="
	case OpSubAssign:
		return "-="
	case OpMulAssign:
		return "*="
	case OpDivAssign:
		return "/="
	default:
		return "?"
	}
}

// Binop returns the binary operator corresponding to a compound assignment
// operator, and whether the operator is a compound assignment.
func (op Op) Binop() (Op, bool) {
	switch op {
	case OpAddAssign:
		return OpAdd, true
	case OpSubAssign:
		return OpSub, true
	case OpMulAssign:
		return OpMul, true
	case OpDivAssign:
		return OpDiv, true
	default:
		return op, false
	}
}

// Binary is a binary operation: `a + b`, `a / b`, `a ^ 2`.
type Binary struct {
	exprBase
	Op    Op
	Left  Expr
	Right Expr
}

func (e *Binary) ExprName() string { return "Binary" }

// Unary is a unary operation: `-a`.
type Unary struct {
	exprBase
	Op      Op
	Operand Expr
}

func (e *Unary) ExprName() string { return "Unary" }

// Param is a parameter or result of a host function signature. A nil
// Annotation marks a unitless (legacy) slot.
type Param struct {
	Base       BaseType
	Annotation *Annotation
}

// Signature is the host-provided type of a called function. Signatures
// without annotations are legacy: unit-bearing arguments do not pass into
// them and their results carry no unit.
type Signature struct {
	Name   string
	Params []Param
	Result Param
}

// Call is a function application: `f(x)`. Sig is resolved by the host's
// name resolution before unit checking.
type Call struct {
	exprBase
	Func string
	Args []Expr
	Sig  *Signature
}

func (e *Call) ExprName() string { return "Call" }

// Cast is an explicit conversion: `x as number` strips the unit expression,
// `x as number<U>` attaches a new one without numeric conversion.
type Cast struct {
	exprBase
	Value      Expr
	Annotation *Annotation
}

func (e *Cast) ExprName() string { return "Cast" }

// Paren preserves explicit grouping for faithful printing.
type Paren struct {
	exprBase
	Inner Expr
}

func (e *Paren) ExprName() string { return "Paren" }

// Stmt is the base for all statements.
type Stmt interface {
	StmtName() string
	Pos() (line, col int)
}

var (
	_ Stmt = (*UnitDecl)(nil)
	_ Stmt = (*Let)(nil)
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*ExprStmt)(nil)
)

// UnitDecl introduces a unit name. A nil RHS declares a fresh base unit;
// otherwise the right-hand token stream defines a derived unit over
// previously known names (forward references permitted).
type UnitDecl struct {
	Name   string
	RHS    []units.Token
	Raw    string
	Line   int
	Column int
}

func (s *UnitDecl) StmtName() string { return "UnitDecl" }
func (s *UnitDecl) Pos() (int, int)  { return s.Line, s.Column }

// Let declares a variable, optionally with an explicit base type and unit
// annotation. Without an annotation the variable's unit is inferred from the
// initializer and fixed thereafter.
type Let struct {
	Name       string
	Declared   BaseType    // Invalid when the type is inferred
	Annotation *Annotation // nil when the unit is inferred
	Value      Expr
	Line       int
	Column     int
}

func (s *Let) StmtName() string { return "Let" }
func (s *Let) Pos() (int, int)  { return s.Line, s.Column }

// Assign is a plain or compound assignment to a declared variable.
type Assign struct {
	Name   string
	Op     Op
	Value  Expr
	Line   int
	Column int
}

func (s *Assign) StmtName() string { return "Assign" }
func (s *Assign) Pos() (int, int)  { return s.Line, s.Column }

// ExprStmt is an expression evaluated for its value.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) StmtName() string { return "ExprStmt" }
func (s *ExprStmt) Pos() (int, int)  { return s.X.Pos() }

// Program is an ordered sequence of statements forming one compilation unit.
type Program struct {
	Stmts []Stmt
}
