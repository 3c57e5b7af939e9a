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

package uom

import (
	"github.com/wdamron/uom/ast"
	"github.com/wdamron/uom/diag"
	"github.com/wdamron/uom/units"
)

// CheckResult holds the results of unit checking for use by later pipeline
// stages. Expression nodes additionally carry their computed units after
// checking (see ast.Expr.Unit).
type CheckResult struct {
	Diagnostics *diag.Diagnostics
	Env         *Env
}

// Check performs unit checking on a program with a fresh definition table.
func Check(prog *ast.Program) *CheckResult {
	return CheckWith(NewEnv(nil), prog)
}

// CheckWith performs unit checking against a host-provided definition table,
// typically an enclosing or module scope whose exported definitions the
// program may reference.
func CheckWith(env *Env, prog *ast.Program) *CheckResult {
	c := &checker{
		env:  env,
		d:    diag.New(),
		vars: make(map[string]*varInfo),
	}

	c.declareUnits(prog)
	fatal := c.finalizeUnits()

	// Cycle and duplicate errors are fatal to the scope's table: dependent
	// derived units cannot be resolved, so expression checking does not
	// proceed.
	if !fatal {
		for _, stmt := range prog.Stmts {
			c.checkStmt(stmt)
		}
	}

	return &CheckResult{Diagnostics: c.d, Env: c.env}
}

// varInfo tracks a checked variable's base type and unit. Declared marks an
// explicit unit annotation, which pins the unit for every later assignment;
// inferred units are fixed after the first assignment but may be redefined
// by multiplicative compound assignment.
type varInfo struct {
	base     ast.BaseType
	unit     units.Expr
	declared bool
}

type checker struct {
	env   *Env
	d     *diag.Diagnostics
	vars  map[string]*varInfo
	fatal bool
}

// declareUnits runs the collection phase: every unit declaration is recorded
// before any is resolved, so forward references within a scope are legal.
// Variable names are reserved as they appear so units and variables collide
// deterministically in declaration order.
func (c *checker) declareUnits(prog *ast.Program) {
	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *ast.UnitDecl:
			var err *Error
			if s.RHS == nil {
				_, err = c.env.DeclareBase(s.Name, s.Line, s.Column)
			} else {
				err = c.env.DeclareDerived(s.Name, s.RHS, s.Line, s.Column)
			}
			if err != nil {
				c.report(err)
				c.fatal = true
			}
		case *ast.Let:
			c.env.ReserveName(s.Name, "variable")
		}
	}
}

// finalizeUnits completes the table build and reports whether a fatal
// definition error (duplicate or cycle) blocks expression checking.
func (c *checker) finalizeUnits() bool {
	for _, err := range c.env.Finalize() {
		c.report(err)
		if err.Kind == diag.CircularDefinition || err.Kind == diag.DuplicateDefinition {
			c.fatal = true
		}
	}
	return c.fatal
}

func (c *checker) report(err *Error) {
	c.d.Errorf(err.Kind, err.Line, err.Column, "%s", err.Message)
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Let:
		c.checkLet(s)
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	}
}

func (c *checker) checkLet(stmt *ast.Let) {
	// A declaration may omit its initializer; the declared unit is fixed
	// here and assignments are checked as they occur.
	info := &varInfo{base: stmt.Declared, unit: units.Dimensionless}
	if stmt.Value != nil {
		info.unit = c.checkExpr(stmt.Value)
		if stmt.Declared == ast.Invalid {
			info.base = stmt.Value.Base()
		}
	}

	if stmt.Annotation != nil {
		declared, ok := c.resolveAnnotation(stmt.Annotation, stmt.Declared)
		if !ok {
			c.vars[stmt.Name] = info
			return
		}
		if stmt.Value != nil && !info.unit.Equal(declared) {
			c.d.Mismatch(stmt.Line, stmt.Column, units.ExprString(declared), units.ExprString(info.unit),
				"cannot initialize %s<%s> with a value of unit %s",
				stmt.Declared, units.ExprString(declared), units.ExprString(info.unit))
		}
		info.unit, info.declared = declared, true
	}
	c.vars[stmt.Name] = info
}

func (c *checker) checkAssign(stmt *ast.Assign) {
	value := c.checkExpr(stmt.Value)
	info, ok := c.vars[stmt.Name]
	if !ok {
		// Undeclared targets are the host type checker's error; nothing
		// further to validate here.
		return
	}

	switch stmt.Op {
	case ast.OpAssign, ast.OpAddAssign, ast.OpSubAssign:
		// The target's unit is fixed: plain reassignment and additive
		// compound assignment both require an equal unit.
		if !info.unit.Equal(value) {
			c.d.Mismatch(stmt.Line, stmt.Column, units.ExprString(info.unit), units.ExprString(value),
				"cannot assign a value of unit %s to '%s' of unit %s",
				units.ExprString(value), stmt.Name, units.ExprString(info.unit))
		}
	case ast.OpMulAssign, ast.OpDivAssign:
		result := info.unit.Mul(value)
		if stmt.Op == ast.OpDivAssign {
			result = info.unit.Div(value)
		}
		if info.declared {
			if !result.Equal(info.unit) {
				c.d.Mismatch(stmt.Line, stmt.Column, units.ExprString(info.unit), units.ExprString(result),
					"'%s %s ...' computes unit %s, but '%s' is declared with unit %s",
					stmt.Name, stmt.Op, units.ExprString(result), stmt.Name, units.ExprString(info.unit))
			}
		} else {
			// An inferred unit is redefined by the computed result.
			info.unit = result
		}
	}
}

// checkExpr decorates an expression with its computed unit and returns it.
// A failed sub-expression decorates as dimensionless so checking can
// continue with independent expressions.
func (c *checker) checkExpr(expr ast.Expr) units.Expr {
	if expr == nil {
		return units.Dimensionless
	}
	unit := c.exprUnit(expr)
	expr.SetUnit(unit)
	return unit
}

func (c *checker) exprUnit(expr ast.Expr) units.Expr {
	switch e := expr.(type) {
	case *ast.Literal:
		if e.Annotation == nil {
			return units.Dimensionless
		}
		unit, ok := c.resolveAnnotation(e.Annotation, e.Base())
		if !ok {
			return units.Dimensionless
		}
		return unit
	case *ast.Var:
		if info, ok := c.vars[e.Name]; ok {
			return info.unit
		}
		return units.Dimensionless
	case *ast.Paren:
		return c.checkExpr(e.Inner)
	case *ast.Unary:
		return c.checkExpr(e.Operand)
	case *ast.Binary:
		return c.checkBinary(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.Cast:
		return c.checkCast(e)
	default:
		return units.Dimensionless
	}
}

func (c *checker) checkBinary(e *ast.Binary) units.Expr {
	left := c.checkExpr(e.Left)

	// Exponentiation takes an integer literal exponent; the right operand
	// is not a unit-bearing value.
	if e.Op == ast.OpPow {
		return c.checkPow(e, left)
	}

	right := c.checkExpr(e.Right)
	line, col := e.Pos()

	switch e.Op {
	case ast.OpAdd, ast.OpSub:
		if !left.Equal(right) {
			c.d.Mismatch(line, col, units.ExprString(left), units.ExprString(right),
				"operator '%s' requires equal units: %s<%s> vs %s<%s>",
				e.Op, e.Left.Base(), units.ExprString(left), e.Right.Base(), units.ExprString(right))
			return units.Dimensionless
		}
		return left
	case ast.OpMul:
		return left.Mul(right)
	case ast.OpDiv:
		return left.Div(right)
	default:
		return units.Dimensionless
	}
}

// checkPow handles `a ^ n`. Only an integer literal exponent propagates a
// statically known unit; a non-literal exponent leaves the result unit
// unknown, which is flagged and treated as dimensionless.
func (c *checker) checkPow(e *ast.Binary, left units.Expr) units.Expr {
	line, col := e.Pos()
	lit, negate := powLiteral(e.Right)
	if lit == nil {
		c.checkExpr(e.Right)
		if !left.IsDimensionless() {
			c.d.Warningf(diag.UnknownUnitExponent, line, col,
				"exponent is not an integer literal; the result unit of '^' cannot be computed statically")
		}
		return units.Dimensionless
	}
	n, err := units.IntExponent(lit.Magnitude)
	if err != nil {
		c.d.Errorf(diag.InvalidExponent, line, col,
			"invalid exponent %s: unit exponents must be integers", lit.Syntax)
		return units.Dimensionless
	}
	if negate {
		n = -n
	}
	return left.Pow(n)
}

// powLiteral unwraps a (possibly parenthesized or sign-prefixed) numeric
// literal exponent.
func powLiteral(expr ast.Expr) (lit *ast.Literal, negate bool) {
	for {
		switch e := expr.(type) {
		case *ast.Paren:
			expr = e.Inner
		case *ast.Unary:
			if e.Op != ast.OpSub {
				return nil, false
			}
			negate = !negate
			expr = e.Operand
		case *ast.Literal:
			if e.BaseType != ast.Number || e.Magnitude == nil || e.Annotation != nil {
				return nil, false
			}
			return e, negate
		default:
			return nil, false
		}
	}
}

// checkCall validates arguments against the host-provided signature. A
// signature slot without an annotation is unitless: unit-bearing values do
// not pass into it without an explicit unit-erasing cast.
func (c *checker) checkCall(e *ast.Call) units.Expr {
	if e.Sig == nil {
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		return units.Dimensionless
	}
	for i, arg := range e.Args {
		unit := c.checkExpr(arg)
		if i >= len(e.Sig.Params) {
			continue
		}
		param := e.Sig.Params[i]
		line, col := arg.Pos()
		if param.Annotation == nil {
			if !unit.IsDimensionless() {
				c.d.Mismatch(line, col, "1", units.ExprString(unit),
					"argument %d to '%s': parameter is unitless, got unit %s",
					i+1, e.Func, units.ExprString(unit))
			}
			continue
		}
		want, ok := c.resolveAnnotation(param.Annotation, param.Base)
		if !ok {
			continue
		}
		if !unit.Equal(want) {
			c.d.Mismatch(line, col, units.ExprString(want), units.ExprString(unit),
				"argument %d to '%s': expected unit %s, got %s",
				i+1, e.Func, units.ExprString(want), units.ExprString(unit))
		}
	}
	if e.Sig.Result.Annotation != nil {
		if unit, ok := c.resolveAnnotation(e.Sig.Result.Annotation, e.Sig.Result.Base); ok {
			return unit
		}
	}
	return units.Dimensionless
}

// checkCast handles explicit casts. A bare cast strips the unit expression;
// an annotated cast attaches a new one without numeric conversion (a
// relabeling, never a unit conversion).
func (c *checker) checkCast(e *ast.Cast) units.Expr {
	c.checkExpr(e.Value)
	if e.Annotation == nil {
		return units.Dimensionless
	}
	unit, ok := c.resolveAnnotation(e.Annotation, e.Base())
	if !ok {
		return units.Dimensionless
	}
	return unit
}

// resolveAnnotation expands an annotation's token stream against the scope
// chain and enforces the non-number restriction: base types other than
// number carry single-atom units only.
func (c *checker) resolveAnnotation(a *ast.Annotation, base ast.BaseType) (units.Expr, bool) {
	unit, err := units.ParseExpr(a.Tokens, c.env.Resolve)
	if err != nil {
		c.report(toError(err, a.Line, a.Column))
		return units.Dimensionless, false
	}
	if base != ast.Number && base != ast.Invalid {
		if _, ok := unit.Single(); !ok {
			c.d.Errorf(diag.InvalidAnnotation, a.Line, a.Column,
				"composite unit %s cannot annotate %s; non-number types carry a single base unit only",
				units.ExprString(unit), base)
			return units.Dimensionless, false
		}
	}
	return unit, true
}
