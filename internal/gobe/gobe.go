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

// Package gobe lowers a unit-checked program to a runnable Go source file.
// All unit information is erased during emission: declarations vanish,
// annotations are dropped, and casts compile to the identity. The emitted
// program computes and prints the same magnitudes the surface program
// describes.
package gobe

import (
	"fmt"

	. "github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"

	"github.com/wdamron/uom/ast"
)

// builtinFuncs maps surface builtins to their Go standard library
// counterparts.
var builtinFuncs = map[string]string{
	"abs":   "Abs",
	"floor": "Floor",
	"ceil":  "Ceil",
	"round": "Round",
	"min":   "Min",
	"max":   "Max",
}

type generator struct {
	declared []string
	err      error
}

// Generate emits a Go main package from a program that already passed unit
// checking. Callers must not pass programs with outstanding error
// diagnostics; emission assumes every expression is well-typed.
func Generate(prog *ast.Program) (string, error) {
	g := &generator{}

	f := NewFile("main")
	f.HeaderComment("Code generated by uomcheck. DO NOT EDIT.")

	var body []Code
	for _, stmt := range prog.Stmts {
		if c := g.stmt(stmt); c != nil {
			body = append(body, c)
		}
	}
	// Silence Go's unused-variable errors for bindings the program never
	// reads back.
	for _, name := range g.declared {
		body = append(body, Id("_").Op("=").Id(name))
	}
	f.Func().Id("main").Params().Block(body...)

	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("%#v", f), nil
}

func (g *generator) stmt(stmt ast.Stmt) Code {
	switch s := stmt.(type) {
	case *ast.UnitDecl:
		return nil // erased
	case *ast.Let:
		name := strcase.ToLowerCamel(s.Name)
		g.declared = append(g.declared, name)
		return Id(name).Op(":=").Add(g.expr(s.Value))
	case *ast.Assign:
		return Id(strcase.ToLowerCamel(s.Name)).Op(s.Op.String()).Add(g.expr(s.Value))
	case *ast.ExprStmt:
		return Qual("fmt", "Println").Call(g.expr(s.X))
	default:
		g.errorf("cannot emit statement %s", stmt.StmtName())
		return nil
	}
}

func (g *generator) expr(x ast.Expr) *Statement {
	switch e := x.(type) {
	case *ast.Literal:
		return g.literal(e)
	case *ast.Var:
		return Id(strcase.ToLowerCamel(e.Name))
	case *ast.Binary:
		if e.Op == ast.OpPow {
			return Qual("math", "Pow").Call(g.expr(e.Left), g.expr(e.Right))
		}
		return g.expr(e.Left).Op(e.Op.String()).Add(g.expr(e.Right))
	case *ast.Unary:
		return Op(e.Op.String()).Add(g.expr(e.Operand))
	case *ast.Call:
		return g.call(e)
	case *ast.Cast:
		// Units are erased; a cast is the identity at runtime.
		return g.expr(e.Value)
	case *ast.Paren:
		return Parens(g.expr(e.Inner))
	default:
		g.errorf("cannot emit expression %s", x.ExprName())
		return Null()
	}
}

func (g *generator) literal(e *ast.Literal) *Statement {
	switch e.Base() {
	case ast.Number:
		f, err := e.Magnitude.Float64()
		if err != nil {
			g.errorf("literal %q does not fit a float64", e.Syntax)
			return Null()
		}
		return Lit(f)
	case ast.Boolean:
		return Id(e.Syntax)
	default:
		// Syntax keeps the source spelling, quotes included.
		return Op(e.Syntax)
	}
}

func (g *generator) call(e *ast.Call) *Statement {
	var args []Code
	for _, a := range e.Args {
		args = append(args, g.expr(a))
	}
	if fn, ok := builtinFuncs[e.Func]; ok {
		return Qual("math", fn).Call(args...)
	}
	return Id(strcase.ToLowerCamel(e.Func)).Call(args...)
}

func (g *generator) errorf(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf(format, args...)
	}
}
