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

package ast

import (
	"strings"
)

// ExprString returns a string representation of an expression, units kept.
func ExprString(e Expr) string {
	p := printer{units: true}
	p.expr(e)
	return p.sb.String()
}

// ErasedExprString returns a string representation of an expression with
// every unit annotation erased.
func ErasedExprString(e Expr) string {
	p := printer{units: false}
	p.expr(e)
	return p.sb.String()
}

// ProgramString returns the program's source rendering, units kept.
func ProgramString(prog *Program) string {
	p := printer{units: true}
	p.program(prog)
	return p.sb.String()
}

// ErasedProgramString returns the program's source rendering with every
// unit annotation and unit declaration erased. Erasure is purely textual:
// magnitudes, operators, and grouping are reproduced verbatim.
func ErasedProgramString(prog *Program) string {
	p := printer{units: false}
	p.program(prog)
	return p.sb.String()
}

type printer struct {
	sb    strings.Builder
	units bool
}

func (p *printer) program(prog *Program) {
	for _, stmt := range prog.Stmts {
		p.stmt(stmt)
	}
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *UnitDecl:
		if !p.units {
			return
		}
		p.sb.WriteString("unit ")
		p.sb.WriteString(s.Name)
		if s.RHS != nil {
			p.sb.WriteString(" = ")
			p.sb.WriteString(s.Raw)
		}
		p.sb.WriteString(";\n")
	case *Let:
		p.sb.WriteString("let ")
		p.sb.WriteString(s.Name)
		if s.Declared != Invalid {
			p.sb.WriteString(": ")
			p.sb.WriteString(s.Declared.String())
			p.annotation(s.Annotation)
		}
		p.sb.WriteString(" = ")
		p.expr(s.Value)
		p.sb.WriteString(";\n")
	case *Assign:
		p.sb.WriteString(s.Name)
		p.sb.WriteByte(' ')
		p.sb.WriteString(s.Op.String())
		p.sb.WriteByte(' ')
		p.expr(s.Value)
		p.sb.WriteString(";\n")
	case *ExprStmt:
		p.expr(s.X)
		p.sb.WriteString(";\n")
	}
}

func (p *printer) expr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		p.sb.WriteString(e.Syntax)
		p.annotation(e.Annotation)
	case *Var:
		p.sb.WriteString(e.Name)
	case *Binary:
		p.expr(e.Left)
		p.sb.WriteByte(' ')
		p.sb.WriteString(e.Op.String())
		p.sb.WriteByte(' ')
		p.expr(e.Right)
	case *Unary:
		p.sb.WriteString(e.Op.String())
		p.expr(e.Operand)
	case *Call:
		p.sb.WriteString(e.Func)
		p.sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.expr(arg)
		}
		p.sb.WriteByte(')')
	case *Cast:
		p.expr(e.Value)
		p.sb.WriteString(" as ")
		p.sb.WriteString(e.BaseType.String())
		p.annotation(e.Annotation)
	case *Paren:
		p.sb.WriteByte('(')
		p.expr(e.Inner)
		p.sb.WriteByte(')')
	}
}

func (p *printer) annotation(a *Annotation) {
	if a == nil || !p.units {
		return
	}
	p.sb.WriteByte('<')
	p.sb.WriteString(a.Raw)
	p.sb.WriteByte('>')
}
