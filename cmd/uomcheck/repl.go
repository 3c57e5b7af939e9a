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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/peterh/liner"

	"github.com/wdamron/uom"
	"github.com/wdamron/uom/ast"
	"github.com/wdamron/uom/internal/frontend"
	"github.com/wdamron/uom/units"
)

const historyFile = ".uomcheck_history"

// runRepl reads statements interactively. Each accepted line is appended to
// the session program; the whole program is reparsed and rechecked on every
// entry, so unit declarations and bindings persist across lines and a line
// that fails checking is dropped without poisoning the session.
func runRepl() {
	fmt.Println("uomcheck repl - 'exit' to leave")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var accepted []string
	for {
		line, err := ln.Prompt("uom> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}
		if !strings.HasSuffix(line, ";") {
			line += ";"
		}
		ln.AppendHistory(line)

		candidate := append(append([]string{}, accepted...), line)
		src := strings.Join(candidate, "\n")

		p := frontend.NewParser(src)
		prog, parseErrs := p.Parse()
		if len(parseErrs) > 0 {
			for _, e := range parseErrs {
				fmt.Printf("error[%s]\n", e.Error())
			}
			continue
		}

		result := uom.Check(prog)
		if out := result.Diagnostics.Format("repl"); out != "" {
			fmt.Println(out)
		}
		if result.Diagnostics.HasErrors() {
			continue
		}

		accepted = candidate
		printLast(prog)
	}
}

// printLast evaluates the session program and reports the value and unit of
// the most recent binding or expression.
func printLast(prog *ast.Program) {
	if len(prog.Stmts) == 0 {
		return
	}
	ev := newEvaluator()
	values := ev.run(prog)

	var out string
	switch s := prog.Stmts[len(prog.Stmts)-1].(type) {
	case *ast.Let:
		if v, ok := values[s.Name]; ok {
			out = fmt.Sprintf("%s = %s <%s>", s.Name, v.Text('f'), units.ExprString(s.Value.Unit()))
		}
	case *ast.Assign:
		if v, ok := values[s.Name]; ok {
			out = fmt.Sprintf("%s = %s", s.Name, v.Text('f'))
		}
	case *ast.ExprStmt:
		if v := ev.eval(s.X); v != nil {
			out = fmt.Sprintf("%s <%s>", v.Text('f'), units.ExprString(s.X.Unit()))
		}
	}
	if ev.err != nil {
		fmt.Printf("evaluation error: %v\n", ev.err)
		return
	}
	if out != "" {
		fmt.Println(out)
	}
}

// evaluator computes numeric magnitudes with decimal arithmetic. Units never
// influence evaluation; by the time evaluation runs they are checked and,
// conceptually, already erased.
type evaluator struct {
	ctx  *apd.Context
	vars map[string]*apd.Decimal
	err  error
}

func newEvaluator() *evaluator {
	return &evaluator{
		ctx:  apd.BaseContext.WithPrecision(34),
		vars: make(map[string]*apd.Decimal),
	}
}

// check records the first arithmetic failure; later operations on a failed
// session still run but the original error is what gets reported.
func (ev *evaluator) check(_ apd.Condition, err error) {
	if ev.err == nil {
		ev.err = err
	}
}

// run executes every statement and returns the final variable bindings.
func (ev *evaluator) run(prog *ast.Program) map[string]*apd.Decimal {
	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			if v := ev.eval(s.Value); v != nil {
				ev.vars[s.Name] = v
			}
		case *ast.Assign:
			v := ev.eval(s.Value)
			cur := ev.vars[s.Name]
			if v == nil || cur == nil {
				continue
			}
			out := new(apd.Decimal)
			switch s.Op {
			case ast.OpAssign:
				out.Set(v)
			case ast.OpAddAssign:
				ev.check(ev.ctx.Add(out, cur, v))
			case ast.OpSubAssign:
				ev.check(ev.ctx.Sub(out, cur, v))
			case ast.OpMulAssign:
				ev.check(ev.ctx.Mul(out, cur, v))
			case ast.OpDivAssign:
				ev.check(ev.ctx.Quo(out, cur, v))
			}
			ev.vars[s.Name] = out
		}
	}
	return ev.vars
}

// eval returns the numeric value of an expression, or nil for non-numeric
// or unevaluable expressions.
func (ev *evaluator) eval(expr ast.Expr) *apd.Decimal {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Magnitude
	case *ast.Var:
		return ev.vars[e.Name]
	case *ast.Paren:
		return ev.eval(e.Inner)
	case *ast.Cast:
		return ev.eval(e.Value)
	case *ast.Unary:
		v := ev.eval(e.Operand)
		if v == nil {
			return nil
		}
		out := new(apd.Decimal)
		ev.check(ev.ctx.Neg(out, v))
		return out
	case *ast.Binary:
		return ev.binary(e)
	case *ast.Call:
		return ev.call(e)
	default:
		return nil
	}
}

func (ev *evaluator) binary(e *ast.Binary) *apd.Decimal {
	x, y := ev.eval(e.Left), ev.eval(e.Right)
	if x == nil || y == nil {
		return nil
	}
	out := new(apd.Decimal)
	switch e.Op {
	case ast.OpAdd:
		ev.check(ev.ctx.Add(out, x, y))
	case ast.OpSub:
		ev.check(ev.ctx.Sub(out, x, y))
	case ast.OpMul:
		ev.check(ev.ctx.Mul(out, x, y))
	case ast.OpDiv:
		ev.check(ev.ctx.Quo(out, x, y))
	case ast.OpPow:
		ev.check(ev.ctx.Pow(out, x, y))
	default:
		return nil
	}
	return out
}

func (ev *evaluator) call(e *ast.Call) *apd.Decimal {
	args := make([]*apd.Decimal, len(e.Args))
	for i, a := range e.Args {
		if args[i] = ev.eval(a); args[i] == nil {
			return nil
		}
	}
	out := new(apd.Decimal)
	switch e.Func {
	case "abs":
		ev.check(ev.ctx.Abs(out, args[0]))
	case "floor":
		ev.check(ev.ctx.Floor(out, args[0]))
	case "ceil":
		ev.check(ev.ctx.Ceil(out, args[0]))
	case "round":
		ev.check(ev.ctx.RoundToIntegralValue(out, args[0]))
	case "min":
		if args[0].Cmp(args[1]) <= 0 {
			out.Set(args[0])
		} else {
			out.Set(args[1])
		}
	case "max":
		if args[0].Cmp(args[1]) >= 0 {
			out.Set(args[0])
		} else {
			out.Set(args[1])
		}
	default:
		return nil
	}
	return out
}
