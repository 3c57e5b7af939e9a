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
	"strings"

	"github.com/wdamron/uom/diag"
	"github.com/wdamron/uom/internal/util"
	"github.com/wdamron/uom/units"
)

// Def is a named unit definition held by an Env: a fresh atom (base case),
// a right-hand expression over previously known names (derived case), or an
// alias binding to an existing definition from another scope. Definitions
// are immutable once their scope is finalized.
type Def struct {
	Name   string
	Line   int
	Column int

	atom   *units.Atom  // base case
	rhs    []units.Token // derived case, raw tokens until resolution
	target *Def         // alias case

	owner     *Env
	expr      units.Expr
	resolved  bool
	resolving bool
}

// IsBase reports whether the definition introduces a fresh atom.
func (d *Def) IsBase() bool { return d.atom != nil }

// Atom returns the definition's atom for base units, or nil.
func (d *Def) Atom() *units.Atom { return d.atom }

// root follows alias bindings to the definition they ultimately name.
func (d *Def) root() *Def {
	for d.target != nil {
		d = d.target
	}
	return d
}

// Env is a definition table for one lexical or module-level scope. Envs nest
// through Parent; lookups walk the scope chain. An Env cannot be used
// concurrently while definitions are being declared or finalized; once
// finalized, its definitions are immutable and safe to share.
type Env struct {
	Parent *Env

	defs  map[string]*Def
	order []string
	// Non-unit declarations (variables, types) visible in this scope,
	// mapped to a description of their kind. Unit names must not collide
	// with any of them.
	names map[string]string
	// Alias targets already bound in this scope, for shadow warnings.
	aliased map[*Def]string

	nextId *int
}

// NewEnv creates a definition table. The new table inherits visibility from
// the parent, if the parent is not nil, and shares the parent's atom id
// counter so atom identity stays unique within a compilation unit.
func NewEnv(parent *Env) *Env {
	env := &Env{
		Parent:  parent,
		defs:    make(map[string]*Def),
		names:   make(map[string]string),
		aliased: make(map[*Def]string),
	}
	if parent != nil {
		env.nextId = parent.nextId
	} else {
		env.nextId = new(int)
	}
	return env
}

func (e *Env) freshId() int {
	id := *e.nextId
	*e.nextId++
	return id
}

// checkCollision reports a DuplicateDefinition error when name already
// denotes any declaration directly within this scope.
func (e *Env) checkCollision(name string, line, col int) *Error {
	if prev, ok := e.defs[name]; ok {
		return errorf(diag.DuplicateDefinition, line, col,
			"unit '%s' already defined at %d:%d", name, prev.Line, prev.Column)
	}
	if kind, ok := e.names[name]; ok {
		return errorf(diag.DuplicateDefinition, line, col,
			"unit '%s' conflicts with %s of the same name", name, kind)
	}
	return nil
}

// DeclareBase declares a fresh, irreducible base unit.
func (e *Env) DeclareBase(name string, line, col int) (*units.Atom, *Error) {
	if err := e.checkCollision(name, line, col); err != nil {
		return nil, err
	}
	atom := units.NewAtom(e.freshId(), name)
	def := &Def{Name: name, Line: line, Column: col, atom: atom, owner: e}
	def.expr, def.resolved = units.Base(atom), true
	e.defs[name] = def
	e.order = append(e.order, name)
	return atom, nil
}

// DeclareDerived collects a derived unit declaration. The right-hand token
// stream is held raw until Finalize, so declarations may reference names
// declared later in the same scope.
func (e *Env) DeclareDerived(name string, rhs []units.Token, line, col int) *Error {
	if err := e.checkCollision(name, line, col); err != nil {
		return err
	}
	e.defs[name] = &Def{Name: name, Line: line, Column: col, rhs: rhs, owner: e}
	e.order = append(e.order, name)
	return nil
}

// ReserveName records a non-unit declaration (variable, type) occupying the
// scope's namespace, so later unit declarations collide with it.
func (e *Env) ReserveName(name, kind string) {
	if _, ok := e.names[name]; !ok {
		e.names[name] = kind
	}
}

// Alias binds a new local name to an existing definition without creating a
// new atom. Equality is by expanded expression, so two aliases are
// unit-compatible under different names. When another local name already
// binds the same definition, a non-fatal shadow warning is appended to d
// (when d is non-nil).
func (e *Env) Alias(local string, target *Def, line, col int, d *diag.Diagnostics) *Error {
	if cerr := e.checkCollision(local, line, col); cerr != nil {
		return cerr
	}
	root := target.root()
	if prev, ok := e.aliased[root]; ok && d != nil {
		d.Warningf(diag.AliasShadow, line, col,
			"'%s' aliases a unit already bound as '%s'", local, prev)
	}
	e.aliased[root] = local
	e.defs[local] = &Def{Name: local, Line: line, Column: col, target: target, owner: e}
	e.order = append(e.order, local)
	return nil
}

// Lookup finds a definition through the scope chain.
func (e *Env) Lookup(name string) *Def {
	for env := e; env != nil; env = env.Parent {
		if def, ok := env.defs[name]; ok {
			return def
		}
	}
	return nil
}

// LookupLocal finds a definition declared directly within this scope, the
// hook a module system uses to re-export definitions.
func (e *Env) LookupLocal(name string) (*Def, bool) {
	def, ok := e.defs[name]
	return def, ok
}

// Resolve expands a unit name to its normal form over atoms only. Unknown
// names fail with an UnknownUnit error; resolution is memoized since
// definitions are immutable after their scope is finalized.
func (e *Env) Resolve(name string) (units.Expr, error) {
	def := e.Lookup(name)
	if def == nil {
		return units.Dimensionless, errorf(diag.UnknownUnit, 0, 0, "unknown unit '%s'", name)
	}
	return e.resolveDef(def, nil)
}

func (e *Env) resolveDef(def *Def, path []string) (units.Expr, error) {
	if def.resolved {
		return def.expr, nil
	}
	if def.resolving {
		return units.Dimensionless, errorf(diag.CircularDefinition, def.Line, def.Column,
			"circular unit definition: %s", cycleString(append(path, def.Name)))
	}
	def.resolving = true
	defer func() { def.resolving = false }()

	var expr units.Expr
	var err error
	switch {
	case def.target != nil:
		expr, err = def.owner.resolveDef(def.target, append(path, def.Name))
	default:
		resolver := func(name string) (units.Expr, error) {
			inner := def.owner.Lookup(name)
			if inner == nil {
				return units.Dimensionless, errorf(diag.UnknownUnit, 0, 0, "unknown unit '%s'", name)
			}
			return def.owner.resolveDef(inner, append(path, def.Name))
		}
		expr, err = units.ParseExpr(def.rhs, resolver)
	}
	if err != nil {
		return units.Dimensionless, err
	}
	def.expr, def.resolved = expr, true
	return expr, nil
}

// Finalize completes the scope's two-phase construction: it detects cycles
// in the derived-unit dependency graph, then resolves every definition to
// its normal form. The returned errors must be reported before any
// expression checking proceeds; cycle and duplicate errors are fatal to the
// scope's table.
func (e *Env) Finalize() []*Error {
	var errs []*Error

	// Dependency graph over this scope's derived definitions. An edge runs
	// from a definition to each same-scope derived name it references.
	index := make(map[string]int, len(e.order))
	for i, name := range e.order {
		index[name] = i
	}
	g := util.NewGraph(len(e.order))
	for i, name := range e.order {
		for _, tok := range e.defs[name].rhs {
			if tok.Kind != units.TokenIdent {
				continue
			}
			if j, ok := index[tok.Text]; ok {
				g.AddEdge(i, j)
			}
		}
	}

	inCycle := make(map[string]bool)
	for _, cycle := range g.Cycles() {
		members := make([]string, len(cycle))
		for i, v := range cycle {
			members[i] = e.order[v]
			inCycle[e.order[v]] = true
		}
		first := e.defs[members[0]]
		errs = append(errs, errorf(diag.CircularDefinition, first.Line, first.Column,
			"circular unit definition: %s", cycleString(members)))
	}

	for _, name := range e.order {
		if inCycle[name] {
			continue
		}
		def := e.defs[name]
		if _, err := e.resolveDef(def, nil); err != nil {
			uerr := toError(err, def.Line, def.Column)
			// A definition outside a cycle can still fail through a cycle
			// member it references. The cycle itself is already reported
			// above; the rediscovered copy adds nothing.
			if uerr.Kind == diag.CircularDefinition {
				continue
			}
			errs = append(errs, uerr)
		}
	}
	return errs
}

func cycleString(names []string) string {
	return strings.Join(append(names, names[0]), " -> ")
}

// toError normalizes an engine error, filling in a fallback position when
// the underlying failure carried none.
func toError(err error, line, col int) *Error {
	if uerr, ok := err.(*Error); ok {
		if uerr.Line == 0 && uerr.Column == 0 {
			uerr.Line, uerr.Column = line, col
		}
		return uerr
	}
	if perr, ok := err.(*units.ParseError); ok {
		l, c := perr.Line, perr.Column
		if l == 0 && c == 0 {
			l, c = line, col
		}
		if inner, ok := perr.Err.(*Error); ok {
			inner.Line, inner.Column = l, c
			return inner
		}
		kind := diag.InvalidUnitSyntax
		if perr.Err == units.ErrInvalidExponent {
			kind = diag.InvalidExponent
		}
		return errorf(kind, l, c, "%s", perr.Msg)
	}
	return errorf(diag.InvalidUnitSyntax, line, col, "%v", err)
}
