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

// Package units implements the algebraic model for units of measure:
// atoms (irreducible base units), normalized unit expressions (products of
// atoms raised to integer exponents), and the mini-grammar parser for
// unit-expression token streams.
package units

import (
	"strconv"
)

// Atom is an irreducible base unit, created by a definition table when a unit
// declaration has no right-hand expression. Atom identity is nominal: two
// atoms declared under the same name in different scopes remain distinct
// unless explicitly aliased.
type Atom struct {
	name string
	id   int32
}

// NewAtom creates a base unit with a unique id. Ids are assigned by the
// owning definition table and must be unique within a compilation unit.
func NewAtom(id int, name string) *Atom {
	return &Atom{name: name, id: int32(id)}
}

// Name returns the name the atom was declared under.
func (a *Atom) Name() string { return a.name }

// Id returns the atom's unique id.
func (a *Atom) Id() int { return int(a.id) }

// key orders atoms by name within an expression map, with the id breaking
// ties between like-named atoms from unrelated scopes.
func (a *Atom) key() string { return a.name + "#" + strconv.Itoa(int(a.id)) }

// Expr is a normalized, immutable unit value: a mapping from atoms to
// non-zero integer exponents. The empty mapping is the dimensionless unit,
// written `1`. Operations never mutate their receivers.
type Expr struct {
	m expMap
}

// Dimensionless is the identity Expr under Mul and Div.
var Dimensionless = Expr{emptyExpMap}

// Base returns the unit expression containing a single atom at exponent 1.
func Base(a *Atom) Expr {
	return Expr{singletonExpMap(a, 1)}
}

// Len returns the number of distinct atoms in the expression.
func (e Expr) Len() int { return e.m.Len() }

// IsDimensionless reports whether the expression is the empty mapping.
func (e Expr) IsDimensionless() bool { return e.m.Len() == 0 }

// Exponent returns the exponent for an atom, or 0 if the atom is absent.
func (e Expr) Exponent(a *Atom) int {
	t, ok := e.m.Get(a.key())
	if !ok {
		return 0
	}
	return t.exp
}

// Range iterates over (atom, exponent) entries in canonical order.
// If f returns false, iteration stops.
func (e Expr) Range(f func(*Atom, int) bool) {
	e.m.Range(func(_ string, t term) bool {
		return f(t.atom, t.exp)
	})
}

// Single returns the expression's atom when the expression consists of
// exactly one atom at exponent 1, as required for unit annotations on
// non-number base types.
func (e Expr) Single() (*Atom, bool) {
	if e.m.Len() != 1 {
		return nil, false
	}
	var single term
	e.m.Range(func(_ string, t term) bool {
		single = t
		return false
	})
	if single.exp != 1 {
		return nil, false
	}
	return single.atom, true
}

// Mul merges the exponent mappings of a and b, summing exponents per atom
// and dropping entries which cancel to zero.
func (a Expr) Mul(b Expr) Expr {
	if a.m.Len() == 0 {
		return b
	}
	if b.m.Len() == 0 {
		return a
	}
	builder := a.m.Builder()
	b.m.Range(func(key string, t term) bool {
		prev, ok := builder.Get(key)
		if !ok {
			builder.Set(key, t)
			return true
		}
		sum := prev.exp + t.exp
		if sum == 0 {
			builder.Delete(key)
		} else {
			builder.Set(key, term{atom: t.atom, exp: sum})
		}
		return true
	})
	return Expr{builder.Build()}
}

// Div multiplies a by the exponent-negated b.
func (a Expr) Div(b Expr) Expr {
	return a.Mul(b.Pow(-1))
}

// Pow scales every exponent by n. A zero n yields the dimensionless unit.
// Fractional exponents have no representation; callers must validate integer
// exponents up front (see IntExponent).
func (e Expr) Pow(n int) Expr {
	if n == 0 || e.m.Len() == 0 {
		return Dimensionless
	}
	if n == 1 {
		return e
	}
	builder := newExpMapBuilder()
	e.m.Range(func(key string, t term) bool {
		builder.Set(key, term{atom: t.atom, exp: t.exp * n})
		return true
	})
	return Expr{builder.Build()}
}

// Equal reports structural equality of two normalized expressions: the same
// atoms at the same exponents.
func (a Expr) Equal(b Expr) bool {
	if a.m.Len() != b.m.Len() {
		return false
	}
	eq := true
	a.m.Range(func(key string, t term) bool {
		other, ok := b.m.Get(key)
		if !ok || other.exp != t.exp {
			eq = false
		}
		return eq
	})
	return eq
}
