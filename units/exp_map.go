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
	"github.com/benbjohnson/immutable"
)

var emptySorted = immutable.NewSortedMap(nil)

var emptyExpMap = expMap{emptySorted}

// term is a single (atom, exponent) entry of an expression.
type term struct {
	atom *Atom
	exp  int
}

// expMap contains immutable mappings from atom keys to terms. Entries are
// sorted by atom key, which makes iteration order (and therefore printing)
// deterministic.
type expMap struct {
	m *immutable.SortedMap
}

// singletonExpMap creates an expMap with a single entry.
func singletonExpMap(a *Atom, exp int) expMap {
	return expMap{emptySorted.Set(a.key(), term{atom: a, exp: exp})}
}

// Len returns the number of entries in the map. The zero expMap is empty.
func (m expMap) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Get returns the term for an atom key.
func (m expMap) Get(key string) (term, bool) {
	if m.m == nil {
		return term{}, false
	}
	v, ok := m.m.Get(key)
	if !ok {
		return term{}, false
	}
	return v.(term), true
}

// Range iterates over entries in the map, sorted by atom key.
// If f returns false, iteration will be stopped.
func (m expMap) Range(f func(string, term) bool) {
	if m.m == nil {
		return
	}
	iter := m.m.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(string), v.(term)) {
			return
		}
	}
}

// Builder converts the map to a builder for modification, without mutating
// the existing map.
func (m expMap) Builder() expMapBuilder {
	imm := m.m
	if imm == nil {
		imm = emptySorted
	}
	return expMapBuilder{immutable.NewSortedMapBuilder(imm)}
}

// expMapBuilder enables in-place updates of a map before finalization.
type expMapBuilder struct {
	b *immutable.SortedMapBuilder
}

func newExpMapBuilder() expMapBuilder {
	return expMapBuilder{immutable.NewSortedMapBuilder(emptySorted)}
}

// Get returns the term for an atom key in the builder.
func (b expMapBuilder) Get(key string) (term, bool) {
	v, ok := b.b.Get(key)
	if !ok {
		return term{}, false
	}
	return v.(term), true
}

// Set the term for the given atom key in the builder.
func (b expMapBuilder) Set(key string, t term) expMapBuilder {
	b.b.Set(key, t)
	return b
}

// Delete the given atom key and corresponding term from the builder.
func (b expMapBuilder) Delete(key string) expMapBuilder {
	b.b.Delete(key)
	return b
}

// Build finalizes the builder into an immutable map.
func (b expMapBuilder) Build() expMap {
	if b.b == nil {
		return emptyExpMap
	}
	return expMap{b.b.Map()}
}
