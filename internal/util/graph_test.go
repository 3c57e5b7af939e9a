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

package util

import (
	"sort"
	"testing"
)

func TestCyclesAcyclic(t *testing.T) {
	// A chain of dependencies has no cycles.
	g := NewGraph(3)
	g.AddEdge(2, 1)
	g.AddEdge(1, 0)
	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Fatalf("cycles in acyclic graph: %v", cycles)
	}
}

func TestCyclesPair(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(2, 0)
	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles: %v", cycles)
	}
	members := append([]int{}, cycles[0]...)
	sort.Ints(members)
	if len(members) != 2 || members[0] != 0 || members[1] != 1 {
		t.Fatalf("cycle members: %v", members)
	}
}

func TestCyclesSelfEdge(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, 0)
	cycles := g.Cycles()
	if len(cycles) != 1 || len(cycles[0]) != 1 || cycles[0][0] != 0 {
		t.Fatalf("cycles: %v", cycles)
	}
}

func TestCyclesMultiple(t *testing.T) {
	g := NewGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.AddEdge(4, 2)
	cycles := g.Cycles()
	if len(cycles) != 2 {
		t.Fatalf("cycles: %v", cycles)
	}
	sizes := []int{len(cycles[0]), len(cycles[1])}
	sort.Ints(sizes)
	if sizes[0] != 2 || sizes[1] != 3 {
		t.Fatalf("cycle sizes: %v", sizes)
	}
}
