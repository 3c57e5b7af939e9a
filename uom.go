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

// uom provides compile-time checking for units of measure as an extension of
// a structural type checker.
//
// Units are purely static: a value's type is a pair of base type and unit
// expression, unit expressions are products of declared base units raised to
// integer exponents, and all annotations are erased before code generation.
// Checked programs are behaviorally and textually identical to the same
// programs with units stripped; no runtime representation of units exists.
//
// The engine is host-agnostic. A host front end supplies declarations and
// expression trees already typed with base types (see package ast), delivers
// unit-expression annotations as token streams (see package units), and
// receives positioned diagnostics (see package diag). The dependency graph
// of derived definitions must be acyclic; cycles are detected during table
// construction, before any expression checking.
//
//
// Supported Features:
//
//   * Base (atomic) and derived unit declarations, in any order within a scope
//   * Normalized unit algebra: products, quotients, integer powers
//   * Unit propagation and inference through arithmetic and assignment
//   * Aliasing and re-export of definitions across scopes without new atoms
//   * Unit-erasing casts and annotation casts (relabeling, never conversion)
//   * Best-effort multi-error reporting with canonical unit rendering
//   * Zero-overhead lowering: unit erasure to the plain host program
package uom
