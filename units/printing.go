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
	"strconv"
	"strings"
)

// ExprString returns the canonical rendering of a unit expression:
// `atom^exp * atom^exp ...` with entries in canonical order, omitting
// exponent 1 and omitting `*` before the leading atom. The dimensionless
// unit renders as `1`.
func ExprString(e Expr) string {
	if e.IsDimensionless() {
		return "1"
	}
	var sb strings.Builder
	first := true
	e.Range(func(a *Atom, exp int) bool {
		if !first {
			sb.WriteString(" * ")
		}
		first = false
		sb.WriteString(a.Name())
		if exp != 1 {
			sb.WriteByte('^')
			sb.WriteString(strconv.Itoa(exp))
		}
		return true
	})
	return sb.String()
}

// String implements fmt.Stringer with the canonical rendering.
func (e Expr) String() string { return ExprString(e) }
