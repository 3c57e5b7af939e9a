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
	"errors"

	"github.com/wdamron/uom/ast"
)

// ErrUnresolvedErrors is returned by Lower when the program still carries
// unit errors. Lowering never runs on a program with unresolved errors.
var ErrUnresolvedErrors = errors.New("cannot lower a program with unit errors")

// Lower erases every unit annotation and unit declaration from a checked
// program and returns the plain host source. The output is identical to the
// same program written without units: magnitudes are never scaled and no
// runtime representation of units is emitted. Erasure is idempotent; a
// unit-free program lowers to itself.
func Lower(prog *ast.Program, result *CheckResult) (string, error) {
	if result == nil || result.Diagnostics.HasErrors() {
		return "", ErrUnresolvedErrors
	}
	return ast.ErasedProgramString(prog), nil
}
