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
	"errors"
	"math"

	"github.com/cockroachdb/apd/v3"
)

var (
	// ErrInvalidExponent is reported when an exponentiation receives a
	// non-integer exponent. Fractional exponents (unit roots) have no
	// normalized representation and are never approximated.
	ErrInvalidExponent = errors.New("unit exponent must be an integer literal")

	// ErrInvalidSyntax is reported for a malformed unit-expression token
	// stream. ParseError wraps it with the offending position.
	ErrInvalidSyntax = errors.New("invalid unit expression syntax")
)

// IntExponent validates that a numeric literal is usable as a unit exponent
// and returns its integer value. Fractional values fail with
// ErrInvalidExponent rather than rounding.
func IntExponent(d *apd.Decimal) (int, error) {
	i, err := d.Int64()
	if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
		return 0, ErrInvalidExponent
	}
	return int(i), nil
}
