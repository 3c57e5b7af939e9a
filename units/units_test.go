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
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func testAtoms() (m, s, kg *Atom) {
	return NewAtom(0, "m"), NewAtom(1, "s"), NewAtom(2, "kg")
}

func TestMulCommutesAndAssociates(t *testing.T) {
	ma, sa, kga := testAtoms()
	m, s, kg := Base(ma), Base(sa), Base(kga)

	if !m.Mul(s).Equal(s.Mul(m)) {
		t.Fatalf("m*s != s*m: %s vs %s", m.Mul(s), s.Mul(m))
	}
	left := m.Mul(s).Mul(kg)
	right := m.Mul(s.Mul(kg))
	if !left.Equal(right) {
		t.Fatalf("(m*s)*kg != m*(s*kg): %s vs %s", left, right)
	}
}

func TestDimensionlessIdentity(t *testing.T) {
	ma, _, _ := testAtoms()
	m := Base(ma)

	if !m.Mul(Dimensionless).Equal(m) {
		t.Fatalf("m*1 = %s", m.Mul(Dimensionless))
	}
	if !Dimensionless.Mul(m).Equal(m) {
		t.Fatalf("1*m = %s", Dimensionless.Mul(m))
	}
	if !m.Div(Dimensionless).Equal(m) {
		t.Fatalf("m/1 = %s", m.Div(Dimensionless))
	}
}

func TestCancellation(t *testing.T) {
	ma, sa, _ := testAtoms()
	m, s := Base(ma), Base(sa)

	if got := m.Div(m); !got.IsDimensionless() {
		t.Fatalf("m/m = %s", got)
	}
	speed := m.Div(s)
	if got := speed.Mul(s); !got.Equal(m) {
		t.Fatalf("(m/s)*s = %s", got)
	}
	if got := m.Mul(s).Div(s).Div(m); !got.IsDimensionless() {
		t.Fatalf("m*s/s/m = %s", got)
	}
}

func TestPow(t *testing.T) {
	ma, sa, _ := testAtoms()
	m, s := Base(ma), Base(sa)

	area := m.Pow(2)
	if got := area.Exponent(ma); got != 2 {
		t.Fatalf("exponent of m in m^2: %d", got)
	}
	if got := m.Pow(0); !got.IsDimensionless() {
		t.Fatalf("m^0 = %s", got)
	}
	accel := m.Div(s.Pow(2))
	if got := accel.Exponent(sa); got != -2 {
		t.Fatalf("exponent of s in m/s^2: %d", got)
	}
	if !accel.Pow(-1).Equal(s.Pow(2).Div(m)) {
		t.Fatalf("(m/s^2)^-1 = %s", accel.Pow(-1))
	}
}

func TestNominalIdentity(t *testing.T) {
	// Two atoms declared under the same name in unrelated scopes stay
	// distinct.
	a := Base(NewAtom(0, "m"))
	b := Base(NewAtom(1, "m"))
	if a.Equal(b) {
		t.Fatalf("distinct atoms named 'm' compare equal")
	}
	if a.Div(b).IsDimensionless() {
		t.Fatalf("m#0/m#1 cancelled to 1")
	}
}

func TestSingle(t *testing.T) {
	ma, sa, _ := testAtoms()
	m, s := Base(ma), Base(sa)

	if atom, ok := m.Single(); !ok || atom != ma {
		t.Fatalf("Single(m) = %v, %v", atom, ok)
	}
	if _, ok := m.Mul(s).Single(); ok {
		t.Fatalf("Single(m*s) succeeded")
	}
	if _, ok := m.Pow(2).Single(); ok {
		t.Fatalf("Single(m^2) succeeded")
	}
	if _, ok := Dimensionless.Single(); ok {
		t.Fatalf("Single(1) succeeded")
	}
}

func TestExprString(t *testing.T) {
	ma, sa, kga := testAtoms()
	m, s, kg := Base(ma), Base(sa), Base(kga)

	cases := []struct {
		expr Expr
		want string
	}{
		{Dimensionless, "1"},
		{m, "m"},
		{m.Pow(2), "m^2"},
		{m.Div(s), "m * s^-1"},
		{kg.Mul(m).Div(s.Pow(2)), "kg * m * s^-2"},
	}
	for _, c := range cases {
		if got := ExprString(c.expr); got != c.want {
			t.Errorf("ExprString = %q, want %q", got, c.want)
		}
	}
}

func TestIntExponent(t *testing.T) {
	two, _, _ := apd.NewFromString("2")
	if n, err := IntExponent(two); err != nil || n != 2 {
		t.Fatalf("IntExponent(2) = %d, %v", n, err)
	}
	neg, _, _ := apd.NewFromString("-3")
	if n, err := IntExponent(neg); err != nil || n != -3 {
		t.Fatalf("IntExponent(-3) = %d, %v", n, err)
	}
	half, _, _ := apd.NewFromString("0.5")
	if _, err := IntExponent(half); err != ErrInvalidExponent {
		t.Fatalf("IntExponent(0.5) err = %v", err)
	}
	huge, _, _ := apd.NewFromString("1e20")
	if _, err := IntExponent(huge); err != ErrInvalidExponent {
		t.Fatalf("IntExponent(1e20) err = %v", err)
	}
}
