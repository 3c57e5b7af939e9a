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
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"

	"github.com/wdamron/uom/ast"
	"github.com/wdamron/uom/diag"
	"github.com/wdamron/uom/internal/frontend"
	"github.com/wdamron/uom/units"
)

// checkSrc parses and unit-checks a source string. Surface syntax errors
// fail the test immediately; unit diagnostics are returned for inspection.
func checkSrc(t *testing.T, src string) (*ast.Program, *CheckResult) {
	t.Helper()
	prog, errs := frontend.NewParser(src).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	return prog, Check(prog)
}

func errorKinds(result *CheckResult) []diag.Kind {
	var kinds []diag.Kind
	for _, item := range result.Diagnostics.Errors() {
		kinds = append(kinds, item.Kind)
	}
	return kinds
}

// lastLetUnit returns the decorated unit of the final let initializer.
func lastLetUnit(t *testing.T, prog *ast.Program) string {
	t.Helper()
	for i := len(prog.Stmts) - 1; i >= 0; i-- {
		if let, ok := prog.Stmts[i].(*ast.Let); ok {
			return units.ExprString(let.Value.Unit())
		}
	}
	t.Fatalf("no let statement")
	return ""
}

func TestInferredUnits(t *testing.T) {
	prog, result := checkSrc(t, `
		unit m;
		unit s;
		let distance: number<m> = 100<m>;
		let elapsed: number<s> = 10<s>;
		let speed = distance / elapsed;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	if got := lastLetUnit(t, prog); got != "m * s^-1" {
		t.Fatalf("speed unit = %q", got)
	}
}

func TestDerivedUnitAnnotation(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit s;
		unit mps = m / s;
		let speed: number<mps> = 5<m/s>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestAdditionMismatch(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit s;
		let x = 10<m> + 5<s>;
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
	item := result.Diagnostics.Errors()[0]
	if item.Left != "m" || item.Right != "s" {
		t.Fatalf("mismatch units: left %q, right %q", item.Left, item.Right)
	}
}

func TestCompoundAssignRequiresEqualUnits(t *testing.T) {
	_, result := checkSrc(t, `
		unit s;
		let elapsed = 10<s>;
		elapsed += 5;
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}

	_, result = checkSrc(t, `
		unit s;
		let elapsed = 10<s>;
		elapsed += 5<s>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestMulAssignRedefinesInferredUnit(t *testing.T) {
	// x is inferred as m, then *= 3<s> redefines it to m*s.
	_, result := checkSrc(t, `
		unit m;
		unit s;
		let x = 10<m>;
		x *= 3<s>;
		x = 5<m * s>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestMulAssignCannotChangeDeclaredUnit(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit s;
		let x: number<m> = 10<m>;
		x *= 3<s>;
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}

	// Dividing by a dimensionless factor keeps the declared unit.
	_, result = checkSrc(t, `
		unit m;
		let x: number<m> = 10<m>;
		x /= 2;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestDimensionlessRatio(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let ratio = 10<m> / 5<m>;
		let scaled = ratio + 1;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}

	// Dimensionless is just another unit value: incompatible with s under
	// addition.
	_, result = checkSrc(t, `
		unit s;
		let ratio = 10<s> / 20<s>;
		let total = 2<s> + ratio;
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestDistanceInference(t *testing.T) {
	prog, result := checkSrc(t, `
		unit m;
		unit s;
		let acceleration = 12<m/s^2>;
		let elapsed = 10<s>;
		let distance = 0.5 * acceleration * elapsed ^ 2;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	if got := lastLetUnit(t, prog); got != "m" {
		t.Fatalf("distance unit = %q", got)
	}
}

func TestReassignmentKeepsInferredUnit(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit s;
		let x = 1<m>;
		x = 2<s>;
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestLegacyResultNeedsAttachmentCast(t *testing.T) {
	_, result := checkSrc(t, `
		unit s;
		let elapsed: number<s> = abs(3);
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}

	_, result = checkSrc(t, `
		unit s;
		let elapsed: number<s> = abs(3) as number<s>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestPowLiteralExponent(t *testing.T) {
	prog, result := checkSrc(t, `
		unit m;
		let area = 3<m> ^ 2;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	if got := lastLetUnit(t, prog); got != "m^2" {
		t.Fatalf("area unit = %q", got)
	}

	prog, result = checkSrc(t, `
		unit s;
		let f = 2<s> ^ (-1);
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	if got := lastLetUnit(t, prog); got != "s^-1" {
		t.Fatalf("f unit = %q", got)
	}
}

func TestPowFractionalExponent(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let x = 3<m> ^ 0.5;
	`)
	want := []diag.Kind{diag.InvalidExponent}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestPowNonLiteralExponent(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let n = 2;
		let x = 3<m> ^ n;
		let y = x + 1;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	var warnings []diag.Kind
	for _, item := range result.Diagnostics.All() {
		if item.Severity == diag.Warning {
			warnings = append(warnings, item.Kind)
		}
	}
	want := []diag.Kind{diag.UnknownUnitExponent}
	if diff := cmp.Diff(want, warnings); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}
}

func TestFractionalExponentInAnnotation(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let x = 1<m^0.5>;
	`)
	want := []diag.Kind{diag.InvalidExponent}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestUnknownUnitInAnnotation(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let x = 1<furlong>;
	`)
	want := []diag.Kind{diag.UnknownUnit}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestCastStripsAndRelabels(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit s;
		let x = 10<m>;
		let plain = (x as number) + 1;
		let relabeled = (x as number<s>) + 1<s>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestLegacyCallRejectsUnits(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let x = abs(5<m>);
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}

	_, result = checkSrc(t, `
		unit m;
		let x = abs(5<m> as number);
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
}

func TestAnnotatedSignature(t *testing.T) {
	double := &ast.Signature{
		Name: "double",
		Params: []ast.Param{
			{Base: ast.Number, Annotation: &ast.Annotation{Tokens: []units.Token{units.Ident("m")}, Raw: "m"}},
		},
		Result: ast.Param{Base: ast.Number, Annotation: &ast.Annotation{Tokens: []units.Token{units.Ident("m")}, Raw: "m"}},
	}

	parse := func(src string) (*ast.Program, *CheckResult) {
		p := frontend.NewParser(src)
		p.Declare(double)
		prog, errs := p.Parse()
		if len(errs) != 0 {
			t.Fatalf("parse: %v", errs[0])
		}
		return prog, Check(prog)
	}

	prog, result := parse(`
		unit m;
		let x = double(5<m>);
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	if got := lastLetUnit(t, prog); got != "m" {
		t.Fatalf("result unit = %q", got)
	}

	_, result = parse(`
		unit m;
		unit s;
		let x = double(5<s>);
	`)
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestNonNumberAnnotation(t *testing.T) {
	_, result := checkSrc(t, `
		unit usd;
		let price: string<usd> = "10.00" as string<usd>;
	`)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}

	_, result = checkSrc(t, `
		unit m;
		unit s;
		let q: string<m/s> = "x" as string<m/s>;
	`)
	kinds := errorKinds(result)
	if len(kinds) == 0 || kinds[0] != diag.InvalidAnnotation {
		t.Fatalf("error kinds = %v", kinds)
	}
}

func TestDuplicateUnitIsFatal(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		unit m;
		let x = 10<m> + 5;
	`)
	// The duplicate blocks expression checking: no mismatch is reported
	// for the let.
	want := []diag.Kind{diag.DuplicateDefinition}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestCircularUnitIsFatal(t *testing.T) {
	_, result := checkSrc(t, `
		unit a = b;
		unit b = a;
		let x = 1<a> + 1;
	`)
	want := []diag.Kind{diag.CircularDefinition}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

func TestUnitCollidesWithVariable(t *testing.T) {
	_, result := checkSrc(t, `
		unit m;
		let speed = 5<m>;
		unit speed = m;
	`)
	want := []diag.Kind{diag.DuplicateDefinition}
	if diff := cmp.Diff(want, errorKinds(result)); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}

// A host may declare a variable without an initializer; the declared unit is
// fixed at the declaration and later assignments are checked against it.
func TestLetWithoutInitializer(t *testing.T) {
	secAnn := func() *ast.Annotation {
		return &ast.Annotation{Tokens: []units.Token{units.Ident("s")}, Raw: "s", Line: 2, Column: 5}
	}
	mag, _, err := apd.NewFromString("5")
	if err != nil {
		t.Fatalf("literal magnitude: %v", err)
	}
	annotated := &ast.Literal{Syntax: "5", Magnitude: mag, Annotation: secAnn()}
	annotated.BaseType = ast.Number

	prog := &ast.Program{Stmts: []ast.Stmt{
		&ast.UnitDecl{Name: "s", Line: 1, Column: 1},
		&ast.Let{Name: "elapsed", Declared: ast.Number, Annotation: secAnn(), Line: 2, Column: 1},
		&ast.Assign{Name: "elapsed", Op: ast.OpAssign, Value: annotated, Line: 3, Column: 1},
	}}
	if result := Check(prog); result.Diagnostics.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Diagnostics.Errors())
	}

	// A bare literal still fails against the declared unit.
	bare := &ast.Literal{Syntax: "5", Magnitude: mag}
	bare.BaseType = ast.Number
	prog = &ast.Program{Stmts: []ast.Stmt{
		&ast.UnitDecl{Name: "s", Line: 1, Column: 1},
		&ast.Let{Name: "elapsed", Declared: ast.Number, Annotation: secAnn(), Line: 2, Column: 1},
		&ast.Assign{Name: "elapsed", Op: ast.OpAssign, Value: bare, Line: 3, Column: 1},
	}}
	want := []diag.Kind{diag.UnitMismatch}
	if diff := cmp.Diff(want, errorKinds(Check(prog))); diff != "" {
		t.Fatalf("error kinds (-want +got):\n%s", diff)
	}
}
