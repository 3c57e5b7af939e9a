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

	"github.com/google/go-cmp/cmp"

	"github.com/wdamron/uom/internal/frontend"
)

func lowerSrc(t *testing.T, src string) string {
	t.Helper()
	prog, errs := frontend.NewParser(src).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	result := Check(prog)
	if result.Diagnostics.HasErrors() {
		t.Fatalf("diagnostics:\n%s", result.Diagnostics.Format("test"))
	}
	out, err := Lower(prog, result)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return out
}

func TestLowerErasesUnits(t *testing.T) {
	got := lowerSrc(t, `
		unit m;
		unit s;
		let distance: number<m> = 100<m>;
		let elapsed: number<s> = 10<s>;
		let speed = distance / elapsed;
		speed *= 2<s/s>;
	`)
	want := "let distance: number = 100;\n" +
		"let elapsed: number = 10;\n" +
		"let speed = distance / elapsed;\n" +
		"speed *= 2;\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lowered source (-want +got):\n%s", diff)
	}
}

func TestLowerErasesCasts(t *testing.T) {
	got := lowerSrc(t, `
		unit m;
		let x = 10<m>;
		let plain = (x as number) + 1;
	`)
	want := "let x = 10;\n" +
		"let plain = (x as number) + 1;\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lowered source (-want +got):\n%s", diff)
	}
}

func TestLowerPreservesMagnitudes(t *testing.T) {
	// Erasure never converts: 100 centimeters stays 100.
	got := lowerSrc(t, `
		unit m;
		unit cm = m / 1;
		let x = 100<cm>;
	`)
	want := "let x = 100;\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lowered source (-want +got):\n%s", diff)
	}
}

func TestLowerIdempotent(t *testing.T) {
	src := "let x = 1 + 2;\nx += 3;\n"
	if got := lowerSrc(t, src); got != src {
		t.Fatalf("unit-free program changed under lowering:\n%q", got)
	}
}

func TestLowerRefusesErrors(t *testing.T) {
	prog, errs := frontend.NewParser(`
		unit m;
		unit s;
		let x = 10<m> + 5<s>;
	`).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	result := Check(prog)
	if !result.Diagnostics.HasErrors() {
		t.Fatalf("expected a unit mismatch")
	}
	if _, err := Lower(prog, result); err != ErrUnresolvedErrors {
		t.Fatalf("Lower err = %v", err)
	}
}
