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

// Package diag collects positioned diagnostics emitted during unit checking.
// Every failure is a static, compile-time diagnostic; the engine has no
// runtime error surface.
package diag

import (
	"fmt"
	"strings"
)

// Kind identifies a diagnostic category.
type Kind int

const (
	// DuplicateDefinition: a unit name collides with another declaration
	// visible in the same scope.
	DuplicateDefinition Kind = iota
	// UnknownUnit: reference to an undeclared unit name.
	UnknownUnit
	// CircularDefinition: the derived-unit dependency graph contains a cycle.
	CircularDefinition
	// InvalidUnitSyntax: malformed unit-expression token stream.
	InvalidUnitSyntax
	// InvalidExponent: exponentiation with a non-integer exponent.
	InvalidExponent
	// UnitMismatch: an operator or assignment requires equal unit
	// expressions and they differ.
	UnitMismatch
	// InvalidAnnotation: a composite unit applied to a non-number base type.
	InvalidAnnotation
	// AliasShadow: a second local alias bound to an already-aliased
	// definition. Non-fatal.
	AliasShadow
	// UnknownUnitExponent: exponentiation by a non-literal; the result unit
	// cannot be computed statically. Non-fatal.
	UnknownUnitExponent
)

// String returns the diagnostic category name.
func (k Kind) String() string {
	switch k {
	case DuplicateDefinition:
		return "duplicate-definition"
	case UnknownUnit:
		return "unknown-unit"
	case CircularDefinition:
		return "circular-definition"
	case InvalidUnitSyntax:
		return "invalid-unit-syntax"
	case InvalidExponent:
		return "invalid-exponent"
	case UnitMismatch:
		return "unit-mismatch"
	case InvalidAnnotation:
		return "invalid-annotation"
	case AliasShadow:
		return "alias-shadow"
	case UnknownUnitExponent:
		return "unknown-unit-exponent"
	default:
		return "unknown"
	}
}

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single positioned message. For unit mismatches, Left and
// Right carry the two conflicting unit expressions in canonical form.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Line     int
	Column   int
	File     string
	Left     string
	Right    string
}

// Diagnostics manages an ordered collection of diagnostics.
type Diagnostics struct {
	items []Diagnostic
}

// New creates an empty collection.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf appends an error diagnostic with a formatted message.
func (d *Diagnostics) Errorf(kind Kind, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Kind:     kind,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Warningf appends a warning diagnostic with a formatted message.
func (d *Diagnostics) Warningf(kind Kind, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Kind:     kind,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Mismatch appends a UnitMismatch error carrying both conflicting unit
// expressions in canonical rendering.
func (d *Diagnostics) Mismatch(line, col int, left, right, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Kind:     UnitMismatch,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
		Left:     left,
		Right:    right,
	})
}

// Append adds a prebuilt diagnostic.
func (d *Diagnostics) Append(item Diagnostic) {
	d.items = append(d.items, item)
}

// HasErrors reports whether any error-level diagnostics were collected.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics.
func (d *Diagnostics) Errors() []Diagnostic {
	errs := make([]Diagnostic, 0, len(d.items))
	for _, item := range d.items {
		if item.Severity == Error {
			errs = append(errs, item)
		}
	}
	return errs
}

// All returns every diagnostic regardless of severity.
func (d *Diagnostics) All() []Diagnostic { return d.items }

// Count returns the total number of diagnostics.
func (d *Diagnostics) Count() int { return len(d.items) }

// ErrorCount returns the number of error-level diagnostics.
func (d *Diagnostics) ErrorCount() int {
	n := 0
	for _, item := range d.items {
		if item.Severity == Error {
			n++
		}
	}
	return n
}

// Format renders the collection for display:
//
//	error[file:3:10]: cannot add number<m> to number<s>
//	  left unit:  m
//	  right unit: s
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, item := range d.items {
		file := filename
		if item.File != "" {
			file = item.File
		}
		fmt.Fprintf(&sb, "%s[%s:%d:%d]: %s", item.Severity, file, item.Line, item.Column, item.Message)
		if item.Left != "" || item.Right != "" {
			fmt.Fprintf(&sb, "\n  left unit:  %s\n  right unit: %s", item.Left, item.Right)
		}
		if i < len(d.items)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
