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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"

	"github.com/wdamron/uom"
	"github.com/wdamron/uom/ast"
	"github.com/wdamron/uom/internal/frontend"
	"github.com/wdamron/uom/internal/gobe"
)

const usage = `uomcheck - units-of-measure checker

Usage:
  uomcheck check <file.uom>              Parse and unit-check only
  uomcheck lower <file.uom>              Unit-check and print the erased source
  uomcheck build [--emit-go] <file.uom>  Unit-check and write a Go translation
  uomcheck repl                          Interactive session

Options:
  --emit-go    Print the generated Go source instead of writing <file>.go
  --verbose    Enable debug logging

Examples:
  uomcheck check physics.uom    Report unit errors without emitting anything
  uomcheck lower physics.uom    Print the program with all units erased
  uomcheck build physics.uom    Write physics.go next to the input
`

func main() {
	args := os.Args[1:]
	verbose := false
	for i, arg := range args {
		if arg == "--verbose" {
			verbose = true
			args = append(args[:i:i], args[i+1:]...)
			break
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch args[0] {
	case "check":
		handleCheck(args[1:])
	case "lower":
		handleLower(args[1:])
	case "build":
		handleBuild(args[1:])
	case "repl":
		runRepl()
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// load parses and unit-checks a file, printing every diagnostic. The
// returned ok is false when any error (surface or unit) was reported.
func load(path string) (prog *uomProgram, ok bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.Debug("loaded source", "file", path, "bytes", len(src))

	p := frontend.NewParser(string(src))
	parsed, parseErrs := p.Parse()
	for _, e := range parseErrs {
		fmt.Fprintf(os.Stderr, "error[%s:%s]\n", path, e.Error())
	}

	result := uom.Check(parsed)
	if out := result.Diagnostics.Format(path); out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
	slog.Debug("checking finished",
		"statements", len(parsed.Stmts),
		"diagnostics", result.Diagnostics.Count())

	ok = len(parseErrs) == 0 && !result.Diagnostics.HasErrors()
	return &uomProgram{path: path, prog: parsed, result: result}, ok
}

func handleCheck(args []string) {
	path := inputFile(args, nil)
	p, ok := load(path)
	if !ok {
		os.Exit(1)
	}
	fmt.Printf("%s: ok (%d statement(s))\n", p.path, len(p.prog.Stmts))
}

func handleLower(args []string) {
	path := inputFile(args, nil)
	p, ok := load(path)
	if !ok {
		os.Exit(1)
	}
	out, err := uom.Lower(p.prog, p.result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func handleBuild(args []string) {
	emitGo := false
	path := inputFile(args, map[string]*bool{"--emit-go": &emitGo})
	p, ok := load(path)
	if !ok {
		os.Exit(1)
	}
	src, err := gobe.Generate(p.prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if emitGo {
		fmt.Print(src)
		return
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".go"
	if err := os.WriteFile(out, []byte(src), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.Info("wrote generated source", "file", out)
}

func inputFile(args []string, flags map[string]*bool) string {
	var path string
	for _, arg := range args {
		if f, ok := flags[arg]; ok {
			*f = true
			continue
		}
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		}
		path = arg
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	return path
}

type uomProgram struct {
	path   string
	prog   *ast.Program
	result *uom.CheckResult
}
