// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gen generates Go source code computing the statements of a program.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/template"

	lbfmt "github.com/gx-org/leibniz/base/fmt"
	"github.com/gx-org/leibniz/base/stringseq"
	"github.com/gx-org/leibniz/base/tmpl"
	"github.com/gx-org/leibniz/base/uname"
	"github.com/gx-org/leibniz/compile/cse"
	"github.com/pkg/errors"
)

const (
	// Package is the name of the package of the generated source.
	// Go plugins are built from a main package.
	Package = "main"

	// InputParam is the name of the parameter holding the values of the inputs.
	InputParam = "in"
	// OutputParam is the name of the parameter receiving the values of the outputs.
	OutputParam = "out"

	mathImport = "math"
)

var fileTemplate = template.Must(template.New("compiledFileTMPL").Parse(`// Code generated by leibniz. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	"{{.}}"
{{end}})
{{end}}
// {{.Name}} evaluates {{.NumOutputs}} expression(s) of the variables {{.InputNames}}.
func {{.Name}}({{.InputParam}} []float64, {{.OutputParam}} []float64) {
{{.Body}}
}
`))

// UnitName returns a new name for a compiled function.
// The name is unique across concurrent compilations.
func UnitName() string {
	return uname.Random("Compiled")
}

type generator struct {
	prog    *cse.Program
	name    string
	locals  []string
	imports map[string]bool
	body    string
}

// Emit returns the source code of a Go file declaring a function computing
// all the outputs of a program. The function has the signature:
//
//	func <name>(in []float64, out []float64)
//
// where in are the values of the program inputs and out receives the values of its outputs.
func Emit(name string, prog *cse.Program) ([]byte, error) {
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return nil, errors.Errorf("%q is not a valid exported Go identifier", name)
	}
	g := &generator{
		prog:    prog,
		name:    name,
		imports: make(map[string]bool),
	}
	names := uname.New()
	for _, reserved := range []string{InputParam, OutputParam, mathImport, "special", name} {
		names.Register(reserved)
	}
	g.locals = make([]string, prog.NumLocals)
	for i := range g.locals {
		g.locals[i] = names.Name("v")
	}
	return g.source()
}

// Name of the function.
func (g *generator) Name() string {
	return g.name
}

// Package returns the name of the package.
func (g *generator) Package() string {
	return Package
}

// InputParam returns the name of the input parameter.
func (g *generator) InputParam() string {
	return InputParam
}

// OutputParam returns the name of the output parameter.
func (g *generator) OutputParam() string {
	return OutputParam
}

// NumOutputs returns the number of outputs.
func (g *generator) NumOutputs() int {
	return g.prog.NumOutputs
}

// InputNames returns the names of the inputs in order.
func (g *generator) InputNames() string {
	if len(g.prog.Inputs) == 0 {
		return "(none)"
	}
	return stringseq.JoinStringer(slices.Values(g.prog.Inputs), ", ")
}

// Imports returns the sorted import paths used by the function.
func (g *generator) Imports() []string {
	paths := make([]string, 0, len(g.imports))
	for path := range g.imports {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Body returns the statements of the function.
func (g *generator) Body() string {
	return g.body
}

func (g *generator) source() ([]byte, error) {
	// Imports are collected while generating the statements.
	body, err := tmpl.IterateFunc(g.prog.Statements, func(_ int, stmt cse.Statement) (string, error) {
		return g.statement(stmt)
	})
	if err != nil {
		return nil, err
	}
	g.body = lbfmt.Indent(body)
	var src bytes.Buffer
	if err := fileTemplate.Execute(&src, g); err != nil {
		return nil, errors.Errorf("cannot generate %s: %v", g.name, err)
	}
	formatted, err := format.Source(src.Bytes())
	if err != nil {
		return nil, errors.Errorf("cannot format source code: %v\n%s", err, lbfmt.Number(src.String()))
	}
	return formatted, nil
}

func (g *generator) statement(stmt cse.Statement) (string, error) {
	if stmt.IsOutput() && stmt.Ref.IsLocal() {
		return fmt.Sprintf("%s[%d] = %s", OutputParam, stmt.Output, g.locals[stmt.Ref.Local()]), nil
	}
	rhs, err := g.expr(stmt.Ref, false)
	if err != nil {
		return "", err
	}
	if stmt.IsOutput() {
		return fmt.Sprintf("%s[%d] = %s", OutputParam, stmt.Output, rhs), nil
	}
	return fmt.Sprintf("%s := %s", g.locals[stmt.Ref.Local()], rhs), nil
}

// operand returns the source of a reference used by another reference.
func (g *generator) operand(r *cse.Ref) (string, error) {
	if r.IsLocal() {
		return g.locals[r.Local()], nil
	}
	return g.expr(r, true)
}

// expr returns the source computing a reference.
// Nested expressions are enclosed in parentheses.
func (g *generator) expr(r *cse.Ref, nested bool) (string, error) {
	switch r.Kind() {
	case cse.Input:
		return fmt.Sprintf("%s[%d]", InputParam, r.Input()), nil
	case cse.Literal:
		return g.literal(r.Value(), nested), nil
	case cse.Binary:
		return g.binary(r, nested)
	case cse.Negate:
		x, err := g.operand(r.Operands()[0])
		if err != nil {
			return "", err
		}
		return parenthesize("-"+x, nested), nil
	case cse.Power:
		g.imports[mathImport] = true
		return g.call("math.Pow", r.Operands()...)
	case cse.Call:
		fn := r.Func()
		g.imports[fn.ImportPath] = true
		return g.call(fn.Target, r.Operands()...)
	}
	return "", errors.Errorf("reference %s of kind %s not supported", r.Node(), r.Kind())
}

func (g *generator) binary(r *cse.Ref, nested bool) (string, error) {
	ops := r.Operands()
	x, err := g.operand(ops[0])
	if err != nil {
		return "", err
	}
	y, err := g.operand(ops[1])
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("%s %s %s", x, r.Op(), y)
	if r.Op() == token.MUL {
		// An explicit conversion prevents the compiler from fusing
		// the multiplication with another operation.
		return fmt.Sprintf("float64(%s)", s), nil
	}
	return parenthesize(s, nested), nil
}

func (g *generator) call(target string, args ...*cse.Ref) (string, error) {
	srcs := make([]string, len(args))
	for i, arg := range args {
		var err error
		if arg.IsLocal() {
			srcs[i] = g.locals[arg.Local()]
			continue
		}
		srcs[i], err = g.expr(arg, false)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(srcs, ", ")), nil
}

// literal returns the source of a float64 value.
// The value is recovered exactly when the source is parsed.
func (g *generator) literal(x float64, nested bool) string {
	switch {
	case math.IsNaN(x):
		g.imports[mathImport] = true
		return "math.NaN()"
	case math.IsInf(x, 1):
		g.imports[mathImport] = true
		return "math.Inf(1)"
	case math.IsInf(x, -1):
		g.imports[mathImport] = true
		return "math.Inf(-1)"
	case x == 0 && math.Signbit(x):
		g.imports[mathImport] = true
		return "math.Copysign(0, -1)"
	}
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if x < 0 {
		return parenthesize(s, nested)
	}
	return s
}

func parenthesize(s string, nested bool) string {
	if !nested {
		return s
	}
	return "(" + s + ")"
}
