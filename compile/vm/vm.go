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

// Package vm runs generated Go source code without the Go toolchain.
//
// The source is parsed and each statement of the function is translated
// into a tree of nodes executed by the Go runtime. Only the subset of Go
// emitted by the code generator is supported: local definitions,
// assignments to outputs, arithmetic operators, and calls to registered
// functions.
package vm

import (
	"go/parser"
	"go/token"

	"github.com/pkg/errors"
)

// Program is a compiled function.
// A program can be run concurrently by several goroutines.
type Program struct {
	name       string
	numInputs  int
	numOutputs int
	numLocals  int
	stmts      []execStmt
}

// Compile parses Go source code and compiles the function with the given name.
// The function must have the signature:
//
//	func <name>(in []float64, out []float64)
//
// Errors in the source are positioned. Several errors are combined with multierr.
func Compile(name string, src []byte) (*Program, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name+".go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Errorf("cannot parse the source of %s: %v", name, err)
	}
	c, err := newCompiler(fset, file)
	if err != nil {
		return nil, err
	}
	return c.compile(name)
}

// Name returns the name of the compiled function.
func (p *Program) Name() string {
	return p.name
}

// NumInputs returns the minimum length of the input slice.
func (p *Program) NumInputs() int {
	return p.numInputs
}

// NumOutputs returns the minimum length of the output slice.
func (p *Program) NumOutputs() int {
	return p.numOutputs
}

// Run the program. The values of the inputs are read from in.
// The results are written in out.
func (p *Program) Run(in, out []float64) error {
	if len(in) < p.numInputs {
		return errors.Errorf("%s: got %d inputs but want at least %d", p.name, len(in), p.numInputs)
	}
	if len(out) < p.numOutputs {
		return errors.Errorf("%s: got %d outputs but want at least %d", p.name, len(out), p.numOutputs)
	}
	f := &frame{in: in, out: out}
	if p.numLocals > 0 {
		f.locals = make([]float64, p.numLocals)
	}
	for _, stmt := range p.stmts {
		stmt.run(f)
	}
	return nil
}
