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

// Package compile compiles expressions, gradients, and Hessians into Go functions.
//
// Compilation collects all the expressions to evaluate, eliminates common
// sub-expressions, generates the source of a Go function, and compiles it
// with a backend. The compiled artifacts behave like the artifacts they have
// been compiled from, except that evaluating them runs the compiled function.
// There is no fallback to the evaluation of the expression trees: if the
// compilation fails, an error is returned.
package compile

import (
	"context"
	"fmt"
	"time"

	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/base/fmterr"
	"github.com/gx-org/leibniz/compile/cse"
	"github.com/gx-org/leibniz/compile/gen"
	"github.com/gx-org/leibniz/compile/plugin"
	"github.com/gx-org/leibniz/compile/vm"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

// ErrCompile is returned when an expression cannot be compiled.
var ErrCompile = errors.New("compilation failed")

// unit is a compiled function evaluating several expressions.
type unit struct {
	name   string
	source []byte
	inputs []*expr.Variable
	nOut   int
	run    func(in, out []float64) error
}

func compileErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCompile, name, err)
}

func build(roots []expr.Node, cfg *config) (*unit, error) {
	start := time.Now()
	b := cse.NewBuilder()
	for _, root := range roots {
		b.Add(root)
	}
	prog := b.Program()
	u := &unit{
		name:   gen.UnitName(),
		inputs: prog.Inputs,
		nOut:   prog.NumOutputs,
	}
	var err error
	u.source, err = gen.Emit(u.name, prog)
	if err != nil {
		return nil, compileErr(u.name, err)
	}
	switch cfg.backend {
	case VM:
		p, err := vm.Compile(u.name, u.source)
		if err != nil {
			// The source has been generated for the VM.
			return nil, compileErr(u.name, fmterr.Internal(err))
		}
		u.run = p.Run
	case Plugin:
		fn, err := plugin.Build(context.Background(), u.name, u.source, plugin.Options{
			Dir:  cfg.pluginDir,
			Logf: cfg.logf,
		})
		if err != nil {
			return nil, compileErr(u.name, err)
		}
		u.run = func(in, out []float64) error {
			fn(in, out)
			return nil
		}
	default:
		return nil, compileErr(u.name, errors.Errorf("unknown backend %s", cfg.backend))
	}
	cfg.logf("compiled %s with the %s backend in %s: %d inputs, %d locals, %d outputs", u.name, cfg.backend, time.Since(start), len(prog.Inputs), prog.NumLocals, prog.NumOutputs)
	return u, nil
}

// eval runs the compiled function with the values of the inputs in an assignment.
func (u *unit) eval(a assign.Assignment) ([]float64, error) {
	if a == nil {
		return nil, errors.Wrap(expr.ErrNilArgument, "cannot evaluate an expression with a nil assignment")
	}
	in := make([]float64, len(u.inputs))
	for i, v := range u.inputs {
		var err error
		if in[i], err = v.Value(a); err != nil {
			return nil, err
		}
	}
	out := make([]float64, u.nOut)
	if err := u.run(in, out); err != nil {
		return nil, err
	}
	return out, nil
}
