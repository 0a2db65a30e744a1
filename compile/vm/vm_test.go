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

package vm_test

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/base/fmterr"
	"github.com/gx-org/leibniz/compile/cse"
	"github.com/gx-org/leibniz/compile/gen"
	"github.com/gx-org/leibniz/compile/vm"
	"github.com/gx-org/leibniz/expr"
	"go.uber.org/multierr"
)

const header = `package main

import (
	"math"

	"github.com/gx-org/leibniz/expr/special"
)
`

func TestRun(t *testing.T) {
	tests := []struct {
		src  string
		in   []float64
		want []float64
	}{
		{
			src: `
func F(in []float64, out []float64) {
	out[0] = in[0] + in[1]
	out[1] = in[0] - in[1]
	out[2] = float64(in[0] * in[1])
	out[3] = in[0] / in[1]
}`,
			in:   []float64{3, 4},
			want: []float64{7, -1, 12, 0.75},
		},
		{
			src: `
func F(in []float64, out []float64) {
	v := math.Exp(in[0])
	v1 := v + 1
	out[0] = v1 * v1
	out[1] = -(v1)
}`,
			in:   []float64{0},
			want: []float64{4, -2},
		},
		{
			src: `
func F(x, y []float64) {
	y[0] = math.Pow(x[0], 0.5) + special.NormCDF(0)
	y[1] = x[0] - (-2)
	y[2] = math.Inf(-1)
	y[3] = 1e-3
}`,
			in:   []float64{16},
			want: []float64{4.5, 18, math.Inf(-1), 1e-3},
		},
	}
	for i, test := range tests {
		prog, err := vm.Compile("F", []byte(header+test.src))
		if err != nil {
			t.Errorf("test %d: cannot compile:\n%v", i, err)
			continue
		}
		got := make([]float64, len(test.want))
		if err := prog.Run(test.in, got); err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: unexpected output (-want +got):\n%s", i, diff)
		}
	}
}

func TestNegativeZero(t *testing.T) {
	prog, err := vm.Compile("F", []byte(header+`
func F(in []float64, out []float64) {
	out[0] = math.Copysign(0, -1)
	out[1] = -0
}`))
	if err != nil {
		t.Fatal(err)
	}
	out := make([]float64, 2)
	if err := prog.Run(nil, out); err != nil {
		t.Fatal(err)
	}
	if !math.Signbit(out[0]) {
		t.Errorf("math.Copysign(0, -1): got %v but want -0", out[0])
	}
	if math.Signbit(out[1]) {
		t.Errorf("-0 is the constant 0: got -0")
	}
}

func TestCompileErrors(t *testing.T) {
	src := header + `
func F(in []float64, out []float64) {
	for {
	}
	out[0] = math.Gamma(in[0])
	out[1] = undefined + in[0]
	out[2] = 1 + 2
	v := in[0]
	v := in[1]
}`
	_, err := vm.Compile("F", []byte(src))
	if err == nil {
		t.Fatal("expected an error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 6 {
		t.Fatalf("got %d errors but want 6:\n%v", len(errs), err)
	}
	for _, err := range errs {
		var posErr fmterr.ErrorWithPos
		if !errors.As(err, &posErr) {
			t.Errorf("error %v has no position", err)
		}
	}
	for _, want := range []string{"F.go:", "math.Gamma", "undefined: undefined", "constant expressions", "redeclared", "declared and not used: v"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not contain %q:\n%v", want, err)
		}
	}
}

func TestInvalidFunctions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "func G(in []float64, out []float64) {}", want: "function F not found"},
		{src: "func F(in []float64) {}", want: "got 1 parameters"},
		{src: "func F(in []int, out []float64) {}", want: "parameter type"},
		{src: "func F(in []float64, out []float64) float64 { return 0 }", want: "cannot return"},
		{src: "func F(in []float64, out []float64) {", want: "cannot parse"},
		{src: "func F(in []float64, out []float64) { out[0] = fmt.Sprint(in[0]) }", want: "undefined: fmt"},
		{src: "func F(in []float64, out []float64) { out[0] = math.Pow(in[0]) }", want: "got 1 arguments but want 2"},
		{src: "func F(in []float64, out []float64) { out[0] = math.Inf(in[0]) }", want: "literal arguments"},
		{src: "func F(in []float64, out []float64) { in[0] = 1 }", want: "expected out"},
		{src: "func F(in []float64, out []float64) { v := in[0]; out[0] = in[0] }", want: "declared and not used: v"},
	}
	for _, test := range tests {
		_, err := vm.Compile("F", []byte(header+test.src))
		if err == nil {
			t.Errorf("%s: expected an error", test.src)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got error %q but want an error containing %q", test.src, err, test.want)
		}
	}
}

func TestRunLengths(t *testing.T) {
	prog, err := vm.Compile("F", []byte(header+`
func F(in []float64, out []float64) {
	out[1] = in[2]
}`))
	if err != nil {
		t.Fatal(err)
	}
	if prog.NumInputs() != 3 || prog.NumOutputs() != 2 {
		t.Errorf("got %d inputs and %d outputs but want 3 and 2", prog.NumInputs(), prog.NumOutputs())
	}
	if err := prog.Run(make([]float64, 2), make([]float64, 2)); err == nil {
		t.Errorf("expected an error with too few inputs")
	}
	if err := prog.Run(make([]float64, 3), make([]float64, 1)); err == nil {
		t.Errorf("expected an error with too few outputs")
	}
}

// TestGenerated runs the source emitted for expressions and compares the
// results with the values of the expressions, bit for bit.
func TestGenerated(t *testing.T) {
	x, y, z := expr.NewVariable("x"), expr.NewVariable("y"), expr.NewVariable("z")
	shared := expr.Mul(x, expr.Exp(y))
	roots := []expr.Node{
		expr.Add(shared, expr.Sin(shared)),
		expr.Div(expr.Log(expr.Hypot(x, z)), expr.Cbrt(shared)),
		expr.Sub(expr.NormCDF(expr.Atan2(y, x)), expr.NormPDF(z)),
		expr.Pow(expr.Add(x, expr.Const(0.1)), expr.Tanh(z)),
		expr.Negate(expr.Mul(expr.Const(-3), expr.Cosh(x), expr.Asin(expr.Div(y, expr.Const(7))))),
		expr.Const(math.Inf(1)),
		z,
	}
	b := cse.NewBuilder()
	var all []expr.Node
	for _, root := range roots {
		b.Add(root)
		all = append(all, root)
		for _, v := range root.Variables() {
			d := root.Derivative(v)
			b.Add(d)
			all = append(all, d)
		}
	}
	prog := b.Program()
	src, err := gen.Emit("Generated", prog)
	if err != nil {
		t.Fatal(err)
	}
	compiled, err := vm.Compile("Generated", src)
	if err != nil {
		t.Fatalf("cannot compile:\n%s\nerror: %v", src, err)
	}
	points := [][3]float64{{0.5, -0.25, 2}, {1.5, 0.75, -1}, {3, 1, 0.5}}
	for _, p := range points {
		values := assign.Build().With(x, p[0]).With(y, p[1]).With(z, p[2]).Finish()
		out := make([]float64, len(all))
		if err := compiled.Run(p[:], out); err != nil {
			t.Fatal(err)
		}
		for i, node := range all {
			want := expr.Must(node.Value(values))
			if math.Float64bits(out[i]) != math.Float64bits(want) {
				t.Errorf("%s at %v: got %v but want %v", node, p, out[i], want)
			}
		}
	}
}

func TestGeneratedSignedZeros(t *testing.T) {
	x := expr.NewVariable("x")
	b := cse.NewBuilder()
	b.Add(expr.Div(x, expr.Const(math.Copysign(0, -1))))
	b.Add(expr.Div(x, expr.Zero))
	src, err := gen.Emit("F", b.Program())
	if err != nil {
		t.Fatal(err)
	}
	prog, err := vm.Compile("F", src)
	if err != nil {
		t.Fatalf("cannot compile:\n%s\nerror: %v", src, err)
	}
	out := make([]float64, 2)
	if err := prog.Run([]float64{1}, out); err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(out[0], -1) || !math.IsInf(out[1], 1) {
		t.Errorf("got %v but want [-Inf +Inf]", out)
	}
}

func TestConcurrentRun(t *testing.T) {
	prog, err := vm.Compile("F", []byte(header+`
func F(in []float64, out []float64) {
	v := in[0] + in[1]
	v1 := v * v
	out[0] = v1 + v
}`))
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x := float64(i)
			out := make([]float64, 1)
			for range 100 {
				if err := prog.Run([]float64{x, 1}, out); err != nil {
					t.Error(err)
					return
				}
				v := x + 1
				if want := float64(v*v) + v; out[0] != want {
					t.Errorf("got %v but want %v", out[0], want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
