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

package expr_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr"
	"github.com/gx-org/leibniz/exprtest"
)

func TestPolynomial(t *testing.T) {
	f, a, b, c, x := exprtest.Polynomial()
	values := assign.Build().
		With(a, 2).
		With(b, 3).
		With(c, 4).
		With(x, 5).
		Finish()
	tests := []struct {
		name string
		node expr.Node
		want float64
	}{
		{name: "f", node: f, want: 69},
		{name: "df/dx", node: f.Derivative(x), want: 23},
		{name: "df/da", node: f.Derivative(a), want: 25},
		{name: "df/dc", node: f.Derivative(c), want: 1},
		{name: "d2f/dx2", node: expr.Derivatives(f, x, x), want: 4},
		{name: "d2f/dadx", node: expr.Derivatives(f, a, x), want: 10},
		{name: "d2f/dxda", node: expr.Derivatives(f, x, a), want: 10},
		{name: "d2f/da2", node: expr.Derivatives(f, a, a), want: 0},
		{name: "d3f/dx3", node: expr.Derivatives(f, x, x, x), want: 0},
	}
	for _, test := range tests {
		got, err := test.node.Value(values)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s = %s: got %v but want %v", test.name, test.node, got, test.want)
		}
	}
	if d := expr.Derivatives(f, a, a); !d.IsZero() {
		t.Errorf("d2f/da2 = %s: want Zero", d)
	}
}

func TestSimplify(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	tests := []struct {
		name string
		got  expr.Node
		want expr.Node
	}{
		{name: "x+0", got: expr.Add(x, expr.Zero), want: x},
		{name: "0+x", got: expr.Add(expr.Zero, x), want: x},
		{name: "x-0", got: expr.Sub(x, expr.Zero), want: x},
		{name: "0-x", got: expr.Sub(expr.Zero, x), want: expr.Negate(x)},
		{name: "x*1", got: expr.Mul(x, expr.One), want: x},
		{name: "1*x", got: expr.Mul(expr.One, x), want: x},
		{name: "x*0", got: expr.Mul(x, expr.Zero), want: expr.Zero},
		{name: "0*x", got: expr.Mul(expr.Zero, x), want: expr.Zero},
		{name: "0/x", got: expr.Div(expr.Zero, x), want: expr.Zero},
		{name: "x/1", got: expr.Div(x, expr.One), want: x},
		{name: "--x", got: expr.Negate(expr.Negate(x)), want: x},
		{name: "-0", got: expr.Negate(expr.Zero), want: expr.Zero},
		{name: "x^0", got: expr.Pow(x, expr.Zero), want: expr.One},
		{name: "x^1", got: expr.Pow(x, expr.One), want: x},
		{name: "0^y", got: expr.Pow(expr.Zero, y), want: expr.Zero},
		{name: "1^y", got: expr.Pow(expr.One, y), want: expr.One},
		{name: "x^y with y=0 constant", got: expr.PowConst(x, 0), want: expr.One},
		{name: "x^2 constant index", got: expr.Pow(x, expr.Const(2)), want: expr.PowConst(x, 2)},
		{name: "2+3", got: expr.Add(expr.Const(2), expr.Const(3)), want: expr.Const(5)},
		{name: "2*3", got: expr.Mul(expr.Const(2), expr.Const(3)), want: expr.Const(6)},
		{name: "2-3", got: expr.Sub(expr.Const(2), expr.Const(3)), want: expr.Const(-1)},
		{name: "3/2", got: expr.Div(expr.Const(3), expr.Const(2)), want: expr.Const(1.5)},
		{name: "2^3", got: expr.Pow(expr.Const(2), expr.Const(3)), want: expr.Const(8)},
		{name: "exp(0)", got: expr.Exp(expr.Zero), want: expr.One},
		{name: "sin(0)", got: expr.Sin(expr.Zero), want: expr.Zero},
		{name: "log(1)", got: expr.Log(expr.One), want: expr.Zero},
	}
	for _, test := range tests {
		if !test.want.Equal(test.got) {
			t.Errorf("%s: got %s but want %s", test.name, test.got, test.want)
		}
	}
}

func TestConstantSingletons(t *testing.T) {
	if got := expr.NewConstant(0); got != expr.Zero {
		t.Errorf("NewConstant(0) = %v: want the Zero singleton", got)
	}
	if got := expr.NewConstant(1); got != expr.One {
		t.Errorf("NewConstant(1) = %v: want the One singleton", got)
	}
	if !expr.Zero.IsZero() || expr.Zero.IsOne() {
		t.Errorf("Zero: IsZero=%t IsOne=%t", expr.Zero.IsZero(), expr.Zero.IsOne())
	}
	if !expr.One.IsOne() || expr.One.IsZero() {
		t.Errorf("One: IsZero=%t IsOne=%t", expr.One.IsZero(), expr.One.IsOne())
	}
	if expr.Pi.Float() != math.Pi || expr.E.Float() != math.E {
		t.Errorf("got Pi=%v E=%v", expr.Pi, expr.E)
	}
	negZero := expr.NewConstant(math.Copysign(0, -1))
	if !negZero.IsZero() {
		t.Errorf("-0 should be zero")
	}
	if negZero.Equal(expr.Zero) {
		t.Errorf("-0 and 0 should be different constants")
	}
}

func TestEqualAndHash(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	tests := []struct {
		a, b  expr.Node
		equal bool
	}{
		{a: x, b: expr.NewVariable("x"), equal: true},
		{a: x, b: y, equal: false},
		{a: expr.Add(x, y), b: expr.Add(y, x), equal: true},
		{a: expr.Mul(x, y), b: expr.Mul(y, x), equal: true},
		{a: expr.Sub(x, y), b: expr.Sub(y, x), equal: false},
		{a: expr.Div(x, y), b: expr.Div(y, x), equal: false},
		{a: expr.Add(x, x), b: expr.Mul(x, x), equal: false},
		{a: expr.Add(x, y), b: expr.Mul(x, y), equal: false},
		{a: expr.Sin(x), b: expr.Sin(expr.NewVariable("x")), equal: true},
		{a: expr.Sin(x), b: expr.Cos(x), equal: false},
		{a: expr.PowConst(x, 2), b: expr.PowConst(x, 3), equal: false},
		{a: expr.Pow(x, y), b: expr.Pow(y, x), equal: false},
		{a: expr.Negate(x), b: expr.Negate(expr.NewVariable("x")), equal: true},
		{a: expr.Const(2), b: expr.Const(2), equal: true},
		{a: expr.Const(2), b: x, equal: false},
		{a: expr.Div(x, expr.Const(math.Copysign(0, -1))), b: expr.Div(x, expr.Zero), equal: false},
		{a: expr.Const(math.NaN()), b: expr.Const(math.NaN()), equal: true},
	}
	for i, test := range tests {
		if got := test.a.Equal(test.b); got != test.equal {
			t.Errorf("test %d: %s.Equal(%s): got %t but want %t", i, test.a, test.b, got, test.equal)
		}
		if got := test.b.Equal(test.a); got != test.equal {
			t.Errorf("test %d: %s.Equal(%s): got %t but want %t", i, test.b, test.a, got, test.equal)
		}
		if test.equal && test.a.Hash() != test.b.Hash() {
			t.Errorf("test %d: %s and %s are equal but have different hashes", i, test.a, test.b)
		}
	}
	if h := expr.Add(x, x).Hash(); h == expr.Add(y, y).Hash() {
		t.Errorf("x+x and y+y have the same hash %x", h)
	}
}

func TestVariables(t *testing.T) {
	x, y, z := expr.NewVariable("x"), expr.NewVariable("y"), expr.NewVariable("z")
	tests := []struct {
		node expr.Node
		want []string
	}{
		{node: expr.Const(3), want: nil},
		{node: x, want: []string{"x"}},
		{node: expr.Add(z, y, x), want: []string{"x", "y", "z"}},
		{node: expr.Mul(x, expr.Sin(expr.Div(x, y))), want: []string{"x", "y"}},
		{node: expr.Sub(expr.Exp(z), expr.Const(1)), want: []string{"z"}},
	}
	for _, test := range tests {
		var got []string
		for _, v := range test.node.Variables() {
			got = append(got, v.Name())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: unexpected variables (-want +got):\n%s", test.node, diff)
		}
		if got, want := test.node.IsConstant(), len(test.want) == 0; got != want {
			t.Errorf("%s: IsConstant() = %t but want %t", test.node, got, want)
		}
	}
}

func TestDerivativeIsCached(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	f := expr.Mul(expr.Sin(x), expr.Exp(expr.Mul(x, y)))
	first := f.Derivative(x)
	if second := f.Derivative(x); first != second {
		t.Errorf("derivative is not cached: got %p and %p", first, second)
	}
	// Another variable with the same name hits the cache.
	if other := f.Derivative(expr.NewVariable("x")); first != other {
		t.Errorf("derivative with respect to an equal variable is not cached")
	}
	if d := f.Derivative(expr.NewVariable("z")); d != expr.Zero {
		t.Errorf("derivative with respect to an absent variable: got %s but want Zero", d)
	}
	if d := expr.Const(7).Derivative(x); d != expr.Zero {
		t.Errorf("derivative of a constant: got %s but want Zero", d)
	}
	if d := expr.Exp(x).Derivative(x); !d.Equal(expr.Exp(x)) {
		t.Errorf("d exp(x)/dx: got %s but want exp(x)", d)
	}
}

func TestConcurrentDerivatives(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	f := expr.Div(expr.Tanh(expr.Mul(x, y)), expr.Add(expr.Square(x), expr.One))
	const numRoutines = 16
	results := make([]expr.Node, numRoutines)
	var wg sync.WaitGroup
	for i := range numRoutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = expr.Derivatives(f, x, y)
		}()
	}
	wg.Wait()
	for i, r := range results {
		if r != results[0] {
			t.Errorf("goroutine %d got a different derivative node: %s", i, r)
		}
	}
}

func TestValueErrors(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	f := expr.Add(expr.Sin(x), y)
	_, err := f.Value(assign.FromMap(map[string]float64{"x": 1}))
	if err == nil {
		t.Fatalf("expected an error when a variable has no value")
	}
	if !errors.Is(err, expr.ErrInvalidArgument) {
		t.Errorf("error %v does not wrap %v", err, expr.ErrInvalidArgument)
	}
	if !errors.Is(err, assign.ErrNotSet) {
		t.Errorf("error %v does not wrap %v", err, assign.ErrNotSet)
	}
	if _, err := f.Value(nil); !errors.Is(err, expr.ErrNilArgument) {
		t.Errorf("evaluating with a nil assignment: got error %v but want %v", err, expr.ErrNilArgument)
	}
	if _, err := x.Value(nil); !errors.Is(err, expr.ErrNilArgument) {
		t.Errorf("evaluating a variable with a nil assignment: got error %v but want %v", err, expr.ErrNilArgument)
	}
	if _, err := expr.Const(2).Value(nil); !errors.Is(err, expr.ErrNilArgument) {
		t.Errorf("evaluating a constant with a nil assignment: got error %v but want %v", err, expr.ErrNilArgument)
	}
	if got, err := expr.Const(2).Value(assign.Frozen{}); err != nil || got != 2 {
		t.Errorf("got %v, %v but want 2, nil", got, err)
	}
}

func checkPanics(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected a panic", name)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, expr.ErrNilArgument) {
			t.Errorf("%s: got panic %v but want %v", name, r, expr.ErrNilArgument)
		}
	}()
	f()
}

func TestNilArguments(t *testing.T) {
	x := expr.NewVariable("x")
	checkPanics(t, "Add", func() { expr.Add(x, nil) })
	checkPanics(t, "Sub", func() { expr.Sub(nil, x) })
	checkPanics(t, "Mul", func() { expr.Mul(nil) })
	checkPanics(t, "Div", func() { expr.Div(x, nil) })
	checkPanics(t, "Pow", func() { expr.Pow(x, nil) })
	checkPanics(t, "Sin", func() { expr.Sin(nil) })
	checkPanics(t, "Apply", func() { expr.Apply(nil, x) })
	checkPanics(t, "Derivative", func() { expr.Sin(x).Derivative(nil) })
	checkPanics(t, "Variable.Derivative", func() { x.Derivative(nil) })
}

func TestString(t *testing.T) {
	x, y := expr.NewVariable("x"), expr.NewVariable("y")
	tests := []struct {
		node expr.Node
		want string
	}{
		{node: expr.Add(x, y), want: "(x + y)"},
		{node: expr.Div(expr.Sin(x), y), want: "(sin(x) / y)"},
		{node: expr.Negate(x), want: "-x"},
		{node: expr.Const(0.5), want: "0.5"},
	}
	for _, test := range tests {
		if got := test.node.String(); got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}

func TestFuncs(t *testing.T) {
	var got []string
	for _, f := range expr.Funcs() {
		got = append(got, f.Name)
		byTarget, ok := expr.LookupFunc(f.Target)
		if !ok || byTarget != f {
			t.Errorf("LookupFunc(%q) = %v, %t: want %v", f.Target, byTarget, ok, f)
		}
	}
	want := []string{"acos", "asin", "atan", "cos", "cosh", "exp", "log", "normcdf", "normpdf", "sin", "sinh", "tan", "tanh"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected functions (-want +got):\n%s", diff)
	}
	if _, ok := expr.LookupFunc("math.Gamma"); ok {
		t.Errorf("math.Gamma should not be registered")
	}
}
