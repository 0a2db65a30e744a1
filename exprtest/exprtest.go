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

// Package exprtest checks derivatives against finite differences.
//
// All checks go through the public Value method of expressions only, so they
// apply to compiled expressions as well.
package exprtest

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

const (
	// Tolerance is the relative tolerance between analytic and numerical derivatives.
	Tolerance = 1e-6
	// ZeroThreshold is the absolute value under which two derivatives are both considered to be zero.
	ZeroThreshold = 1e-6
)

// stencil are the coefficients of the centered five-point stencil.
var stencil = [...]float64{1.0 / 12, -8.0 / 12, 0, 8.0 / 12, -1.0 / 12}

// widthScale scales the step with the magnitude of the point.
// A five-point stencil has a truncation error in h^4: the best step balances
// it with rounding errors in eps/h, that is h ~ eps^(1/5).
var widthScale = math.Pow(2, -52.0/5.0)

// Step returns the grid size used to approximate a derivative at x.
func Step(x float64) float64 {
	return widthScale * (1 + math.Abs(x))
}

// FivePointDerivative approximates the derivative of f with respect to v with
// a centered five-point stencil around the value of v in a.
// The assignment a is never modified.
func FivePointDerivative(f expr.Node, v *expr.Variable, a assign.Assignment) (float64, error) {
	x0, err := a.Get(v.Name())
	if err != nil {
		return 0, err
	}
	h := Step(x0)
	over := assign.NewOverriding(a)
	bound := (len(stencil) - 1) / 2
	var sum float64
	for i, c := range stencil {
		if c == 0 {
			continue
		}
		over.Override(v, x0+float64(i-bound)*h)
		y, err := f.Value(over)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot evaluate %s at grid point %d", f, i)
		}
		sum += c * y
	}
	return sum / h, nil
}

// Agree returns true if an analytic and a numerical derivative agree.
func Agree(exact, numerical float64) bool {
	if math.Abs(exact) < ZeroThreshold && math.Abs(numerical) < ZeroThreshold {
		return true
	}
	return cmp.Equal(exact, numerical, cmpopts.EquateApprox(Tolerance, 0))
}

// CheckDerivative reports an error if the derivative of f with respect to v
// does not agree with its finite difference approximation at a.
func CheckDerivative(t testing.TB, f expr.Node, v *expr.Variable, a assign.Assignment) {
	t.Helper()
	exact, err := f.Derivative(v).Value(a)
	if err != nil {
		t.Errorf("cannot evaluate d(%s)/d%s: %v", f, v, err)
		return
	}
	numerical, err := FivePointDerivative(f, v, a)
	if err != nil {
		t.Errorf("cannot approximate d(%s)/d%s: %v", f, v, err)
		return
	}
	if !Agree(exact, numerical) {
		x, _ := a.Get(v.Name())
		t.Errorf("d(%s)/d%s at %s=%g: got %.17g but finite differences give %.17g", f, v, v, x, exact, numerical)
	}
}

// Sweep checks the derivative of f with respect to v for all the values xs of v.
// Other variables take their values from a.
func Sweep(t testing.TB, f expr.Node, v *expr.Variable, a assign.Assignment, xs []float64) {
	t.Helper()
	over := assign.NewOverriding(a)
	for _, x := range xs {
		over.Override(v, x)
		CheckDerivative(t, f, v, over)
	}
}

// CheckAll checks the derivatives of f with respect to all its free variables
// and the second derivatives with respect to all pairs of free variables.
func CheckAll(t testing.TB, f expr.Node, a assign.Assignment) {
	t.Helper()
	for _, v := range f.Variables() {
		CheckDerivative(t, f, v, a)
		df := f.Derivative(v)
		for _, w := range f.Variables() {
			CheckDerivative(t, df, w, a)
		}
	}
}

// Range returns n values evenly spaced in [from, to].
func Range(from, to float64, n int) []float64 {
	if n == 1 {
		return []float64{from}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return xs
}
