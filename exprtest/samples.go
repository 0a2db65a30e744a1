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

package exprtest

import (
	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr"
)

// Polynomial returns a*x^2 + b*x + c.
func Polynomial() (f expr.Node, a, b, c, x *expr.Variable) {
	a = expr.NewVariable("a")
	b = expr.NewVariable("b")
	c = expr.NewVariable("c")
	x = expr.NewVariable("x")
	f = expr.Add(
		expr.Mul(a, expr.Square(x)),
		expr.Mul(b, x),
		c,
	)
	return
}

// BlackScholesInputs are the variables of the Black-Scholes formula.
type BlackScholesInputs struct {
	// Spot price of the underlying.
	Spot *expr.Variable
	// Strike of the option.
	Strike *expr.Variable
	// Rate is the continuously compounded risk-free interest rate.
	Rate *expr.Variable
	// Vol is the volatility of the underlying.
	Vol *expr.Variable
	// Maturity is the time to expiry in years.
	Maturity *expr.Variable
}

// Assign returns an assignment of the inputs.
func (in BlackScholesInputs) Assign(spot, strike, rate, vol, maturity float64) assign.Frozen {
	return assign.Build().
		With(in.Spot, spot).
		With(in.Strike, strike).
		With(in.Rate, rate).
		With(in.Vol, vol).
		With(in.Maturity, maturity).
		Finish()
}

// BlackScholesCall returns the price of a European call option.
// It also returns d1, useful to compute the Greeks in closed form.
func BlackScholesCall() (price, d1 expr.Node, in BlackScholesInputs) {
	in = BlackScholesInputs{
		Spot:     expr.NewVariable("S"),
		Strike:   expr.NewVariable("K"),
		Rate:     expr.NewVariable("r"),
		Vol:      expr.NewVariable("sigma"),
		Maturity: expr.NewVariable("T"),
	}
	volSqrtT := expr.Mul(in.Vol, expr.Sqrt(in.Maturity))
	d1 = expr.Div(
		expr.Add(
			expr.Log(expr.Div(in.Spot, in.Strike)),
			expr.Mul(
				expr.Add(in.Rate, expr.Div(expr.Square(in.Vol), expr.Const(2))),
				in.Maturity,
			),
		),
		volSqrtT,
	)
	d2 := expr.Sub(d1, volSqrtT)
	discount := expr.Exp(expr.Negate(expr.Mul(in.Rate, in.Maturity)))
	price = expr.Sub(
		expr.Mul(in.Spot, expr.NormCDF(d1)),
		expr.Mul(in.Strike, discount, expr.NormCDF(d2)),
	)
	return
}
