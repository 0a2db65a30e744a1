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

package expr

import (
	"math"

	"github.com/pkg/errors"
)

// Const returns a constant node. It is a shorthand for NewConstant.
func Const(x float64) Node {
	return NewConstant(x)
}

// Square returns x*x.
func Square(x Node) Node {
	return Mul(x, x)
}

// Sqrt returns the square root of x.
func Sqrt(x Node) Node {
	return PowConst(x, 1.0/2.0)
}

// Cbrt returns the cube root of x.
func Cbrt(x Node) Node {
	return PowConst(x, 1.0/3.0)
}

// Log10 returns the decimal logarithm of x.
func Log10(x Node) Node {
	return Div(Log(x), NewConstant(math.Ln10))
}

// Atan2 returns the arc tangent of y/x using the half-angle formula
// 2*atan((sqrt(x^2+y^2) - x) / y), which is not defined for y = 0.
func Atan2(y, x Node) Node {
	return Mul(
		NewConstant(2),
		Atan(Div(Sub(Hypot(x, y), x), y)),
	)
}

// Hypot returns sqrt(x*x + y*y).
func Hypot(x, y Node) Node {
	return Sqrt(Add(Square(x), Square(y)))
}

// Must returns a value or panics if the error is not nil.
// It is meant for tests and examples.
func Must(x float64, err error) float64 {
	if err != nil {
		panic(errors.WithStack(err))
	}
	return x
}
