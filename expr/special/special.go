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

// Package special implements scalar special functions which are not part of
// the Go math package. Functions of this package are called by both the
// expression evaluator and the generated code.
package special

import "math"

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// NormPDF returns the probability density function of the standard normal distribution.
func NormPDF(x float64) float64 {
	return math.Exp(-x*x/2) * invSqrt2Pi
}

// NormCDF returns the cumulative distribution function of the standard normal distribution.
func NormCDF(x float64) float64 {
	return math.Erfc(-x/math.Sqrt2) / 2
}
