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
	"strconv"

	"github.com/gx-org/leibniz/assign"
)

// Constant is a leaf holding a numerical value.
type Constant struct {
	value float64
}

var _ Node = (*Constant)(nil)

var (
	// Zero is the constant 0.
	Zero = &Constant{value: 0}
	// One is the constant 1.
	One = &Constant{value: 1}
	// E is the base of natural logarithms.
	E = &Constant{value: math.E}
	// Pi is the ratio of a circle circumference to its diameter.
	Pi = &Constant{value: math.Pi}
)

// NewConstant returns a constant node given a value.
func NewConstant(x float64) *Constant {
	switch x {
	case 0:
		if !math.Signbit(x) {
			return Zero
		}
	case 1:
		return One
	}
	return &Constant{value: x}
}

// Float returns the value of the constant.
func (c *Constant) Float() float64 {
	return c.value
}

// Value returns the value of the constant.
func (c *Constant) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	return c.value, nil
}

// Derivative returns zero.
func (c *Constant) Derivative(v *Variable) Node {
	checkVariable(v)
	return Zero
}

// Variables returns nil.
func (c *Constant) Variables() []*Variable {
	return nil
}

// IsConstant returns true.
func (c *Constant) IsConstant() bool {
	return true
}

// IsZero returns true if the value is 0.
func (c *Constant) IsZero() bool {
	return c.value == 0
}

// IsOne returns true if the value is 1.
func (c *Constant) IsOne() bool {
	return c.value == 1
}

// Equal returns true if the other node is a constant with the same bit pattern.
// In particular, -0 and 0 are different constants.
func (c *Constant) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Constant)
	return ok && math.Float64bits(o.value) == math.Float64bits(c.value)
}

// Hash of the constant value.
func (c *Constant) Hash() uint64 {
	return hashFloat(c.value)
}

// Operands returns nil.
func (c *Constant) Operands() []Node {
	return nil
}

// String returns the shortest representation of the value.
func (c *Constant) String() string {
	return strconv.FormatFloat(c.value, 'g', -1, 64)
}

func constantOf(n Node) (float64, bool) {
	c, ok := Unwrap(n).(*Constant)
	if !ok {
		return 0, false
	}
	return c.value, true
}
