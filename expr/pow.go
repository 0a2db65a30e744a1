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
	"fmt"
	"math"
	"strconv"

	"github.com/gx-org/leibniz/assign"
)

// Power is an expression raised to the power of another expression.
type Power struct {
	composed
	base, index Node
}

var _ Node = (*Power)(nil)

var powSeed = hashString("pow")

// Base returns the base of the power.
func (n *Power) Base() Node {
	return n.base
}

// Index returns the exponent of the power.
func (n *Power) Index() Node {
	return n.index
}

// Value evaluates the power.
func (n *Power) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	base, err := n.base.Value(a)
	if err != nil {
		return 0, err
	}
	index, err := n.index.Value(a)
	if err != nil {
		return 0, err
	}
	return math.Pow(base, index), nil
}

// Derivative returns base^index * (dbase*index/base + dindex*ln(base)).
func (n *Power) Derivative(v *Variable) Node {
	return n.derivative(v, func(v *Variable) Node {
		dBase := n.base.Derivative(v)
		dIndex := n.index.Derivative(v)
		return Mul(n, Add(
			Div(Mul(dBase, n.index), n.base),
			Mul(dIndex, Log(n.base)),
		))
	})
}

// Equal returns true if the other node is a power with equal base and index.
func (n *Power) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Power)
	if !ok {
		return false
	}
	return o == n || (o.hash == n.hash && n.base.Equal(o.base) && n.index.Equal(o.index))
}

func (n *Power) String() string {
	return fmt.Sprintf("(%s ^ %s)", n.base, n.index)
}

// PowerConst is an expression raised to a constant power.
type PowerConst struct {
	composed
	base     Node
	exponent float64
}

var _ Node = (*PowerConst)(nil)

var powConstSeed = hashString("powconst")

// Base returns the base of the power.
func (n *PowerConst) Base() Node {
	return n.base
}

// Exponent returns the constant exponent.
func (n *PowerConst) Exponent() float64 {
	return n.exponent
}

// Value evaluates the power.
func (n *PowerConst) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	base, err := n.base.Value(a)
	if err != nil {
		return 0, err
	}
	return math.Pow(base, n.exponent), nil
}

// Derivative returns c * base^(c-1) * dbase.
func (n *PowerConst) Derivative(v *Variable) Node {
	return n.derivative(v, func(v *Variable) Node {
		return Mul(
			NewConstant(n.exponent),
			PowConst(n.base, n.exponent-1),
			n.base.Derivative(v),
		)
	})
}

// Equal returns true if the other node has an equal base and the same exponent.
func (n *PowerConst) Equal(other Node) bool {
	o, ok := Unwrap(other).(*PowerConst)
	if !ok {
		return false
	}
	return o == n || (o.hash == n.hash && o.exponent == n.exponent && n.base.Equal(o.base))
}

func (n *PowerConst) String() string {
	return fmt.Sprintf("(%s ^ %s)", n.base, strconv.FormatFloat(n.exponent, 'g', -1, 64))
}

// Pow returns base^index.
// A constant index builds a PowerConst node.
func Pow(base, index Node) Node {
	checkNotNil("base", base)
	checkNotNil("index", index)
	if c, ok := constantOf(index); ok {
		return PowConst(base, c)
	}
	if index.IsZero() {
		return One
	}
	if base.IsZero() {
		return Zero
	}
	if index.IsOne() {
		return base
	}
	if base.IsOne() {
		return One
	}
	n := &Power{base: base, index: index}
	n.init(hashOrdered(powSeed, base.Hash(), index.Hash()), base, index)
	return n
}

// PowConst returns base^c.
func PowConst(base Node, c float64) Node {
	checkNotNil("base", base)
	if c == 0 {
		return One
	}
	if c == 1 {
		return base
	}
	if x, ok := constantOf(base); ok {
		return NewConstant(math.Pow(x, c))
	}
	if base.IsOne() {
		return One
	}
	n := &PowerConst{base: base, exponent: c}
	n.init(hashOrdered(powConstSeed, base.Hash(), hashFloat(c)), base)
	return n
}
