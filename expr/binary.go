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
	"go/token"

	"github.com/gx-org/leibniz/assign"
)

// Binary is an arithmetic operation between two expressions.
// The operator is one of token.ADD, token.SUB, token.MUL or token.QUO.
type Binary struct {
	composed
	op   token.Token
	x, y Node
}

var _ Node = (*Binary)(nil)

var binarySeeds = map[token.Token]uint64{
	token.ADD: hashString("+"),
	token.SUB: hashString("-"),
	token.MUL: hashString("*"),
	token.QUO: hashString("/"),
}

func isCommutative(op token.Token) bool {
	return op == token.ADD || op == token.MUL
}

func newBinary(op token.Token, x, y Node) *Binary {
	var h uint64
	if isCommutative(op) {
		h = hashCommutative(binarySeeds[op], x.Hash(), y.Hash())
	} else {
		h = hashOrdered(binarySeeds[op], x.Hash(), y.Hash())
	}
	n := &Binary{op: op, x: x, y: y}
	n.init(h, x, y)
	return n
}

// Op returns the operator of the operation.
func (n *Binary) Op() token.Token {
	return n.op
}

// X returns the left operand.
func (n *Binary) X() Node {
	return n.x
}

// Y returns the right operand.
func (n *Binary) Y() Node {
	return n.y
}

// Value evaluates the operation.
func (n *Binary) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	x, err := n.x.Value(a)
	if err != nil {
		return 0, err
	}
	y, err := n.y.Value(a)
	if err != nil {
		return 0, err
	}
	return applyBinary(n.op, x, y), nil
}

func applyBinary(op token.Token, x, y float64) float64 {
	switch op {
	case token.ADD:
		return x + y
	case token.SUB:
		return x - y
	case token.MUL:
		return x * y
	case token.QUO:
		return x / y
	}
	panic(fmt.Sprintf("binary operator %s not supported", op))
}

// Derivative returns the partial derivative of the operation.
func (n *Binary) Derivative(v *Variable) Node {
	return n.derivative(v, n.rule)
}

func (n *Binary) rule(v *Variable) Node {
	dx := n.x.Derivative(v)
	dy := n.y.Derivative(v)
	switch n.op {
	case token.ADD:
		return Add(dx, dy)
	case token.SUB:
		return Sub(dx, dy)
	case token.MUL:
		return Add(Mul(dx, n.y), Mul(n.x, dy))
	case token.QUO:
		return Div(
			Sub(Mul(dx, n.y), Mul(n.x, dy)),
			Mul(n.y, n.y),
		)
	}
	panic(fmt.Sprintf("binary operator %s not supported", n.op))
}

// Equal returns true if the other node is the same operation on equal operands.
// Operands of additions and multiplications can be swapped.
func (n *Binary) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Binary)
	if !ok {
		return false
	}
	if o == n {
		return true
	}
	if o.op != n.op || o.hash != n.hash {
		return false
	}
	if n.x.Equal(o.x) && n.y.Equal(o.y) {
		return true
	}
	return isCommutative(n.op) && n.x.Equal(o.y) && n.y.Equal(o.x)
}

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.x, n.op, n.y)
}

// Neg is the negation of an expression.
type Neg struct {
	composed
	x Node
}

var _ Node = (*Neg)(nil)

var negSeed = hashString("neg")

// X returns the negated operand.
func (n *Neg) X() Node {
	return n.x
}

// Value evaluates the negation.
func (n *Neg) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	x, err := n.x.Value(a)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

// Derivative returns the negation of the derivative of the operand.
func (n *Neg) Derivative(v *Variable) Node {
	return n.derivative(v, func(v *Variable) Node {
		return Negate(n.x.Derivative(v))
	})
}

// Equal returns true if the other node is the negation of an equal expression.
func (n *Neg) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Neg)
	if !ok {
		return false
	}
	return o == n || (o.hash == n.hash && n.x.Equal(o.x))
}

func (n *Neg) String() string {
	return fmt.Sprintf("-%s", n.x)
}

func add2(x, y Node) Node {
	checkNotNil("left operand", x)
	checkNotNil("right operand", y)
	if x.IsZero() {
		return y
	}
	if y.IsZero() {
		return x
	}
	if xc, ok := constantOf(x); ok {
		if yc, ok := constantOf(y); ok {
			return NewConstant(xc + yc)
		}
	}
	return newBinary(token.ADD, x, y)
}

// Add returns the sum of expressions.
func Add(x Node, ys ...Node) Node {
	checkNotNil("operand", x)
	for _, y := range ys {
		x = add2(x, y)
	}
	return x
}

// Sub returns x-y.
func Sub(x, y Node) Node {
	checkNotNil("left operand", x)
	checkNotNil("right operand", y)
	if y.IsZero() {
		return x
	}
	if x.IsZero() {
		return Negate(y)
	}
	if xc, ok := constantOf(x); ok {
		if yc, ok := constantOf(y); ok {
			return NewConstant(xc - yc)
		}
	}
	return newBinary(token.SUB, x, y)
}

func mul2(x, y Node) Node {
	checkNotNil("left operand", x)
	checkNotNil("right operand", y)
	if x.IsZero() || y.IsZero() {
		return Zero
	}
	if x.IsOne() {
		return y
	}
	if y.IsOne() {
		return x
	}
	if xc, ok := constantOf(x); ok {
		if yc, ok := constantOf(y); ok {
			return NewConstant(xc * yc)
		}
	}
	return newBinary(token.MUL, x, y)
}

// Mul returns the product of expressions.
func Mul(x Node, ys ...Node) Node {
	checkNotNil("operand", x)
	for _, y := range ys {
		x = mul2(x, y)
	}
	return x
}

// Div returns x/y.
func Div(x, y Node) Node {
	checkNotNil("numerator", x)
	checkNotNil("denominator", y)
	if x.IsZero() {
		return Zero
	}
	if y.IsOne() {
		return x
	}
	if xc, ok := constantOf(x); ok {
		if yc, ok := constantOf(y); ok {
			return NewConstant(xc / yc)
		}
	}
	return newBinary(token.QUO, x, y)
}

// Negate returns -x.
func Negate(x Node) Node {
	checkNotNil("operand", x)
	if x.IsZero() {
		return Zero
	}
	if xc, ok := constantOf(x); ok {
		return NewConstant(-xc)
	}
	if neg, ok := Unwrap(x).(*Neg); ok {
		return neg.x
	}
	n := &Neg{x: x}
	n.init(hashOrdered(negSeed, x.Hash()), x)
	return n
}
