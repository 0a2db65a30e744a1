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

package compile

import (
	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

// Expr is a compiled expression.
type Expr struct {
	node expr.Node
	unit *unit
}

var _ expr.Node = (*Expr)(nil)

// Node compiles an expression.
// Compiling a compiled expression returns it.
func Node(n expr.Node, opts ...Option) (*Expr, error) {
	if n == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "cannot compile a nil expression"))
	}
	if e, ok := n.(*Expr); ok {
		return e, nil
	}
	u, err := build([]expr.Node{n}, newConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Expr{node: n, unit: u}, nil
}

// Value runs the compiled function.
func (e *Expr) Value(a assign.Assignment) (float64, error) {
	out, err := e.unit.eval(a)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// Uncompiled returns the expression the compiled expression has been compiled from.
func (e *Expr) Uncompiled() expr.Node {
	return e.node
}

// Source returns the generated source code.
func (e *Expr) Source() string {
	return string(e.unit.source)
}

// Name returns the name of the compiled function.
func (e *Expr) Name() string {
	return e.unit.name
}

// Derivative returns the uncompiled derivative of the expression.
func (e *Expr) Derivative(v *expr.Variable) expr.Node {
	return e.node.Derivative(v)
}

// Variables returns the free variables of the expression.
func (e *Expr) Variables() []*expr.Variable {
	return e.node.Variables()
}

// IsConstant returns true if the expression has no free variable.
func (e *Expr) IsConstant() bool {
	return e.node.IsConstant()
}

// IsZero returns true if the expression is known to be zero.
func (e *Expr) IsZero() bool {
	return e.node.IsZero()
}

// IsOne returns true if the expression is known to be one.
func (e *Expr) IsOne() bool {
	return e.node.IsOne()
}

// Equal returns true if the uncompiled expression is equal to another expression.
func (e *Expr) Equal(other expr.Node) bool {
	return e.node.Equal(other)
}

// Hash returns the hash of the uncompiled expression.
func (e *Expr) Hash() uint64 {
	return e.node.Hash()
}

// Operands returns the operands of the uncompiled expression.
func (e *Expr) Operands() []expr.Node {
	return e.node.Operands()
}

func (e *Expr) String() string {
	return e.node.String()
}
