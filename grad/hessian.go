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

package grad

import (
	"fmt"

	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

// Hessian is the symmetric matrix of second order partial derivatives of a function.
type Hessian interface {
	// Function returns the function being differentiated.
	Function() expr.Node
	// Variables returns the free variables of the function ordered by name.
	Variables() []*expr.Variable
	// Keys returns the keys of the upper triangle of the matrix (including the diagonal)
	// in lexicographic order.
	Keys() []Key
	// Component returns the second order derivative with respect to x and y.
	// It returns expr.Zero if x or y is not free in the function.
	Component(x, y *expr.Variable) expr.Node
	// Value evaluates all the components of the Hessian.
	Value(assign.Assignment) (*HessianValues, error)
}

// SecondOrder is a Hessian built from the symbolic derivatives of a function.
type SecondOrder struct {
	f     expr.Node
	keys  []Key
	comps map[Key]expr.Node
}

var _ Hessian = (*SecondOrder)(nil)

// HessianOf returns the Hessian of a function.
// Each second order derivative is computed once: the derivative with respect
// to (x, y) is the same node as the derivative with respect to (y, x).
func HessianOf(f expr.Node) *SecondOrder {
	if f == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "cannot compute the Hessian of a nil function"))
	}
	vars := f.Variables()
	h := &SecondOrder{
		f:     f,
		keys:  make([]Key, 0, len(vars)*(len(vars)+1)/2),
		comps: make(map[Key]expr.Node, len(vars)*(len(vars)+1)/2),
	}
	// Variables are sorted by name, so keys are generated in order.
	for i, x := range vars {
		dx := f.Derivative(x)
		for _, y := range vars[i:] {
			k := NewKey(x, y)
			h.keys = append(h.keys, k)
			h.comps[k] = dx.Derivative(y)
		}
	}
	return h
}

// Function returns the function being differentiated.
func (h *SecondOrder) Function() expr.Node {
	return h.f
}

// Variables returns the free variables of the function ordered by name.
func (h *SecondOrder) Variables() []*expr.Variable {
	return h.f.Variables()
}

// Keys returns the keys of the upper triangle of the matrix in lexicographic order.
// The returned slice must not be modified.
func (h *SecondOrder) Keys() []Key {
	return h.keys
}

// Component returns the second order derivative with respect to x and y.
func (h *SecondOrder) Component(x, y *expr.Variable) expr.Node {
	if x == nil || y == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "variable is nil"))
	}
	d, ok := h.comps[NewKey(x, y)]
	if !ok {
		return expr.Zero
	}
	return d
}

// Components returns the second order derivatives in key order.
func (h *SecondOrder) Components() []expr.Node {
	nodes := make([]expr.Node, len(h.keys))
	for i, k := range h.keys {
		nodes[i] = h.comps[k]
	}
	return nodes
}

// Value evaluates all the components of the Hessian.
// The error of the first component failing to evaluate is returned.
func (h *SecondOrder) Value(a assign.Assignment) (*HessianValues, error) {
	if a == nil {
		return nil, errors.Wrap(expr.ErrNilArgument, "cannot evaluate a Hessian with a nil assignment")
	}
	values := make([]float64, len(h.keys))
	for i, k := range h.keys {
		x, err := h.comps[k].Value(a)
		if err != nil {
			return nil, errors.WithMessagef(err, "cannot evaluate the second order derivative with respect to %s", k)
		}
		values[i] = x
	}
	return NewHessianValues(h.Variables(), h.keys, values)
}

func (h *SecondOrder) String() string {
	return fmt.Sprintf("hessian(%s)", h.f)
}
