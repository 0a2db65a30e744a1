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

// Package grad computes the gradient and the Hessian of an expression.
//
// All the derivatives are built symbolically once, when the gradient or the
// Hessian is created. Evaluating them only requires an assignment.
package grad

import (
	"fmt"

	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/base/ordered"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

// Gradient is the vector of first order partial derivatives of a function.
type Gradient interface {
	// Function returns the function being differentiated.
	Function() expr.Node
	// Variables returns the free variables of the function ordered by name.
	Variables() []*expr.Variable
	// Component returns the partial derivative with respect to a variable.
	// It returns an error if the variable is not free in the function.
	Component(*expr.Variable) (expr.Node, error)
	// Value evaluates all the components of the gradient.
	Value(assign.Assignment) (*Values, error)
}

// FirstOrder is a gradient built from the symbolic derivatives of a function.
type FirstOrder struct {
	f     expr.Node
	comps *ordered.Map[string, expr.Node]
}

var _ Gradient = (*FirstOrder)(nil)

// Of returns the gradient of a function.
func Of(f expr.Node) *FirstOrder {
	if f == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "cannot compute the gradient of a nil function"))
	}
	g := &FirstOrder{f: f, comps: ordered.NewMap[string, expr.Node]()}
	for _, v := range f.Variables() {
		g.comps.Store(v.Name(), f.Derivative(v))
	}
	return g
}

// Function returns the function being differentiated.
func (g *FirstOrder) Function() expr.Node {
	return g.f
}

// Variables returns the free variables of the function ordered by name.
func (g *FirstOrder) Variables() []*expr.Variable {
	return g.f.Variables()
}

// Component returns the partial derivative with respect to a variable.
func (g *FirstOrder) Component(v *expr.Variable) (expr.Node, error) {
	if v == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "variable is nil"))
	}
	d, ok := g.comps.Load(v.Name())
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a free variable of %s", expr.ErrInvalidArgument, v, g.f)
	}
	return d, nil
}

// Components returns the partial derivatives in variable order.
func (g *FirstOrder) Components() []expr.Node {
	nodes := make([]expr.Node, 0, g.comps.Size())
	for _, d := range g.comps.Iter() {
		nodes = append(nodes, d)
	}
	return nodes
}

// Value evaluates all the components of the gradient.
// The error of the first component failing to evaluate is returned.
func (g *FirstOrder) Value(a assign.Assignment) (*Values, error) {
	if a == nil {
		return nil, errors.Wrap(expr.ErrNilArgument, "cannot evaluate a gradient with a nil assignment")
	}
	values := make([]float64, 0, g.comps.Size())
	for name, d := range g.comps.Iter() {
		x, err := d.Value(a)
		if err != nil {
			return nil, errors.WithMessagef(err, "cannot evaluate the derivative with respect to %s", name)
		}
		values = append(values, x)
	}
	return NewValues(g.Variables(), values)
}

func (g *FirstOrder) String() string {
	return fmt.Sprintf("grad(%s)", g.f)
}
