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
	"github.com/gx-org/leibniz/grad"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// CompiledGradient is a compiled gradient.
// All the components are computed by a single compiled function.
type CompiledGradient struct {
	g    grad.Gradient
	vars []*expr.Variable
	unit *unit
}

var _ grad.Gradient = (*CompiledGradient)(nil)

// Gradient compiles a gradient.
// Compiling a compiled gradient returns it.
func Gradient(g grad.Gradient, opts ...Option) (*CompiledGradient, error) {
	if g == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "cannot compile a nil gradient"))
	}
	if c, ok := g.(*CompiledGradient); ok {
		return c, nil
	}
	vars := g.Variables()
	roots := make([]expr.Node, len(vars))
	var errs error
	for i, v := range vars {
		var err error
		roots[i], err = g.Component(v)
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errors.WithMessage(errs, "cannot collect the components of the gradient")
	}
	u, err := build(roots, newConfig(opts))
	if err != nil {
		return nil, err
	}
	return &CompiledGradient{g: g, vars: vars, unit: u}, nil
}

// Function returns the function being differentiated.
func (c *CompiledGradient) Function() expr.Node {
	return c.g.Function()
}

// Variables returns the free variables of the function ordered by name.
func (c *CompiledGradient) Variables() []*expr.Variable {
	return c.vars
}

// Component returns the uncompiled partial derivative with respect to a variable.
func (c *CompiledGradient) Component(v *expr.Variable) (expr.Node, error) {
	return c.g.Component(v)
}

// Value runs the compiled function computing all the components.
func (c *CompiledGradient) Value(a assign.Assignment) (*grad.Values, error) {
	out, err := c.unit.eval(a)
	if err != nil {
		return nil, err
	}
	return grad.NewValues(c.vars, out)
}

// Uncompiled returns the gradient the compiled gradient has been compiled from.
func (c *CompiledGradient) Uncompiled() grad.Gradient {
	return c.g
}

// Source returns the generated source code.
func (c *CompiledGradient) Source() string {
	return string(c.unit.source)
}

// Name returns the name of the compiled function.
func (c *CompiledGradient) Name() string {
	return c.unit.name
}

// CompiledHessian is a compiled Hessian.
// All the components are computed by a single compiled function.
type CompiledHessian struct {
	h    grad.Hessian
	vars []*expr.Variable
	unit *unit
}

var _ grad.Hessian = (*CompiledHessian)(nil)

// Hessian compiles a Hessian.
// Compiling a compiled Hessian returns it.
func Hessian(h grad.Hessian, opts ...Option) (*CompiledHessian, error) {
	if h == nil {
		panic(errors.Wrap(expr.ErrNilArgument, "cannot compile a nil Hessian"))
	}
	if c, ok := h.(*CompiledHessian); ok {
		return c, nil
	}
	vars := h.Variables()
	byName := make(map[string]*expr.Variable, len(vars))
	for _, v := range vars {
		byName[v.Name()] = v
	}
	keys := h.Keys()
	roots := make([]expr.Node, len(keys))
	for i, k := range keys {
		roots[i] = h.Component(byName[k.First()], byName[k.Second()])
	}
	u, err := build(roots, newConfig(opts))
	if err != nil {
		return nil, err
	}
	return &CompiledHessian{h: h, vars: vars, unit: u}, nil
}

// Function returns the function being differentiated.
func (c *CompiledHessian) Function() expr.Node {
	return c.h.Function()
}

// Variables returns the free variables of the function ordered by name.
func (c *CompiledHessian) Variables() []*expr.Variable {
	return c.vars
}

// Keys returns the keys of the upper triangle of the matrix in lexicographic order.
func (c *CompiledHessian) Keys() []grad.Key {
	return c.h.Keys()
}

// Component returns the uncompiled second order derivative with respect to x and y.
func (c *CompiledHessian) Component(x, y *expr.Variable) expr.Node {
	return c.h.Component(x, y)
}

// Value runs the compiled function computing all the components.
func (c *CompiledHessian) Value(a assign.Assignment) (*grad.HessianValues, error) {
	out, err := c.unit.eval(a)
	if err != nil {
		return nil, err
	}
	return grad.NewHessianValues(c.vars, c.h.Keys(), out)
}

// Uncompiled returns the Hessian the compiled Hessian has been compiled from.
func (c *CompiledHessian) Uncompiled() grad.Hessian {
	return c.h
}

// Source returns the generated source code.
func (c *CompiledHessian) Source() string {
	return string(c.unit.source)
}

// Name returns the name of the compiled function.
func (c *CompiledHessian) Name() string {
	return c.unit.name
}
