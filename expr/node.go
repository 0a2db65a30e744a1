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

// Package expr represents real-valued functions of named variables as
// immutable expression graphs and computes their exact partial derivatives.
//
// Expressions are built with the constructors of this package (Add, Mul,
// Pow, Exp, ...) which simplify their operands before allocating a node:
// adding zero or multiplying by one returns the operand, multiplying by
// zero returns Zero, and operations on constants are folded. Nodes may be
// shared by several parents: an expression is a DAG.
//
// Derivatives are computed symbolically and cached on each node, so that
// asking twice for the same derivative returns the same node. All nodes are
// safe for concurrent use.
package expr

import (
	"strings"

	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/base/sync"
	"golang.org/x/exp/slices"
)

// Node is an expression representing a scalar function of zero or more variables.
type Node interface {
	// Value evaluates the expression given values for its variables.
	Value(assign.Assignment) (float64, error)
	// Derivative returns the partial derivative of the expression with respect to a variable.
	Derivative(*Variable) Node
	// Variables returns the free variables of the expression ordered by name.
	// The returned slice must not be modified.
	Variables() []*Variable
	// IsConstant returns true if the expression has no free variable.
	IsConstant() bool
	// IsZero returns true if the expression is known to be zero.
	IsZero() bool
	// IsOne returns true if the expression is known to be one.
	IsOne() bool
	// Equal returns true if two expressions are structurally equal.
	Equal(Node) bool
	// Hash returns a hash consistent with Equal.
	Hash() uint64
	// Operands returns the direct sub-expressions of the node.
	Operands() []Node
	// String returns a human readable representation of the expression.
	String() string
}

// Unwrap returns the expression a wrapper (such as a compiled expression) has been built from.
// It returns the node itself if the node does not wrap another expression.
func Unwrap(n Node) Node {
	for {
		w, ok := n.(interface{ Uncompiled() Node })
		if !ok {
			return n
		}
		n = w.Uncompiled()
	}
}

// composed is the common part of all nodes with operands.
type composed struct {
	operands []Node
	vars     []*Variable
	hash     uint64
	derivs   sync.Map[string, Node]
}

func (c *composed) init(hash uint64, operands ...Node) {
	c.operands = operands
	c.hash = hash
	for _, op := range operands {
		c.vars = unionVariables(c.vars, op.Variables())
	}
}

func (c *composed) Variables() []*Variable {
	return c.vars
}

func (c *composed) IsConstant() bool {
	return len(c.vars) == 0
}

func (c *composed) IsZero() bool {
	return false
}

func (c *composed) IsOne() bool {
	return false
}

func (c *composed) Hash() uint64 {
	return c.hash
}

func (c *composed) Operands() []Node {
	return c.operands
}

// derivative looks up a derivative in the cache or computes it with a rule.
// Two goroutines may compute the rule concurrently: the first result
// stored in the cache is returned to both.
func (c *composed) derivative(v *Variable, rule func(*Variable) Node) Node {
	checkVariable(v)
	if c.IsConstant() || !containsVariable(c.vars, v) {
		return Zero
	}
	if d, ok := c.derivs.Load(v.name); ok {
		return d
	}
	d, _ := c.derivs.LoadOrStore(v.name, rule(v))
	return d
}

func compareVariables(a, b *Variable) int {
	return strings.Compare(a.name, b.name)
}

func containsVariable(vars []*Variable, v *Variable) bool {
	_, found := slices.BinarySearchFunc(vars, v, compareVariables)
	return found
}

// unionVariables merges two sets of variables sorted by name.
// One of the arguments is returned if it contains the other.
func unionVariables(a, b []*Variable) []*Variable {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	r := make([]*Variable, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := compareVariables(a[i], b[j]); {
		case c < 0:
			r = append(r, a[i])
			i++
		case c > 0:
			r = append(r, b[j])
			j++
		default:
			r = append(r, a[i])
			i++
			j++
		}
	}
	r = append(r, a[i:]...)
	r = append(r, b[j:]...)
	if len(r) == len(a) {
		return a
	}
	if len(r) == len(b) {
		return b
	}
	return r
}

// Derivatives returns the derivative of an expression taken successively
// with respect to each variable.
func Derivatives(n Node, vs ...*Variable) Node {
	checkNotNil("expression", n)
	for _, v := range vs {
		n = n.Derivative(v)
	}
	return n
}

// SortVariables sorts a slice of variables by name.
func SortVariables(vs []*Variable) {
	slices.SortFunc(vs, compareVariables)
}
