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

// Package cse collects the nodes of expressions sharing sub-expressions and
// eliminates common sub-expressions by binding them to local variables.
//
// Nodes are first de-duplicated by identity. Nodes built independently but
// structurally equal are then de-duplicated using their hash and Equal.
package cse

import (
	"fmt"
	"go/token"

	"github.com/gx-org/leibniz/base/iter"
	"github.com/gx-org/leibniz/expr"
)

// Kind of a reference.
type Kind int

const (
	// Input is the value of a variable, given as an input of the program.
	Input Kind = iota
	// Literal is a constant value.
	Literal
	// Binary is an arithmetic operation between two references.
	Binary
	// Negate is the negation of a reference.
	Negate
	// Power raises a reference to the power of another.
	Power
	// Call applies a function to a reference.
	Call
)

var kindToString = map[Kind]string{
	Input:   "input",
	Literal: "literal",
	Binary:  "binary",
	Negate:  "negate",
	Power:   "power",
	Call:    "call",
}

func (k Kind) String() string {
	s, ok := kindToString[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return s
}

// Ref is a reference to a unique sub-expression.
type Ref struct {
	node     expr.Node
	kind     Kind
	op       token.Token
	fn       *expr.Func
	value    float64
	variable *expr.Variable
	operands []*Ref

	uses  int
	index int
	local int
}

// Node returns the first expression node the reference has been built from.
func (r *Ref) Node() expr.Node {
	return r.node
}

// Kind returns the kind of reference.
func (r *Ref) Kind() Kind {
	return r.kind
}

// Op returns the operator of a binary reference.
func (r *Ref) Op() token.Token {
	return r.op
}

// Func returns the function of a call reference.
func (r *Ref) Func() *expr.Func {
	return r.fn
}

// Value returns the value of a literal.
func (r *Ref) Value() float64 {
	return r.value
}

// Variable returns the variable of an input.
func (r *Ref) Variable() *expr.Variable {
	return r.variable
}

// Input returns the index of an input in the program inputs.
func (r *Ref) Input() int {
	return r.index
}

// Operands returns the references the reference depends on.
func (r *Ref) Operands() []*Ref {
	return r.operands
}

// Uses returns the number of times the reference is used by other references or as a root.
func (r *Ref) Uses() int {
	return r.uses
}

// IsLeaf returns true if the reference is an input or a literal.
func (r *Ref) IsLeaf() bool {
	return r.kind == Input || r.kind == Literal
}

// Local returns the index of the local variable the reference is bound to, or -1.
func (r *Ref) Local() int {
	return r.local
}

// IsLocal returns true if the reference is bound to a local variable.
func (r *Ref) IsLocal() bool {
	return r.local >= 0
}

// Builder collects the nodes of several expressions.
type Builder struct {
	visited map[expr.Node]*Ref
	dedup   map[uint64][]*Ref
	vars    map[string]*Ref
	refs    []*Ref
	roots   []*Ref
}

// NewBuilder returns a builder given input variables. Input variables
// not used by any root are still part of the program inputs.
func NewBuilder(inputs ...*expr.Variable) *Builder {
	b := &Builder{
		visited: make(map[expr.Node]*Ref),
		dedup:   make(map[uint64][]*Ref),
		vars:    make(map[string]*Ref),
	}
	for _, v := range inputs {
		b.input(v)
	}
	return b
}

// Add an expression to compute and return its reference.
func (b *Builder) Add(root expr.Node) *Ref {
	r := b.visit(root)
	b.roots = append(b.roots, r)
	return r
}

func (b *Builder) input(v *expr.Variable) *Ref {
	if r, ok := b.vars[v.Name()]; ok {
		return r
	}
	r := &Ref{node: v, kind: Input, variable: v, local: -1}
	b.vars[v.Name()] = r
	return r
}

func (b *Builder) visit(n expr.Node) *Ref {
	n = expr.Unwrap(n)
	if r, ok := b.visited[n]; ok {
		r.uses++
		return r
	}
	if r := b.findDuplicate(n); r != nil {
		b.visited[n] = r
		r.uses++
		return r
	}
	r := b.build(n)
	r.uses++
	b.visited[n] = r
	if !r.IsLeaf() {
		b.dedup[n.Hash()] = append(b.dedup[n.Hash()], r)
		b.refs = append(b.refs, r)
	}
	return r
}

func (b *Builder) findDuplicate(n expr.Node) *Ref {
	for _, candidate := range b.dedup[n.Hash()] {
		if candidate.node.Equal(n) {
			return candidate
		}
	}
	return nil
}

func (b *Builder) build(n expr.Node) *Ref {
	switch nT := n.(type) {
	case *expr.Variable:
		return b.input(nT)
	case *expr.Constant:
		return &Ref{node: n, kind: Literal, value: nT.Float(), local: -1}
	case *expr.Binary:
		return b.computed(n, Binary, nT.Op(), nil, nT.X(), nT.Y())
	case *expr.Neg:
		return b.computed(n, Negate, token.SUB, nil, nT.X())
	case *expr.Power:
		return b.computed(n, Power, token.ILLEGAL, nil, nT.Base(), nT.Index())
	case *expr.PowerConst:
		return b.computed(n, Power, token.ILLEGAL, nil, nT.Base(), expr.NewConstant(nT.Exponent()))
	case *expr.Call:
		return b.computed(n, Call, token.ILLEGAL, nT.Func(), nT.Arg())
	}
	panic(fmt.Sprintf("expression %s of type %T not supported", n, n))
}

func (b *Builder) computed(n expr.Node, kind Kind, op token.Token, fn *expr.Func, operands ...expr.Node) *Ref {
	r := &Ref{node: n, kind: kind, op: op, fn: fn, local: -1}
	r.operands = make([]*Ref, len(operands))
	for i, operand := range operands {
		r.operands[i] = b.visit(operand)
	}
	return r
}

// Statement assigns a reference either to a local variable or to an output.
type Statement struct {
	// Ref is the reference being computed.
	Ref *Ref
	// Output is the index of the output being assigned, or -1 if the statement binds a local.
	Output int
}

// IsOutput returns true if the statement assigns an output.
func (s Statement) IsOutput() bool {
	return s.Output >= 0
}

// Program is a sequence of statements computing the roots of a builder.
type Program struct {
	// Inputs are the variables of the program, ordered by name.
	Inputs []*expr.Variable
	// Statements binding locals in dependency order, followed by one output statement per root.
	Statements []Statement
	// NumLocals is the number of local variables.
	NumLocals int
	// NumOutputs is the number of roots.
	NumOutputs int
}

func isShared(r *Ref) bool {
	return r.uses > 1
}

// Program returns the statements computing all the roots added to the builder.
// A sub-expression used more than once is bound to a local variable,
// computed once, and shared by all the roots using it.
func (b *Builder) Program() *Program {
	p := &Program{NumOutputs: len(b.roots)}
	for _, r := range b.vars {
		p.Inputs = append(p.Inputs, r.variable)
	}
	expr.SortVariables(p.Inputs)
	for i, v := range p.Inputs {
		b.vars[v.Name()].index = i
	}
	for _, r := range b.refs {
		r.local = -1
	}
	// References are stored in post-order: operands come before the references using them.
	for r := range iter.Filter(isShared, b.refs) {
		r.local = p.NumLocals
		p.NumLocals++
		p.Statements = append(p.Statements, Statement{Ref: r, Output: -1})
	}
	for i, r := range b.roots {
		p.Statements = append(p.Statements, Statement{Ref: r, Output: i})
	}
	return p
}

// Locals returns the statements binding local variables.
func (p *Program) Locals() []Statement {
	return p.Statements[:len(p.Statements)-p.NumOutputs]
}

// Outputs returns the statements assigning outputs.
func (p *Program) Outputs() []Statement {
	return p.Statements[len(p.Statements)-p.NumOutputs:]
}
