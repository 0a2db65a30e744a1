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

	"github.com/gx-org/leibniz/assign"
)

// Variable is a named leaf of an expression.
// Two variables with the same name are equal and interchangeable.
type Variable struct {
	name string
	hash uint64
	vars []*Variable
}

var (
	_ Node         = (*Variable)(nil)
	_ assign.Named = (*Variable)(nil)
)

// NewVariable returns a new variable given its name.
func NewVariable(name string) *Variable {
	v := &Variable{name: name, hash: hashString("var:" + name)}
	v.vars = []*Variable{v}
	return v
}

// Vars returns a variable for each name.
func Vars(names ...string) []*Variable {
	vs := make([]*Variable, len(names))
	for i, name := range names {
		vs[i] = NewVariable(name)
	}
	return vs
}

// Name of the variable.
func (v *Variable) Name() string {
	return v.name
}

// Compare orders variables by name.
func (v *Variable) Compare(other *Variable) int {
	return compareVariables(v, other)
}

// Value returns the value of the variable in the assignment.
func (v *Variable) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	x, err := a.Get(v.name)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot evaluate variable %q: %w", ErrInvalidArgument, v.name, err)
	}
	return x, nil
}

// Derivative returns one if the variable is the same as the argument, zero otherwise.
func (v *Variable) Derivative(wrt *Variable) Node {
	checkVariable(wrt)
	if v.name == wrt.name {
		return One
	}
	return Zero
}

// Variables returns a set containing only the variable.
func (v *Variable) Variables() []*Variable {
	return v.vars
}

// IsConstant returns false.
func (v *Variable) IsConstant() bool {
	return false
}

// IsZero returns false.
func (v *Variable) IsZero() bool {
	return false
}

// IsOne returns false.
func (v *Variable) IsOne() bool {
	return false
}

// Equal returns true if the other node is a variable with the same name.
func (v *Variable) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Variable)
	return ok && o.name == v.name
}

// Hash of the variable name.
func (v *Variable) Hash() uint64 {
	return v.hash
}

// Operands returns nil.
func (v *Variable) Operands() []Node {
	return nil
}

// String returns the name of the variable.
func (v *Variable) String() string {
	return v.name
}
