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
	"github.com/gx-org/leibniz/base/ordered"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
)

// Values are the evaluated components of a gradient.
type Values struct {
	m *ordered.Map[string, float64]
}

// NewValues returns gradient values given the variables of the gradient
// and the value of each component in the same order.
func NewValues(vars []*expr.Variable, values []float64) (*Values, error) {
	if len(vars) != len(values) {
		return nil, errors.Errorf("got %d values for %d variables", len(values), len(vars))
	}
	m := ordered.NewMap[string, float64]()
	for i, v := range vars {
		m.Store(v.Name(), values[i])
	}
	return &Values{m: m}, nil
}

// Get returns the derivative with respect to a variable given its name.
func (v *Values) Get(name string) (float64, bool) {
	return v.m.Load(name)
}

// At returns the i-th component of the gradient, variables being ordered by name.
func (v *Values) At(i int) float64 {
	x, _ := v.m.Load(v.m.Keys()[i])
	return x
}

// Len returns the number of components.
func (v *Values) Len() int {
	return v.m.Size()
}

// Names returns the names of the variables in order.
func (v *Values) Names() []string {
	return append([]string{}, v.m.Keys()...)
}

// Slice returns all the components in variable order.
func (v *Values) Slice() []float64 {
	s := make([]float64, 0, v.m.Size())
	for _, x := range v.m.Iter() {
		s = append(s, x)
	}
	return s
}

// HessianValues are the evaluated components of a Hessian.
type HessianValues struct {
	index  map[string]int
	names  []string
	matrix []float64
}

// NewHessianValues returns Hessian values given the variables of the Hessian,
// its keys, and the value of the second order derivative for each key.
func NewHessianValues(vars []*expr.Variable, keys []Key, values []float64) (*HessianValues, error) {
	if len(keys) != len(values) {
		return nil, errors.Errorf("got %d values for %d keys", len(values), len(keys))
	}
	n := len(vars)
	h := &HessianValues{
		index:  make(map[string]int, n),
		names:  make([]string, n),
		matrix: make([]float64, n*n),
	}
	for i, v := range vars {
		h.index[v.Name()] = i
		h.names[i] = v.Name()
	}
	for i, k := range keys {
		row, okRow := h.index[k.First()]
		col, okCol := h.index[k.Second()]
		if !okRow || !okCol {
			return nil, errors.Errorf("key %s refers to an unknown variable", k)
		}
		h.matrix[row*n+col] = values[i]
		h.matrix[col*n+row] = values[i]
	}
	return h, nil
}

// Get returns the second order derivative with respect to two variables given their names.
// The order of the names does not matter.
func (h *HessianValues) Get(x, y string) (float64, bool) {
	row, okRow := h.index[x]
	col, okCol := h.index[y]
	if !okRow || !okCol {
		return 0, false
	}
	return h.matrix[row*len(h.names)+col], true
}

// Names returns the names of the variables in order.
func (h *HessianValues) Names() []string {
	return append([]string{}, h.names...)
}

// Matrix returns the dense symmetric Hessian matrix, rows and columns being ordered by variable names.
func (h *HessianValues) Matrix() [][]float64 {
	n := len(h.names)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64{}, h.matrix[i*n:(i+1)*n]...)
	}
	return m
}
