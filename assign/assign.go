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

// Package assign maps variables to the values used to evaluate expressions.
//
// Assignments are keyed by variable names. Any type with a Name method,
// such as *expr.Variable, can be used to set values.
package assign

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotSet is returned when the value of a variable is requested but has not been set.
	ErrNotSet = errors.New("variable not set")

	// ErrNilArgument is used as a panic value when a required argument is nil.
	ErrNilArgument = errors.New("nil argument")
)

type (
	// Assignment is a read-only view mapping variable names to values.
	Assignment interface {
		// Get returns the value of a variable.
		// It returns an error wrapping ErrNotSet if no value has been set.
		Get(name string) (float64, error)
		// IsSet returns true if the variable has a value.
		IsSet(name string) bool
	}

	// Named is a variable identified by its name.
	Named interface {
		Name() string
	}
)

func notSet(name string) error {
	return errors.Wrapf(ErrNotSet, "no value for %q has been set", name)
}

func nameOf(v Named) string {
	if v == nil {
		panic(errors.Wrap(ErrNilArgument, "variable is nil"))
	}
	return v.Name()
}

// Frozen is an immutable assignment.
type Frozen struct {
	values map[string]float64
}

var _ Assignment = Frozen{}

// FromMap returns an assignment from a map of variable names to values.
// The map is copied.
func FromMap(m map[string]float64) Frozen {
	values := make(map[string]float64, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Frozen{values: values}
}

// Get returns the value of a variable.
func (a Frozen) Get(name string) (float64, error) {
	v, ok := a.values[name]
	if !ok {
		return 0, notSet(name)
	}
	return v, nil
}

// IsSet returns true if the variable has a value.
func (a Frozen) IsSet(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Len returns the number of variables set.
func (a Frozen) Len() int {
	return len(a.values)
}

// Mutable is an assignment which values can be changed.
// A mutable assignment is not safe for concurrent writes.
type Mutable struct {
	values map[string]float64
}

var _ Assignment = (*Mutable)(nil)

// NewMutable returns a new empty mutable assignment.
func NewMutable() *Mutable {
	return &Mutable{values: make(map[string]float64)}
}

// Set the value of a variable.
func (a *Mutable) Set(v Named, x float64) {
	a.values[nameOf(v)] = x
}

// Clear the value of a variable.
func (a *Mutable) Clear(v Named) {
	delete(a.values, nameOf(v))
}

// Reset clears all the values.
func (a *Mutable) Reset() {
	clear(a.values)
}

// Get returns the value of a variable.
func (a *Mutable) Get(name string) (float64, error) {
	v, ok := a.values[name]
	if !ok {
		return 0, notSet(name)
	}
	return v, nil
}

// IsSet returns true if the variable has a value.
func (a *Mutable) IsSet(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Freeze returns an immutable copy of the assignment.
func (a *Mutable) Freeze() Frozen {
	return FromMap(a.values)
}
