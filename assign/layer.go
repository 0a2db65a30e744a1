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

package assign

import "github.com/pkg/errors"

type composite []Assignment

// Composite returns a read-only assignment looking up variables in each
// assignment in turn. The first assignment setting a variable wins.
func Composite(as ...Assignment) Assignment {
	return composite(append([]Assignment{}, as...))
}

func (c composite) Get(name string) (float64, error) {
	for _, a := range c {
		if a.IsSet(name) {
			return a.Get(name)
		}
	}
	return 0, notSet(name)
}

func (c composite) IsSet(name string) bool {
	for _, a := range c {
		if a.IsSet(name) {
			return true
		}
	}
	return false
}

// Overriding is an assignment overriding the values of a base assignment.
// The base assignment is never modified.
type Overriding struct {
	base      Assignment
	overrides *Mutable
}

var _ Assignment = (*Overriding)(nil)

// NewOverriding returns an assignment falling back on base for all the
// variables which have not been overridden.
func NewOverriding(base Assignment) *Overriding {
	if base == nil {
		panic(errors.Wrap(ErrNilArgument, "base assignment is nil"))
	}
	return &Overriding{base: base, overrides: NewMutable()}
}

// Override the value of a variable.
func (a *Overriding) Override(v Named, x float64) {
	a.overrides.Set(v, x)
}

// Clear an override. The value of the variable in the base assignment is used again.
func (a *Overriding) Clear(v Named) {
	a.overrides.Clear(v)
}

// Get returns the value of a variable.
func (a *Overriding) Get(name string) (float64, error) {
	if a.overrides.IsSet(name) {
		return a.overrides.Get(name)
	}
	return a.base.Get(name)
}

// IsSet returns true if the variable is overridden or set in the base assignment.
func (a *Overriding) IsSet(name string) bool {
	return a.overrides.IsSet(name) || a.base.IsSet(name)
}
