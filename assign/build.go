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

// Builder constructs immutable assignments.
type Builder struct {
	values *Mutable
}

// Build starts the construction of a new assignment.
func Build() *Builder {
	return &Builder{values: NewMutable()}
}

// With sets the value of a variable.
func (b *Builder) With(v Named, x float64) *Builder {
	b.values.Set(v, x)
	return b
}

// Finish returns the assignment.
// The builder can still be used: later calls to With do not modify
// the returned assignment.
func (b *Builder) Finish() Frozen {
	return b.values.Freeze()
}
