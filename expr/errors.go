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
	"github.com/gx-org/leibniz/assign"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when an argument is not valid for an operation,
	// for example when evaluating a variable which has no value in an assignment.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilArgument is returned, or used as a panic value, when a required argument is nil.
	// It is the same error as assign.ErrNilArgument.
	ErrNilArgument = assign.ErrNilArgument
)

func errNilAssignment() error {
	return errors.Wrap(ErrNilArgument, "cannot evaluate an expression with a nil assignment")
}

func checkNotNil(what string, n Node) {
	if n == nil {
		panic(errors.Wrapf(ErrNilArgument, "%s is nil", what))
	}
}

func checkVariable(v *Variable) {
	if v == nil {
		panic(errors.Wrap(ErrNilArgument, "variable is nil"))
	}
}
