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
	"fmt"
	"strings"

	"github.com/gx-org/leibniz/expr"
)

// Key identifies a second order partial derivative by an unordered pair of variable names.
// Key(x, y) and Key(y, x) are equal and can be used interchangeably as map keys.
type Key struct {
	first, second string
}

// NewKey returns the key of the second order derivative with respect to x and y.
func NewKey(x, y *expr.Variable) Key {
	return KeyOf(x.Name(), y.Name())
}

// KeyOf returns a key given two variable names.
func KeyOf(x, y string) Key {
	if y < x {
		x, y = y, x
	}
	return Key{first: x, second: y}
}

// First returns the smallest variable name of the pair.
func (k Key) First() string {
	return k.first
}

// Second returns the largest variable name of the pair.
func (k Key) Second() string {
	return k.second
}

// IsDiagonal returns true if both derivatives are taken with respect to the same variable.
func (k Key) IsDiagonal() bool {
	return k.first == k.second
}

// Compare orders keys lexicographically.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.first, other.first); c != 0 {
		return c
	}
	return strings.Compare(k.second, other.second)
}

func (k Key) String() string {
	return fmt.Sprintf("(%s,%s)", k.first, k.second)
}
