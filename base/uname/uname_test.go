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

package uname_test

import (
	"go/token"
	"strings"
	"testing"

	"github.com/gx-org/leibniz/base/uname"
)

func TestName(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{
			name: "v",
			want: "v",
		},
		{
			name: "v",
			want: "v1",
		},
		{
			name: "v",
			want: "v2",
		},
		{
			name: "in",
			want: "in1",
		},
		{
			name: "in",
			want: "in2",
		},
	}
	unames := uname.New()
	unames.Register("in")
	for i, test := range tests {
		got := unames.Name(test.name)
		if got != test.want {
			t.Errorf("test %d: for name %s, got %s but want %s", i, test.name, got, test.want)
		}
	}
}

func TestRandom(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		name := uname.Random("Compiled")
		if !strings.HasPrefix(name, "Compiled_") {
			t.Errorf("name %q does not start with its root", name)
		}
		if !token.IsIdentifier(name) {
			t.Errorf("name %q is not a valid identifier", name)
		}
		if seen[name] {
			t.Errorf("name %q generated twice", name)
		}
		seen[name] = true
	}
}
