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

package tmpl_test

import (
	"fmt"
	"testing"

	"github.com/gx-org/leibniz/base/tmpl"
	"github.com/pkg/errors"
)

func TestIterateFunc(t *testing.T) {
	got, err := tmpl.IterateFunc([]string{"x", "y"}, func(i int, name string) (string, error) {
		return fmt.Sprintf("out[%d] = %s", i, name), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "out[0] = x\nout[1] = y"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}

func TestIterateFuncError(t *testing.T) {
	calls := 0
	_, err := tmpl.IterateFunc([]int{1, 2, 3}, func(int, int) (string, error) {
		calls++
		return "", errors.New("stop")
	})
	if err == nil || calls != 1 {
		t.Errorf("got error %v after %d calls but want an error after 1 call", err, calls)
	}
}
