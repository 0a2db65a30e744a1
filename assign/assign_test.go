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

package assign_test

import (
	"testing"

	"github.com/gx-org/leibniz/assign"
	"github.com/pkg/errors"
)

type variable string

func (v variable) Name() string { return string(v) }

const (
	x = variable("x")
	y = variable("y")
	z = variable("z")
)

func checkValue(t *testing.T, a assign.Assignment, name string, want float64) {
	t.Helper()
	if !a.IsSet(name) {
		t.Errorf("%s is not set", name)
	}
	got, err := a.Get(name)
	if err != nil {
		t.Errorf("cannot get %s: %v", name, err)
		return
	}
	if got != want {
		t.Errorf("%s: got %f but want %f", name, got, want)
	}
}

func checkNotSet(t *testing.T, a assign.Assignment, name string) {
	t.Helper()
	if a.IsSet(name) {
		t.Errorf("%s is set", name)
	}
	_, err := a.Get(name)
	if !errors.Is(err, assign.ErrNotSet) {
		t.Errorf("Get(%s): got error %v but want %v", name, err, assign.ErrNotSet)
	}
}

func TestMutable(t *testing.T) {
	a := assign.NewMutable()
	checkNotSet(t, a, "x")
	a.Set(x, 1)
	a.Set(y, 2)
	checkValue(t, a, "x", 1)
	checkValue(t, a, "y", 2)
	a.Set(x, 3)
	checkValue(t, a, "x", 3)
	a.Clear(x)
	checkNotSet(t, a, "x")
	checkValue(t, a, "y", 2)
	a.Reset()
	checkNotSet(t, a, "y")
}

func TestBuilder(t *testing.T) {
	b := assign.Build().With(x, 1).With(y, 2)
	first := b.Finish()
	b.With(x, 10).With(z, 3)
	second := b.Finish()
	checkValue(t, first, "x", 1)
	checkValue(t, first, "y", 2)
	checkNotSet(t, first, "z")
	checkValue(t, second, "x", 10)
	checkValue(t, second, "z", 3)
	if first.Len() != 2 || second.Len() != 3 {
		t.Errorf("got lengths %d and %d but want 2 and 3", first.Len(), second.Len())
	}
}

func TestFromMap(t *testing.T) {
	m := map[string]float64{"x": 1}
	a := assign.FromMap(m)
	m["x"] = 2
	checkValue(t, a, "x", 1)
}

func TestComposite(t *testing.T) {
	first := assign.Build().With(x, 1).Finish()
	second := assign.Build().With(x, 2).With(y, 3).Finish()
	a := assign.Composite(first, second)
	checkValue(t, a, "x", 1)
	checkValue(t, a, "y", 3)
	checkNotSet(t, a, "z")
}

func TestOverriding(t *testing.T) {
	base := assign.NewMutable()
	base.Set(x, 1)
	base.Set(y, 2)
	a := assign.NewOverriding(base)
	a.Override(x, 10)
	a.Override(z, 30)
	checkValue(t, a, "x", 10)
	checkValue(t, a, "y", 2)
	checkValue(t, a, "z", 30)
	checkValue(t, base, "x", 1)
	checkNotSet(t, base, "z")
	a.Clear(x)
	checkValue(t, a, "x", 1)
}

func checkPanics(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected a panic", name)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, assign.ErrNilArgument) {
			t.Errorf("%s: got panic %v but want %v", name, r, assign.ErrNilArgument)
		}
	}()
	f()
}

func TestNilArguments(t *testing.T) {
	checkPanics(t, "Set", func() { assign.NewMutable().Set(nil, 1) })
	checkPanics(t, "With", func() { assign.Build().With(nil, 1) })
	checkPanics(t, "NewOverriding", func() { assign.NewOverriding(nil) })
	checkPanics(t, "Override", func() { assign.NewOverriding(assign.Frozen{}).Override(nil, 1) })
}
