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

package vm

import "math"

type (
	frame struct {
		in     []float64
		out    []float64
		locals []float64
	}

	execNode interface {
		exec(*frame) float64
	}

	execStmt interface {
		run(*frame)
	}
)

type input struct {
	index int
}

func (n input) exec(f *frame) float64 {
	return f.in[n.index]
}

type local struct {
	slot int
}

func (n local) exec(f *frame) float64 {
	return f.locals[n.slot]
}

type literal struct {
	value float64
}

func (n literal) exec(*frame) float64 {
	return n.value
}

type add struct {
	x, y execNode
}

func (n add) exec(f *frame) float64 {
	return n.x.exec(f) + n.y.exec(f)
}

type sub struct {
	x, y execNode
}

func (n sub) exec(f *frame) float64 {
	return n.x.exec(f) - n.y.exec(f)
}

type mul struct {
	x, y execNode
}

func (n mul) exec(f *frame) float64 {
	return float64(n.x.exec(f) * n.y.exec(f))
}

type quo struct {
	x, y execNode
}

func (n quo) exec(f *frame) float64 {
	return n.x.exec(f) / n.y.exec(f)
}

type neg struct {
	x execNode
}

func (n neg) exec(f *frame) float64 {
	return -n.x.exec(f)
}

type pow struct {
	x, y execNode
}

func (n pow) exec(f *frame) float64 {
	return math.Pow(n.x.exec(f), n.y.exec(f))
}

type call struct {
	fn func(float64) float64
	x  execNode
}

func (n call) exec(f *frame) float64 {
	return n.fn(n.x.exec(f))
}

type define struct {
	slot int
	x    execNode
}

func (s define) run(f *frame) {
	f.locals[s.slot] = s.x.exec(f)
}

type store struct {
	index int
	x     execNode
}

func (s store) run(f *frame) {
	f.out[s.index] = s.x.exec(f)
}
