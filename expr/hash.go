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
	"hash/fnv"
	"math"
)

// mix is the finalizer of splitmix64.
func mix(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func hashFloat(x float64) uint64 {
	return mix(math.Float64bits(x))
}

// hashOrdered combines hashes of operands for which the order matters.
func hashOrdered(seed uint64, hs ...uint64) uint64 {
	h := seed
	for _, x := range hs {
		h = mix(h*31 + x)
	}
	return h
}

// hashCommutative combines hashes of operands independently of their order.
func hashCommutative(seed uint64, hs ...uint64) uint64 {
	var sum uint64
	for _, x := range hs {
		sum += mix(x)
	}
	return mix(seed ^ sum)
}
