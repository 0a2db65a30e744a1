// Package ordered provides ordered data structure.
package ordered

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// Map is a map ordered by its keys. Iter iterates over the map
// in increasing key order, whatever the order in which the keys have been added.
type Map[K cmp.Ordered, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new ordered map.
func NewMap[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a key,value pair.
func (m *Map[K, V]) Store(k K, v V) {
	if _, in := m.m[k]; !in {
		i, _ := slices.BinarySearch(m.keys, k)
		m.keys = slices.Insert(m.keys, i, k)
	}
	m.m[k] = v
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Index returns the position of a key in the map order, or -1 if absent.
func (m *Map[K, V]) Index(k K) int {
	i, found := slices.BinarySearch(m.keys, k)
	if !found {
		return -1
	}
	return i
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns the keys of the map in order.
// The returned slice must not be modified.
func (m *Map[K, V]) Keys() []K {
	return m.keys
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}
