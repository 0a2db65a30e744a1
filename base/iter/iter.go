// Package iter provides iterators over slices.
package iter

// Filter iterates over the elements of several slices, one slice after the other,
// and skips the elements for which keep returns false.
func Filter[T any](keep func(T) bool, slices ...[]T) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, slice := range slices {
			for _, el := range slice {
				if !keep(el) {
					continue
				}
				if !yield(el) {
					return
				}
			}
		}
	}
}
