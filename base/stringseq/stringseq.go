// Package stringseq converts sequences to strings.
package stringseq

import (
	"fmt"
	"iter"
	"strings"
)

// JoinStringer concatenates the stringified elements of a sequence.
// The separator sep is placed between elements.
func JoinStringer[T fmt.Stringer](seq iter.Seq[T], sep string) string {
	var b strings.Builder
	n := 0
	for item := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(item.String())
		n++
	}
	return b.String()
}
