package candidates

import (
	"iter"
)

const (
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz"
	digitAlphabet = "0123456789"
)

// Cartesian yields every string of exactly length runes drawn from alphabet,
// in lexicographic order of alphabet positions. Nothing is materialized.
func Cartesian(alphabet string, length int) iter.Seq[string] {
	symbols := []rune(alphabet)
	return func(yield func(string) bool) {
		if length <= 0 || len(symbols) == 0 {
			return
		}

		// odometer over symbol positions
		pos := make([]int, length)
		buf := make([]rune, length)
		for {
			for i, p := range pos {
				buf[i] = symbols[p]
			}
			if !yield(string(buf)) {
				return
			}

			i := length - 1
			for i >= 0 {
				pos[i]++
				if pos[i] < len(symbols) {
					break
				}
				pos[i] = 0
				i--
			}
			if i < 0 {
				return
			}
		}
	}
}

// Alphabetic yields all lower-case a-z strings of the given length.
func Alphabetic(length int) iter.Seq[string] {
	return Cartesian(lowerAlphabet, length)
}

// Numeric yields all 0-9 strings of the given length.
func Numeric(length int) iter.Seq[string] {
	return Cartesian(digitAlphabet, length)
}

// Slice yields words in order.
func Slice(words []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range words {
			if !yield(w) {
				return
			}
		}
	}
}

// Concat yields every element of each sequence in turn.
func Concat(seqs ...iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seq := range seqs {
			for w := range seq {
				if !yield(w) {
					return
				}
			}
		}
	}
}
