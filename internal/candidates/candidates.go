// Package candidates produces candidate labels for ingestion and bulk seeding.
package candidates

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the shortest label worth checking.
const MinLength = 3

// Prefilter reports whether word is worth normalizing: at least MinLength
// runes and no whitespace. Rejected words are dropped, not counted.
func Prefilter(word string) bool {
	if utf8.RuneCountInString(word) < MinLength {
		return false
	}
	return !strings.ContainsFunc(word, unicode.IsSpace)
}
