package candidates

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Set is an unordered set of comparable values.
type Set[T comparable] map[T]struct{}

// NewSet returns a set holding items.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	s.Add(items...)
	return s
}

// Add inserts items. Existing items are ignored.
func (s Set[T]) Add(items ...T) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

// Remove deletes items. Missing items are ignored.
func (s Set[T]) Remove(items ...T) {
	for _, item := range items {
		delete(s, item)
	}
}

// Contains reports whether item is in the set. A nil set contains nothing.
func (s Set[T]) Contains(item T) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of items.
func (s Set[T]) Len() int {
	return len(s)
}

// SortedStrings returns the members of a string set in lexicographic order.
func SortedStrings(s Set[string]) []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// Lower applies Unicode default lower-casing.
func Lower(word string) string {
	return cases.Lower(language.Und).String(word)
}

// LowerSet builds a set of lower-cased words.
func LowerSet(words []string) Set[string] {
	caser := cases.Lower(language.Und)
	s := make(Set[string], len(words))
	for _, w := range words {
		s.Add(caser.String(w))
	}
	return s
}
