package utils

import (
	"strings"
)

// DuplicateFilter remembers strings it has seen, ignoring case.
type DuplicateFilter struct {
	seen map[string]bool
}

// NewDuplicateFilter creates an empty filter sized for n entries.
func NewDuplicateFilter(n int) *DuplicateFilter {
	return &DuplicateFilter{seen: make(map[string]bool, n)}
}

// ShouldInclude returns true the first time a word is offered and false for
// every later word that differs from it only by case.
func (f *DuplicateFilter) ShouldInclude(word string) bool {
	lowerWord := strings.ToLower(word)
	if f.seen[lowerWord] {
		return false
	}
	f.seen[lowerWord] = true
	return true
}

// Dedupe keeps the first occurrence of every case-insensitive duplicate,
// preserving order.
func Dedupe(words []string) []string {
	f := NewDuplicateFilter(len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if f.ShouldInclude(w) {
			out = append(out, w)
		}
	}
	return out
}
