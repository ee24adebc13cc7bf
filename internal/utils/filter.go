package utils

import (
	"strings"
	"unicode/utf8"
)

// IsASCIILetter reports whether b is one of A-Z or a-z.
func IsASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// IsASCIILetters reports whether every byte of s is an ASCII letter.
// The empty string is not considered letters; callers decide how to treat it.
func IsASCIILetters(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsASCIILetter(s[i]) {
			return false
		}
	}
	return true
}

// EqualFold performs case-insensitive rune equality check
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}

	// ASCII first, it is the common case for typed queries
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}

	return strings.EqualFold(string(a), string(b))
}

// StringContainsIgnoreCase checks if string contains substring case-insensitively
func StringContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IndexFold returns the byte offset and byte length of the first
// case-insensitive occurrence of substr in s, or -1 and 0 when absent.
// The returned span always addresses bytes of s itself, so slicing s with it
// is safe even when case mapping changes encoded widths.
func IndexFold(s, substr string) (int, int) {
	if substr == "" {
		return 0, 0
	}
	for start := 0; start < len(s); {
		if n, ok := hasPrefixFold(s[start:], substr); ok {
			return start, n
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		start += size
	}
	return -1, 0
}

// hasPrefixFold matches prefix against the head of s rune by rune and
// returns how many bytes of s were consumed.
func hasPrefixFold(s, prefix string) (int, bool) {
	i := 0
	for _, pr := range prefix {
		if i >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if !EqualFold(sr, pr) {
			return 0, false
		}
		i += size
	}
	return i, true
}
