// Package stringutils holds small text helpers shared by the domain layer.
package stringutils

import "unicode/utf8"

// Truncate returns s cut to at most maxRunes runes. Multi-byte runes are
// never split. The result is exactly the leading part of s, with no
// ellipsis and no whitespace cleanup, so callers can rely on prefix
// equality with the original.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateWithEllipsis returns s unchanged when it fits within maxRunes
// runes, otherwise the leading maxRunes-3 runes followed by "...". The
// result never exceeds maxRunes runes.
func TruncateWithEllipsis(s string, maxRunes int) string {
	const ellipsis = "..."
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes <= len(ellipsis) {
		return Truncate(s, maxRunes)
	}
	return Truncate(s, maxRunes-len(ellipsis)) + ellipsis
}
