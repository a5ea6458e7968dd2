package stringutils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"shorter than limit", "hello", 50, "hello"},
		{"exactly at limit", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"one over limit", strings.Repeat("a", 51), 50, strings.Repeat("a", 50)},
		{"empty input", "", 50, ""},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -1, ""},
		{"multi-byte runes counted as one", "héllo wörld", 7, "héllo w"},
		{"cjk runes", "こんにちは世界", 5, "こんにちは"},
		{"emoji not split", "🎨🎨🎨🎨", 2, "🎨🎨"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
			if !strings.HasPrefix(tt.input, got) {
				t.Errorf("Truncate(%q, %d) = %q is not a prefix of the input", tt.input, tt.maxRunes, got)
			}
		})
	}
}

func TestTruncateIdempotent(t *testing.T) {
	input := strings.Repeat("x", 120)
	once := Truncate(input, 50)
	twice := Truncate(once, 50)
	if once != twice {
		t.Errorf("Truncate is not idempotent: %q != %q", once, twice)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"fits unchanged", "short prompt", 200, "short prompt"},
		{"exactly at limit unchanged", strings.Repeat("a", 200), 200, strings.Repeat("a", 200)},
		{"over limit gets ellipsis", strings.Repeat("a", 201), 200, strings.Repeat("a", 197) + "..."},
		{"tiny limit falls back to hard cut", "abcdef", 3, "abc"},
		{"empty input", "", 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWithEllipsis(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n > tt.maxRunes {
				t.Errorf("result has %d runes, exceeds limit %d", n, tt.maxRunes)
			}
		})
	}
}
