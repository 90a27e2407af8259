package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// FormatWithCommas renders an integer with thousands separators for display.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// IsValidQuery reports whether a query contains at least one letter or digit.
// Pure punctuation/whitespace queries never match anything useful.
func IsValidQuery(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
