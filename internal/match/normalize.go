package match

import (
	"strings"
)

// NormalizeIdent normalizes an identifier for fuzzy matching: it case-folds
// to lower and strips separators, so "default_text" and "defaultText" agree.
func NormalizeIdent(s string) string {
	return stripSeparators(strings.ToLower(s))
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
