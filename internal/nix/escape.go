package nix

import (
	"regexp"
	"strings"
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"${", `\${`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'-]*$`)

var keywords = map[string]struct{}{
	"assert":  {},
	"else":    {},
	"if":      {},
	"in":      {},
	"inherit": {},
	"let":     {},
	"or":      {},
	"rec":     {},
	"then":    {},
	"with":    {},
}

// Escape escapes s for use inside a double-quoted Nix string.
func Escape(s string) string {
	return stringEscaper.Replace(s)
}

// Quote returns s as a double-quoted Nix string literal.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// IsIdentifier reports whether s can be used as a bare attribute name.
func IsIdentifier(s string) bool {
	if _, ok := keywords[s]; ok {
		return false
	}

	return identifierRe.MatchString(s)
}

// AttrName returns key as an attribute name, quoted when necessary.
func AttrName(key string) string {
	if IsIdentifier(key) {
		return key
	}

	return Quote(key)
}

// AttrPath renders a dotted option path such as "services.my-app",
// quoting segments that are not identifiers. Empty segments are dropped.
func AttrPath(path string) string {
	var parts []string

	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}

		parts = append(parts, AttrName(seg))
	}

	return strings.Join(parts, ".")
}
