package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits "pkg/path.Name" at the last dot after the last slash.
// Type arguments of generic instantiations ("pkg.Box[time.Duration]") are
// not searched. Returns ok=false when there is no package qualifier.
func SplitQualified(qualified string) (pkgPath, name string, ok bool) {
	head := qualified
	if i := strings.Index(qualified, "["); i >= 0 {
		head = qualified[:i]
	}

	slash := strings.LastIndex(head, "/")

	dot := strings.LastIndex(head, ".")
	if dot <= slash || dot == len(head)-1 {
		return "", qualified, false
	}

	return qualified[:dot], qualified[dot+1:], true
}
