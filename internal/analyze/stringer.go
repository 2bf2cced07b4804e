package analyze

import (
	"strings"
)

// TypePath builds a readable path string for a field location, used in
// diagnostics and annotation errors.
// Examples:
//   - "Config" for a root type
//   - "Config.Servers" for a nested field
//   - "Config.Servers[]" for the elements of a slice field
//   - "Config.Hosts{}" for the values of a map field
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice appends a slice indicator "[]" to the path.
func (p *TypePath) Slice() *TypePath {
	return p.suffix("[]")
}

// Map appends a map value indicator "{}" to the path.
func (p *TypePath) Map() *TypePath {
	return p.suffix("{}")
}

func (p *TypePath) suffix(s string) *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{s}}
	}

	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += s

	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeString returns a human-readable string representation of a TypeInfo.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		return t.ID.Short()
	}

	switch t.Kind {
	case TypeKindPointer:
		return "*" + TypeString(t.ElemType)

	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType)

	case TypeKindMap:
		return "map[" + TypeString(t.KeyType) + "]" + TypeString(t.ElemType)

	case TypeKindStruct:
		return "struct{...}"

	default:
		if t.GoType == nil {
			return t.Kind.String()
		}

		return t.GoType.String()
	}
}
