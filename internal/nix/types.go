package nix

import (
	"strings"

	"nixos-type-generator/internal/analyze"
)

// TypeKind discriminates type expressions.
type TypeKind int

const (
	KindScalar TypeKind = iota // types.str, types.int, ...
	KindNullOr                 // types.nullOr Elem
	KindListOf                 // types.listOf Elem
	KindAttrsOf                // types.attrsOf Elem
	KindRef                    // binding name of a Definition
	KindEnum                   // types.enum [ Values ]
	KindEither                 // types.either Elem Alt
)

// Scalar keywords.
const (
	Bool     = "types.bool"
	Int      = "types.int"
	Float    = "types.float"
	Str      = "types.str"
	Path     = "types.path"
	Anything = "types.anything"
	Attrs    = "types.attrs"
)

// Type is a NixOS option type expression.
type Type struct {
	Kind   TypeKind
	Name   string         // scalar keyword or binding name
	Ref    analyze.TypeID // referenced type for KindRef
	Elem   *Type          // argument of nullOr/listOf/attrsOf, left of either
	Alt    *Type          // right of either
	Values []string       // enum literals, verbatim Nix
}

// Scalar returns a scalar type expression.
func Scalar(keyword string) Type {
	return Type{Kind: KindScalar, Name: keyword}
}

// NullOr wraps t in types.nullOr. It never double-wraps.
func NullOr(t Type) Type {
	if t.Kind == KindNullOr {
		return t
	}

	return Type{Kind: KindNullOr, Elem: &t}
}

// ListOf wraps t in types.listOf.
func ListOf(t Type) Type {
	return Type{Kind: KindListOf, Elem: &t}
}

// AttrsOf wraps t in types.attrsOf.
func AttrsOf(t Type) Type {
	return Type{Kind: KindAttrsOf, Elem: &t}
}

// Ref references a named definition.
func Ref(id analyze.TypeID, name string) Type {
	return Type{Kind: KindRef, Ref: id, Name: name}
}

// Enum lists literal values.
func Enum(values ...string) Type {
	return Type{Kind: KindEnum, Values: values}
}

// Either accepts values of a or b.
func Either(a, b Type) Type {
	return Type{Kind: KindEither, Elem: &a, Alt: &b}
}

// IsNullable reports whether the expression already accepts null.
func (t Type) IsNullable() bool {
	return t.Kind == KindNullOr
}

// String renders the expression; compound arguments are parenthesised.
func (t Type) String() string {
	switch t.Kind {
	case KindNullOr:
		return "types.nullOr " + t.Elem.arg()
	case KindListOf:
		return "types.listOf " + t.Elem.arg()
	case KindAttrsOf:
		return "types.attrsOf " + t.Elem.arg()
	case KindEither:
		return "types.either " + t.Elem.arg() + " " + t.Alt.arg()
	case KindEnum:
		if len(t.Values) == 0 {
			return "types.enum [ ]"
		}

		return "types.enum [ " + strings.Join(t.Values, " ") + " ]"
	default:
		return t.Name
	}
}

func (t Type) arg() string {
	switch t.Kind {
	case KindScalar, KindRef:
		return t.String()
	default:
		return "(" + t.String() + ")"
	}
}

// References returns the definitions referenced by the expression in
// left-to-right order.
func (t Type) References() []analyze.TypeID {
	var out []analyze.TypeID

	t.walk(func(n Type) {
		if n.Kind == KindRef {
			out = append(out, n.Ref)
		}
	})

	return out
}

func (t Type) walk(fn func(Type)) {
	fn(t)

	if t.Elem != nil {
		t.Elem.walk(fn)
	}

	if t.Alt != nil {
		t.Alt.walk(fn)
	}
}
