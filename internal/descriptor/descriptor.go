package descriptor

import (
	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/common"
	"nixos-type-generator/internal/meta"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind discriminates descriptors.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	KindPrimitive
	KindOptional
	KindSequence
	KindMapping
	KindReference
	KindRecord
	KindEnum
	KindOpaque
)

// Primitive is a scalar kind after collapsing Go's numeric families.
type Primitive int

const (
	PrimitiveBool Primitive = iota
	PrimitiveInt
	PrimitiveFloat
	PrimitiveString
	PrimitivePath
	PrimitiveAnything
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		return "int"
	case PrimitiveFloat:
		return "float"
	case PrimitiveString:
		return "string"
	case PrimitivePath:
		return "path"
	case PrimitiveAnything:
		return "anything"
	default:
		return common.UnknownStr
	}
}

// Descriptor is the structural description of a Go type.
type Descriptor struct {
	Kind      Kind
	Primitive Primitive      // KindPrimitive
	Elem      *Descriptor    // KindOptional, KindSequence, mapping values
	Key       *Descriptor    // KindMapping
	TextKey   bool           // KindMapping: key encodes as text
	ID        analyze.TypeID // KindReference, KindRecord, KindEnum
	Name      string         // KindRecord, KindEnum: Go type name
	Doc       string         // KindRecord, KindEnum
	Container meta.Container // KindRecord, KindEnum
	Fields    []Field        // KindRecord, skipped fields removed
	Variants  []Variant      // KindEnum
	Code      string         // KindOpaque, text-marshaled KindEnum: diagnostic code
	Reason    string         // KindOpaque, text-marshaled KindEnum
}

// Field is one emitted field of a record.
type Field struct {
	Name string // Go field name
	Type Descriptor
	Meta meta.FieldMetadata
	Path string
}

// Variant is one member of an enumeration.
type Variant struct {
	Name  string
	Value string      // Nix literal of a unit variant
	Data  *Descriptor // nil for unit variants
}

// IsUnit reports whether the variant carries no data.
func (v Variant) IsUnit() bool {
	return v.Data == nil
}

// IsNamed reports whether the descriptor stands for a named definition.
func (d Descriptor) IsNamed() bool {
	switch d.Kind {
	case KindReference, KindRecord, KindEnum:
		return true
	default:
		return false
	}
}

// NewPrimitive returns a primitive descriptor.
func NewPrimitive(p Primitive) Descriptor {
	return Descriptor{Kind: KindPrimitive, Primitive: p}
}

// NewOptional wraps d as optional. Optional of optional collapses.
func NewOptional(d Descriptor) Descriptor {
	if d.Kind == KindOptional {
		return d
	}

	return Descriptor{Kind: KindOptional, Elem: &d}
}

// NewSequence returns a sequence of d.
func NewSequence(d Descriptor) Descriptor {
	return Descriptor{Kind: KindSequence, Elem: &d}
}

// NewMapping returns a mapping from key to value.
func NewMapping(key, value Descriptor, textKey bool) Descriptor {
	return Descriptor{Kind: KindMapping, Key: &key, Elem: &value, TextKey: textKey}
}

// NewReference refers to a named record or enum.
func NewReference(id analyze.TypeID) Descriptor {
	return Descriptor{Kind: KindReference, ID: id}
}

// NewOpaque returns the degraded representation for a construct without a
// NixOS counterpart.
func NewOpaque(code, reason string) Descriptor {
	return Descriptor{Kind: KindOpaque, Code: code, Reason: reason}
}
