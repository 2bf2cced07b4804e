package nix

import (
	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/common"
)

// Option is one attribute of an options block, rendered as
// `key = lib.mkOption { ... };`. Literal fields are verbatim Nix and are
// omitted when empty; Description is plain text and escaped on output.
type Option struct {
	Key             string
	Type            Type
	Description     string
	Default         string
	DefaultText     string
	Example         string
	Apply           string
	Visible         string
	RelatedPackages string
	ReadOnly        bool
	Internal        bool
}

// DefinitionKind tells how a definition is bound.
type DefinitionKind int

const (
	// Submodule binds `types.submodule { options = { ... }; }`.
	Submodule DefinitionKind = iota
	// Alias binds a plain type expression (enumerations).
	Alias
)

// Definition is a named binding emitted once per distinct Go type.
type Definition struct {
	ID      analyze.TypeID
	Name    string
	Kind    DefinitionKind
	Doc     string
	Options []Option // Submodule
	Type    Type     // Alias
	Refs    []analyze.TypeID
}

// Ref returns a reference to the definition.
func (d *Definition) Ref() Type {
	return Ref(d.ID, d.Name)
}

// CollectRefs gathers the distinct definitions referenced by the options or
// the alias type, in first-reference order.
func (d *Definition) CollectRefs() []analyze.TypeID {
	var out []analyze.TypeID

	if d.Kind == Alias {
		for _, id := range d.Type.References() {
			out = common.AppendUnique(out, id)
		}
	}

	for _, opt := range d.Options {
		for _, id := range opt.Type.References() {
			out = common.AppendUnique(out, id)
		}
	}

	return out
}
