package compile

import (
	"fmt"
	"strings"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/descriptor"
	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/nix"
)

// Describer reflects a named record or enumeration into a descriptor.
// *descriptor.Builder is the production implementation.
type Describer interface {
	Describe(id analyze.TypeID) (descriptor.Descriptor, error)
}

// Context is the state of one compile call.
type Context struct {
	describer Describer
	registry  *Registry
	diags     diagnostic.Diagnostics
}

// NewContext creates the context of a single compile call.
func NewContext(describer Describer) *Context {
	return &Context{
		describer: describer,
		registry:  NewRegistry(),
	}
}

// Registry returns the registry of the call.
func (c *Context) Registry() *Registry {
	return c.registry
}

// Diagnostics returns the structural limitations found so far.
func (c *Context) Diagnostics() diagnostic.Diagnostics {
	return c.diags
}

// MapType converts a descriptor into a NixOS type expression, defining every
// record and enumeration it references. path locates the descriptor in
// diagnostics.
func (c *Context) MapType(desc descriptor.Descriptor, path *analyze.TypePath) (nix.Type, error) {
	switch desc.Kind {
	case descriptor.KindPrimitive:
		return nix.Scalar(keyword(desc.Primitive)), nil

	case descriptor.KindOptional:
		inner, err := c.MapType(*desc.Elem, path)
		if err != nil {
			return nix.Type{}, err
		}

		return nix.NullOr(inner), nil

	case descriptor.KindSequence:
		inner, err := c.MapType(*desc.Elem, path.Slice())
		if err != nil {
			return nix.Type{}, err
		}

		return nix.ListOf(inner), nil

	case descriptor.KindMapping:
		// attribute names are always strings, the key kind only matters for the warning
		if !desc.TextKey {
			c.diags.AddWarning(diagnostic.CodeNonTextKey,
				"map key is not text; keys are rendered as attribute names", "", path.String())
		}

		inner, err := c.MapType(*desc.Elem, path.Map())
		if err != nil {
			return nix.Type{}, err
		}

		return nix.AttrsOf(inner), nil

	case descriptor.KindReference:
		if ref, ok := c.registry.Reference(desc.ID); ok {
			return ref, nil
		}

		named, err := c.describer.Describe(desc.ID)
		if err != nil {
			return nix.Type{}, err
		}

		return c.define(named)

	case descriptor.KindRecord, descriptor.KindEnum:
		return c.define(desc)

	case descriptor.KindOpaque:
		c.diags.AddWarning(desc.Code, desc.Reason+"; rendered as "+nix.Attrs, "", path.String())
		return nix.Scalar(nix.Attrs), nil

	default:
		return nix.Type{}, fmt.Errorf("%s: unexpected descriptor kind %s", path.String(), desc.Kind)
	}
}

// define registers the definition of a record or enumeration.
func (c *Context) define(desc descriptor.Descriptor) (nix.Type, error) {
	preferred := desc.Container.Name
	if preferred == "" {
		preferred = BindingName(desc.Name)
	}

	return c.registry.RegisterOrGet(desc.ID, preferred, func(string) (*nix.Definition, error) {
		if desc.Kind == descriptor.KindEnum {
			return c.enumDefinition(desc), nil
		}

		return c.recordDefinition(desc)
	})
}

func (c *Context) recordDefinition(desc descriptor.Descriptor) (*nix.Definition, error) {
	def := &nix.Definition{
		Kind:    nix.Submodule,
		Doc:     desc.Doc,
		Options: make([]nix.Option, 0, len(desc.Fields)),
	}

	for _, f := range desc.Fields {
		t, err := c.MapType(f.Type, analyze.NewTypePath(f.Path))
		if err != nil {
			return nil, err
		}

		if f.Meta.Optional && t.IsNullable() {
			c.diags.AddInfo(diagnostic.CodeNestedOptional,
				"optional field is already nullable; only the null default is added", desc.ID.Short(), f.Path)
		}

		def.Options = append(def.Options, option(f, t))
	}

	return def, nil
}

// option builds the mkOption attributes of a field.
func option(f descriptor.Field, t nix.Type) nix.Option {
	md := f.Meta

	opt := nix.Option{
		Key:             md.Key,
		Type:            t,
		Description:     md.Description,
		Default:         md.Default,
		DefaultText:     md.DefaultText,
		Example:         md.Example,
		Apply:           md.Apply,
		RelatedPackages: md.RelatedPackages,
		ReadOnly:        md.ReadOnly,
		Internal:        md.Internal,
	}

	if !md.IsVisible() {
		opt.Visible = md.Visible
	}

	if md.Optional {
		// NullOr does not wrap an already nullable pointer type again
		opt.Type = nix.NullOr(t)

		if !md.HasDefault() {
			opt.Default = "null"
		}
	}

	return opt
}

// enumDefinition lists unit variants in a types.enum. Data-carrying
// variants cannot be enumerated; they degrade to types.attrs, alone or as
// the second alternative of types.either. Text-marshaled enumerations are
// plain strings.
func (c *Context) enumDefinition(desc descriptor.Descriptor) *nix.Definition {
	def := &nix.Definition{
		Kind: nix.Alias,
		Doc:  desc.Doc,
	}

	if desc.Code != "" {
		c.diags.AddWarning(desc.Code, desc.Reason+"; rendered as "+nix.Str, desc.ID.Short(), "")
		def.Type = nix.Scalar(nix.Str)

		return def
	}

	var (
		values []string
		data   []string
	)

	for _, v := range desc.Variants {
		if v.IsUnit() {
			values = append(values, v.Value)
		} else {
			data = append(data, v.Name)
		}
	}

	for _, name := range data {
		c.diags.AddWarning(diagnostic.CodeDataVariant,
			fmt.Sprintf("variant %s carries data; accepted as %s", name, nix.Attrs), desc.ID.Short(), "")
	}

	switch {
	case len(data) == 0 && len(values) == 0:
		c.diags.AddWarning(diagnostic.CodeEmptyEnum, "enumeration has no variants", desc.ID.Short(), "")
		def.Type = nix.Enum()
	case len(data) == 0:
		def.Type = nix.Enum(values...)
	case len(values) == 0:
		def.Type = nix.Scalar(nix.Attrs)
	default:
		def.Type = nix.Either(nix.Enum(values...), nix.Scalar(nix.Attrs))
	}

	return def
}

func keyword(p descriptor.Primitive) string {
	switch p {
	case descriptor.PrimitiveBool:
		return nix.Bool
	case descriptor.PrimitiveInt:
		return nix.Int
	case descriptor.PrimitiveFloat:
		return nix.Float
	case descriptor.PrimitivePath:
		return nix.Path
	case descriptor.PrimitiveAnything:
		return nix.Anything
	default:
		return nix.Str
	}
}

// cyclePath renders a cycle as "aType -> bType -> aType".
func cyclePath(names []string) string {
	if len(names) == 0 {
		return ""
	}

	return strings.Join(append(names, names[0]), " -> ")
}
