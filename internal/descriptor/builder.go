package descriptor

import (
	"fmt"
	"go/constant"
	"go/types"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/meta"
	"nixos-type-generator/internal/nix"
)

// Builder describes named declarations of a type graph. It holds no state
// besides the read-only graph, so one Builder may serve concurrent calls.
type Builder struct {
	graph *analyze.TypeGraph
}

// NewBuilder creates a Builder over graph.
func NewBuilder(graph *analyze.TypeGraph) *Builder {
	return &Builder{graph: graph}
}

// Describe reflects the named record or enumeration id. Field annotations
// are resolved here, so an AnnotationError surfaces from Describe.
func (b *Builder) Describe(id analyze.TypeID) (Descriptor, error) {
	info := b.graph.GetType(id)
	if info == nil {
		return Descriptor{}, fmt.Errorf("%w: %s", errs.ErrTypeNotFound, id)
	}

	container, err := meta.ParseDirectives(id.Short(), info.Directives)
	if err != nil {
		return Descriptor{}, err
	}

	desc := Descriptor{
		ID:        id,
		Name:      id.Name,
		Doc:       info.Doc,
		Container: container,
	}

	switch {
	case info.IsEnum() && textEnum(info):
		// the constants are not what MarshalText writes
		desc.Kind = KindEnum
		desc.Code = diagnostic.CodeUnsupported
		desc.Reason = "enumeration implements encoding.TextMarshaler; its text values are unknown"

	case info.IsEnum():
		desc.Kind = KindEnum
		desc.Variants = constantVariants(info)

	case info.Sealed:
		desc.Kind = KindEnum
		desc.Variants = b.sealedVariants(info)

	case info.Kind == analyze.TypeKindStruct && !info.TextMarshaler:
		desc.Kind = KindRecord

		desc.Fields, err = b.recordFields(info, container)
		if err != nil {
			return Descriptor{}, err
		}

	default:
		return Descriptor{}, fmt.Errorf("%w: %s is a %s, expected a struct or an enumeration",
			errs.ErrUnsupportedRoot, id, info.Kind)
	}

	return desc, nil
}

// IsDescribable reports whether id names a record or enumeration, i.e.
// whether Describe can succeed for it.
func (b *Builder) IsDescribable(id analyze.TypeID) bool {
	info := b.graph.GetType(id)
	if info == nil {
		return false
	}

	return info.IsEnum() || info.Sealed || (info.Kind == analyze.TypeKindStruct && !info.TextMarshaler)
}

type collectedField struct {
	Field
	depth int
}

// recordFields resolves and describes the fields of a struct, flattening
// untagged embedded structs. Shallower fields shadow deeper ones with the
// same key; equal depth is a misuse.
func (b *Builder) recordFields(info *analyze.TypeInfo, container meta.Container) ([]Field, error) {
	var (
		merr      *multierror.Error
		collected []collectedField
	)

	visited := map[analyze.TypeID]bool{info.ID: true}
	b.collectFields(info, container, analyze.NewTypePath(info.ID.Short()), 0, visited, &collected, &merr)

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(collected))

	var fields []collectedField

	for _, f := range collected {
		i, dup := index[f.Meta.Key]
		switch {
		case !dup:
			index[f.Meta.Key] = len(fields)
			fields = append(fields, f)
		case fields[i].depth > f.depth:
			fields[i] = f
		case fields[i].depth == f.depth:
			merr = multierror.Append(merr, &meta.AnnotationError{
				Path:       f.Path,
				Annotation: f.Meta.Key,
				Message:    "duplicate option key, also used by " + fields[i].Path,
			})
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.Field
	}

	return out, nil
}

func (b *Builder) collectFields(
	info *analyze.TypeInfo,
	container meta.Container,
	path *analyze.TypePath,
	depth int,
	visited map[analyze.TypeID]bool,
	out *[]collectedField,
	merr **multierror.Error,
) {
	for _, f := range info.Fields {
		fieldPath := path.Field(f.Name)

		md, err := meta.Resolve(meta.Field{
			Name: f.Name,
			Tag:  string(f.Tag),
			Doc:  f.Doc,
			Path: fieldPath.String(),
		}, container)
		if err != nil {
			*merr = multierror.Append(*merr, err)
			continue
		}

		// skipped fields never reach the mapper
		if md.Skip {
			continue
		}

		if embedded := flattenTarget(f); embedded != nil {
			if !visited[embedded.ID] {
				visited[embedded.ID] = true
				b.collectFields(embedded, container, fieldPath, depth+1, visited, out, merr)
			}

			continue
		}

		if !f.Exported {
			continue
		}

		*out = append(*out, collectedField{
			Field: Field{
				Name: f.Name,
				Type: b.describeType(f.Type, md.Path),
				Meta: md,
				Path: fieldPath.String(),
			},
			depth: depth,
		})
	}
}

// flattenTarget returns the struct whose fields are promoted by an embedded
// field, following encoding/json: only embedded structs (or pointers to
// them) without an explicit name are flattened.
func flattenTarget(f analyze.FieldInfo) *analyze.TypeInfo {
	if !f.Embedded {
		return nil
	}

	jsonName, _, _ := strings.Cut(f.GetTag(meta.TagJSON), ",")
	nixosName, _, _ := strings.Cut(f.GetTag(meta.TagNixos), ",")

	if jsonName != "" || nixosName != "" {
		return nil
	}

	t := f.Type
	if t.Kind == analyze.TypeKindPointer && !t.IsNamed() {
		t = t.ElemType
	}

	if t == nil || t.Kind != analyze.TypeKindStruct || t.TextMarshaler {
		return nil
	}

	return t
}

// describeType describes a field type. Named records and enumerations become
// references, resolved lazily by the caller.
func (b *Builder) describeType(t *analyze.TypeInfo, asPath bool) Descriptor {
	return b.describeNested(t, asPath, nil)
}

// describeNested describes t while aliases holds the named non-struct types
// being expanded. A named collection containing itself has no finite
// expansion and degrades to an opaque value.
func (b *Builder) describeNested(t *analyze.TypeInfo, asPath bool, aliases map[analyze.TypeID]bool) Descriptor {
	if t == nil {
		return NewOpaque(diagnostic.CodeUnsupported, "unresolved type")
	}

	if t.IsNamed() {
		switch {
		case t.IsEnum(), t.Sealed:
			return NewReference(t.ID)
		case t.TextMarshaler:
			return stringOrPath(asPath)
		case t.Kind == analyze.TypeKindStruct:
			return NewReference(t.ID)
		case t.Kind == analyze.TypeKindAlias:
			// type Port uint16, type Hosts []string
			if aliases[t.ID] {
				return NewOpaque(diagnostic.CodeUnsupported, "recursive type "+t.ID.Short())
			}

			if aliases == nil {
				aliases = make(map[analyze.TypeID]bool)
			}

			aliases[t.ID] = true
			defer delete(aliases, t.ID)

			return b.describeNested(t.Underlying, asPath, aliases)
		}
	}

	switch t.Kind {
	case analyze.TypeKindBasic:
		return describeBasic(t, asPath)

	case analyze.TypeKindPointer:
		return NewOptional(b.describeNested(t.ElemType, asPath, aliases))

	case analyze.TypeKindSlice:
		// encoding/json writes []byte as a base64 string
		if kind, ok := t.ElemType.BasicKind(); ok && kind == types.Uint8 && !t.ElemType.IsNamed() {
			return NewPrimitive(PrimitiveString)
		}

		return NewSequence(b.describeNested(t.ElemType, asPath, aliases))

	case analyze.TypeKindArray:
		return NewSequence(b.describeNested(t.ElemType, asPath, aliases))

	case analyze.TypeKindMap:
		// map[K]struct{} is a set
		if isEmptyStruct(t.ElemType) {
			return NewSequence(b.describeNested(t.KeyType, false, aliases))
		}

		key := b.describeNested(t.KeyType, false, aliases)

		return NewMapping(key, b.describeNested(t.ElemType, asPath, aliases), isTextKey(t.KeyType))

	case analyze.TypeKindInterface:
		if iface, ok := t.GoType.Underlying().(*types.Interface); ok && iface.Empty() {
			return NewPrimitive(PrimitiveAnything)
		}

		return NewOpaque(diagnostic.CodeUnsupported, "interface "+analyze.TypeString(t)+" has no NixOS counterpart")

	case analyze.TypeKindTypeParam:
		return NewOpaque(diagnostic.CodeTypeParameter, "uninstantiated type parameter "+analyze.TypeString(t))

	case analyze.TypeKindStruct:
		return NewOpaque(diagnostic.CodeUnsupported, "anonymous struct has no binding name")

	default:
		return NewOpaque(diagnostic.CodeUnsupported, analyze.TypeString(t)+" has no NixOS counterpart")
	}
}

func describeBasic(t *analyze.TypeInfo, asPath bool) Descriptor {
	kind, _ := t.BasicKind()

	switch kind {
	case types.Bool, types.UntypedBool:
		return NewPrimitive(PrimitiveBool)

	case types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64, types.Uintptr,
		types.UntypedInt, types.UntypedRune:
		return NewPrimitive(PrimitiveInt)

	case types.Float32, types.Float64, types.UntypedFloat:
		return NewPrimitive(PrimitiveFloat)

	case types.String, types.UntypedString:
		return stringOrPath(asPath)

	default:
		return NewOpaque(diagnostic.CodeUnsupported, analyze.TypeString(t)+" has no NixOS counterpart")
	}
}

func stringOrPath(asPath bool) Descriptor {
	if asPath {
		return NewPrimitive(PrimitivePath)
	}

	return NewPrimitive(PrimitiveString)
}

func isEmptyStruct(t *analyze.TypeInfo) bool {
	return t != nil && !t.IsNamed() && t.Kind == analyze.TypeKindStruct && len(t.Fields) == 0
}

// isTextKey reports whether encoding/json writes map keys of t as text
// without conversion: strings, named strings and text marshalers.
func isTextKey(t *analyze.TypeInfo) bool {
	if t.TextMarshaler {
		return true
	}

	kind, ok := t.BasicKind()

	return ok && kind == types.String
}

func textEnum(info *analyze.TypeInfo) bool {
	kind, ok := info.BasicKind()

	return info.TextMarshaler && (!ok || kind != types.String)
}

// constantVariants lists the declared constants of a named scalar as unit
// variants.
func constantVariants(info *analyze.TypeInfo) []Variant {
	variants := make([]Variant, 0, len(info.Enum))
	for _, ev := range info.Enum {
		variants = append(variants, Variant{Name: ev.Name, Value: literal(ev.Value)})
	}

	return variants
}

// sealedVariants lists the implementations of a sealed interface. Empty
// structs are unit variants named after their type; everything else
// carries data.
func (b *Builder) sealedVariants(info *analyze.TypeInfo) []Variant {
	variants := make([]Variant, 0, len(info.Variants))

	for _, id := range info.Variants {
		v := Variant{Name: id.Name, Value: nix.Quote(id.Name)}

		vinfo := b.graph.GetType(id)
		if vinfo == nil || vinfo.Kind != analyze.TypeKindStruct || len(vinfo.Fields) > 0 {
			data := b.describeType(vinfo, false)
			v.Data = &data
		}

		variants = append(variants, v)
	}

	return variants
}

// literal renders a constant as a Nix literal.
func literal(v constant.Value) string {
	switch v.Kind() {
	case constant.String:
		return nix.Quote(constant.StringVal(v))
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(v))
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return v.ExactString()
	}
}
