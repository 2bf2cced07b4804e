package analyze

import (
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"strings"

	"nixos-type-generator/internal/common"
	"nixos-type-generator/internal/errs"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "nixos-type-generator/examples/basic"
	Name    string // e.g., "Server", or "Box[int]" for instantiations
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the package alias, e.g. "basic.Server".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// ParseTypeID parses a fully qualified "import/path.Name" reference.
func ParseTypeID(qualified string) (TypeID, error) {
	pkgPath, name, ok := common.SplitQualified(qualified)
	if !ok {
		return TypeID{}, fmt.Errorf("%w: %q is not of the form import/path.Name", errs.ErrTypeNotFound, qualified)
	}

	return TypeID{PkgPath: pkgPath, Name: name}, nil
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map from KeyType to ElemType
	TypeKindInterface          // interface, named or not
	TypeKindAlias              // named type wrapping a non-struct type
	TypeKindTypeParam          // uninstantiated generic type parameter
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	case TypeKindTypeParam:
		return "type parameter"
	default:
		return common.UnknownStr
	}
}

// EnumValue is a constant declared with a named scalar type.
type EnumValue struct {
	Name  string
	Value constant.Value
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named non-struct types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type

	Doc        string   // Doc comment of the declaration, directives removed
	Directives []string // "nixos:..." directive lines of the declaration

	Enum          []EnumValue // Constants of a named scalar type, in declaration order
	Sealed        bool        // Named interface with an unexported method
	Variants      []TypeID    // Types implementing a sealed interface, in declaration order
	TextMarshaler bool        // T or *T implements encoding.TextMarshaler
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsEnum reports whether the type is a named scalar with declared constants.
func (t *TypeInfo) IsEnum() bool {
	return t.Kind == TypeKindAlias && len(t.Enum) > 0
}

// BasicKind returns the go/types basic kind of a basic type, following
// named scalars to their underlying type.
func (t *TypeInfo) BasicKind() (types.BasicKind, bool) {
	cur := t
	for cur != nil && cur.Kind == TypeKindAlias {
		cur = cur.Underlying
	}

	if cur == nil || cur.Kind != TypeKindBasic {
		return types.Invalid, false
	}

	b, ok := cur.GoType.(*types.Basic)
	if !ok {
		return types.Invalid, false
	}

	return b.Kind(), true
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
	Doc      string            // Doc comment, or trailing line comment when there is none
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// TypeGraph holds all analyzed types from loaded packages.
// It is read-only once loading has finished.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// FindType resolves a user supplied type reference. Accepted forms are the
// fully qualified "import/path.Name", the short "pkgname.Name" and a bare
// "Name"; short forms must be unambiguous among the loaded packages.
func (g *TypeGraph) FindType(ref string) (*TypeInfo, error) {
	if pkgPath, name, ok := common.SplitQualified(ref); ok {
		if info := g.Types[TypeID{PkgPath: pkgPath, Name: name}]; info != nil {
			return info, nil
		}
	}

	pkgAlias, name := "", ref
	if i := strings.LastIndex(ref, "."); i >= 0 && !strings.Contains(ref, "/") {
		pkgAlias, name = ref[:i], ref[i+1:]
	}

	var matches []*TypeInfo

	for _, pkg := range g.Packages {
		if pkgAlias != "" && pkg.Name != pkgAlias && common.PkgAlias(pkg.Path) != pkgAlias {
			continue
		}

		if info := g.Types[TypeID{PkgPath: pkg.Path, Name: name}]; info != nil {
			matches = append(matches, info)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", errs.ErrTypeNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s is ambiguous (%s, %s)",
			errs.ErrTypeNotFound, ref, matches[0].ID, matches[1].ID)
	}
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
