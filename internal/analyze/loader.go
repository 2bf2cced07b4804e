package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"

	"nixos-type-generator/internal/errs"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// DirectivePrefix marks container directives in doc comments ("//nixos:autodoc").
const DirectivePrefix = "nixos:"

// Option customizes the go/packages configuration used by the Analyzer.
type Option func(*packages.Config)

// WithDir sets the directory in which package patterns are resolved.
func WithDir(dir string) Option {
	return func(cfg *packages.Config) {
		cfg.Dir = dir
	}
}

// WithBuildFlags passes extra build flags (e.g. "-tags=nixos") to the loader.
func WithBuildFlags(flags ...string) Option {
	return func(cfg *packages.Config) {
		cfg.BuildFlags = append(cfg.BuildFlags, flags...)
	}
}

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache for unnamed types; named ones live in graph.Types
	typeDocs  map[types.Object]*ast.CommentGroup
	fieldDocs map[types.Object]string
	opts      []Option

	textMarshaler *types.Interface
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	return &Analyzer{
		graph:         NewTypeGraph(),
		typeCache:     make(map[types.Type]*TypeInfo),
		typeDocs:      make(map[types.Object]*ast.CommentGroup),
		fieldDocs:     make(map[types.Object]string),
		opts:          opts,
		textMarshaler: newTextMarshaler(),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./config", "example.com/app/config").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	for _, opt := range a.opts {
		opt(cfg)
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrLoadPackages, err)
	}

	var merr *multierror.Error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			merr = multierror.Append(merr, e)
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrLoadPackages, err)
	}

	// docs first, so types referenced across loaded packages find theirs
	for _, pkg := range pkgs {
		a.collectDocs(pkg)

		a.graph.Packages[pkg.PkgPath] = &PackageInfo{
			Path: pkg.PkgPath,
			Name: pkg.Name,
		}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// collectDocs records doc comments of type declarations and struct fields.
func (a *Analyzer) collectDocs(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				if obj := pkg.TypesInfo.Defs[ts.Name]; obj != nil && doc != nil {
					a.typeDocs[obj] = doc
				}

				a.collectFieldDocs(pkg, ts.Type)
			}
		}
	}
}

func (a *Analyzer) collectFieldDocs(pkg *packages.Package, expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		st, ok := n.(*ast.StructType)
		if !ok {
			return true
		}

		for _, field := range st.Fields.List {
			cg := field.Doc
			if cg == nil {
				cg = field.Comment
			}

			if cg == nil {
				continue
			}

			for _, ident := range field.Names {
				if obj := pkg.TypesInfo.Defs[ident]; obj != nil {
					a.fieldDocs[obj] = strings.TrimSpace(cg.Text())
				}
			}
		}

		return true
	})
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		info := a.analyzeType(typeName.Type())
		pkgInfo.Types = append(pkgInfo.Types, info.ID)
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if named, ok := t.(*types.Named); ok {
		return a.analyzeNamedType(named)
	}

	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.TypeParam:
		info.Kind = TypeKindTypeParam

	default:
		// channels, funcs, etc. are marked as unknown (unsupported)
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type and registers it in the graph.
// Registration happens before descending so self-references resolve.
func (a *Analyzer) analyzeNamedType(named *types.Named) *TypeInfo {
	id := namedID(named)
	if info := a.graph.Types[id]; info != nil {
		return info
	}

	info := &TypeInfo{
		ID:     id,
		GoType: named,
	}
	a.graph.Types[id] = info

	a.applyDocs(named.Obj(), info)

	generic := named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0
	if !generic {
		info.TextMarshaler = a.implements(named, a.textMarshaler)
	}

	// enums and sealed interfaces are only recognized in loaded packages,
	// so library constants (time.Second, ...) do not turn scalars into enums
	external := a.isExternalPackage(named.Obj().Pkg())

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Interface:
		info.Kind = TypeKindInterface
		if !external && isSealed(ut) {
			info.Sealed = true
			info.Variants = a.sealedVariants(named, ut)
		}

	case *types.Basic:
		// e.g. type Level string, possibly with declared constants
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)

		if !external {
			info.Enum = enumValues(named)
		}

	default:
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}

	return info
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkg *types.Package) bool {
	if pkg == nil {
		return true
	}

	_, ok := a.graph.Packages[pkg.Path()]

	return !ok
}

func (a *Analyzer) applyDocs(obj types.Object, info *TypeInfo) {
	cg := a.typeDocs[obj]
	if cg == nil {
		return
	}

	info.Doc = strings.TrimSpace(cg.Text())

	for _, c := range cg.List {
		if line, ok := strings.CutPrefix(c.Text, "//"); ok && strings.HasPrefix(line, DirectivePrefix) {
			info.Directives = append(info.Directives, strings.TrimSpace(line))
		}
	}
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)

		// unexported embedded structs still promote their exported fields
		if !field.Exported() && !field.Embedded() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
			Doc:      a.fieldDocs[field.Origin()],
		})
	}
}

// sealedVariants lists the package's named types implementing a sealed
// interface, in declaration order.
func (a *Analyzer) sealedVariants(named *types.Named, iface *types.Interface) []TypeID {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var found []*types.TypeName

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() || types.Identical(tn.Type(), named) {
			continue
		}

		candidate, ok := tn.Type().(*types.Named)
		if !ok || candidate.TypeParams().Len() > 0 {
			continue
		}

		if _, isIface := candidate.Underlying().(*types.Interface); isIface {
			continue
		}

		if types.Implements(candidate, iface) || types.Implements(types.NewPointer(candidate), iface) {
			found = append(found, tn)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Pos() < found[j].Pos()
	})

	ids := make([]TypeID, 0, len(found))
	for _, tn := range found {
		ids = append(ids, a.analyzeType(tn.Type()).ID)
	}

	return ids
}

func (a *Analyzer) implements(t types.Type, iface *types.Interface) bool {
	return types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface)
}

// enumValues returns the exported constants declared with the named type.
func enumValues(named *types.Named) []EnumValue {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []*types.Const

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && c.Exported() && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}

	sort.Slice(consts, func(i, j int) bool {
		return consts[i].Pos() < consts[j].Pos()
	})

	values := make([]EnumValue, 0, len(consts))
	for _, c := range consts {
		values = append(values, EnumValue{Name: c.Name(), Value: c.Val()})
	}

	return values
}

func isSealed(iface *types.Interface) bool {
	for i := range iface.NumMethods() {
		if !iface.Method(i).Exported() {
			return true
		}
	}

	return false
}

func namedID(named *types.Named) TypeID {
	obj := named.Obj()

	id := TypeID{Name: obj.Name()}
	if obj.Pkg() != nil {
		id.PkgPath = obj.Pkg().Path()
	}

	if args := named.TypeArgs(); args.Len() > 0 {
		parts := make([]string, args.Len())
		for i := range args.Len() {
			parts[i] = types.TypeString(args.At(i), qualifyByName)
		}

		id.Name += "[" + strings.Join(parts, ",") + "]"
	}

	return id
}

func qualifyByName(pkg *types.Package) string {
	return pkg.Name()
}

// newTextMarshaler builds the encoding.TextMarshaler interface without
// requiring the encoding package to be loaded.
func newTextMarshaler() *types.Interface {
	results := types.NewTuple(
		types.NewVar(token.NoPos, nil, "", types.NewSlice(types.Typ[types.Byte])),
		types.NewVar(token.NoPos, nil, "", types.Universe.Lookup("error").Type()),
	)
	sig := types.NewSignatureType(nil, nil, nil, nil, results, false)

	iface := types.NewInterfaceType([]*types.Func{types.NewFunc(token.NoPos, nil, "MarshalText", sig)}, nil)

	return iface.Complete()
}
