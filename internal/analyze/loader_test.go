package analyze

import (
	"go/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nixos-type-generator/internal/errs"
)

const (
	basicPkg       = "nixos-type-generator/examples/basic"
	enumsPkg       = "nixos-type-generator/examples/enums"
	collectionsPkg = "nixos-type-generator/examples/collections"
	recursivePkg   = "nixos-type-generator/examples/recursive"
)

func loadGraph(t *testing.T, patterns ...string) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(patterns...)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(t *testing.T, info *TypeInfo, name string) *FieldInfo {
	t.Helper()

	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i]
		}
	}

	require.Failf(t, "field not found", "%s has no field %s", info.ID, name)

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadGraph(t, basicPkg, enumsPkg)

	assert.Contains(t, graph.Packages, basicPkg)
	assert.Contains(t, graph.Packages, enumsPkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: basicPkg, Name: "Server"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: enumsPkg, Name: "Level"})
	assert.Contains(t, graph.Packages[basicPkg].Types, TypeID{PkgPath: basicPkg, Name: "App"})
}

func TestAnalyzer_LoadPackagesError(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("nixos-type-generator/examples/does-not-exist")
	require.ErrorIs(t, err, errs.ErrLoadPackages)
}

func TestAnalyzer_StructFields(t *testing.T) {
	graph := loadGraph(t, basicPkg)

	server := graph.GetType(TypeID{PkgPath: basicPkg, Name: "Server"})
	require.NotNil(t, server)
	assert.Equal(t, TypeKindStruct, server.Kind)
	require.Len(t, server.Fields, 2)
	assert.Equal(t, "Enable", server.Fields[0].Name)
	assert.Equal(t, "Port", server.Fields[1].Name)
	assert.Equal(t, "8080", server.Fields[1].GetTag("nixos_default"))
	assert.True(t, server.Fields[1].HasTag("nixos_description"))
	assert.False(t, server.Fields[1].HasTag("json"))
}

func TestAnalyzer_DocsAndDirectives(t *testing.T) {
	graph := loadGraph(t, basicPkg)

	settings := graph.GetType(TypeID{PkgPath: basicPkg, Name: "Settings"})
	require.NotNil(t, settings)
	assert.Equal(t, "Settings uses every field annotation.", settings.Doc)
	assert.Equal(t, []string{"nixos:autodoc"}, settings.Directives)

	host := findField(t, settings, "Host")
	assert.Equal(t, "Host name to bind.\nResolved at startup.", host.Doc)

	interval := findField(t, settings, "Interval")
	assert.Equal(t, "trailing comment used as documentation", interval.Doc)

	server := graph.GetType(TypeID{PkgPath: basicPkg, Name: "Server"})
	assert.Empty(t, server.Directives)
}

func TestAnalyzer_EmbeddedField(t *testing.T) {
	graph := loadGraph(t, basicPkg)

	service := graph.GetType(TypeID{PkgPath: basicPkg, Name: "Service"})
	require.NotNil(t, service)

	named := findField(t, service, "Named")
	assert.True(t, named.Embedded)
	assert.Equal(t, TypeKindStruct, named.Type.Kind)
}

func TestAnalyzer_PointerAndSelfReference(t *testing.T) {
	graph := loadGraph(t, recursivePkg)

	node := graph.GetType(TypeID{PkgPath: recursivePkg, Name: "Node"})
	require.NotNil(t, node)

	next := findField(t, node, "Next")
	assert.Equal(t, TypeKindPointer, next.Type.Kind)
	assert.Same(t, node, next.Type.ElemType)
}

func TestAnalyzer_Enums(t *testing.T) {
	graph := loadGraph(t, enumsPkg)

	level := graph.GetType(TypeID{PkgPath: enumsPkg, Name: "Level"})
	require.NotNil(t, level)
	assert.True(t, level.IsEnum())
	require.Len(t, level.Enum, 3)
	assert.Equal(t, "LevelDebug", level.Enum[0].Name)
	assert.Equal(t, "debug", constant.StringVal(level.Enum[0].Value))
	assert.Equal(t, "LevelWarn", level.Enum[2].Name)

	priority := graph.GetType(TypeID{PkgPath: enumsPkg, Name: "Priority"})
	require.NotNil(t, priority)
	require.Len(t, priority.Enum, 2)

	v, ok := constant.Int64Val(priority.Enum[1].Value)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestAnalyzer_SealedInterface(t *testing.T) {
	graph := loadGraph(t, enumsPkg)

	action := graph.GetType(TypeID{PkgPath: enumsPkg, Name: "Action"})
	require.NotNil(t, action)
	assert.Equal(t, TypeKindInterface, action.Kind)
	assert.True(t, action.Sealed)
	assert.Equal(t, []TypeID{
		{PkgPath: enumsPkg, Name: "Start"},
		{PkgPath: enumsPkg, Name: "Stop"},
		{PkgPath: enumsPkg, Name: "Execute"},
	}, action.Variants)
}

func TestAnalyzer_CollectionKinds(t *testing.T) {
	graph := loadGraph(t, collectionsPkg)

	coll := graph.GetType(TypeID{PkgPath: collectionsPkg, Name: "Collections"})
	require.NotNil(t, coll)

	assert.Equal(t, TypeKindArray, findField(t, coll, "Ports").Type.Kind)

	limits := findField(t, coll, "Limits").Type
	assert.Equal(t, TypeKindMap, limits.Kind)
	assert.Equal(t, TypeKindBasic, limits.KeyType.Kind)

	started := findField(t, coll, "Started").Type
	assert.Equal(t, TypeID{PkgPath: "time", Name: "Time"}, started.ID)
	assert.True(t, started.TextMarshaler)

	timeout := findField(t, coll, "Timeout").Type
	assert.Equal(t, TypeKindAlias, timeout.Kind)
	assert.False(t, timeout.IsEnum(), "constants of external packages are not enums")

	box := findField(t, coll, "Box").Type
	assert.Equal(t, "Box[int]", box.ID.Name)
	assert.Equal(t, TypeKindStruct, box.Kind)

	generic := graph.GetType(TypeID{PkgPath: collectionsPkg, Name: "Box"})
	require.NotNil(t, generic)
	assert.Equal(t, TypeKindTypeParam, findField(t, generic, "Value").Type.Kind)

	assert.Equal(t, TypeKindUnknown, findField(t, coll, "Updates").Type.Kind)
	assert.Equal(t, TypeKindInterface, findField(t, coll, "Anything").Type.Kind)
}

func TestTypeGraph_FindType(t *testing.T) {
	graph := loadGraph(t, basicPkg, recursivePkg)

	info, err := graph.FindType(basicPkg + ".Server")
	require.NoError(t, err)
	assert.Equal(t, "Server", info.ID.Name)

	info, err = graph.FindType("recursive.Node")
	require.NoError(t, err)
	assert.Equal(t, recursivePkg, info.ID.PkgPath)

	info, err = graph.FindType("App")
	require.NoError(t, err)
	assert.Equal(t, basicPkg, info.ID.PkgPath)

	_, err = graph.FindType("basic.Missing")
	require.ErrorIs(t, err, errs.ErrTypeNotFound)
}

func TestParseTypeID(t *testing.T) {
	id, err := ParseTypeID(basicPkg + ".App")
	require.NoError(t, err)
	assert.Equal(t, TypeID{PkgPath: basicPkg, Name: "App"}, id)
	assert.Equal(t, "basic.App", id.Short())
	assert.False(t, id.IsZero())

	_, err = ParseTypeID("App")
	require.ErrorIs(t, err, errs.ErrTypeNotFound)
}
