package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/descriptor"
	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/errs"
)

const (
	basicPkg       = "nixos-type-generator/examples/basic"
	enumsPkg       = "nixos-type-generator/examples/enums"
	collectionsPkg = "nixos-type-generator/examples/collections"
	misusePkg      = "nixos-type-generator/examples/misuse"
	recursivePkg   = "nixos-type-generator/examples/recursive"
)

func newBuilder(t *testing.T, patterns ...string) *descriptor.Builder {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages(patterns...)
	require.NoError(t, err)

	return descriptor.NewBuilder(graph)
}

func typeIDs(doc *Document) []string {
	ids := make([]string, len(doc.Types))
	for i, t := range doc.Types {
		ids[i] = t.ID
	}

	return ids
}

func TestExport_ReachableTypes(t *testing.T) {
	b := newBuilder(t, basicPkg, recursivePkg)

	doc, err := Export(b, []analyze.TypeID{
		{PkgPath: basicPkg, Name: "Cluster"},
		{PkgPath: recursivePkg, Name: "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, []string{basicPkg + ".Cluster", recursivePkg + ".A"}, doc.Roots)
	assert.Equal(t, []string{
		basicPkg + ".Cluster",
		recursivePkg + ".A",
		basicPkg + ".Server",
		recursivePkg + ".B",
	}, typeIDs(doc))

	cluster := doc.Types[0]
	assert.Equal(t, "record", cluster.Kind)
	require.Len(t, cluster.Fields, 2)
	assert.Equal(t, Field{Name: "Primary", Key: "primary", Type: "ref<basic.Server>"}, cluster.Fields[0])

	server := doc.Types[2]
	assert.Equal(t, "8080", server.Fields[1].Default)
	assert.Equal(t, "optional<ref<recursive.A>>", doc.Types[3].Fields[0].Type)
}

func TestExport_FieldMetadata(t *testing.T) {
	b := newBuilder(t, basicPkg)

	doc, err := Export(b, []analyze.TypeID{{PkgPath: basicPkg, Name: "Settings"}})
	require.NoError(t, err)
	require.Len(t, doc.Types, 1)

	settings := doc.Types[0]
	assert.True(t, settings.AutoDoc)

	fields := make(map[string]Field, len(settings.Fields))
	for _, f := range settings.Fields {
		fields[f.Name] = f
	}

	assert.NotContains(t, fields, "Secret")
	assert.Equal(t, []string{"optional"}, fields["Timeout"].Flags)
	assert.Equal(t, "optional<int>", fields["Timeout"].Type)
	assert.Equal(t, []string{"readOnly", "internal"}, fields["Token"].Flags)
	assert.Equal(t, "false", fields["Token"].Visible)
	assert.Equal(t, "path", fields["DataDir"].Type)
	assert.Equal(t, "mapping<string, string>", fields["Labels"].Type)
}

func TestExport_EnumsAndDiagnostics(t *testing.T) {
	b := newBuilder(t, enumsPkg, collectionsPkg)

	doc, err := Export(b, []analyze.TypeID{
		{PkgPath: enumsPkg, Name: "Action"},
		{PkgPath: collectionsPkg, Name: "Collections"},
	})
	require.NoError(t, err)

	action := doc.Types[0]
	assert.Equal(t, "enum", action.Kind)
	assert.Equal(t, []Variant{
		{Name: "Start", Value: `"Start"`},
		{Name: "Stop", Value: `"Stop"`},
		{Name: "Execute", Value: `"Execute"`, Data: "ref<enums.Execute>"},
	}, action.Variants)

	codes := make(map[string]int)
	for _, d := range doc.Diagnostics {
		codes[d.Code]++
	}

	assert.Equal(t, 1, codes[diagnostic.CodeDataVariant])
	assert.Equal(t, 1, codes[diagnostic.CodeNonTextKey])
	assert.Equal(t, 3, codes[diagnostic.CodeUnsupported])
}

func TestExportYAML(t *testing.T) {
	b := newBuilder(t, basicPkg, misusePkg)

	out, err := ExportYAML(b, []analyze.TypeID{{PkgPath: basicPkg, Name: "App"}})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Len(t, doc.Types, 2)
	assert.Contains(t, string(out), "type: ref<basic.Server>")

	out, err = ExportYAML(b, []analyze.TypeID{
		{PkgPath: misusePkg, Name: "Aggregate"},
		{PkgPath: basicPkg, Name: "Missing"},
	})
	require.ErrorIs(t, err, errs.ErrAnnotation)
	require.ErrorIs(t, err, errs.ErrTypeNotFound)
	assert.Contains(t, string(out), misusePkg+".Aggregate")
}

func TestFormat(t *testing.T) {
	str := descriptor.NewPrimitive(descriptor.PrimitiveString)

	assert.Equal(t, "sequence<string>", Format(descriptor.NewSequence(str)))
	assert.Equal(t, "mapping<int, string>",
		Format(descriptor.NewMapping(descriptor.NewPrimitive(descriptor.PrimitiveInt), str, false)))
	assert.Equal(t, "opaque<NIX005>", Format(descriptor.NewOpaque(diagnostic.CodeUnsupported, "chan")))
}
