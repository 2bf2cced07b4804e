package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/nix"
)

func def(name string, refs ...string) *nix.Definition {
	d := &nix.Definition{ID: analyze.TypeID{PkgPath: "example.com/x", Name: name}, Name: name}
	for _, r := range refs {
		d.Refs = append(d.Refs, analyze.TypeID{PkgPath: "example.com/x", Name: r})
	}

	return d
}

func names(defs []*nix.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}

	return out
}

func TestOrder_Insertion(t *testing.T) {
	defs := []*nix.Definition{def("app", "server"), def("server")}

	ordered, cycles := Order(defs, Insertion)
	assert.Equal(t, []string{"app", "server"}, names(ordered))
	assert.Empty(t, cycles)

	// the input slice is not shared
	ordered[0] = nil
	assert.NotNil(t, defs[0])
}

func TestOrder_TopologicalNested(t *testing.T) {
	defs := []*nix.Definition{def("app", "server"), def("server")}

	ordered, cycles := Order(defs, Topological)
	assert.Equal(t, []string{"server", "app"}, names(ordered))
	assert.Empty(t, cycles)
}

func TestOrder_TopologicalInvariant(t *testing.T) {
	defs := []*nix.Definition{
		def("root", "a", "b", "c"),
		def("a", "c", "d"),
		def("b", "d"),
		def("c"),
		def("d", "c"),
		def("unreferenced", "b"),
	}

	ordered, cycles := Order(defs, Topological)
	require.Len(t, ordered, len(defs))
	assert.Empty(t, cycles)

	pos := make(map[analyze.TypeID]int)
	for i, d := range ordered {
		pos[d.ID] = i
	}

	for _, d := range defs {
		for _, ref := range d.Refs {
			assert.Less(t, pos[ref], pos[d.ID], "%s must follow %s", d.Name, ref.Name)
		}
	}

	assert.Equal(t, []string{"c", "d", "a", "b", "root", "unreferenced"}, names(ordered))
}

func TestOrder_SelfReferenceIsNotACycle(t *testing.T) {
	defs := []*nix.Definition{def("node", "node")}

	ordered, cycles := Order(defs, Topological)
	assert.Equal(t, []string{"node"}, names(ordered))
	assert.Empty(t, cycles)
}

func TestOrder_MutualRecursion(t *testing.T) {
	defs := []*nix.Definition{def("a", "b"), def("b", "a")}

	ordered, cycles := Order(defs, Topological)
	assert.Equal(t, []string{"b", "a"}, names(ordered))
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b"}, names(cycles[0]))
}

func TestOrder_UnknownReferencesIgnored(t *testing.T) {
	defs := []*nix.Definition{def("a", "elsewhere")}

	ordered, cycles := Order(defs, Topological)
	assert.Equal(t, []string{"a"}, names(ordered))
	assert.Empty(t, cycles)
}

func TestTopoSort(t *testing.T) {
	order, cycles, err := topoSort(0, nil)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Nil(t, cycles)

	_, _, err = topoSort(1, func(int) []int { return []int{3} })
	require.Error(t, err)

	// 0 -> 1 -> 2 -> 0 plus 3 -> 1
	deps := [][]int{{1}, {2}, {0}, {1}}
	order, cycles, err = topoSort(4, func(i int) []int { return deps[i] })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0, 3}, order)
	assert.Equal(t, [][]int{{0, 1, 2}}, cycles)
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]Policy{
		"":            Topological,
		"topological": Topological,
		"Topo":        Topological,
		"insertion":   Insertion,
		" insert ":    Insertion,
	}

	for in, want := range tests {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("random")
	require.ErrorIs(t, err, errs.ErrInvalidArguments)

	assert.Equal(t, "topological", Topological.String())
	assert.Equal(t, "insertion", Insertion.String())
	assert.Equal(t, "unknown", Policy(9).String())
}
