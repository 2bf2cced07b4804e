package order

import (
	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/nix"
)

// Order returns defs in emission order under policy. defs must be in
// first-registration order, which breaks ties. Under Topological the cycles
// among definitions are returned as well, each listed along its reference
// path; the ordering still contains every definition exactly once.
func Order(defs []*nix.Definition, policy Policy) ([]*nix.Definition, [][]*nix.Definition) {
	if policy == Insertion {
		return append([]*nix.Definition(nil), defs...), nil
	}

	index := make(map[analyze.TypeID]int, len(defs))
	for i, d := range defs {
		index[d.ID] = i
	}

	// the error is impossible: only indices of known definitions are yielded
	indices, cycles, _ := topoSort(len(defs), func(i int) []int {
		var deps []int

		for _, ref := range defs[i].Refs {
			if j, ok := index[ref]; ok {
				deps = append(deps, j)
			}
		}

		return deps
	})

	ordered := make([]*nix.Definition, len(indices))
	for i, j := range indices {
		ordered[i] = defs[j]
	}

	var cyclic [][]*nix.Definition

	for _, c := range cycles {
		members := make([]*nix.Definition, len(c))
		for i, j := range c {
			members[i] = defs[j]
		}

		cyclic = append(cyclic, members)
	}

	return ordered, cyclic
}
