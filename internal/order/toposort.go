package order

import (
	"fmt"
	"sort"
)

const (
	unvisited = iota
	visiting
	visited
)

// topoSort returns node indices so that every dependency precedes its
// dependents, using a depth-first walk.
//
// Nodes are by index in the input slice.
// depsFn(i) yields indices that must come before i. Self-dependencies are
// ignored.
//
// The result is deterministic: roots and dependencies are visited by
// ascending index. A dependency found on the current walk path closes a
// cycle; the cycle is recorded (path order, starting at the revisited node)
// and the walk continues, so every node still appears exactly once.
func topoSort(n int, depsFn func(i int) []int) ([]int, [][]int, error) {
	if n <= 0 {
		return nil, nil, nil
	}

	deps := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			if d != i {
				deps[i] = append(deps[i], d)
			}
		}

		// Deterministic traversal.
		sort.Ints(deps[i])
	}

	var (
		state  = make([]int, n)
		order  = make([]int, 0, n)
		stack  []int
		cycles [][]int
		visit  func(i int)
	)

	visit = func(i int) {
		state[i] = visiting
		stack = append(stack, i)

		for _, d := range deps[i] {
			switch state[d] {
			case unvisited:
				visit(d)
			case visiting:
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == d {
						cycles = append(cycles, append([]int(nil), stack[k:]...))
						break
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[i] = visited
		order = append(order, i)
	}

	for i := range n {
		if state[i] == unvisited {
			visit(i)
		}
	}

	return order, cycles, nil
}
