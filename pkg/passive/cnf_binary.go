package passive

import (
	"cmp"
	"slices"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/samber/lo"
)

// binaryCNF numbers states in binary with ceil(log2(n)) bits b(u, k) per prefix. Comparisons between the states of two
// prefixes go through equality variables e(u, v, k) <-> (b(u, k) <-> b(v, k))
func binaryCNF(enc *encoding) cnfEncoding {
	width := bits(enc.states)
	b := newIndexer(0, len(enc.prefixes), width)

	// Allocate the equality variables of every compared pair
	equalities := make(map[[2]int]int64)
	next := b.End() + 1
	compare := func(u, v int) {
		if u > v {
			u, v = v, u
		}
		if _, ok := equalities[[2]int{u, v}]; !ok {
			equalities[[2]int{u, v}] = next
			next += int64(width)
		}
	}
	for _, pair := range enc.siblings {
		compare(enc.parent[pair[0]], enc.parent[pair[1]])
		compare(pair[0], pair[1])
	}
	for _, u := range enc.positive {
		for _, v := range enc.negative {
			compare(u, v)
		}
	}

	return cnfEncoding{
		variables: next - 1,
		constraints: []func(state constraintState) [][]int64{
			equalityConstraints,
			binaryRangeConstraints,
			binaryCongruenceConstraints,
			binaryAcceptanceConstraints,
		},
		state: constraintState{enc: enc, b: b, equalities: equalities},
		decode: func(values []bool) (*dfa.DFA, error) {
			return enc.automatonFromStates(enc.binaryStates(func(u, k int) bool { return values[b.Index(u, k)] }))
		},
	}
}

// e(u, v, k) <-> (b(u, k) <-> b(v, k))
func equalityConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, 4*len(state.equalities)*state.b.dimensions[1])
	pairs := lo.Keys(state.equalities)
	slices.SortFunc(pairs, func(a, b [2]int) int { return cmp.Compare(state.equalities[a], state.equalities[b]) })
	for _, pair := range pairs {
		u, v := pair[0], pair[1]
		for k := range state.b.dimensions[1] {
			e, left, right := state.equal(u, v, k), state.b.Index(u, k), state.b.Index(v, k)
			clauses = append(clauses,
				[]int64{-e, -left, right},
				[]int64{-e, left, -right},
				[]int64{e, left, right},
				[]int64{e, -left, -right},
			)
		}
	}
	return clauses
}

// Values in [n, 2^bits) are not states
func binaryRangeConstraints(state constraintState) [][]int64 {
	width := state.b.dimensions[1]
	clauses := make([][]int64, 0)
	for u := range state.enc.prefixes {
		for value := state.enc.states; value < 1<<width; value++ {
			clause := make([]int64, width)
			for k := range width {
				if value&(1<<k) != 0 {
					clause[k] = -state.b.Index(u, k)
				} else {
					clause[k] = state.b.Index(u, k)
				}
			}
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

// Prefixes u and v reaching the same state take ua and va to the same state:
// for every bit j, e(u, v, 0) & ... & e(u, v, m-1) -> e(ua, va, j)
func binaryCongruenceConstraints(state constraintState) [][]int64 {
	width := state.b.dimensions[1]
	clauses := make([][]int64, 0)
	for _, pair := range state.enc.siblings {
		ua, va := pair[0], pair[1]
		u, v := state.enc.parent[ua], state.enc.parent[va]
		for j := range width {
			clause := make([]int64, 0, width+1)
			for k := range width {
				clause = append(clause, -state.equal(u, v, k))
			}
			clauses = append(clauses, append(clause, state.equal(ua, va, j)))
		}
	}
	return clauses
}

// A positive and a negative word differ on at least one bit. With a single state there are no bits and the clause is
// empty: both sets cannot be non-empty
func binaryAcceptanceConstraints(state constraintState) [][]int64 {
	width := state.b.dimensions[1]
	clauses := make([][]int64, 0, len(state.enc.positive)*len(state.enc.negative))
	for _, u := range state.enc.positive {
		for _, v := range state.enc.negative {
			clause := make([]int64, 0, width)
			for k := range width {
				clause = append(clause, -state.equal(u, v, k))
			}
			clauses = append(clauses, clause)
		}
	}
	return clauses
}
