package passive

import (
	"github.com/limaJavier/dfainference/pkg/dfa"
)

// unaryCNF numbers states in unary: x(u, q) holds when prefix u reaches state q
func unaryCNF(enc *encoding) cnfEncoding {
	x := newIndexer(0, len(enc.prefixes), enc.states)

	return cnfEncoding{
		variables: x.End(),
		constraints: []func(state constraintState) [][]int64{
			atLeastOneStateConstraints,
			atMostOneStateConstraints,
			unaryCongruenceConstraints,
			unaryAcceptanceConstraints,
		},
		state: constraintState{enc: enc, x: x},
		decode: func(values []bool) (*dfa.DFA, error) {
			stateOf, err := enc.oneHotStates(func(u, q int) bool { return values[x.Index(u, q)] })
			if err != nil {
				return nil, err
			}
			return enc.automatonFromStates(stateOf)
		},
	}
}

// Every prefix reaches at least one state
func atLeastOneStateConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, len(state.enc.prefixes))
	for u := range state.enc.prefixes {
		clause := make([]int64, 0, state.enc.states)
		for q := range state.enc.states {
			clause = append(clause, state.x.Index(u, q))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// No prefix reaches two states
func atMostOneStateConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for u := range state.enc.prefixes {
		for q := range state.enc.states {
			for r := q + 1; r < state.enc.states; r++ {
				clauses = append(clauses, []int64{-state.x.Index(u, q), -state.x.Index(u, r)})
			}
		}
	}
	return clauses
}

// Prefixes u and v reaching the same state p take ua and va to the same state:
// x(u, p) & x(v, p) -> (x(ua, q) <-> x(va, q))
func unaryCongruenceConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for _, pair := range state.enc.siblings {
		ua, va := pair[0], pair[1]
		u, v := state.enc.parent[ua], state.enc.parent[va]
		for p := range state.enc.states {
			for q := range state.enc.states {
				clauses = append(clauses,
					[]int64{-state.x.Index(u, p), -state.x.Index(v, p), -state.x.Index(ua, q), state.x.Index(va, q)},
					[]int64{-state.x.Index(u, p), -state.x.Index(v, p), state.x.Index(ua, q), -state.x.Index(va, q)},
				)
			}
		}
	}
	return clauses
}

// A positive and a negative word never reach the same state
func unaryAcceptanceConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, len(state.enc.positive)*len(state.enc.negative)*state.enc.states)
	for _, u := range state.enc.positive {
		for _, v := range state.enc.negative {
			for q := range state.enc.states {
				clauses = append(clauses, []int64{-state.x.Index(u, q), -state.x.Index(v, q)})
			}
		}
	}
	return clauses
}
