package passive

import (
	"github.com/limaJavier/dfainference/pkg/dfa"
)

// heuleVerwerCNF makes the transition function explicit: x(u, q) maps prefixes to states, d(p, a, q) is the
// transition function and f(q) the acceptance. States are numbered by first use along the prefixes in shortlex order
func heuleVerwerCNF(enc *encoding) cnfEncoding {
	x := newIndexer(0, len(enc.prefixes), enc.states)
	d := newIndexer(x.End(), enc.states, len(enc.alphabet), enc.states)
	f := newIndexer(d.End(), enc.states)

	return cnfEncoding{
		variables: f.End(),
		constraints: []func(state constraintState) [][]int64{
			atLeastOneStateConstraints,
			atMostOneStateConstraints,
			transitionConstraints,
			propagationConstraints,
			acceptanceConstraints,
			symmetryBreakingConstraints,
		},
		state: constraintState{enc: enc, x: x, d: d, f: f},
		decode: func(values []bool) (*dfa.DFA, error) {
			stateOf, err := enc.oneHotStates(func(u, q int) bool { return values[x.Index(u, q)] })
			if err != nil {
				return nil, err
			}
			delta, accepting, err := enc.transitionTable(
				func(p, a, q int) bool { return values[d.Index(p, a, q)] },
				func(q int) bool { return values[f.Index(q)] },
			)
			if err != nil {
				return nil, err
			}
			return enc.automatonFromTable(stateOf[0], delta, accepting)
		},
	}
}

// Every (state, symbol) pair has exactly one successor
func transitionConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for p := range state.enc.states {
		for a := range state.enc.alphabet {
			atLeastOne := make([]int64, 0, state.enc.states)
			for q := range state.enc.states {
				atLeastOne = append(atLeastOne, state.d.Index(p, a, q))
				for r := q + 1; r < state.enc.states; r++ {
					clauses = append(clauses, []int64{-state.d.Index(p, a, q), -state.d.Index(p, a, r)})
				}
			}
			clauses = append(clauses, atLeastOne)
		}
	}
	return clauses
}

// The state of ua follows the transition of the state of u on a:
// x(u, p) & d(p, a, q) -> x(ua, q) and x(u, p) & x(ua, q) -> d(p, a, q)
func propagationConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for ua := 1; ua < len(state.enc.prefixes); ua++ {
		u, a := state.enc.parent[ua], state.enc.symbol[ua]
		for p := range state.enc.states {
			for q := range state.enc.states {
				clauses = append(clauses,
					[]int64{-state.x.Index(u, p), -state.d.Index(p, a, q), state.x.Index(ua, q)},
					[]int64{-state.x.Index(u, p), -state.x.Index(ua, q), state.d.Index(p, a, q)},
				)
			}
		}
	}
	return clauses
}

// Positive words reach accepting states, negative words rejecting ones
func acceptanceConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, (len(state.enc.positive)+len(state.enc.negative))*state.enc.states)
	for q := range state.enc.states {
		for _, u := range state.enc.positive {
			clauses = append(clauses, []int64{-state.x.Index(u, q), state.f.Index(q)})
		}
		for _, v := range state.enc.negative {
			clauses = append(clauses, []int64{-state.x.Index(v, q), -state.f.Index(q)})
		}
	}
	return clauses
}

// A prefix reaches state q > 0 only if an earlier prefix reaches q-1. The empty prefix thus reaches state 0
func symmetryBreakingConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for i := range state.enc.prefixes {
		for q := 1; q < state.enc.states; q++ {
			clause := make([]int64, 0, i+1)
			clause = append(clause, -state.x.Index(i, q))
			for j := range i {
				clause = append(clause, state.x.Index(j, q-1))
			}
			clauses = append(clauses, clause)
		}
	}
	return clauses
}
