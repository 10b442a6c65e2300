package passive

import (
	"context"
	"fmt"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/formula"
)

type formulaEncoding struct {
	constraints []formula.Formula
	decode      func(assignment map[string]bool) (*dfa.DFA, error)
}

type formulaMethod struct {
	method
	solver formula.Solver
	encode func(enc *encoding) formulaEncoding
}

func nonCNF(encode func(enc *encoding) formulaEncoding) constructor {
	return func(base method, config options) Method {
		return &formulaMethod{method: base, solver: config.formulaSolver, encode: encode}
	}
}

func (method *formulaMethod) ConstructDFA(ctx context.Context) (*dfa.DFA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instance := method.encode(method.enc)
	f := formula.And(instance.constraints...)
	method.statistics = Statistics{Variables: len(formula.Vars(f)), Constraints: len(instance.constraints)}

	start := time.Now()
	assignment, err := method.solver.Solve(ctx, f)
	method.statistics.SolveTime = time.Since(start)
	if err != nil {
		return nil, method.solved(ctx, err)
	} else if assignment == nil {
		return nil, nil
	}

	return method.verify(instance.decode(assignment))
}

func xVar(u, q int) formula.Formula {
	return formula.Var(fmt.Sprintf("x_%d_%d", u, q))
}

func bVar(u, k int) formula.Formula {
	return formula.Var(fmt.Sprintf("b_%d_%d", u, k))
}

func dVar(p, a, q int) formula.Formula {
	return formula.Var(fmt.Sprintf("d_%d_%d_%d", p, a, q))
}

func fVar(q int) formula.Formula {
	return formula.Var(fmt.Sprintf("f_%d", q))
}

func lookup(assignment map[string]bool, variable formula.Formula) bool {
	return assignment[variable.String()]
}

// exactlyOneState maps every prefix to exactly one state
func exactlyOneState(enc *encoding) []formula.Formula {
	constraints := make([]formula.Formula, 0, len(enc.prefixes))
	for u := range enc.prefixes {
		states := make([]formula.Formula, enc.states)
		for q := range enc.states {
			states[q] = xVar(u, q)
		}
		constraints = append(constraints, formula.ExactlyOne(states...))
	}
	return constraints
}

func unaryFormula(enc *encoding) formulaEncoding {
	constraints := exactlyOneState(enc)

	for _, pair := range enc.siblings {
		ua, va := pair[0], pair[1]
		u, v := enc.parent[ua], enc.parent[va]
		for p := range enc.states {
			successors := make([]formula.Formula, enc.states)
			for q := range enc.states {
				successors[q] = formula.Iff(xVar(ua, q), xVar(va, q))
			}
			constraints = append(constraints, formula.Implies(formula.And(xVar(u, p), xVar(v, p)), formula.And(successors...)))
		}
	}

	for _, u := range enc.positive {
		for _, v := range enc.negative {
			for q := range enc.states {
				constraints = append(constraints, formula.Not(formula.And(xVar(u, q), xVar(v, q))))
			}
		}
	}

	return formulaEncoding{
		constraints: constraints,
		decode: func(assignment map[string]bool) (*dfa.DFA, error) {
			stateOf, err := enc.oneHotStates(func(u, q int) bool { return lookup(assignment, xVar(u, q)) })
			if err != nil {
				return nil, err
			}
			return enc.automatonFromStates(stateOf)
		},
	}
}

func binaryFormula(enc *encoding) formulaEncoding {
	width := bits(enc.states)
	equal := func(u, v int) formula.Formula {
		conjuncts := make([]formula.Formula, width)
		for k := range width {
			conjuncts[k] = formula.Iff(bVar(u, k), bVar(v, k))
		}
		return formula.And(conjuncts...)
	}

	constraints := []formula.Formula{}
	for u := range enc.prefixes {
		for value := enc.states; value < 1<<width; value++ {
			literals := make([]formula.Formula, width)
			for k := range width {
				if value&(1<<k) != 0 {
					literals[k] = bVar(u, k)
				} else {
					literals[k] = formula.Not(bVar(u, k))
				}
			}
			constraints = append(constraints, formula.Not(formula.And(literals...)))
		}
	}

	for _, pair := range enc.siblings {
		ua, va := pair[0], pair[1]
		constraints = append(constraints, formula.Implies(equal(enc.parent[ua], enc.parent[va]), equal(ua, va)))
	}

	for _, u := range enc.positive {
		for _, v := range enc.negative {
			constraints = append(constraints, formula.Not(equal(u, v)))
		}
	}

	return formulaEncoding{
		constraints: constraints,
		decode: func(assignment map[string]bool) (*dfa.DFA, error) {
			return enc.automatonFromStates(enc.binaryStates(func(u, k int) bool { return lookup(assignment, bVar(u, k)) }))
		},
	}
}

func heuleVerwerFormula(enc *encoding) formulaEncoding {
	constraints := exactlyOneState(enc)

	for p := range enc.states {
		for a := range enc.alphabet {
			successors := make([]formula.Formula, enc.states)
			for q := range enc.states {
				successors[q] = dVar(p, a, q)
			}
			constraints = append(constraints, formula.ExactlyOne(successors...))
		}
	}

	for ua := 1; ua < len(enc.prefixes); ua++ {
		u, a := enc.parent[ua], enc.symbol[ua]
		for p := range enc.states {
			for q := range enc.states {
				constraints = append(constraints,
					formula.Implies(formula.And(xVar(u, p), dVar(p, a, q)), xVar(ua, q)),
					formula.Implies(formula.And(xVar(u, p), xVar(ua, q)), dVar(p, a, q)),
				)
			}
		}
	}

	for q := range enc.states {
		for _, u := range enc.positive {
			constraints = append(constraints, formula.Implies(xVar(u, q), fVar(q)))
		}
		for _, v := range enc.negative {
			constraints = append(constraints, formula.Implies(xVar(v, q), formula.Not(fVar(q))))
		}
	}

	for i := range enc.prefixes {
		for q := 1; q < enc.states; q++ {
			earlier := make([]formula.Formula, i)
			for j := range i {
				earlier[j] = xVar(j, q-1)
			}
			constraints = append(constraints, formula.Implies(xVar(i, q), formula.Or(earlier...)))
		}
	}

	return formulaEncoding{
		constraints: constraints,
		decode: func(assignment map[string]bool) (*dfa.DFA, error) {
			stateOf, err := enc.oneHotStates(func(u, q int) bool { return lookup(assignment, xVar(u, q)) })
			if err != nil {
				return nil, err
			}
			delta, accepting, err := enc.transitionTable(
				func(p, a, q int) bool { return lookup(assignment, dVar(p, a, q)) },
				func(q int) bool { return lookup(assignment, fVar(q)) },
			)
			if err != nil {
				return nil, err
			}
			return enc.automatonFromTable(stateOf[0], delta, accepting)
		},
	}
}
