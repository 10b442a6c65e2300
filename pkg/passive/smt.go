package passive

import (
	"context"
	"fmt"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/smt"
)

type smtEncoding struct {
	problem *smt.Problem
	decode  func(model smt.Model) (*dfa.DFA, error)
}

type smtMethod struct {
	method
	solver smt.Solver
	encode func(enc *encoding) smtEncoding
}

func smtFamily(encode func(enc *encoding) smtEncoding) constructor {
	return func(base method, config options) Method {
		return &smtMethod{method: base, solver: config.smtSolver, encode: encode}
	}
}

func (method *smtMethod) ConstructDFA(ctx context.Context) (*dfa.DFA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instance := method.encode(method.enc)
	variables := len(instance.problem.Consts())
	for _, function := range instance.problem.Funcs() {
		variables += len(function.Cells())
	}
	method.statistics = Statistics{Variables: variables, Constraints: len(instance.problem.Assertions())}

	start := time.Now()
	model, err := method.solver.Solve(ctx, instance.problem)
	method.statistics.SolveTime = time.Since(start)
	if err != nil {
		return nil, method.solved(ctx, err)
	} else if model == nil {
		return nil, nil
	}

	return method.verify(instance.decode(model))
}

// biermannProblem gives every prefix an integer state x_u in [0, n)
func biermannProblem(enc *encoding) smtEncoding {
	problem := smt.NewProblem()
	x := make([]smt.Term, len(enc.prefixes))
	for u := range enc.prefixes {
		x[u] = problem.Const(fmt.Sprintf("x_%d", u), enc.states)
	}

	// Congruence: x_u = x_v -> x_ua = x_va
	for _, pair := range enc.siblings {
		ua, va := pair[0], pair[1]
		problem.Assert(smt.Implies(smt.Eq(x[enc.parent[ua]], x[enc.parent[va]]), smt.Eq(x[ua], x[va])))
	}

	// Acceptance: x_u != x_v for u positive and v negative
	for _, u := range enc.positive {
		for _, v := range enc.negative {
			problem.Assert(smt.Distinct(x[u], x[v]))
		}
	}

	return smtEncoding{
		problem: problem,
		decode: func(model smt.Model) (*dfa.DFA, error) {
			stateOf := make([]int, len(enc.prefixes))
			for u := range enc.prefixes {
				state, err := model.Eval(x[u])
				if err != nil {
					return nil, err
				}
				stateOf[u] = state
			}
			return enc.automatonFromStates(stateOf)
		},
	}
}

// neiderJansenProblem uses uninterpreted functions x: prefix -> state, d: state x symbol -> state and
// f: state -> {0, 1}, symbols being their index in the alphabet
func neiderJansenProblem(enc *encoding) smtEncoding {
	problem := smt.NewProblem()
	n := enc.states
	x := problem.Func("x", []int{len(enc.prefixes)}, n)
	d := problem.Func("d", []int{n, len(enc.alphabet)}, n)
	f := problem.Func("f", []int{n}, 2)

	problem.Assert(smt.Less(x.Apply(smt.Int(0)), smt.Int(n)))
	for p := range n {
		for a := range enc.alphabet {
			problem.Assert(smt.Less(d.Apply(smt.Int(p), smt.Int(a)), smt.Int(n)))
		}
	}

	// x(ua) = d(x(u), a)
	for ua := 1; ua < len(enc.prefixes); ua++ {
		u, a := enc.parent[ua], enc.symbol[ua]
		problem.Assert(smt.Eq(x.Apply(smt.Int(ua)), d.Apply(x.Apply(smt.Int(u)), smt.Int(a))))
	}

	for _, u := range enc.positive {
		problem.Assert(smt.Not(smt.Eq(f.Apply(x.Apply(smt.Int(u))), smt.Int(0))))
	}
	for _, v := range enc.negative {
		problem.Assert(smt.Eq(f.Apply(x.Apply(smt.Int(v))), smt.Int(0)))
	}

	return smtEncoding{
		problem: problem,
		decode: func(model smt.Model) (*dfa.DFA, error) {
			initial, err := model.Value(x, 0)
			if err != nil {
				return nil, err
			}
			delta := make([][]int, n)
			accepting := make([]bool, n)
			for p := range n {
				delta[p] = make([]int, len(enc.alphabet))
				for a := range enc.alphabet {
					if delta[p][a], err = model.Value(d, p, a); err != nil {
						return nil, err
					}
				}
				acceptance, err := model.Value(f, p)
				if err != nil {
					return nil, err
				}
				accepting[p] = acceptance != 0
			}
			return enc.automatonFromTable(initial, delta, accepting)
		},
	}
}
