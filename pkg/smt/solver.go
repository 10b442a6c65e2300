package smt

import (
	"context"
	"fmt"
	"slices"

	"github.com/limaJavier/dfainference/pkg/formula"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/samber/lo"
)

type Solver interface {
	Solve(context.Context, *Problem) (Model, error) // Returns a model if the problem is satisfiable, else returns nil
}

var solverConstructors = map[string]func() Solver{
	"finite": func() Solver { return NewFiniteSolver(formula.NewCircuitSolver(sat.NewGiniSolver())) },
	"z3":     NewZ3Solver,
	"cvc5":   NewCVC5Solver,
}

func Names() []string {
	names := lo.Keys(solverConstructors)
	slices.Sort(names)
	return names
}

func New(name string) (Solver, error) {
	constructor, ok := solverConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown smt solver %q (available: %v)", name, Names())
	}
	return constructor(), nil
}
