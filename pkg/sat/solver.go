package sat

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type SATSolver interface {
	Solve(context.Context, SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

var solverConstructors = map[string]func() SATSolver{
	"gini":          NewGiniSolver,
	"gophersat":     NewGophersatSolver,
	"kissat":        NewKissatSolver,
	"cadical":       NewCadicalSolver,
	"cryptominisat": NewCryptominisatSolver,
	"minisat":       NewMinisatSolver,
	"glucose":       NewGlucoseSolver,
	"slime":         NewSlimeSolver,
	"ortoolsat":     NewOrtoolsatSolver,
}

// Names lists the registered solvers
func Names() []string {
	names := lo.Keys(solverConstructors)
	slices.Sort(names)
	return names
}

func New(name string) (SATSolver, error) {
	constructor, ok := solverConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown SAT solver %q (available: %v)", name, Names())
	}
	return constructor(), nil
}

// hasEmptyClause reports a trivially unsatisfiable instance
func hasEmptyClause(sat SAT) bool {
	return lo.SomeBy(sat.Clauses, func(clause []int64) bool {
		return len(clause) == 0
	})
}
