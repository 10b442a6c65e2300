package formula

import (
	"context"
	"fmt"
	"slices"

	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/samber/lo"
)

type Solver interface {
	Solve(context.Context, Formula) (map[string]bool, error) // Returns an assignment of every variable of the formula if satisfiable, else returns nil
}

var solverConstructors = map[string]func() Solver{
	"gophersat": NewGophersatSolver,
	"circuit":   func() Solver { return NewCircuitSolver(sat.NewGiniSolver()) },
	"bdd":       NewBDDSolver,
	"limboole":  NewLimbooleSolver,
}

func Names() []string {
	names := lo.Keys(solverConstructors)
	slices.Sort(names)
	return names
}

func New(name string) (Solver, error) {
	constructor, ok := solverConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown formula solver %q (available: %v)", name, Names())
	}
	return constructor(), nil
}

// constantAssignment answers formulas reduced to a constant: every variable is false
func constantAssignment(f Formula) (map[string]bool, bool) {
	value, ok := f.(constant)
	if !ok {
		return nil, false
	}
	if !value {
		return nil, true
	}
	return map[string]bool{}, true
}

// complete assigns false to the variables of f the model does not mention
func complete(f Formula, model map[string]bool) map[string]bool {
	assignment := make(map[string]bool)
	for _, name := range Vars(f) {
		assignment[name] = model[name]
	}
	return assignment
}
