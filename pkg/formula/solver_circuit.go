package formula

import (
	"context"
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/samber/lo"
)

type circuitSolver struct {
	solver sat.SATSolver
}

// NewCircuitSolver builds the formula as a gini circuit and solves its Tseitin transformation with the given SAT solver
func NewCircuitSolver(solver sat.SATSolver) Solver {
	return &circuitSolver{solver: solver}
}

func (solver *circuitSolver) Solve(ctx context.Context, f Formula) (map[string]bool, error) {
	if assignment, ok := constantAssignment(f); ok {
		return assignment, nil
	}

	circuit := NewCircuit()
	root := circuit.Lit(f)
	satInstance := circuit.CNF(root)

	solution, err := solver.solver.Solve(ctx, satInstance)
	if err != nil {
		return nil, fmt.Errorf("cannot solve circuit: %w", err)
	} else if solution == nil {
		return nil, nil
	}

	values := solution.Values(satInstance.Variables)
	assignment := make(map[string]bool, len(circuit.inputs))
	for name, input := range circuit.inputs {
		assignment[name] = values[input.Var()]
	}
	return complete(f, assignment), nil
}

// Circuit translates formulas into an and-inverter graph sharing one input per variable name
type Circuit struct {
	c      *logic.C
	inputs map[string]z.Lit
}

func NewCircuit() *Circuit {
	return &Circuit{c: logic.NewC(), inputs: make(map[string]z.Lit)}
}

// Input returns the circuit input of the named variable
func (circuit *Circuit) Input(name string) z.Lit {
	input, ok := circuit.inputs[name]
	if !ok {
		input = circuit.c.Lit()
		circuit.inputs[name] = input
	}
	return input
}

// Lit returns the circuit literal computing f
func (circuit *Circuit) Lit(f Formula) z.Lit {
	c := circuit.c
	switch f := f.(type) {
	case constant:
		if f {
			return c.T
		}
		return c.F
	case variable:
		return circuit.Input(string(f))
	case negation:
		return circuit.Lit(f.operand).Not()
	case conjunction:
		return c.Ands(lo.Map(f, func(operand Formula, _ int) z.Lit { return circuit.Lit(operand) })...)
	case disjunction:
		return c.Ors(lo.Map(f, func(operand Formula, _ int) z.Lit { return circuit.Lit(operand) })...)
	case implication:
		return c.Implies(circuit.Lit(f.premise), circuit.Lit(f.conclusion))
	case equivalence:
		return c.Xor(circuit.Lit(f.left), circuit.Lit(f.right)).Not()
	case exclusion:
		return c.Xor(circuit.Lit(f.left), circuit.Lit(f.right))
	default:
		panic(fmt.Sprintf("unexpected formula %T", f))
	}
}

// CNF returns the Tseitin clauses of the cone of root together with the unit clause asserting root.
// Circuit variables keep their numbering, the constant being variable 1
func (circuit *Circuit) CNF(roots ...z.Lit) sat.SAT {
	adder := &clauseAdder{}
	circuit.c.ToCnfFrom(adder, roots...)
	adder.clause(circuit.c.T)
	for _, root := range roots {
		adder.clause(root)
	}
	for _, input := range circuit.inputs {
		adder.track(input)
	}
	return sat.SAT{Variables: adder.variables, Clauses: adder.clauses}
}

// clauseAdder collects the clauses gini emits as z.LitNull terminated literal sequences
type clauseAdder struct {
	clauses   [][]int64
	current   []int64
	variables uint64
}

func (adder *clauseAdder) Add(m z.Lit) {
	if m == z.LitNull {
		adder.clauses = append(adder.clauses, adder.current)
		adder.current = nil
		return
	}
	adder.track(m)
	adder.current = append(adder.current, int64(m.Dimacs()))
}

func (adder *clauseAdder) clause(literals ...z.Lit) {
	for _, literal := range literals {
		adder.Add(literal)
	}
	adder.Add(z.LitNull)
}

func (adder *clauseAdder) track(m z.Lit) {
	if variable := uint64(m.Var()); variable > adder.variables {
		adder.variables = variable
	}
}
