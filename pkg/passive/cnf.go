package passive

import (
	"context"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/sat"
)

// constraintState is shared, read-only, by the clause generators of one instance
type constraintState struct {
	enc        *encoding
	x          indexer         // x(u, q): prefix u reaches state q
	d          indexer         // d(p, a, q): p goes to q on a
	f          indexer         // f(q): q is accepting
	b          indexer         // b(u, k): bit k of the state of prefix u
	equalities map[[2]int]int64 // First e(u, v, k) variable of every compared pair u < v
}

// equal returns e(u, v, k), true when the states of u and v agree on bit k
func (state constraintState) equal(u, v, k int) int64 {
	if u > v {
		u, v = v, u
	}
	return state.equalities[[2]int{u, v}] + int64(k)
}

type cnfEncoding struct {
	variables   int64
	constraints []func(state constraintState) [][]int64
	state       constraintState
	decode      func(values []bool) (*dfa.DFA, error)
}

type cnfMethod struct {
	method
	solver sat.SATSolver
	encode func(enc *encoding) cnfEncoding
}

func cnf(encode func(enc *encoding) cnfEncoding) constructor {
	return func(base method, config options) Method {
		return &cnfMethod{method: base, solver: config.satSolver, encode: encode}
	}
}

func (method *cnfMethod) ConstructDFA(ctx context.Context) (*dfa.DFA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//** Build SAT instance
	instance := method.encode(method.enc)
	satInstance := buildSat(uint64(instance.variables), instance.constraints, instance.state)
	method.statistics = Statistics{Variables: int(satInstance.Variables), Constraints: len(satInstance.Clauses)}

	//** Solve SAT instance
	start := time.Now()
	solution, err := method.solver.Solve(ctx, satInstance)
	method.statistics.SolveTime = time.Since(start)
	if err != nil {
		return nil, method.solved(ctx, err)
	} else if solution == nil { // Return nil if the SAT instance is not satisfiable
		return nil, nil
	}

	return method.verify(instance.decode(solution.Values(satInstance.Variables)))
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) sat.SAT {
	satInstance := sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	type generated struct {
		position int
		clauses  [][]int64
	}
	constraintsChannel := make(chan generated) // Channel to collect constraints

	// Execute constraints functions on different goroutines to improve performance
	for position, constraint := range constraints {
		go func() {
			constraintsChannel <- generated{position: position, clauses: constraint(state)}
		}()
	}

	// Collect generated constraints, keeping the order of the constraint functions
	collected := make([][][]int64, len(constraints))
	for range constraints {
		result := <-constraintsChannel
		collected[result.position] = result.clauses
	}
	for _, clauses := range collected {
		satInstance.Clauses = append(satInstance.Clauses, clauses...)
	}

	return satInstance
}
