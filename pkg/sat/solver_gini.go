package sat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	giniFirstPoll = 50 * time.Microsecond
	giniMaxPoll   = 10 * time.Millisecond
)

type giniSolver struct{}

func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hasEmptyClause(sat) {
		return nil, nil
	}

	g := gini.NewVc(int(sat.Variables), len(sat.Clauses))
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	result, err := SolveGini(ctx, g)
	if err != nil {
		return nil, err
	}
	switch result {
	case -1:
		return nil, nil
	case 1:
		return giniSolution(g, sat.Variables), nil
	default:
		return nil, fmt.Errorf("gini finished without an answer")
	}
}

// SolveGini solves g on its own goroutine, stopping it when ctx is done. It returns 1 (sat) or -1 (unsat).
// The solver is polled with a doubling interval so that easy instances return right away
func SolveGini(ctx context.Context, g *gini.Gini) (int, error) {
	if ctx.Done() == nil {
		return g.Solve(), nil
	}

	handle := g.GoSolve()
	interval := giniFirstPoll
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		if result, done := handle.Test(); done {
			return result, nil
		}
		select {
		case <-ctx.Done():
			handle.Stop()
			return 0, ctx.Err()
		case <-timer.C:
			interval = min(2*interval, giniMaxPoll)
			timer.Reset(interval)
		}
	}
}

func giniSolution(g *gini.Gini, variables uint64) SATSolution {
	maxVar := uint64(g.MaxVar())
	solution := make(SATSolution, 0, variables)
	for variable := uint64(1); variable <= variables; variable++ {
		// Variables absent from every clause are unconstrained
		if variable <= maxVar && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return solution
}
