package sat

import (
	"context"
	"fmt"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

// Solve runs gophersat's CDCL search. The search itself cannot be interrupted, so ctx is only checked around it
func (solver *gophersatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hasEmptyClause(sat) {
		return nil, nil
	}
	if len(sat.Clauses) == 0 {
		return lo.Times(int(sat.Variables), func(i int) int64 { return -int64(i + 1) }), nil
	}

	clauses := lo.Map(sat.Clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})
	problem := gophersat.ParseSlice(clauses)
	if problem.Status == gophersat.Unsat {
		return nil, nil
	}

	s := gophersat.New(problem)
	status := s.Solve()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch status {
	case gophersat.Unsat:
		return nil, nil
	case gophersat.Sat:
		model := s.Model() // model[i] is the value of variable i+1
		return lo.Times(int(sat.Variables), func(i int) int64 {
			if i < len(model) && model[i] {
				return int64(i + 1)
			}
			return -int64(i + 1)
		}), nil
	default:
		return nil, fmt.Errorf("gophersat finished with status %v", status)
	}
}
