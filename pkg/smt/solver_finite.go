package smt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/limaJavier/dfainference/pkg/formula"
	"github.com/samber/lo"
)

type finiteSolver struct {
	solver formula.Solver
}

// NewFiniteSolver decides problems by one-hot encoding every constant and function cell over its domain and solving the
// resulting propositional formula
func NewFiniteSolver(solver formula.Solver) Solver {
	return &finiteSolver{solver: solver}
}

func (solver *finiteSolver) Solve(ctx context.Context, problem *Problem) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blaster := newBlaster(problem)
	f := blaster.blast()

	assignment, err := solver.solver.Solve(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("cannot solve one-hot encoding: %w", err)
	} else if assignment == nil {
		return nil, nil
	}
	return blaster.decode(assignment)
}

// blaster names one boolean variable per (cell, value) pair, a cell being a constant or a function applied to literal
// arguments
type blaster struct {
	problem *Problem
	ids     map[string]int
	memo    map[string]formula.Formula
}

func newBlaster(problem *Problem) *blaster {
	ids := make(map[string]int)
	for _, constant := range problem.consts {
		ids[constant.Name] = len(ids)
	}
	for _, function := range problem.funcs {
		for _, cell := range function.Cells() {
			ids[function.cellKey(cell)] = len(ids)
		}
	}
	return &blaster{problem: problem, ids: ids, memo: make(map[string]formula.Formula)}
}

func (blaster *blaster) variable(key string, value int) formula.Formula {
	return formula.Var("t" + strconv.Itoa(blaster.ids[key]) + "_" + strconv.Itoa(value))
}

// blast returns the conjunction of the domain constraints and the assertions
func (blaster *blaster) blast() formula.Formula {
	constraints := []formula.Formula{}
	for _, constant := range blaster.problem.consts {
		constraints = append(constraints, blaster.oneHot(constant.Name, constant.Domain))
	}
	for _, function := range blaster.problem.funcs {
		for _, cell := range function.Cells() {
			constraints = append(constraints, blaster.oneHot(function.cellKey(cell), function.Domain))
		}
	}
	for _, assertion := range blaster.problem.assertions {
		constraints = append(constraints, blaster.formula(assertion))
	}
	return formula.And(constraints...)
}

func (blaster *blaster) oneHot(key string, domain int) formula.Formula {
	return formula.ExactlyOne(lo.Map(lo.Range(domain), func(value int, _ int) formula.Formula {
		return blaster.variable(key, value)
	})...)
}

func (blaster *blaster) formula(f Formula) formula.Formula {
	switch f := f.(type) {
	case equality:
		disjuncts := []formula.Formula{}
		for _, value := range lo.Intersect(f.left.values(), f.right.values()) {
			disjuncts = append(disjuncts, formula.And(blaster.is(f.left, value), blaster.is(f.right, value)))
		}
		return formula.Or(disjuncts...)
	case distinct:
		conjuncts := []formula.Formula{}
		for i := range f {
			for j := i + 1; j < len(f); j++ {
				conjuncts = append(conjuncts, formula.Not(blaster.formula(equality{f[i], f[j]})))
			}
		}
		return formula.And(conjuncts...)
	case less:
		disjuncts := []formula.Formula{}
		for _, left := range f.left.values() {
			for _, right := range f.right.values() {
				if left < right {
					disjuncts = append(disjuncts, formula.And(blaster.is(f.left, left), blaster.is(f.right, right)))
				}
			}
		}
		return formula.Or(disjuncts...)
	case negation:
		return formula.Not(blaster.formula(f.operand))
	case conjunction:
		return formula.And(lo.Map(f, func(operand Formula, _ int) formula.Formula { return blaster.formula(operand) })...)
	case disjunction:
		return formula.Or(lo.Map(f, func(operand Formula, _ int) formula.Formula { return blaster.formula(operand) })...)
	case implication:
		return formula.Implies(blaster.formula(f.premise), blaster.formula(f.conclusion))
	default:
		panic(fmt.Sprintf("unexpected formula %T", f))
	}
}

// is returns the formula holding exactly when term takes value
func (blaster *blaster) is(term Term, value int) formula.Formula {
	key := term.String() + "=" + strconv.Itoa(value)
	if f, ok := blaster.memo[key]; ok {
		return f
	}

	var f formula.Formula
	switch term := term.(type) {
	case Int:
		f = lo.Ternary(int(term) == value, formula.True, formula.False)
	case *Const:
		f = formula.False
		if value >= 0 && value < term.Domain {
			f = blaster.variable(term.Name, value)
		}
	case *Application:
		f = formula.False
		if value >= 0 && value < term.Func.Domain {
			f = blaster.application(term, value)
		}
	default:
		panic(fmt.Sprintf("unexpected term %T", term))
	}

	blaster.memo[key] = f
	return f
}

// application selects the cell addressed by the arguments: some cell has its arguments matched and holds value
func (blaster *blaster) application(term *Application, value int) formula.Formula {
	candidates := make([][]int, len(term.Args))
	for i, arg := range term.Args {
		candidates[i] = lo.Filter(arg.values(), func(candidate int, _ int) bool {
			return candidate >= 0 && candidate < term.Func.Args[i]
		})
	}

	disjuncts := []formula.Formula{}
	for _, cell := range product(candidates) {
		conjuncts := make([]formula.Formula, 0, len(cell)+1)
		for i, arg := range term.Args {
			conjuncts = append(conjuncts, blaster.is(arg, cell[i]))
		}
		conjuncts = append(conjuncts, blaster.variable(term.Func.cellKey(cell), value))
		disjuncts = append(disjuncts, formula.And(conjuncts...))
	}
	return formula.Or(disjuncts...)
}

func (blaster *blaster) decode(assignment map[string]bool) (Model, error) {
	model := make(Model, len(blaster.ids))
	read := func(key string, domain int) error {
		for value := range domain {
			if assignment[blaster.variable(key, value).String()] {
				model[key] = value
				return nil
			}
		}
		return fmt.Errorf("%v has no value in the assignment", key)
	}

	for _, constant := range blaster.problem.consts {
		if err := read(constant.Name, constant.Domain); err != nil {
			return nil, err
		}
	}
	for _, function := range blaster.problem.funcs {
		for _, cell := range function.Cells() {
			if err := read(function.cellKey(cell), function.Domain); err != nil {
				return nil, err
			}
		}
	}
	return model, nil
}

func product(candidates [][]int) [][]int {
	tuples := [][]int{{}}
	for _, values := range candidates {
		next := make([][]int, 0, len(tuples)*len(values))
		for _, tuple := range tuples {
			for _, value := range values {
				next = append(next, append(append([]int{}, tuple...), value))
			}
		}
		tuples = next
	}
	return tuples
}
