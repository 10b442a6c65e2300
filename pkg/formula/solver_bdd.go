package formula

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalzilio/rudd"
)

var errFirstAssignment = errors.New("first assignment found")

type bddSolver struct {
	nodeSize  int
	cacheSize int
}

// NewBDDSolver builds the binary decision diagram of the formula. Suited to small formulas only
func NewBDDSolver() Solver {
	return &bddSolver{nodeSize: 100000, cacheSize: 10000}
}

func (solver *bddSolver) Solve(ctx context.Context, f Formula) (map[string]bool, error) {
	if assignment, ok := constantAssignment(f); ok {
		return assignment, nil
	}

	names := Vars(f)
	levels := make(map[string]int, len(names))
	for level, name := range names {
		levels[name] = level
	}

	bdd, err := rudd.New(len(names), rudd.Nodesize(solver.nodeSize), rudd.Cachesize(solver.cacheSize))
	if err != nil {
		return nil, fmt.Errorf("cannot create BDD: %w", err)
	}

	builder := bddBuilder{ctx: ctx, bdd: bdd, levels: levels}
	root, err := builder.node(f)
	if err != nil {
		return nil, err
	}

	var model []int
	err = bdd.Allsat(func(values []int) error {
		model = append([]int{}, values...)
		return errFirstAssignment
	}, root)
	if err != nil && !errors.Is(err, errFirstAssignment) {
		return nil, fmt.Errorf("cannot enumerate BDD: %w", err)
	}
	if model == nil {
		return nil, nil
	}

	// Don't care values (-1) are set to false
	assignment := make(map[string]bool, len(names))
	for name, level := range levels {
		assignment[name] = model[level] == 1
	}
	return assignment, nil
}

type bddBuilder struct {
	ctx    context.Context
	bdd    *rudd.BDD
	levels map[string]int
}

func (builder bddBuilder) node(f Formula) (rudd.Node, error) {
	if err := builder.ctx.Err(); err != nil {
		return nil, err
	}

	bdd := builder.bdd
	var node rudd.Node
	switch f := f.(type) {
	case constant:
		if f {
			node = bdd.True()
		} else {
			node = bdd.False()
		}
	case variable:
		node = bdd.Ithvar(builder.levels[string(f)])
	case negation:
		operand, err := builder.node(f.operand)
		if err != nil {
			return nil, err
		}
		node = bdd.Not(operand)
	case conjunction, disjunction:
		operands := asSlice(f)
		nodes := make([]rudd.Node, 0, len(operands))
		for _, operand := range operands {
			operandNode, err := builder.node(operand)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, operandNode)
		}
		if isConjunction(f) {
			node = bdd.And(nodes...)
		} else {
			node = bdd.Or(nodes...)
		}
	case implication:
		premise, conclusion, err := builder.pair(f.premise, f.conclusion)
		if err != nil {
			return nil, err
		}
		node = bdd.Or(bdd.Not(premise), conclusion)
	case equivalence:
		left, right, err := builder.pair(f.left, f.right)
		if err != nil {
			return nil, err
		}
		node = bdd.Or(bdd.And(left, right), bdd.And(bdd.Not(left), bdd.Not(right)))
	case exclusion:
		left, right, err := builder.pair(f.left, f.right)
		if err != nil {
			return nil, err
		}
		node = bdd.Or(bdd.And(left, bdd.Not(right)), bdd.And(bdd.Not(left), right))
	default:
		panic(fmt.Sprintf("unexpected formula %T", f))
	}

	if node == nil {
		return nil, fmt.Errorf("BDD operation failed on %d variables", len(builder.levels))
	}
	return node, nil
}

func (builder bddBuilder) pair(left, right Formula) (rudd.Node, rudd.Node, error) {
	leftNode, err := builder.node(left)
	if err != nil {
		return nil, nil, err
	}
	rightNode, err := builder.node(right)
	if err != nil {
		return nil, nil, err
	}
	return leftNode, rightNode, nil
}

func isConjunction(f Formula) bool {
	_, ok := f.(conjunction)
	return ok
}

func asSlice(f Formula) []Formula {
	switch f := f.(type) {
	case conjunction:
		return f
	case disjunction:
		return f
	default:
		return nil
	}
}
