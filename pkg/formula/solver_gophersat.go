package formula

import (
	"context"
	"fmt"
	"strings"

	"github.com/crillab/gophersat/bf"
	"github.com/samber/lo"
)

const (
	inputPrefix = "in:"
	gatePrefix  = "gate:"
)

type gophersatSolver struct{}

func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

// Solve hands the formula to gophersat's bf package. bf only converts formulas whose disjunctions nest conjunctions of
// literals, so every compound subformula is named by a gate variable first
func (solver *gophersatSolver) Solve(ctx context.Context, f Formula) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if assignment, ok := constantAssignment(f); ok {
		return assignment, nil
	}

	encoder := &bfEncoder{}
	root := encoder.literal(f)
	model := bf.Solve(bf.And(append(encoder.gates, root)...))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, nil
	}

	inputs := make(map[string]bool)
	for name, value := range model {
		if input, ok := strings.CutPrefix(name, inputPrefix); ok {
			inputs[input] = value
		}
	}
	return complete(f, inputs), nil
}

type bfEncoder struct {
	gates []bf.Formula
}

func (encoder *bfEncoder) literal(f Formula) bf.Formula {
	switch f := f.(type) {
	case variable:
		return bf.Var(inputPrefix + string(f))
	case negation:
		return bf.Not(encoder.literal(f.operand))
	default:
		gate := bf.Var(fmt.Sprintf("%v%d", gatePrefix, len(encoder.gates)))
		encoder.gates = append(encoder.gates, nil) // Reserve the gate's position
		position := len(encoder.gates) - 1
		encoder.gates[position] = bf.Eq(gate, encoder.gate(f))
		return gate
	}
}

// gate expresses f as a single operator applied to literals
func (encoder *bfEncoder) gate(f Formula) bf.Formula {
	switch f := f.(type) {
	case conjunction:
		return bf.And(lo.Map(f, func(operand Formula, _ int) bf.Formula { return encoder.literal(operand) })...)
	case disjunction:
		return bf.Or(lo.Map(f, func(operand Formula, _ int) bf.Formula { return encoder.literal(operand) })...)
	case implication:
		return bf.Implies(encoder.literal(f.premise), encoder.literal(f.conclusion))
	case equivalence:
		return bf.Eq(encoder.literal(f.left), encoder.literal(f.right))
	case exclusion:
		return bf.Xor(encoder.literal(f.left), encoder.literal(f.right))
	default:
		panic(fmt.Sprintf("unexpected formula %T", f))
	}
}
