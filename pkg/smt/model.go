package smt

import (
	"fmt"

	"github.com/samber/lo"
)

// Model maps every constant name and every function cell (in SMT-LIB syntax, e.g. "(d 0 1)") to its value
type Model map[string]int

// Eval computes the value of term under the model
func (model Model) Eval(term Term) (int, error) {
	switch term := term.(type) {
	case Int:
		return int(term), nil
	case *Const:
		value, ok := model[term.Name]
		if !ok {
			return 0, fmt.Errorf("constant %v has no value", term.Name)
		}
		return value, nil
	case *Application:
		cell := make([]int, len(term.Args))
		for i, arg := range term.Args {
			value, err := model.Eval(arg)
			if err != nil {
				return 0, err
			}
			cell[i] = value
		}
		return model.Value(term.Func, cell...)
	default:
		return 0, fmt.Errorf("unknown term %v", term)
	}
}

// Holds evaluates the assertion f under the model
func (model Model) Holds(f Formula) (bool, error) {
	switch f := f.(type) {
	case equality:
		values, err := model.evalAll(f.left, f.right)
		if err != nil {
			return false, err
		}
		return values[0] == values[1], nil
	case less:
		values, err := model.evalAll(f.left, f.right)
		if err != nil {
			return false, err
		}
		return values[0] < values[1], nil
	case distinct:
		values, err := model.evalAll(f...)
		if err != nil {
			return false, err
		}
		return len(lo.Uniq(values)) == len(values), nil
	case negation:
		holds, err := model.Holds(f.operand)
		return !holds, err
	case conjunction:
		for _, operand := range f {
			if holds, err := model.Holds(operand); err != nil || !holds {
				return false, err
			}
		}
		return true, nil
	case disjunction:
		for _, operand := range f {
			if holds, err := model.Holds(operand); err != nil || holds {
				return holds, err
			}
		}
		return false, nil
	case implication:
		premise, err := model.Holds(f.premise)
		if err != nil || !premise {
			return !premise, err
		}
		return model.Holds(f.conclusion)
	default:
		return false, fmt.Errorf("unknown formula %v", f)
	}
}

func (model Model) evalAll(terms ...Term) ([]int, error) {
	values := make([]int, len(terms))
	for i, term := range terms {
		value, err := model.Eval(term)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// Value returns f applied to literal arguments
func (model Model) Value(f *Func, args ...int) (int, error) {
	key := f.cellKey(args)
	value, ok := model[key]
	if !ok {
		return 0, fmt.Errorf("%v has no value", key)
	}
	return value, nil
}
