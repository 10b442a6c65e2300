package formula

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Formula is a propositional formula over named variables. Formulas are built through the constructors of this
// package, which fold constants: True and False never appear below the root
type Formula interface {
	String() string // limboole syntax
	Eval(assignment map[string]bool) bool
	collectVars(set map[string]bool)
}

type variable string
type constant bool
type negation struct{ operand Formula }
type conjunction []Formula
type disjunction []Formula
type implication struct{ premise, conclusion Formula }
type equivalence struct{ left, right Formula }
type exclusion struct{ left, right Formula }

var (
	True  Formula = constant(true)
	False Formula = constant(false)
)

func Var(name string) Formula {
	return variable(name)
}

func Not(operand Formula) Formula {
	switch operand := operand.(type) {
	case constant:
		return constant(!operand)
	case negation:
		return operand.operand
	default:
		return negation{operand}
	}
}

func And(operands ...Formula) Formula {
	flattened := make(conjunction, 0, len(operands))
	for _, operand := range operands {
		switch operand := operand.(type) {
		case constant:
			if !operand {
				return False
			}
		case conjunction:
			flattened = append(flattened, operand...)
		default:
			flattened = append(flattened, operand)
		}
	}
	switch len(flattened) {
	case 0:
		return True
	case 1:
		return flattened[0]
	default:
		return flattened
	}
}

func Or(operands ...Formula) Formula {
	flattened := make(disjunction, 0, len(operands))
	for _, operand := range operands {
		switch operand := operand.(type) {
		case constant:
			if operand {
				return True
			}
		case disjunction:
			flattened = append(flattened, operand...)
		default:
			flattened = append(flattened, operand)
		}
	}
	switch len(flattened) {
	case 0:
		return False
	case 1:
		return flattened[0]
	default:
		return flattened
	}
}

func Implies(premise, conclusion Formula) Formula {
	if premise, ok := premise.(constant); ok {
		if premise {
			return conclusion
		}
		return True
	}
	if conclusion, ok := conclusion.(constant); ok {
		if conclusion {
			return True
		}
		return Not(premise)
	}
	return implication{premise, conclusion}
}

func Iff(left, right Formula) Formula {
	if left, ok := left.(constant); ok {
		if left {
			return right
		}
		return Not(right)
	}
	if right, ok := right.(constant); ok {
		return Iff(right, left)
	}
	return equivalence{left, right}
}

func Xor(left, right Formula) Formula {
	if left, ok := left.(constant); ok {
		if left {
			return Not(right)
		}
		return right
	}
	if right, ok := right.(constant); ok {
		return Xor(right, left)
	}
	return exclusion{left, right}
}

// AtMostOne forbids every pair of operands from holding together
func AtMostOne(operands ...Formula) Formula {
	pairs := make([]Formula, 0, len(operands)*len(operands)/2)
	for i := range operands {
		for j := i + 1; j < len(operands); j++ {
			pairs = append(pairs, Or(Not(operands[i]), Not(operands[j])))
		}
	}
	return And(pairs...)
}

func ExactlyOne(operands ...Formula) Formula {
	return And(Or(operands...), AtMostOne(operands...))
}

// Vars returns the sorted names of the variables of f
func Vars(f Formula) []string {
	set := make(map[string]bool)
	f.collectVars(set)
	names := lo.Keys(set)
	slices.Sort(names)
	return names
}

func (v variable) String() string                       { return string(v) }
func (v variable) Eval(assignment map[string]bool) bool { return assignment[string(v)] }
func (v variable) collectVars(set map[string]bool)      { set[string(v)] = true }

func (c constant) String() string {
	if c {
		return "TRUE"
	}
	return "FALSE"
}
func (c constant) Eval(map[string]bool) bool     { return bool(c) }
func (c constant) collectVars(map[string]bool) {}

func (n negation) String() string                       { return "!" + n.operand.String() }
func (n negation) Eval(assignment map[string]bool) bool { return !n.operand.Eval(assignment) }
func (n negation) collectVars(set map[string]bool)      { n.operand.collectVars(set) }

func (c conjunction) String() string { return join(c, " & ") }
func (c conjunction) Eval(assignment map[string]bool) bool {
	return lo.EveryBy(c, func(operand Formula) bool { return operand.Eval(assignment) })
}
func (c conjunction) collectVars(set map[string]bool) {
	for _, operand := range c {
		operand.collectVars(set)
	}
}

func (d disjunction) String() string { return join(d, " | ") }
func (d disjunction) Eval(assignment map[string]bool) bool {
	return lo.SomeBy(d, func(operand Formula) bool { return operand.Eval(assignment) })
}
func (d disjunction) collectVars(set map[string]bool) {
	for _, operand := range d {
		operand.collectVars(set)
	}
}

func (i implication) String() string {
	return "(" + i.premise.String() + " -> " + i.conclusion.String() + ")"
}
func (i implication) Eval(assignment map[string]bool) bool {
	return !i.premise.Eval(assignment) || i.conclusion.Eval(assignment)
}
func (i implication) collectVars(set map[string]bool) {
	i.premise.collectVars(set)
	i.conclusion.collectVars(set)
}

func (e equivalence) String() string {
	return "(" + e.left.String() + " <-> " + e.right.String() + ")"
}
func (e equivalence) Eval(assignment map[string]bool) bool {
	return e.left.Eval(assignment) == e.right.Eval(assignment)
}
func (e equivalence) collectVars(set map[string]bool) {
	e.left.collectVars(set)
	e.right.collectVars(set)
}

// limboole has no exclusive or
func (e exclusion) String() string {
	return "!(" + e.left.String() + " <-> " + e.right.String() + ")"
}
func (e exclusion) Eval(assignment map[string]bool) bool {
	return e.left.Eval(assignment) != e.right.Eval(assignment)
}
func (e exclusion) collectVars(set map[string]bool) {
	e.left.collectVars(set)
	e.right.collectVars(set)
}

func join(operands []Formula, separator string) string {
	return "(" + strings.Join(lo.Map(operands, func(operand Formula, _ int) string {
		return operand.String()
	}), separator) + ")"
}
