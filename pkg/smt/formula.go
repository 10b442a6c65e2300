package smt

import (
	"strings"

	"github.com/samber/lo"
)

// Formula is a quantifier-free assertion over terms
type Formula interface {
	String() string // SMT-LIB syntax
}

type equality struct{ left, right Term }
type distinct []Term
type less struct{ left, right Term }
type negation struct{ operand Formula }
type conjunction []Formula
type disjunction []Formula
type implication struct{ premise, conclusion Formula }

func Eq(left, right Term) Formula {
	return equality{left, right}
}

// Distinct holds when the terms take pairwise different values
func Distinct(terms ...Term) Formula {
	return distinct(terms)
}

func Less(left, right Term) Formula {
	return less{left, right}
}

func Not(operand Formula) Formula {
	return negation{operand}
}

func And(operands ...Formula) Formula {
	return conjunction(operands)
}

func Or(operands ...Formula) Formula {
	return disjunction(operands)
}

func Implies(premise, conclusion Formula) Formula {
	return implication{premise, conclusion}
}

func (e equality) String() string {
	return "(= " + e.left.String() + " " + e.right.String() + ")"
}

func (d distinct) String() string {
	if len(d) < 2 {
		return "true"
	}
	return "(distinct " + joinTerms(d) + ")"
}

func (l less) String() string {
	return "(< " + l.left.String() + " " + l.right.String() + ")"
}

func (n negation) String() string {
	return "(not " + n.operand.String() + ")"
}

func (c conjunction) String() string {
	switch len(c) {
	case 0:
		return "true"
	case 1:
		return c[0].String()
	default:
		return "(and " + joinFormulas(c) + ")"
	}
}

func (d disjunction) String() string {
	switch len(d) {
	case 0:
		return "false"
	case 1:
		return d[0].String()
	default:
		return "(or " + joinFormulas(d) + ")"
	}
}

func (i implication) String() string {
	return "(=> " + i.premise.String() + " " + i.conclusion.String() + ")"
}

func joinTerms(terms []Term) string {
	return strings.Join(lo.Map(terms, func(term Term, _ int) string { return term.String() }), " ")
}

func joinFormulas(formulas []Formula) string {
	return strings.Join(lo.Map(formulas, func(f Formula, _ int) string { return f.String() }), " ")
}

// applications collects the function applications occurring in f, without duplicates, in order of appearance
func applications(f Formula, seen map[string]bool, collected []*Application) []*Application {
	switch f := f.(type) {
	case equality:
		collected = termApplications(f.left, seen, collected)
		return termApplications(f.right, seen, collected)
	case less:
		collected = termApplications(f.left, seen, collected)
		return termApplications(f.right, seen, collected)
	case distinct:
		for _, term := range f {
			collected = termApplications(term, seen, collected)
		}
		return collected
	case negation:
		return applications(f.operand, seen, collected)
	case conjunction:
		for _, operand := range f {
			collected = applications(operand, seen, collected)
		}
		return collected
	case disjunction:
		for _, operand := range f {
			collected = applications(operand, seen, collected)
		}
		return collected
	case implication:
		collected = applications(f.premise, seen, collected)
		return applications(f.conclusion, seen, collected)
	default:
		return collected
	}
}

func termApplications(term Term, seen map[string]bool, collected []*Application) []*Application {
	application, ok := term.(*Application)
	if !ok {
		return collected
	}
	for _, arg := range application.Args {
		collected = termApplications(arg, seen, collected)
	}
	if key := application.String(); !seen[key] {
		seen[key] = true
		collected = append(collected, application)
	}
	return collected
}
