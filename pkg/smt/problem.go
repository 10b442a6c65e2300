package smt

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Problem gathers declarations and assertions of a QF_UFLIA problem whose constants and function results range over
// bounded domains [0, k)
type Problem struct {
	consts     []*Const
	funcs      []*Func
	assertions []Formula
	names      map[string]bool
}

func NewProblem() *Problem {
	return &Problem{names: make(map[string]bool)}
}

// Const declares an integer constant ranging over [0, domain)
func (problem *Problem) Const(name string, domain int) *Const {
	problem.declare(name)
	constant := &Const{Name: name, Domain: domain}
	problem.consts = append(problem.consts, constant)
	return constant
}

// Func declares an uninterpreted function with the given argument domains and result domain
func (problem *Problem) Func(name string, args []int, domain int) *Func {
	problem.declare(name)
	function := &Func{Name: name, Args: append([]int{}, args...), Domain: domain}
	problem.funcs = append(problem.funcs, function)
	return function
}

func (problem *Problem) Assert(formulas ...Formula) {
	problem.assertions = append(problem.assertions, formulas...)
}

func (problem *Problem) Consts() []*Const {
	return problem.consts
}

func (problem *Problem) Funcs() []*Func {
	return problem.funcs
}

func (problem *Problem) Assertions() []Formula {
	return problem.assertions
}

// SMTLIB renders the problem as an SMT-LIB 2 script asking for satisfiability and the values of every constant and
// every function cell
func (problem *Problem) SMTLIB() string {
	var builder strings.Builder
	builder.WriteString("(set-logic QF_UFLIA)\n")
	builder.WriteString("(set-option :produce-models true)\n")

	for _, constant := range problem.consts {
		fmt.Fprintf(&builder, "(declare-fun %v () Int)\n", constant.Name)
	}
	for _, function := range problem.funcs {
		fmt.Fprintf(&builder, "(declare-fun %v (%v) Int)\n", function.Name, strings.TrimSpace(strings.Repeat("Int ", len(function.Args))))
	}

	for _, constant := range problem.consts {
		fmt.Fprintf(&builder, "(assert %v)\n", bounds(constant, constant.Domain))
	}
	seen := make(map[string]bool)
	var applied []*Application
	for _, assertion := range problem.assertions {
		applied = applications(assertion, seen, applied)
	}
	for _, application := range applied {
		fmt.Fprintf(&builder, "(assert %v)\n", bounds(application, application.Func.Domain))
	}

	for _, assertion := range problem.assertions {
		fmt.Fprintf(&builder, "(assert %v)\n", assertion)
	}
	builder.WriteString("(check-sat)\n")

	if queried := problem.queriedTerms(); len(queried) > 0 {
		fmt.Fprintf(&builder, "(get-value (%v))\n", strings.Join(queried, " "))
	}
	builder.WriteString("(exit)\n")
	return builder.String()
}

// queriedTerms lists every constant and every function cell, in SMT-LIB syntax
func (problem *Problem) queriedTerms() []string {
	terms := lo.Map(problem.consts, func(constant *Const, _ int) string { return constant.Name })
	for _, function := range problem.funcs {
		for _, cell := range function.Cells() {
			terms = append(terms, function.cellKey(cell))
		}
	}
	return terms
}

func (problem *Problem) declare(name string) {
	if problem.names[name] {
		panic(fmt.Sprintf("%v is declared twice", name))
	}
	problem.names[name] = true
}

func bounds(term Term, domain int) Formula {
	return And(Not(Less(term, Int(0))), Less(term, Int(domain)))
}
