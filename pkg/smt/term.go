package smt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Term is an integer valued expression
type Term interface {
	String() string // SMT-LIB syntax
	values() []int  // Values the term may take
}

// Int is an integer literal
type Int int

// Const is an integer constant ranging over [0, Domain)
type Const struct {
	Name   string
	Domain int
}

// Func is an uninterpreted function from Args[0] x ... x Args[k-1] to [0, Domain)
type Func struct {
	Name   string
	Args   []int // Domain of each argument
	Domain int
}

// Application of a function to argument terms
type Application struct {
	Func *Func
	Args []Term
}

func (i Int) String() string {
	if i < 0 {
		return fmt.Sprintf("(- %d)", -int(i))
	}
	return strconv.Itoa(int(i))
}

func (i Int) values() []int {
	return []int{int(i)}
}

func (c *Const) String() string {
	return c.Name
}

func (c *Const) values() []int {
	return lo.Range(c.Domain)
}

// Apply builds the application of f to args. It panics on an arity mismatch
func (f *Func) Apply(args ...Term) Term {
	if len(args) != len(f.Args) {
		panic(fmt.Sprintf("function %v expects %d arguments, got %d", f.Name, len(f.Args), len(args)))
	}
	return &Application{Func: f, Args: args}
}

// Cells returns every argument tuple of f, in lexicographic order
func (f *Func) Cells() [][]int {
	return product(lo.Map(f.Args, func(domain int, _ int) []int { return lo.Range(domain) }))
}

// cellKey is the SMT-LIB form of f applied to literal arguments
func (f *Func) cellKey(cell []int) string {
	if len(cell) == 0 {
		return f.Name
	}
	return "(" + f.Name + " " + strings.Join(lo.Map(cell, func(value int, _ int) string {
		return Int(value).String()
	}), " ") + ")"
}

func (a *Application) String() string {
	if len(a.Args) == 0 {
		return a.Func.Name
	}
	return "(" + a.Func.Name + " " + strings.Join(lo.Map(a.Args, func(arg Term, _ int) string {
		return arg.String()
	}), " ") + ")"
}

func (a *Application) values() []int {
	return lo.Range(a.Func.Domain)
}
