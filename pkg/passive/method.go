package passive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/samber/lo"
)

type Name string

const (
	Unary             Name = "unary"
	Binary            Name = "binary"
	HeuleVerwer       Name = "heule"
	UnaryNonCNF       Name = "unaryNonCNF"
	BinaryNonCNF      Name = "binaryNonCNF"
	HeuleVerwerNonCNF Name = "heuleNonCNF"
	Biermann          Name = "biermann"
	NeiderJansen      Name = "neider"
)

// Method decides whether an automaton with a fixed number of states is consistent with the examples
type Method interface {
	Name() Name
	States() int
	ConstructDFA(ctx context.Context) (*dfa.DFA, error) // Returns nil if no consistent automaton of this size exists
	Statistics() Statistics
}

// Statistics describes the last instance a method handed to its solver
type Statistics struct {
	Variables   int
	Constraints int
	SolveTime   time.Duration
}

type constructor func(base method, config options) Method

var methods = []Name{Unary, Binary, HeuleVerwer, UnaryNonCNF, BinaryNonCNF, HeuleVerwerNonCNF, Biermann, NeiderJansen}

var methodConstructors = map[Name]constructor{
	Unary:             cnf(unaryCNF),
	Binary:            cnf(binaryCNF),
	HeuleVerwer:       cnf(heuleVerwerCNF),
	UnaryNonCNF:       nonCNF(unaryFormula),
	BinaryNonCNF:      nonCNF(binaryFormula),
	HeuleVerwerNonCNF: nonCNF(heuleVerwerFormula),
	Biermann:          smtFamily(biermannProblem),
	NeiderJansen:      smtFamily(neiderJansenProblem),
}

func Names() []Name {
	return append([]Name{}, methods...)
}

// ParseName finds a method by name, ignoring case
func ParseName(name string) (Name, error) {
	found, ok := lo.Find(methods, func(method Name) bool { return strings.EqualFold(string(method), name) })
	if !ok {
		return "", InvalidStrategyNameError{Name: name}
	}
	return found, nil
}

// Create binds the named method to a size and a sample. Names and examples are checked before any encoding work
func Create(name Name, states int, examples sample.Sample, opts ...Option) (Method, error) {
	construct, ok := methodConstructors[name]
	if !ok {
		return nil, InvalidStrategyNameError{Name: string(name)}
	}
	if err := examples.Validate(); err != nil {
		return nil, err
	}
	if states < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStates, states)
	}

	config := newOptions(opts)
	enc, err := newEncoding(states, examples, config)
	if err != nil {
		return nil, err
	}
	return construct(method{name: name, enc: enc}, config), nil
}

// method holds what every family shares
type method struct {
	name       Name
	enc        *encoding
	statistics Statistics
}

func (method *method) Name() Name {
	return method.name
}

func (method *method) States() int {
	return method.enc.states
}

func (method *method) Statistics() Statistics {
	return method.statistics
}

func (method *method) fail(err error) error {
	return SolverError{Method: method.name, States: method.enc.states, Err: err}
}

// solved turns a solver failure into an error, keeping context errors as they are
func (method *method) solved(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return method.fail(err)
}

// verify checks a decoded automaton against the examples
func (method *method) verify(automaton *dfa.DFA, err error) (*dfa.DFA, error) {
	if err != nil {
		return nil, method.fail(fmt.Errorf("cannot decode model: %w", err))
	}
	if misclassified := automaton.Misclassified(method.enc.examples); len(misclassified) > 0 {
		return nil, method.fail(fmt.Errorf("decoded automaton misclassifies %q", misclassified))
	}
	return automaton, nil
}
