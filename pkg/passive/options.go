package passive

import (
	"time"

	"github.com/limaJavier/dfainference/pkg/formula"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/limaJavier/dfainference/pkg/smt"
)

type options struct {
	alphabet []rune
	prefixes []string
	s        []string

	satSolver     sat.SATSolver
	formulaSolver formula.Solver
	smtSolver     smt.Solver

	timeLimit time.Duration
	bisection bool
	verbose   bool
}

type Option func(*options)

func newOptions(opts []Option) options {
	config := options{
		satSolver:     sat.NewGiniSolver(),
		formulaSolver: formula.NewGophersatSolver(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.smtSolver == nil {
		config.smtSolver = smt.NewFiniteSolver(formula.NewCircuitSolver(config.satSolver))
	}
	return config
}

// WithAlphabet replaces the alphabet computed from the examples. It must contain every symbol of S
func WithAlphabet(alphabet []rune) Option {
	return func(config *options) {
		config.alphabet = append([]rune{}, alphabet...)
	}
}

// WithPrefixes replaces the prefix set computed from S. It must be prefix-closed and contain S
func WithPrefixes(prefixes []string) Option {
	return func(config *options) {
		config.prefixes = append([]string{}, prefixes...)
	}
}

// WithS replaces S, the set of words prefixes and alphabet are derived from. It must contain every example
func WithS(s []string) Option {
	return func(config *options) {
		config.s = append([]string{}, s...)
	}
}

// WithSATSolver sets the solver of the CNF methods. The finite SMT backend uses it too unless WithSMTSolver is given
func WithSATSolver(solver sat.SATSolver) Option {
	return func(config *options) {
		config.satSolver = solver
	}
}

func WithFormulaSolver(solver formula.Solver) Option {
	return func(config *options) {
		config.formulaSolver = solver
	}
}

func WithSMTSolver(solver smt.Solver) Option {
	return func(config *options) {
		config.smtSolver = solver
	}
}

// WithTimeLimit bounds Search. Zero means no limit
func WithTimeLimit(limit time.Duration) Option {
	return func(config *options) {
		config.timeLimit = limit
	}
}

// WithBisection makes Search look for the smallest size by binary search between 1 and the number of prefixes
func WithBisection() Option {
	return func(config *options) {
		config.bisection = true
	}
}

// WithVerbose logs every attempt of Search
func WithVerbose() Option {
	return func(config *options) {
		config.verbose = true
	}
}
