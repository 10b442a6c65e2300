package passive

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/sample"
)

type Outcome int

const (
	Found Outcome = iota
	NotFound
	Timeout
)

func (outcome Outcome) String() string {
	switch outcome {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Attempt records one call to a method during a search
type Attempt struct {
	States      int
	Satisfiable bool
	Statistics  Statistics
}

type Result struct {
	DFA      *dfa.DFA // Nil unless the outcome is Found, or a bisection timed out after finding some automaton
	Outcome  Outcome
	States   int // Size of DFA
	Elapsed  time.Duration
	Attempts []Attempt
}

// Construct runs the named method once for a fixed number of states. It returns nil if no consistent automaton of
// that size exists
func Construct(ctx context.Context, name Name, states int, examples sample.Sample, opts ...Option) (*dfa.DFA, error) {
	method, err := Create(name, states, examples, opts...)
	if err != nil {
		return nil, err
	}
	return method.ConstructDFA(ctx)
}

// Search looks for the smallest automaton consistent with the examples, trying sizes 1, 2, 3, ... in order.
// The time limit is checked between attempts and bounds every attempt through the context deadline
func Search(ctx context.Context, name Name, examples sample.Sample, opts ...Option) (Result, error) {
	start := time.Now()

	if _, ok := methodConstructors[name]; !ok {
		return Result{}, InvalidStrategyNameError{Name: string(name)}
	}
	if err := examples.Validate(); err != nil {
		return Result{}, err
	}
	config := newOptions(opts)
	enc, err := newEncoding(1, examples, config)
	if err != nil {
		return Result{}, err
	}

	if config.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.timeLimit)
		defer cancel()
	}

	searcher := &searcher{
		ctx:      ctx,
		name:     name,
		examples: examples,
		opts:     opts,
		config:   config,
		start:    start,
	}
	// The prefix tree acceptor has one state per prefix
	upper := len(enc.prefixes)
	if config.bisection {
		err = searcher.bisect(upper)
	} else {
		err = searcher.linear(upper)
	}

	searcher.result.Elapsed = time.Since(start)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errTimeLimit) {
		searcher.result.Outcome = Timeout
		return searcher.result, nil
	}
	return searcher.result, err
}

var errTimeLimit = errors.New("time limit exceeded")

type searcher struct {
	ctx      context.Context
	name     Name
	examples sample.Sample
	opts     []Option
	config   options
	start    time.Time
	result   Result
}

func (searcher *searcher) linear(upper int) error {
	for states := 1; states <= upper; states++ {
		automaton, err := searcher.attempt(states)
		if err != nil {
			return err
		}
		if automaton != nil {
			searcher.found(automaton, states)
			return nil
		}
	}
	searcher.result.Outcome = NotFound
	return nil
}

// bisect solves the largest size first, then halves the interval between the largest known unsatisfiable size and
// the smallest known satisfiable one
func (searcher *searcher) bisect(upper int) error {
	automaton, err := searcher.attempt(upper)
	if err != nil {
		return err
	}
	if automaton == nil {
		searcher.result.Outcome = NotFound
		return nil
	}
	searcher.found(automaton, upper)

	low, high := 0, upper
	for high-low > 1 {
		middle := low + (high-low)/2
		automaton, err := searcher.attempt(middle)
		if err != nil {
			return err
		}
		if automaton != nil {
			searcher.found(automaton, middle)
			high = middle
		} else {
			low = middle
		}
	}
	return nil
}

// attempt runs the method for one size once the time limit is checked
func (searcher *searcher) attempt(states int) (*dfa.DFA, error) {
	if searcher.config.timeLimit > 0 && time.Since(searcher.start) >= searcher.config.timeLimit {
		return nil, errTimeLimit
	}
	if err := searcher.ctx.Err(); err != nil {
		return nil, err
	}

	method, err := Create(searcher.name, states, searcher.examples, searcher.opts...)
	if err != nil {
		return nil, err
	}
	automaton, err := method.ConstructDFA(searcher.ctx)
	if err != nil {
		return nil, err
	}

	statistics := method.Statistics()
	searcher.result.Attempts = append(searcher.result.Attempts, Attempt{
		States:      states,
		Satisfiable: automaton != nil,
		Statistics:  statistics,
	})
	if searcher.config.verbose {
		log.Printf("%v: %d states, %d variables, %d constraints, satisfiable %v (%v)",
			searcher.name, states, statistics.Variables, statistics.Constraints, automaton != nil, statistics.SolveTime)
	}
	return automaton, nil
}

func (searcher *searcher) found(automaton *dfa.DFA, states int) {
	searcher.result.DFA = automaton
	searcher.result.States = states
	searcher.result.Outcome = Found
}
