package passive

import (
	"errors"
	"fmt"

	"github.com/limaJavier/dfainference/pkg/sample"
)

var (
	ErrInvalidAlphabet = errors.New("alphabet does not cover the examples")
	ErrInvalidPrefixes = errors.New("prefix set is not prefix-closed over the examples")
	ErrInvalidS        = errors.New("S does not contain every example")
	ErrInvalidStates   = errors.New("an automaton needs at least one state")
)

// InconsistentExamplesError reports words that are both positive and negative
type InconsistentExamplesError = sample.InconsistentExamplesError

// InvalidWordError reports words that are not valid UTF-8
type InvalidWordError = sample.InvalidWordError

type InvalidStrategyNameError struct {
	Name string
}

func (err InvalidStrategyNameError) Error() string {
	return fmt.Sprintf("unknown method %q (available: %v)", err.Name, Names())
}

// SolverError reports a failing backend or a model that does not decode into a consistent automaton
type SolverError struct {
	Method Name
	States int
	Err    error
}

func (err SolverError) Error() string {
	return fmt.Sprintf("%v with %d states: %v", err.Method, err.States, err.Err)
}

func (err SolverError) Unwrap() error {
	return err.Err
}
