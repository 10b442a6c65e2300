package dfa

import (
	"errors"
	"fmt"
)

var (
	ErrStateOutOfRange       = errors.New("state out of range")
	ErrUnknownSymbol         = errors.New("symbol not in alphabet")
	ErrConflictingTransition = errors.New("conflicting transition")
)

const unset = -1

// Builder collects the transitions and acceptance marks decoded from a solver model
type Builder struct {
	alphabet  []rune
	symbols   map[rune]int
	delta     [][]int
	accepting []bool
	initial   int
}

func NewBuilder(states int, alphabet []rune) *Builder {
	builder := &Builder{
		alphabet:  append([]rune{}, alphabet...),
		symbols:   make(map[rune]int, len(alphabet)),
		delta:     make([][]int, max(states, 0)),
		accepting: make([]bool, max(states, 0)),
	}
	for index, symbol := range alphabet {
		builder.symbols[symbol] = index
	}
	for state := range builder.delta {
		builder.delta[state] = make([]int, len(alphabet))
		for index := range builder.delta[state] {
			builder.delta[state][index] = unset
		}
	}
	return builder
}

// SetTransition records from --symbol--> to. Recording a different successor for the same pair fails
func (builder *Builder) SetTransition(from int, symbol rune, to int) error {
	if err := builder.checkState(from); err != nil {
		return err
	}
	if err := builder.checkState(to); err != nil {
		return err
	}
	index, ok := builder.symbols[symbol]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}

	if current := builder.delta[from][index]; current != unset && current != to {
		return fmt.Errorf("%w: %d --%c--> %d and %d", ErrConflictingTransition, from, symbol, current, to)
	}
	builder.delta[from][index] = to
	return nil
}

func (builder *Builder) SetAccepting(state int, accepting bool) error {
	if err := builder.checkState(state); err != nil {
		return err
	}
	builder.accepting[state] = accepting
	return nil
}

func (builder *Builder) SetInitial(state int) error {
	if err := builder.checkState(state); err != nil {
		return err
	}
	builder.initial = state
	return nil
}

// Build relabels the initial state as 0 and completes missing transitions with self-loops
func (builder *Builder) Build() (*DFA, error) {
	states := len(builder.delta)
	if states == 0 {
		return nil, fmt.Errorf("%w: an automaton needs at least one state", ErrStateOutOfRange)
	}

	// Swap the initial state with state 0
	relabel := func(state int) int {
		switch state {
		case builder.initial:
			return 0
		case 0:
			return builder.initial
		default:
			return state
		}
	}

	automaton := &DFA{
		alphabet:  append([]rune{}, builder.alphabet...),
		symbols:   make(map[rune]int, len(builder.symbols)),
		delta:     make([][]int, states),
		accepting: make([]bool, states),
	}
	for symbol, index := range builder.symbols {
		automaton.symbols[symbol] = index
	}

	for state := range states {
		target := relabel(state)
		automaton.accepting[target] = builder.accepting[state]
		automaton.delta[target] = make([]int, len(builder.alphabet))
		for index, next := range builder.delta[state] {
			if next == unset {
				automaton.delta[target][index] = target
			} else {
				automaton.delta[target][index] = relabel(next)
			}
		}
	}
	return automaton, nil
}

func (builder *Builder) checkState(state int) error {
	if state < 0 || state >= len(builder.delta) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStateOutOfRange, state, len(builder.delta))
	}
	return nil
}
