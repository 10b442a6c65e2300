package main

import (
	"context"
	"testing"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/passive"
	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnFixedSize(t *testing.T) {
	//** Arrange
	examples, err := sample.New([]string{"a", "aa"}, []string{"b"})
	require.Nil(t, err)

	for _, timeLimit := range []time.Duration{0, 10 * time.Second} {
		opts := []passive.Option{passive.WithTimeLimit(timeLimit)}

		//** Act
		automaton, states, outcome, err := learn(passive.Unary, 2, timeLimit, examples, opts)
		_, _, unsatOutcome, unsatErr := learn(passive.Unary, 1, timeLimit, examples, opts)

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, passive.Found, outcome)
		assert.Equal(t, 2, states)
		assert.True(t, automaton.Consistent(examples))
		assert.Equal(t, 10, exitCode(outcome, automaton, examples))

		require.Nil(t, unsatErr)
		assert.Equal(t, passive.NotFound, unsatOutcome)
		assert.Equal(t, 20, exitCode(unsatOutcome, nil, examples))
	}
}

func TestLearnFixedSizeTimeout(t *testing.T) {
	//** Arrange
	examples, err := sample.New([]string{"a", "aa"}, []string{"b"})
	require.Nil(t, err)

	//** Act
	automaton, _, outcome, err := learn(passive.Unary, 2, time.Nanosecond, examples, nil)

	//** Assert
	require.Nil(t, err)
	assert.Nil(t, automaton)
	assert.Equal(t, passive.Timeout, outcome)
	assert.Equal(t, 30, exitCode(outcome, automaton, examples))
}

func TestLearnKeepsSolverErrors(t *testing.T) {
	//** Arrange
	examples, err := sample.New([]string{"a"}, []string{"b"})
	require.Nil(t, err)
	opts := []passive.Option{passive.WithSATSolver(allTrueSolver{})}

	//** Act
	automaton, _, outcome, err := learn(passive.Unary, 2, 10*time.Second, examples, opts)

	//** Assert
	var solverErr passive.SolverError
	assert.ErrorAs(t, err, &solverErr)
	assert.Nil(t, automaton)
	assert.NotEqual(t, passive.Timeout, outcome)
}

func TestLearnSearch(t *testing.T) {
	//** Arrange
	examples, err := sample.New([]string{"a", "aa"}, []string{"b"})
	require.Nil(t, err)

	//** Act
	automaton, states, outcome, err := learn(passive.HeuleVerwer, 0, 0, examples, nil)

	//** Assert
	require.Nil(t, err)
	assert.Equal(t, passive.Found, outcome)
	assert.Equal(t, 2, states)
	assert.Equal(t, 10, exitCode(outcome, automaton, examples))
}

func TestExitCodeOfInconsistentAutomaton(t *testing.T) {
	//** Arrange
	examples, err := sample.New([]string{"a"}, []string{"b"})
	require.Nil(t, err)
	automaton, err := dfa.NewBuilder(1, []rune{'a', 'b'}).Build()
	require.Nil(t, err)

	//** Act & Assert
	assert.Equal(t, 15, exitCode(passive.Found, automaton, examples))
	assert.Equal(t, 15, exitCode(passive.Found, nil, examples))
}

// allTrueSolver answers every instance with all variables true
type allTrueSolver struct{}

func (allTrueSolver) Solve(_ context.Context, instance sat.SAT) (sat.SATSolution, error) {
	solution := make(sat.SATSolution, 0, instance.Variables)
	for variable := int64(1); variable <= int64(instance.Variables); variable++ {
		solution = append(solution, variable)
	}
	return solution, nil
}
