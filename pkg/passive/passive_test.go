package passive

import (
	"context"
	"errors"
	"math/rand/v2"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/limaJavier/dfainference/pkg/formula"
	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/limaJavier/dfainference/pkg/smt"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Names()).To(HaveLen(8))
	g.Expect(Names()).To(ContainElements(Unary, Binary, HeuleVerwer, UnaryNonCNF, BinaryNonCNF, HeuleVerwerNonCNF, Biermann, NeiderJansen))

	name, err := ParseName("HEULENONCNF")
	g.Expect(err).To(BeNil())
	g.Expect(name).To(Equal(HeuleVerwerNonCNF))

	_, err = ParseName("rpni")
	var invalid InvalidStrategyNameError
	g.Expect(errors.As(err, &invalid)).To(BeTrue())
	g.Expect(invalid.Name).To(Equal("rpni"))
}

func TestCreateErrors(t *testing.T) {
	examples := mustSample(t, []string{"ab"}, []string{"b"})

	t.Run("Unknown method", func(t *testing.T) {
		_, err := Create("rpni", 2, examples)
		var invalid InvalidStrategyNameError
		assert.ErrorAs(t, err, &invalid)
	})
	t.Run("No states", func(t *testing.T) {
		_, err := Create(Unary, 0, examples)
		assert.ErrorIs(t, err, ErrInvalidStates)
	})
	t.Run("Incomplete alphabet", func(t *testing.T) {
		_, err := Create(Unary, 2, examples, WithAlphabet([]rune{'a'}))
		assert.ErrorIs(t, err, ErrInvalidAlphabet)
	})
	t.Run("Prefixes not closed", func(t *testing.T) {
		_, err := Create(Unary, 2, examples, WithPrefixes([]string{"", "ab", "b"}))
		assert.ErrorIs(t, err, ErrInvalidPrefixes)
	})
	t.Run("Prefixes without the empty word", func(t *testing.T) {
		_, err := Create(Unary, 2, examples, WithPrefixes([]string{"a", "ab", "b"}))
		assert.ErrorIs(t, err, ErrInvalidPrefixes)
	})
	t.Run("S without every example", func(t *testing.T) {
		_, err := Create(Unary, 2, examples, WithS([]string{"ab"}))
		assert.ErrorIs(t, err, ErrInvalidS)
	})
}

func TestInconsistentExamples(t *testing.T) {
	//** Arrange
	examples := sample.Sample{Positive: []string{"a", "ab"}, Negative: []string{"ab", "b"}}
	solver := &countingSolver{solver: sat.NewGiniSolver()}

	for _, name := range Names() {
		//** Act
		_, createErr := Create(name, 2, examples, WithSATSolver(solver))
		_, searchErr := Search(context.Background(), name, examples, WithSATSolver(solver))

		//** Assert
		var inconsistent InconsistentExamplesError
		require.ErrorAs(t, createErr, &inconsistent)
		assert.Equal(t, []string{"ab"}, inconsistent.Words)
		assert.ErrorAs(t, searchErr, &inconsistent)
	}
	assert.Zero(t, solver.calls)
}

func TestInvalidWords(t *testing.T) {
	//** Arrange
	examples := sample.Sample{Positive: []string{"\xff"}, Negative: []string{""}}
	solver := &countingSolver{solver: sat.NewGiniSolver()}

	for _, name := range Names() {
		//** Act
		_, createErr := Create(name, 1, examples, WithSATSolver(solver))
		result, searchErr := Search(context.Background(), name, examples, WithSATSolver(solver))

		//** Assert
		var invalid InvalidWordError
		require.ErrorAs(t, createErr, &invalid)
		assert.Equal(t, []string{"\xff"}, invalid.Words)
		assert.ErrorAs(t, searchErr, &invalid)
		assert.Nil(t, result.DFA)
	}
	assert.Zero(t, solver.calls)

	t.Run("Supplied sets", func(t *testing.T) {
		examples := mustSample(t, []string{"a"}, []string{"b"})

		_, err := Create(Unary, 2, examples, WithS([]string{"a", "b", "\xfe"}))
		assert.ErrorIs(t, err, ErrInvalidS)
		_, err = Create(Unary, 2, examples, WithPrefixes([]string{"", "a", "b", "\xfe"}))
		assert.ErrorIs(t, err, ErrInvalidPrefixes)
		var invalid InvalidWordError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestSmallSample(t *testing.T) {
	//** Arrange
	examples := mustSample(t, []string{"a", "aa"}, []string{"b"})

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			//** Act
			result, err := Search(context.Background(), name, examples)

			//** Assert
			require.Nil(t, err)
			require.Equal(t, Found, result.Outcome)
			assert.Equal(t, 2, result.States)
			assert.Equal(t, 2, result.DFA.States())
			assert.True(t, result.DFA.Consistent(examples))
			assert.False(t, result.DFA.Accepts("b"))
			assert.Len(t, result.Attempts, 2)
			assert.Positive(t, result.Elapsed)
		})
	}
}

func TestEmptySample(t *testing.T) {
	examples := mustSample(t, nil, nil)

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			//** Act
			automaton, err := Construct(context.Background(), name, 1, examples)
			result, searchErr := Search(context.Background(), name, examples)

			//** Assert
			require.Nil(t, err)
			require.NotNil(t, automaton)
			assert.Equal(t, 1, automaton.States())
			assert.Empty(t, automaton.Alphabet())
			require.Nil(t, searchErr)
			assert.Equal(t, Found, result.Outcome)
			assert.Equal(t, 1, result.States)
		})
	}
}

func TestTimeLimit(t *testing.T) {
	//** Arrange
	examples := mustSample(t, []string{"a", "aa"}, []string{"b"})

	for _, name := range Names() {
		//** Act
		result, err := Search(context.Background(), name, examples, WithTimeLimit(time.Nanosecond))
		unlimited, unlimitedErr := Search(context.Background(), name, examples)

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, Timeout, result.Outcome)
		assert.Nil(t, result.DFA)
		assert.GreaterOrEqual(t, result.Elapsed, time.Nanosecond)
		require.Nil(t, unlimitedErr)
		assert.Equal(t, Found, unlimited.Outcome)
	}
}

func TestTimeLimitAfterUnsatisfiableSizes(t *testing.T) {
	//** Arrange
	// The smallest automaton counting lengths modulo 4 has 4 states, which the slowed down solver cannot reach in time
	examples := labelled(t, words("a", 7), func(word string) bool { return len(word)%4 == 0 })
	solver := &sleepingSolver{delay: 50 * time.Millisecond, solver: sat.NewGiniSolver()}
	limit := 150 * time.Millisecond

	//** Act
	result, err := Search(context.Background(), Unary, examples, WithSATSolver(solver), WithTimeLimit(limit))

	//** Assert
	require.Nil(t, err)
	assert.Equal(t, Timeout, result.Outcome)
	assert.Nil(t, result.DFA)
	assert.GreaterOrEqual(t, result.Elapsed, limit)
	require.NotEmpty(t, result.Attempts)
	for i, attempt := range result.Attempts {
		assert.Equal(t, i+1, attempt.States)
		assert.False(t, attempt.Satisfiable)
	}
}

func TestCancelledContext(t *testing.T) {
	//** Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	examples := mustSample(t, []string{"a"}, []string{"b"})

	for _, name := range Names() {
		//** Act
		automaton, err := Construct(ctx, name, 2, examples)
		_, searchErr := Search(ctx, name, examples)

		//** Assert
		assert.Nil(t, automaton)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, searchErr, context.Canceled)
	}
}

func TestParity(t *testing.T) {
	//** Arrange
	even := func(word string) bool { return strings.Count(word, "a")%2 == 0 }
	examples := labelled(t, words("ab", 4), even)

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			//** Act
			result, err := Search(context.Background(), name, examples)

			//** Assert
			require.Nil(t, err)
			require.Equal(t, 2, result.States)
			// The only consistent automaton with two states counts a's modulo 2
			for _, word := range words("ab", 6) {
				assert.Equal(t, even(word), result.DFA.Accepts(word), word)
			}
		})
	}
}

func TestCrossMethodAgreement(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 5 {
		//** Arrange
		examples := sample.Generate(8, 0, 4, 2, 0.5, rng)

		for states := 1; states <= 3; states++ {
			satisfiable := map[Name]bool{}
			for _, name := range Names() {
				//** Act
				automaton, err := Construct(context.Background(), name, states, examples)

				//** Assert
				require.Nil(t, err, "%v %v", name, examples)
				if automaton != nil {
					assert.True(t, automaton.Consistent(examples))
					assert.Equal(t, 0, automaton.Initial())
				}
				satisfiable[name] = automaton != nil
			}

			for _, name := range Names() {
				assert.Equal(t, satisfiable[Unary], satisfiable[name], "%v with %d states on %v", name, states, examples)
			}
		}
	}
}

func TestMonotoneSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for range 4 {
		//** Arrange
		examples := sample.Generate(7, 1, 4, 2, 0.4, rng)

		//** Act
		linear, err := Search(context.Background(), Unary, examples)

		//** Assert
		require.Nil(t, err)
		require.Equal(t, Found, linear.Outcome)
		require.Len(t, linear.Attempts, linear.States)
		for i, attempt := range linear.Attempts {
			assert.Equal(t, i+1, attempt.States)
			assert.Equal(t, i+1 == linear.States, attempt.Satisfiable)
		}

		for _, name := range []Name{Binary, HeuleVerwer} {
			bisection, err := Search(context.Background(), name, examples, WithBisection())
			require.Nil(t, err)
			assert.Equal(t, linear.States, bisection.States, name)
			assert.True(t, bisection.DFA.Consistent(examples))
		}

		for _, name := range Names() {
			for states := 1; states < linear.States; states++ {
				automaton, err := Construct(context.Background(), name, states, examples)
				assert.Nil(t, err)
				assert.Nil(t, automaton, "%v found %d states below %d", name, states, linear.States)
			}
		}
	}
}

func TestSolverBackends(t *testing.T) {
	examples := mustSample(t, []string{"", "ab", "abab"}, []string{"a", "b", "bb", "aba", "abb"})
	backends := map[string][]Option{
		"gophersat": {WithSATSolver(sat.NewGophersatSolver())},
		"circuit":   {WithFormulaSolver(formula.NewCircuitSolver(sat.NewGophersatSolver()))},
		"bdd":       {WithFormulaSolver(formula.NewBDDSolver())},
		"finite":    {WithSMTSolver(smt.NewFiniteSolver(formula.NewGophersatSolver()))},
	}
	for _, name := range []string{"kissat", "cadical", "minisat"} {
		if _, err := exec.LookPath(sat.ExecutablePath(name)); err == nil {
			solver, _ := sat.New(name)
			backends[name] = []Option{WithSATSolver(solver)}
		}
	}
	if _, err := exec.LookPath(sat.ExecutablePath("limboole")); err == nil {
		backends["limboole"] = []Option{WithFormulaSolver(formula.NewLimbooleSolver())}
	}
	for _, name := range []string{"z3", "cvc5"} {
		if _, err := exec.LookPath(sat.ExecutablePath(name)); err == nil {
			solver, _ := smt.New(name)
			backends[name] = []Option{WithSMTSolver(solver)}
		}
	}

	for backend, opts := range backends {
		t.Run(backend, func(t *testing.T) {
			for _, name := range Names() {
				//** Act
				result, err := Search(context.Background(), name, examples, opts...)

				//** Assert
				require.Nil(t, err, name)
				assert.Equal(t, 3, result.States, name)
				assert.True(t, result.DFA.Consistent(examples), name)
			}
		})
	}
}

func TestSuppliedSets(t *testing.T) {
	//** Arrange
	examples := mustSample(t, []string{"a"}, []string{"b"})
	opts := []Option{
		WithAlphabet([]rune{'c', 'a', 'b'}),
		WithS([]string{"a", "b", "ac"}),
		WithPrefixes([]string{"ac", "a", "", "b", "bc"}),
	}

	for _, name := range Names() {
		//** Act
		automaton, err := Construct(context.Background(), name, 2, examples, opts...)

		//** Assert
		require.Nil(t, err)
		require.NotNil(t, automaton)
		assert.Equal(t, []rune{'a', 'b', 'c'}, automaton.Alphabet())
		assert.True(t, automaton.Consistent(examples))
	}
}

func TestStatistics(t *testing.T) {
	examples := mustSample(t, []string{"a", "aa"}, []string{"b"})
	method, err := Create(Unary, 2, examples)
	require.Nil(t, err)

	//** Act
	automaton, err := method.ConstructDFA(context.Background())

	//** Assert
	require.Nil(t, err)
	require.NotNil(t, automaton)
	assert.Equal(t, Unary, method.Name())
	assert.Equal(t, 2, method.States())
	// Prefixes "", "a", "b", "aa" with 2 states
	assert.Equal(t, 8, method.Statistics().Variables)
	// 4 at-least-one, 4 at-most-one, 8 congruence for ("a", "aa") and 2 acceptance for each positive word
	assert.Equal(t, 4+4+8+4, method.Statistics().Constraints)
}

func TestVerifyRejectsInconsistentModels(t *testing.T) {
	//** Arrange
	examples := mustSample(t, []string{"a"}, []string{"b"})
	method, err := Create(Unary, 2, examples, WithSATSolver(&constantSolver{}))
	require.Nil(t, err)

	//** Act
	automaton, err := method.ConstructDFA(context.Background())

	//** Assert
	assert.Nil(t, automaton)
	var solverErr SolverError
	require.ErrorAs(t, err, &solverErr)
	assert.Equal(t, Unary, solverErr.Method)
	assert.Equal(t, 2, solverErr.States)
}

// countingSolver counts calls to the solver it wraps
type countingSolver struct {
	calls  int
	solver sat.SATSolver
}

func (solver *countingSolver) Solve(ctx context.Context, instance sat.SAT) (sat.SATSolution, error) {
	solver.calls++
	return solver.solver.Solve(ctx, instance)
}

// sleepingSolver waits before handing the instance to the solver it wraps
type sleepingSolver struct {
	delay  time.Duration
	solver sat.SATSolver
}

func (solver *sleepingSolver) Solve(ctx context.Context, instance sat.SAT) (sat.SATSolution, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(solver.delay):
		return solver.solver.Solve(ctx, instance)
	}
}

// constantSolver answers every instance with all variables true
type constantSolver struct{}

func (solver *constantSolver) Solve(_ context.Context, instance sat.SAT) (sat.SATSolution, error) {
	solution := make(sat.SATSolution, 0, instance.Variables)
	for variable := int64(1); variable <= int64(instance.Variables); variable++ {
		solution = append(solution, variable)
	}
	return solution, nil
}

func mustSample(t *testing.T, positive, negative []string) sample.Sample {
	examples, err := sample.New(positive, negative)
	require.Nil(t, err)
	return examples
}

func labelled(t *testing.T, all []string, accept func(string) bool) sample.Sample {
	positive, negative := []string{}, []string{}
	for _, word := range all {
		if accept(word) {
			positive = append(positive, word)
		} else {
			negative = append(negative, word)
		}
	}
	return mustSample(t, positive, negative)
}

// words lists every word over alphabet up to the given length
func words(alphabet string, length int) []string {
	all := []string{""}
	layer := []string{""}
	for range length {
		next := []string{}
		for _, word := range layer {
			for _, symbol := range alphabet {
				next = append(next, word+string(symbol))
			}
		}
		all = append(all, next...)
		layer = next
	}
	return all
}
