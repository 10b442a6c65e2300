package sat

import (
	"context"
	"math/rand/v2"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGini(t *testing.T) {
	solver := NewGiniSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestExternalSolvers(t *testing.T) {
	for _, name := range []string{"kissat", "cadical", "cryptominisat", "minisat", "glucose", "slime", "ortoolsat"} {
		t.Run(name, func(t *testing.T) {
			if _, err := exec.LookPath(ExecutablePath(name)); err != nil {
				t.Skipf("%v is not installed", name)
			}
			solver, err := New(name)
			require.Nil(t, err)

			satisfiableExecution(t, solver)
			unsatisfiableExecution(t, solver)
		})
	}
}

func TestInProcessSolversAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	giniSolver, gophersatSolver := NewGiniSolver(), NewGophersatSolver()

	for range 40 {
		//** Arrange
		satInstance := GenerateSATInstance(rng, 20, 90, 3) // Clause/variable ratio close to the phase transition

		//** Act
		giniSolution, giniErr := giniSolver.Solve(context.Background(), satInstance)
		gophersatSolution, gophersatErr := gophersatSolver.Solve(context.Background(), satInstance)

		//** Assert
		require.Nil(t, giniErr)
		require.Nil(t, gophersatErr)
		assert.Equal(t, giniSolution == nil, gophersatSolution == nil)
		if giniSolution != nil {
			assert.True(t, satInstance.Satisfied(giniSolution))
			assert.True(t, satInstance.Satisfied(gophersatSolution))
		}
	}
}

func TestUnconstrainedVariables(t *testing.T) {
	//** Arrange
	satInstance := SAT{Variables: 6, Clauses: [][]int64{{-2}, {3, 1}}}

	for _, solver := range []SATSolver{NewGiniSolver(), NewGophersatSolver()} {
		//** Act
		solution, err := solver.Solve(context.Background(), satInstance)

		//** Assert
		assert.Nil(t, err)
		assert.Len(t, solution, 6)
		assert.True(t, satInstance.Satisfied(solution))
		assert.Contains(t, solution, int64(-6))
	}
}

func TestCancelledContext(t *testing.T) {
	//** Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, solver := range []SATSolver{NewGiniSolver(), NewGophersatSolver(), NewKissatSolver()} {
		//** Act
		solution, err := solver.Solve(ctx, Pigeonhole(3, 3))

		//** Assert
		assert.Nil(t, solution)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestGiniUnderDeadline(t *testing.T) {
	//** Arrange
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	solver := NewGiniSolver()
	satInstance := SAT{Variables: 3, Clauses: [][]int64{{1, 2}, {-1, 3}, {-2, -3}}}
	const runs = 20

	//** Act
	start := time.Now()
	for range runs {
		solution, err := solver.Solve(ctx, satInstance)

		//** Assert
		require.Nil(t, err)
		require.NotNil(t, solution)
		assert.True(t, satInstance.Satisfied(solution))
	}
	assert.Less(t, time.Since(start), runs*giniMaxPoll/2)
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		solver, err := New(name)
		assert.Nil(t, err)
		assert.NotNil(t, solver)
	}

	_, err := New("walksat")
	assert.Error(t, err)
}

func TestDIMACS(t *testing.T) {
	//** Arrange
	satInstance := SAT{Variables: 4, Clauses: [][]int64{{1, -2}, {3}, {-1, 2, -4}}}

	//** Act
	parsed, err := ParseDIMACS(strings.NewReader("c comment\n" + satInstance.ToDIMACS()))

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, satInstance, parsed)
}

func TestParseDIMACSMultilineClause(t *testing.T) {
	//** Act
	parsed, err := ParseDIMACS(strings.NewReader("p cnf 3 2\n1 2\n3 0 -1\n0\n"))

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, [][]int64{{1, 2, 3}, {-1}}, parsed.Clauses)
}

func TestParseSolution(t *testing.T) {
	//** Act
	solution, err := parseSolution("c kissat\ns SATISFIABLE\nv 1 -2 3\nv -4 0\n")
	resultFile, resultErr := parseResultFile("SAT\n-1 2 0\n")
	unsat, unsatErr := parseResultFile("UNSAT\n")

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4}, solution)
	assert.Nil(t, resultErr)
	assert.Equal(t, SATSolution{-1, 2}, resultFile)
	assert.Nil(t, unsatErr)
	assert.Nil(t, unsat)
}

func TestValues(t *testing.T) {
	values := SATSolution{1, -2, 3}.Values(4)
	assert.Equal(t, []bool{false, true, false, true, false}, values)
}

func satisfiableExecution(t *testing.T, solver SATSolver) {
	rng := rand.New(rand.NewPCG(1, 2))
	instances := []SAT{
		{Variables: 3, Clauses: [][]int64{{1, 2}, {-1, 3}, {-3, -2}}},
		{Variables: 5, Clauses: [][]int64{{4}}}, // Variables missing from the clauses
		{Variables: 2},
		Pigeonhole(4, 4),
		GenerateSATInstance(rng, 30, 60, 3),
	}

	for _, satInstance := range instances {
		//** Act
		solution, err := solver.Solve(context.Background(), satInstance)

		//** Assert
		require.Nil(t, err)
		require.NotNil(t, solution)
		assert.True(t, satInstance.Satisfied(solution))
	}
}

func unsatisfiableExecution(t *testing.T, solver SATSolver) {
	instances := []SAT{
		{Variables: 1, Clauses: [][]int64{{1}, {-1}}},
		Pigeonhole(5, 4),
	}

	for _, satInstance := range instances {
		//** Act
		solution, err := solver.Solve(context.Background(), satInstance)

		//** Assert
		assert.Nil(t, err)
		assert.Nil(t, solution)
	}
}
