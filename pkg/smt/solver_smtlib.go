package smt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/limaJavier/dfainference/pkg/sat"
)

// smtlibSolver runs an SMT-LIB 2 compliant executable over a script file
type smtlibSolver struct {
	name string // Name of the executable and key in the config file
	args []string
}

func NewZ3Solver() Solver {
	return &smtlibSolver{name: "z3", args: []string{"-smt2"}}
}

func NewCVC5Solver() Solver {
	return &smtlibSolver{name: "cvc5", args: []string{"--lang", "smt2"}}
}

func (solver *smtlibSolver) Solve(ctx context.Context, problem *Problem) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script, err := os.CreateTemp("", solver.name+"-*.smt2")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(script.Name())
	if _, err := script.WriteString(problem.SMTLIB()); err != nil {
		script.Close()
		return nil, fmt.Errorf("failed to write script: %w", err)
	}
	if err := script.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, sat.ExecutablePath(solver.name), append(append([]string{}, solver.args...), script.Name())...)
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Solvers exit with an error after (get-value ...) on unsatisfiable problems, so the verdict decides
	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	model, err := parseSMTLIBOutput(stdOut.String())
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("an error occurred during %v execution: %w : %v", solver.name, runErr, stderr.String())
		}
		return nil, err
	}
	return model, nil
}

// parseSMTLIBOutput reads the check-sat verdict followed, when satisfiable, by the get-value response
func parseSMTLIBOutput(output string) (Model, error) {
	verdict, rest, _ := strings.Cut(strings.TrimSpace(output), "\n")
	switch strings.TrimSpace(verdict) {
	case "unsat":
		return nil, nil
	case "sat":
	default:
		return nil, fmt.Errorf("unexpected solver verdict %q", verdict)
	}

	expressions, err := parseSExprs(rest)
	if err != nil {
		return nil, fmt.Errorf("cannot parse model: %w", err)
	}

	model := make(Model)
	for _, expression := range expressions {
		if !expression.isList {
			continue
		}
		if len(expression.list) > 0 && !expression.list[0].isList && expression.list[0].atom == "error" {
			return nil, fmt.Errorf("solver error %v", expression)
		}
		for _, pair := range expression.list {
			if !pair.isList || len(pair.list) != 2 {
				return nil, fmt.Errorf("unexpected value %v", pair)
			}
			value, err := pair.list[1].integer()
			if err != nil {
				return nil, err
			}
			model[pair.list[0].String()] = value
		}
	}
	return model, nil
}
