package sat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type inputMode int

const (
	stdinInput inputMode = iota // DIMACS is fed through the standard input
	fileInput                   // DIMACS is written to a temporary file passed as argument
	fileInputOutput             // DIMACS and model go through temporary files (minisat family)
)

// externalSolver drives a SAT solver executable following the SAT competition conventions
type externalSolver struct {
	name string // Name of the executable and key in the config file
	args []string
	mode inputMode
}

func NewKissatSolver() SATSolver {
	return &externalSolver{name: "kissat", args: []string{"-q", "--relaxed"}, mode: stdinInput}
}

func NewCadicalSolver() SATSolver {
	return &externalSolver{name: "cadical", args: []string{"-q"}, mode: stdinInput}
}

func NewCryptominisatSolver() SATSolver {
	return &externalSolver{name: "cryptominisat", args: []string{"--verb", "0"}, mode: stdinInput}
}

func NewMinisatSolver() SATSolver {
	return &externalSolver{name: "minisat", args: []string{"-verb=0"}, mode: fileInputOutput}
}

func NewGlucoseSolver() SATSolver {
	return &externalSolver{name: "glucose", args: []string{"-verb=0"}, mode: fileInputOutput}
}

func NewSlimeSolver() SATSolver {
	return &externalSolver{name: "slime", mode: fileInput}
}

func NewOrtoolsatSolver() SATSolver {
	return &externalSolver{name: "ortoolsat", mode: fileInput}
}

func (solver *externalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	args := append([]string{}, solver.args...)
	var outputFile string
	if solver.mode != stdinInput {
		inputFile, err := writeTempFile("dimacs-*.cnf", dimacs)
		if err != nil {
			return nil, err
		}
		defer os.Remove(inputFile)
		args = append(args, inputFile)
	}
	if solver.mode == fileInputOutput {
		file, err := writeTempFile(solver.name+"_output-*.txt", "")
		if err != nil {
			return nil, err
		}
		defer os.Remove(file)
		outputFile = file
		args = append(args, outputFile)
	}

	cmd := exec.CommandContext(ctx, ExecutablePath(solver.name), args...)
	if solver.mode == stdinInput {
		cmd.Stdin = strings.NewReader(dimacs)
	}
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && exitCode != 10 && exitCode != 20 {
		return nil, fmt.Errorf("an error occurred during %v execution: %w : %v", solver.name, err, stderr.String())
	} else if exitCode == 20 {
		return nil, nil
	}

	if solver.mode == fileInputOutput {
		output, err := os.ReadFile(outputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read output file: %w", err)
		}
		return parseResultFile(string(output))
	}
	return parseSolution(stdOut.String())
}

func writeTempFile(pattern, content string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	return file.Name(), nil
}
