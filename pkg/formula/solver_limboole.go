package formula

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/limaJavier/dfainference/pkg/sat"
)

type limbooleSolver struct{}

// NewLimbooleSolver runs the limboole executable in satisfiability mode
func NewLimbooleSolver() Solver {
	return &limbooleSolver{}
}

func (solver *limbooleSolver) Solve(ctx context.Context, f Formula) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if assignment, ok := constantAssignment(f); ok {
		return assignment, nil
	}

	input, err := os.CreateTemp("", "limboole-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(input.Name())
	if _, err := input.WriteString(f.String() + "\n"); err != nil {
		input.Close()
		return nil, fmt.Errorf("failed to write formula: %w", err)
	}
	if err := input.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, sat.ExecutablePath("limboole"), "-s", input.Name())
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("an error occurred during limboole execution: %w : %v", err, stderr.String())
	}

	model, err := parseLimbooleOutput(stdOut.String())
	if err != nil || model == nil {
		return nil, err
	}
	return complete(f, model), nil
}

// parseLimbooleOutput reads "% SATISFIABLE ..." followed by "name = 0|1" lines, or "% UNSATISFIABLE ..."
func parseLimbooleOutput(output string) (map[string]bool, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty limboole output")
	}
	header := scanner.Text()
	if strings.Contains(header, "UNSATISFIABLE") {
		return nil, nil
	} else if !strings.Contains(header, "SATISFIABLE") {
		return nil, fmt.Errorf("unexpected limboole output %q", header)
	}

	model := make(map[string]bool)
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), " = ")
		if !ok {
			continue
		}
		model[strings.TrimSpace(name)] = strings.TrimSpace(value) == "1"
	}
	return model, scanner.Err()
}
