package sat

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath locates the JSON file mapping solver names to executable paths
var ConfigPath = "../../config.json"

var configWarning sync.Once

// parseSolution collects the literals of the "v" lines printed by competition-style solvers
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

// parseResultFile reads the result file of the minisat family: a "SAT" header followed by the model
func parseResultFile(output string) (SATSolution, error) {
	header, model, _ := strings.Cut(output, "\n")
	switch strings.TrimSpace(header) {
	case "UNSAT":
		return nil, nil
	case "SAT":
		return parseLiterals(strings.Fields(model))
	default:
		return nil, fmt.Errorf("unexpected result header %q", header)
	}
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		literal, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		}
		if literal != 0 {
			solution = append(solution, literal)
		}
	}
	return solution, nil
}

// ExecutablePath returns the executable configured for the given tool, defaulting to the tool's name
func ExecutablePath(tool string) string {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		configWarning.Do(func() {
			log.Printf("cannot read %v, looking up executables in PATH: %v", ConfigPath, err)
		})
		return tool
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		log.Printf("cannot parse %v: %v", ConfigPath, err)
		return tool
	}

	var config map[string]string
	if err := mapstructure.Decode(inputJson, &config); err != nil {
		log.Printf("invalid config %v: %v", ConfigPath, err)
		return tool
	}

	if path, ok := config[tool]; ok && path != "" {
		return path
	}
	return tool
}
