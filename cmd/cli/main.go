package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/formula"
	"github.com/limaJavier/dfainference/pkg/passive"
	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/limaJavier/dfainference/pkg/sat"
	"github.com/limaJavier/dfainference/pkg/smt"
	"github.com/samber/lo"
)

func main() {
	// Define arguments
	methodPtr := flag.String("method", "unary", fmt.Sprintf("Method used to learn the automaton. Allowed values are: %v, where \"unary\" is the default", passive.Names()))
	solverPtr := flag.String("solver", "gini", fmt.Sprintf("SAT-Solver used by the CNF methods (and by the finite SMT backend). Allowed values are: %v, where \"gini\" is the default", sat.Names()))
	formulaSolverPtr := flag.String("formula", "gophersat", fmt.Sprintf("Solver used by the NonCNF methods. Allowed values are: %v, where \"gophersat\" is the default", formula.Names()))
	smtSolverPtr := flag.String("smt", "finite", fmt.Sprintf("Solver used by the SMT methods. Allowed values are: %v, where \"finite\" is the default", smt.Names()))
	filePathPtr := flag.String("file", "", "Path to the sample file (.json or text with positive words, a ===== line and negative words)")
	statesPtr := flag.Int("states", 0, "Number of states of the automaton; if 0, the smallest automaton is searched for")
	timeLimitPtr := flag.Duration("timelimit", 0, "Time limit of the search (e.g. 30s); if 0, there is no limit")
	bisectPtr := flag.Bool("bisect", false, "Search the smallest size by bisection instead of trying 1, 2, 3, ...")
	outFilePathPtr := flag.String("out", "", "Path to the file where the automaton will be written; if empty, it'll be written into the Standard Output")
	configPathPtr := flag.String("config", "", "Path to config.json; if empty, the one next to the executable is used when present")
	verbosePtr := flag.Bool("verbose", false, "Log every attempt of the search")
	flag.Parse()

	setConfigPath(*configPathPtr)

	// Validate arguments
	method, err := passive.ParseName(*methodPtr)
	if err != nil {
		log.Fatalf("%v is not a valid method", *methodPtr)
	} else if !slices.Contains(sat.Names(), strings.ToLower(*solverPtr)) {
		log.Fatalf("%v is not a valid solver", *solverPtr)
	} else if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	} else if *statesPtr < 0 {
		log.Fatalf("the number of states must not be negative: %v", *statesPtr)
	}

	// Extract input
	examples, err := sample.Load(*filePathPtr)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	solver := lo.Must(sat.New(strings.ToLower(*solverPtr)))
	formulaSolver, err := formula.New(*formulaSolverPtr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	opts := []passive.Option{passive.WithSATSolver(solver), passive.WithFormulaSolver(formulaSolver), passive.WithTimeLimit(*timeLimitPtr)}
	if *smtSolverPtr != "finite" {
		smtSolver, err := smt.New(*smtSolverPtr)
		if err != nil {
			log.Fatalf("%v", err)
		}
		opts = append(opts, passive.WithSMTSolver(smtSolver))
	}
	if *bisectPtr {
		opts = append(opts, passive.WithBisection())
	}
	if *verbosePtr {
		opts = append(opts, passive.WithVerbose())
	}

	// Learn automaton
	start := time.Now()
	automaton, states, outcome, err := learn(method, *statesPtr, *timeLimitPtr, examples, opts)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("an error occurred during automaton construction: %v", err)
	}

	code := exitCode(outcome, automaton, examples)
	if code != 10 {
		if code == 15 && automaton != nil {
			fmt.Printf("Misclassified: %q\n", automaton.Misclassified(examples))
		}
		fmt.Printf("Elapsed: %v\n", elapsed)
		os.Exit(code)
	}

	// Marshal output into json
	automatonJson, err := json.Marshal(automaton)
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePathPtr == "" {
		fmt.Println(string(automatonJson))
	} else {
		err := os.WriteFile(*outFilePathPtr, automatonJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	fmt.Printf("States: %v\n", states)
	fmt.Printf("Elapsed: %v\n", elapsed)
	os.Exit(code)
}

// learn runs a single size when states is positive and a size search otherwise. A time limit reached while solving
// a single size is reported as a Timeout outcome, every other error is returned as is
func learn(method passive.Name, states int, timeLimit time.Duration, examples sample.Sample, opts []passive.Option) (*dfa.DFA, int, passive.Outcome, error) {
	if states == 0 {
		result, err := passive.Search(context.Background(), method, examples, opts...)
		return result.DFA, result.States, result.Outcome, err
	}

	ctx := context.Background()
	if timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeLimit)
		defer cancel()
	}

	automaton, err := passive.Construct(ctx, method, states, examples, opts...)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, states, passive.Timeout, nil
	case err != nil:
		return nil, states, passive.NotFound, err
	case automaton == nil:
		return nil, states, passive.NotFound, nil
	}
	return automaton, states, passive.Found, nil
}

// exitCode maps an outcome to 10 (found), 20 (not found), 15 (inconsistent automaton) or 30 (timeout)
func exitCode(outcome passive.Outcome, automaton *dfa.DFA, examples sample.Sample) int {
	switch outcome {
	case passive.Found:
		if automaton == nil || !automaton.Consistent(examples) {
			return 15
		}
		return 10
	case passive.Timeout:
		return 30
	default:
		return 20
	}
}

func setConfigPath(configPath string) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			log.Fatalf("cannot read config file: %v", err)
		}
		sat.ConfigPath = configPath
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("cannot determine executable path: %v", err)
	}
	execPath = path.Dir(execPath)

	// Verify config.json exists
	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Fatalf("cannot read executable's directory: %v", err)
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if slices.Contains(fileNames, "config.json") {
		sat.ConfigPath = execPath + "/config.json"
	}
}
