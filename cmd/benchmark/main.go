package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/dfainference/pkg/passive"
	"github.com/limaJavier/dfainference/pkg/sample"

	"github.com/samber/lo"
)

const (
	executablePath         = "../../bin/dfainference"
	sampleDirectory        = "../../test/samples/"
	MB             float32 = 1024 * 1024
)

type SolverType int

const (
	gini SolverType = iota
	gophersat
	kissat
	cadical
	minisat
	cryptominisat
	glucose
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	timeout
)

var (
	solverTypes = map[SolverType]string{
		gini:          "gini",
		gophersat:     "gophersat",
		kissat:        "kissat",
		cadical:       "cadical",
		minisat:       "minisat",
		cryptominisat: "cryptominisat",
		glucose:       "glucose",
	}
	resultTypes = map[ResultType]string{
		solved:        "solved",
		unsatisfiable: "unsatisfiable",
		timeout:       "timeout",
	}
)

type TestMetadata struct {
	Name      string
	Words     int
	Positive  int
	Negative  int
	MaxLength int
}

type BenchmarkResult struct {
	Method        passive.Name
	Solver        SolverType
	Test          TestMetadata
	States        int
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	samplesPtr := flag.Int("samples", 5, "Number of random samples to generate")
	wordsPtr := flag.Int("words", 20, "Number of words per sample")
	lengthPtr := flag.Int("length", 6, "Maximum length of a word")
	seedPtr := flag.Uint64("seed", 1, "Seed of the sample generator")
	timeLimitPtr := flag.String("timelimit", "60s", "Time limit of every run")
	externalPtr := flag.Bool("external", false, "Benchmark the external SAT-Solvers as well as the embedded ones")
	flag.Parse()

	tests := getTests(*samplesPtr, *wordsPtr, *lengthPtr, *seedPtr)
	methods := passive.Names()
	solvers := getSolvers(*externalPtr)
	results := make([]BenchmarkResult, 0, len(tests)*len(methods)*len(solvers))

	for _, test := range tests {
		for _, method := range methods {
			for _, solver := range solvers {
				fmt.Printf("Benchmarking test \"%v\" with method \"%v\" and solver \"%v\"\n", test.Name, method, solverTypes[solver])

				states, duration, maxMemory, cpuPercentage, result := measure(method, solver, *timeLimitPtr, test.Name)

				results = append(results, BenchmarkResult{
					Method:        method,
					Solver:        solver,
					Test:          test,
					States:        states,
					Duration:      duration,
					Memory:        maxMemory,
					CpuPercentage: cpuPercentage,
					Result:        result,
				})
			}
		}
	}

	toCsv(results)
}

func getTests(samples, words, maxLength int, seed uint64) []TestMetadata {
	if err := os.MkdirAll(sampleDirectory, 0777); err != nil {
		log.Fatalf("cannot create directory: %v", err)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	tests := make([]TestMetadata, 0, samples)
	for i := range samples {
		generated := sample.Generate(words, 0, maxLength, 2, 0.5, rng)
		filename := filepath.Join(sampleDirectory, fmt.Sprintf("sample_%d_%d_%d.txt", words, maxLength, i))
		if err := sample.WriteToFile(filename, generated); err != nil {
			log.Fatalf("cannot write sample file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Words:     generated.Len(),
			Positive:  len(generated.Positive),
			Negative:  len(generated.Negative),
			MaxLength: maxLength,
		})
	}

	return tests
}

func getSolvers(external bool) []SolverType {
	if !external {
		return []SolverType{gini, gophersat}
	}
	return []SolverType{gini, gophersat, kissat, cadical, minisat, cryptominisat, glucose}
}

func measure(method passive.Name, solver SolverType, timeLimit string, testFile string) (states int, duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "-method", string(method), "-solver", solverTypes[solver], "-timelimit", timeLimit, "-file", testFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result = solved
		states = parseStatesLine(stdOut.String())
	case 20:
		result = unsatisfiable
	case 30:
		result = timeout
	default:
		log.Fatalf("an error occurred during the execution \"dfainference\" at test \"%v\" using method \"%v\" and solver \"%v\": %v\n", testFile, method, solverTypes[solver], stdErr.String())
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return states, duration, maxMemory, cpuPercentage, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Method", "Solver", "Test", "Words", "Positive", "Negative", "MaxLength", "States", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			string(result.Method),
			solverTypes[result.Solver],
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Words),
			fmt.Sprintf("%d", result.Test.Positive),
			fmt.Sprintf("%d", result.Test.Negative),
			fmt.Sprintf("%d", result.Test.MaxLength),
			fmt.Sprintf("%d", result.States),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseStatesLine(output string) int {
	line, ok := lo.Find(strings.Split(output, "\n"), func(line string) bool {
		return strings.HasPrefix(line, "States:")
	})
	if !ok {
		log.Fatalf("States could not be found in output: %v", output)
	}
	return lo.Must(strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "States:"))))
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// Maximum resident set size is reported in kilobytes
func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) * 1024 / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
