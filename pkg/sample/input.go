package sample

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Separator splits positive from negative words in the text format
const Separator = "====="

type RawSample struct {
	Positive []string
	Negative []string
}

// Load reads a sample from a JSON file (".json" extension) or from the text format otherwise
func Load(file string) (Sample, error) {
	if strings.EqualFold(filepath.Ext(file), ".json") {
		return FromJson(file)
	}
	return ReadFromFile(file)
}

// ReadFromFile reads a sample in the text format: one positive word per line, a line containing the separator and
// one negative word per line. An empty line stands for the empty word
func ReadFromFile(file string) (Sample, error) {
	input, err := os.Open(file)
	if err != nil {
		return Sample{}, fmt.Errorf("could not open file: %w", err)
	}
	defer input.Close()

	positive, negative := []string{}, []string{}
	accept := true

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == Separator {
			accept = false
		} else if accept {
			positive = append(positive, line)
		} else {
			negative = append(negative, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("error reading file: %w", err)
	}

	return New(positive, negative)
}

// WriteToFile writes the sample in the text format understood by ReadFromFile
func WriteToFile(file string, sample Sample) error {
	var builder strings.Builder
	for _, word := range sample.Positive {
		builder.WriteString(word + "\n")
	}
	builder.WriteString(Separator + "\n")
	for _, word := range sample.Negative {
		builder.WriteString(word + "\n")
	}

	if err := os.WriteFile(file, []byte(builder.String()), 0666); err != nil {
		return fmt.Errorf("could not write sample: %w", err)
	}
	return nil
}

// FromJson reads a sample from a JSON object holding a "positive" and a "negative" list of words
func FromJson(file string) (Sample, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Sample{}, fmt.Errorf("could not read file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Sample{}, err
	}

	var rawSample RawSample
	if err := mapstructure.Decode(inputJson, &rawSample); err != nil {
		return Sample{}, fmt.Errorf("invalid sample: %w", err)
	}
	return New(rawSample.Positive, rawSample.Negative)
}
