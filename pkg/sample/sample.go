package sample

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Sample holds the words a learnt automaton must accept (Positive) and reject (Negative).
// Both slices are sets: sorted and without duplicates.
type Sample struct {
	Positive []string
	Negative []string
}

type InconsistentExamplesError struct {
	Words []string // Words present in both the positive and the negative set
}

func (err InconsistentExamplesError) Error() string {
	return fmt.Sprintf("examples must be disjoint: %q are both positive and negative", err.Words)
}

// InvalidWordError reports words that are not valid UTF-8 and therefore have no symbol decomposition
type InvalidWordError struct {
	Words []string
}

func (err InvalidWordError) Error() string {
	return fmt.Sprintf("words must be valid UTF-8: %q are not", err.Words)
}

// New builds a sample out of the given words, removing duplicates. It fails if a word is both positive and negative
func New(positive, negative []string) (Sample, error) {
	sample := Sample{
		Positive: normalize(positive),
		Negative: normalize(negative),
	}
	if err := sample.Validate(); err != nil {
		return Sample{}, err
	}
	return sample, nil
}

// Validate checks that every word is valid UTF-8 and that no word is both accepted and rejected
func (sample Sample) Validate() error {
	invalid := lo.Filter(sample.Words(), func(word string, _ int) bool { return !utf8.ValidString(word) })
	if len(invalid) > 0 {
		return InvalidWordError{Words: invalid}
	}
	shared := lo.Intersect(sample.Positive, sample.Negative)
	if len(shared) > 0 {
		slices.Sort(shared)
		return InconsistentExamplesError{Words: shared}
	}
	return nil
}

// Words returns S, the union of both sets
func (sample Sample) Words() []string {
	return ComputeS(sample.Positive, sample.Negative)
}

func (sample Sample) Len() int {
	return len(sample.Positive) + len(sample.Negative)
}

func (sample Sample) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "+%q -%q", sample.Positive, sample.Negative)
	return builder.String()
}

// ComputeS returns the union of Sp and Sm
func ComputeS(sp, sm []string) []string {
	return normalize(lo.Union(sp, sm))
}

// ComputePrefixes returns every prefix (including the empty one) of every word in Sp and Sm, in shortlex order.
// Hence a prefix always comes before any of its extensions
func ComputePrefixes(sp, sm []string) []string {
	prefixes := make(map[string]bool)
	prefixes[""] = true
	for _, word := range ComputeS(sp, sm) {
		symbols := []rune(word)
		for i := range symbols {
			prefixes[string(symbols[:i+1])] = true
		}
	}

	sorted := lo.Keys(prefixes)
	slices.SortFunc(sorted, Shortlex)
	return sorted
}

// ComputeAlphabet returns the sorted set of symbols used by Sp and Sm
func ComputeAlphabet(sp, sm []string) []rune {
	symbols := make(map[rune]bool)
	for _, word := range ComputeS(sp, sm) {
		for _, symbol := range word {
			symbols[symbol] = true
		}
	}

	alphabet := lo.Keys(symbols)
	slices.Sort(alphabet)
	return alphabet
}

// Shortlex orders words by length (in symbols) and then lexicographically
func Shortlex(a, b string) int {
	if lengthA, lengthB := utf8.RuneCountInString(a), utf8.RuneCountInString(b); lengthA != lengthB {
		return lengthA - lengthB
	}
	return strings.Compare(a, b)
}

func normalize(words []string) []string {
	normalized := lo.Uniq(words)
	slices.Sort(normalized)
	return normalized
}
