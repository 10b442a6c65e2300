package sample

import (
	"math"
	"math/rand/v2"
	"strings"
)

// Generate builds a random sample of (at most) the given number of distinct words over the alphabet {a, b, ...} of the
// given size. Each word is positive with probability positiveRatio.
// The number of words is capped by the amount of distinct words with lengths in [minLength, maxLength]
func Generate(words, minLength, maxLength, alphabetSize int, positiveRatio float64, rng *rand.Rand) Sample {
	if alphabetSize <= 0 || maxLength < minLength || minLength < 0 {
		return Sample{Positive: []string{}, Negative: []string{}}
	}
	words = min(words, available(minLength, maxLength, alphabetSize))

	taken := make(map[string]bool, words)
	positive, negative := make([]string, 0, words), make([]string, 0, words)

	var builder strings.Builder
	for len(taken) < words {
		builder.Reset()
		length := minLength + rng.IntN(maxLength-minLength+1)
		for range length {
			builder.WriteRune(rune('a' + rng.IntN(alphabetSize)))
		}

		word := builder.String()
		if taken[word] {
			continue
		}
		taken[word] = true

		if rng.Float64() < positiveRatio {
			positive = append(positive, word)
		} else {
			negative = append(negative, word)
		}
	}

	// Words are distinct, therefore the sample is consistent
	sample, _ := New(positive, negative)
	return sample
}

func available(minLength, maxLength, alphabetSize int) int {
	total := 0.0
	for length := minLength; length <= maxLength; length++ {
		total += math.Pow(float64(alphabetSize), float64(length))
		if total >= math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return int(total)
}
