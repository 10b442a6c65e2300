package passive

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/limaJavier/dfainference/pkg/dfa"
	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/samber/lo"
)

// encoding gathers what every method derives from the examples for one candidate size.
// Prefixes are referred to by their position in shortlex order, the empty prefix being 0
type encoding struct {
	states   int
	examples sample.Sample
	alphabet []rune
	symbols  map[rune]int
	prefixes []string
	index    map[string]int
	parent   []int // Parent prefix, -1 for the empty prefix
	symbol   []int // Last symbol, -1 for the empty prefix
	positive []int
	negative []int
	siblings [][2]int // Pairs of distinct prefixes ending with the same symbol
}

func newEncoding(states int, examples sample.Sample, config options) (*encoding, error) {
	s := config.s
	if s == nil {
		s = examples.Words()
	} else if missing, _ := lo.Difference(examples.Words(), s); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidS, missing)
	} else if invalid := invalidWords(s); len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidS, InvalidWordError{Words: invalid})
	}

	alphabet := config.alphabet
	if alphabet == nil {
		alphabet = sample.ComputeAlphabet(s, nil)
	} else {
		alphabet = lo.Uniq(alphabet)
		slices.Sort(alphabet)
	}
	if missing, _ := lo.Difference(sample.ComputeAlphabet(s, nil), alphabet); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q are missing", ErrInvalidAlphabet, string(missing))
	}

	prefixes := config.prefixes
	if prefixes == nil {
		prefixes = sample.ComputePrefixes(s, nil)
	} else {
		if invalid := invalidWords(prefixes); len(invalid) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPrefixes, InvalidWordError{Words: invalid})
		}
		prefixes = lo.Uniq(prefixes)
		slices.SortFunc(prefixes, sample.Shortlex)
		if err := validatePrefixes(prefixes, s, alphabet); err != nil {
			return nil, err
		}
	}

	enc := &encoding{
		states:   states,
		examples: examples,
		alphabet: alphabet,
		symbols:  make(map[rune]int, len(alphabet)),
		prefixes: prefixes,
		index:    make(map[string]int, len(prefixes)),
		parent:   make([]int, len(prefixes)),
		symbol:   make([]int, len(prefixes)),
	}
	for i, symbol := range alphabet {
		enc.symbols[symbol] = i
	}
	for i, prefix := range prefixes {
		enc.index[prefix] = i
	}

	children := make([][]int, len(alphabet))
	for i, prefix := range prefixes {
		if i == 0 {
			enc.parent[i], enc.symbol[i] = -1, -1
			continue
		}
		symbols := []rune(prefix)
		parent, err := enc.prefix(string(symbols[:len(symbols)-1]))
		if err != nil {
			return nil, err
		}
		symbol, ok := enc.symbols[symbols[len(symbols)-1]]
		if !ok {
			return nil, fmt.Errorf("%w: %q ends with an unknown symbol", ErrInvalidAlphabet, prefix)
		}
		enc.parent[i], enc.symbol[i] = parent, symbol
		children[symbol] = append(children[symbol], i)
	}
	for _, group := range children {
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				enc.siblings = append(enc.siblings, [2]int{group[i], group[j]})
			}
		}
	}

	var err error
	if enc.positive, err = enc.prefixesOf(examples.Positive); err != nil {
		return nil, err
	}
	if enc.negative, err = enc.prefixesOf(examples.Negative); err != nil {
		return nil, err
	}
	return enc, nil
}

// prefix returns the position of a word among the prefixes
func (enc *encoding) prefix(word string) (int, error) {
	position, ok := enc.index[word]
	if !ok {
		return 0, fmt.Errorf("%w: %q is missing", ErrInvalidPrefixes, word)
	}
	return position, nil
}

func (enc *encoding) prefixesOf(words []string) ([]int, error) {
	positions := make([]int, 0, len(words))
	for _, word := range words {
		position, err := enc.prefix(word)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, nil
}

func invalidWords(words []string) []string {
	return lo.Filter(words, func(word string, _ int) bool { return !utf8.ValidString(word) })
}

// validatePrefixes checks that sorted prefixes start with the empty word, are prefix-closed, contain S and only use
// alphabet symbols
func validatePrefixes(prefixes, s []string, alphabet []rune) error {
	if len(prefixes) == 0 || prefixes[0] != "" {
		return fmt.Errorf("%w: the empty prefix is missing", ErrInvalidPrefixes)
	}
	if missing, _ := lo.Difference(s, prefixes); len(missing) > 0 {
		return fmt.Errorf("%w: %q are missing", ErrInvalidPrefixes, missing)
	}

	present := lo.SliceToMap(prefixes, func(prefix string) (string, bool) { return prefix, true })
	for _, prefix := range prefixes[1:] {
		symbols := []rune(prefix)
		if !present[string(symbols[:len(symbols)-1])] {
			return fmt.Errorf("%w: the parent of %q is missing", ErrInvalidPrefixes, prefix)
		}
		if !slices.Contains(alphabet, symbols[len(symbols)-1]) {
			return fmt.Errorf("%w: %q ends with an unknown symbol", ErrInvalidAlphabet, prefix)
		}
	}
	return nil
}

// automatonFromStates decodes the state reached by every prefix: the empty prefix gives the initial state, every
// prefix extension a transition and every positive word an accepting state
func (enc *encoding) automatonFromStates(stateOf []int) (*dfa.DFA, error) {
	builder := dfa.NewBuilder(enc.states, enc.alphabet)
	if err := builder.SetInitial(stateOf[0]); err != nil {
		return nil, err
	}
	for child := 1; child < len(enc.prefixes); child++ {
		if err := builder.SetTransition(stateOf[enc.parent[child]], enc.alphabet[enc.symbol[child]], stateOf[child]); err != nil {
			return nil, err
		}
	}
	for _, u := range enc.positive {
		if err := builder.SetAccepting(stateOf[u], true); err != nil {
			return nil, err
		}
	}
	return builder.Build()
}

// automatonFromTable decodes an explicit transition table
func (enc *encoding) automatonFromTable(initial int, delta [][]int, accepting []bool) (*dfa.DFA, error) {
	builder := dfa.NewBuilder(enc.states, enc.alphabet)
	if err := builder.SetInitial(initial); err != nil {
		return nil, err
	}
	for p := range delta {
		for a, q := range delta[p] {
			if err := builder.SetTransition(p, enc.alphabet[a], q); err != nil {
				return nil, err
			}
		}
		if err := builder.SetAccepting(p, accepting[p]); err != nil {
			return nil, err
		}
	}
	return builder.Build()
}

// oneHotStates reads the state of every prefix from x(u, q)
func (enc *encoding) oneHotStates(x func(u, q int) bool) ([]int, error) {
	stateOf := make([]int, len(enc.prefixes))
	for u := range enc.prefixes {
		state, found := lo.Find(lo.Range(enc.states), func(q int) bool { return x(u, q) })
		if !found {
			return nil, fmt.Errorf("prefix %q reaches no state", enc.prefixes[u])
		}
		stateOf[u] = state
	}
	return stateOf, nil
}

// binaryStates reads the state of every prefix from its bits b(u, k), least significant first
func (enc *encoding) binaryStates(b func(u, k int) bool) []int {
	stateOf := make([]int, len(enc.prefixes))
	for u := range enc.prefixes {
		for k := range bits(enc.states) {
			if b(u, k) {
				stateOf[u] |= 1 << k
			}
		}
	}
	return stateOf
}

// transitionTable reads delta from d(p, a, q) and acceptance from f(q)
func (enc *encoding) transitionTable(d func(p, a, q int) bool, f func(q int) bool) ([][]int, []bool, error) {
	delta := make([][]int, enc.states)
	accepting := make([]bool, enc.states)
	for p := range enc.states {
		delta[p] = make([]int, len(enc.alphabet))
		for a := range enc.alphabet {
			next, found := lo.Find(lo.Range(enc.states), func(q int) bool { return d(p, a, q) })
			if !found {
				return nil, nil, fmt.Errorf("state %d has no transition on %q", p, enc.alphabet[a])
			}
			delta[p][a] = next
		}
		accepting[p] = f(p)
	}
	return delta, accepting, nil
}

// bits returns the number of bits needed to number states, that is ceil(log2(states))
func bits(states int) int {
	count := 0
	for 1<<count < states {
		count++
	}
	return count
}
