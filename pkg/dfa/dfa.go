package dfa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/limaJavier/dfainference/pkg/sample"
	"github.com/samber/lo"
)

// DFA is a complete deterministic automaton over states 0..States()-1 whose initial state is 0.
// It can only be obtained through a Builder and is never mutated afterwards
type DFA struct {
	alphabet  []rune
	symbols   map[rune]int
	delta     [][]int // delta[state][symbolIndex] -> state
	accepting []bool
}

func (automaton *DFA) States() int {
	return len(automaton.delta)
}

func (automaton *DFA) Alphabet() []rune {
	return append([]rune{}, automaton.alphabet...)
}

func (automaton *DFA) Initial() int {
	return 0
}

// Next returns the successor of state through symbol. The second result is false if the symbol is not in the alphabet
func (automaton *DFA) Next(state int, symbol rune) (int, bool) {
	index, ok := automaton.symbols[symbol]
	if !ok || state < 0 || state >= len(automaton.delta) {
		return 0, false
	}
	return automaton.delta[state][index], true
}

func (automaton *DFA) IsAccepting(state int) bool {
	return state >= 0 && state < len(automaton.accepting) && automaton.accepting[state]
}

// Run returns the state reached after reading word from the initial state
func (automaton *DFA) Run(word string) (int, bool) {
	state := automaton.Initial()
	for _, symbol := range word {
		next, ok := automaton.Next(state, symbol)
		if !ok {
			return 0, false
		}
		state = next
	}
	return state, true
}

// Accepts reports whether word is in the language of the automaton. Words with symbols outside the alphabet are rejected
func (automaton *DFA) Accepts(word string) bool {
	state, ok := automaton.Run(word)
	return ok && automaton.accepting[state]
}

// Misclassified returns the positive words the automaton rejects and the negative words it accepts
func (automaton *DFA) Misclassified(examples sample.Sample) []string {
	rejected := lo.Filter(examples.Positive, func(word string, _ int) bool {
		return !automaton.Accepts(word)
	})
	accepted := lo.Filter(examples.Negative, func(word string, _ int) bool {
		return automaton.Accepts(word)
	})
	return append(rejected, accepted...)
}

// Consistent reports whether the automaton accepts every positive and rejects every negative word
func (automaton *DFA) Consistent(examples sample.Sample) bool {
	return len(automaton.Misclassified(examples)) == 0
}

func (automaton *DFA) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "states: %d, initial: 0, accepting: %v\n", automaton.States(), automaton.acceptingStates())
	for state, row := range automaton.delta {
		for index, next := range row {
			fmt.Fprintf(&builder, "%d --%c--> %d\n", state, automaton.alphabet[index], next)
		}
	}
	return builder.String()
}

type transitionJson struct {
	From   int    `json:"from"`
	Symbol string `json:"symbol"`
	To     int    `json:"to"`
}

type dfaJson struct {
	States      int              `json:"states"`
	Initial     int              `json:"initial"`
	Alphabet    []string         `json:"alphabet"`
	Accepting   []int            `json:"accepting"`
	Transitions []transitionJson `json:"transitions"`
}

func (automaton *DFA) MarshalJSON() ([]byte, error) {
	output := dfaJson{
		States:    automaton.States(),
		Initial:   automaton.Initial(),
		Alphabet:  lo.Map(automaton.alphabet, func(symbol rune, _ int) string { return string(symbol) }),
		Accepting: automaton.acceptingStates(),
	}
	for state, row := range automaton.delta {
		for index, next := range row {
			output.Transitions = append(output.Transitions, transitionJson{
				From:   state,
				Symbol: string(automaton.alphabet[index]),
				To:     next,
			})
		}
	}
	return json.Marshal(output)
}

// UnmarshalJSON reads the form written by MarshalJSON
func (automaton *DFA) UnmarshalJSON(data []byte) error {
	var input dfaJson
	if err := json.Unmarshal(data, &input); err != nil {
		return err
	}

	alphabet := make([]rune, 0, len(input.Alphabet))
	for _, symbol := range input.Alphabet {
		runes := []rune(symbol)
		if len(runes) != 1 {
			return fmt.Errorf("%w: %q is not a single symbol", ErrUnknownSymbol, symbol)
		}
		alphabet = append(alphabet, runes[0])
	}

	builder := NewBuilder(input.States, alphabet)
	if err := builder.SetInitial(input.Initial); err != nil {
		return err
	}
	for _, state := range input.Accepting {
		if err := builder.SetAccepting(state, true); err != nil {
			return err
		}
	}
	for _, transition := range input.Transitions {
		runes := []rune(transition.Symbol)
		if len(runes) != 1 {
			return fmt.Errorf("%w: %q is not a single symbol", ErrUnknownSymbol, transition.Symbol)
		}
		if err := builder.SetTransition(transition.From, runes[0], transition.To); err != nil {
			return err
		}
	}

	built, err := builder.Build()
	if err != nil {
		return err
	}
	*automaton = *built
	return nil
}

func (automaton *DFA) acceptingStates() []int {
	accepting := []int{}
	for state, isAccepting := range automaton.accepting {
		if isAccepting {
			accepting = append(accepting, state)
		}
	}
	return accepting
}
