package smt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// sexpr is either an atom or a list
type sexpr struct {
	atom   string
	list   []sexpr
	isList bool
}

func (s sexpr) String() string {
	if !s.isList {
		return s.atom
	}
	return "(" + strings.Join(lo.Map(s.list, func(item sexpr, _ int) string { return item.String() }), " ") + ")"
}

// integer reads a numeral or a negated numeral "(- k)"
func (s sexpr) integer() (int, error) {
	if !s.isList {
		return strconv.Atoi(s.atom)
	}
	if len(s.list) == 2 && !s.list[0].isList && s.list[0].atom == "-" {
		value, err := s.list[1].integer()
		return -value, err
	}
	return 0, fmt.Errorf("%v is not an integer", s)
}

func tokenize(input string) []string {
	tokens := []string{}
	current := strings.Builder{}
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	inString := false
	for _, r := range input {
		switch {
		case inString:
			current.WriteRune(r)
			if r == '"' {
				inString = false
				flush()
			}
		case r == '"':
			flush()
			inString = true
			current.WriteRune(r)
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseSExprs reads every top-level expression of input
func parseSExprs(input string) ([]sexpr, error) {
	tokens := tokenize(input)
	expressions := []sexpr{}
	for len(tokens) > 0 {
		expression, rest, err := parseSExpr(tokens)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expression)
		tokens = rest
	}
	return expressions, nil
}

func parseSExpr(tokens []string) (sexpr, []string, error) {
	if len(tokens) == 0 {
		return sexpr{}, nil, fmt.Errorf("unexpected end of input")
	}

	switch token := tokens[0]; token {
	case ")":
		return sexpr{}, nil, fmt.Errorf("unexpected )")
	case "(":
		tokens = tokens[1:]
		list := []sexpr{}
		for {
			if len(tokens) == 0 {
				return sexpr{}, nil, fmt.Errorf("unbalanced parentheses")
			}
			if tokens[0] == ")" {
				return sexpr{list: list, isList: true}, tokens[1:], nil
			}
			item, rest, err := parseSExpr(tokens)
			if err != nil {
				return sexpr{}, nil, err
			}
			list = append(list, item)
			tokens = rest
		}
	default:
		return sexpr{atom: token}, tokens[1:], nil
	}
}
