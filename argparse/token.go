package argparse

import "strings"

type token struct {
	raw      string
	isOption bool
	key      string
	value    string
	hasValue bool
}

func isOption(s string) bool {
	return strings.HasPrefix(s, "-")
}

// classify splits an option token at its first '='. Positional tokens are
// returned as is.
func classify(s string) token {
	t := token{raw: s, key: s}
	if !isOption(s) {
		return t
	}

	t.isOption = true
	if key, value, ok := strings.Cut(s, "="); ok {
		t.key = key
		t.value = value
		t.hasValue = true
	}

	return t
}

// optionTable maps --name and -alias to their argument.
type optionTable map[string]*Argument

func newOptionTable(args []*Argument) optionTable {
	table := make(optionTable, len(args))
	for _, arg := range args {
		table["--"+arg.Name] = arg
		for _, alias := range arg.Aliases {
			table["-"+alias] = arg
		}
	}

	return table
}

func (t optionTable) lookup(tok token) (*Argument, error) {
	arg, ok := t[tok.key]
	if !ok {
		return nil, &ParseError{Kind: UnknownOption, Key: tok.key}
	}

	return arg, nil
}
