package argparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ArgType int

const (
	String ArgType = iota
	Number
	Boolean
)

func (t ArgType) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	}

	return fmt.Sprintf("ArgType(%d)", int(t))
}

// ParseArgType maps the lowercase type name back to its ArgType.
func ParseArgType(s string) (ArgType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string":
		return String, nil
	case "number":
		return Number, nil
	case "boolean", "bool":
		return Boolean, nil
	}

	return String, fmt.Errorf("unknown argument type %q", s)
}

// Argument describes one accepted argument. It is built once with Arg and
// never mutated afterwards.
type Argument struct {
	Name        string
	Aliases     []string
	Type        ArgType
	Required    bool
	IsArray     bool
	Description string
}

type ArgOptions struct {
	Type        ArgType
	Required    bool
	IsArray     bool
	Description string
}

// Arg builds an Argument. The first name is the canonical one, reachable as
// --name, every following name becomes an alias reachable as -alias.
func Arg(opts *ArgOptions, names ...string) *Argument {
	if len(names) == 0 || names[0] == "" {
		panic("argument must have a name")
	}

	if opts == nil {
		opts = &ArgOptions{}
	}

	aliases := make([]string, len(names)-1)
	copy(aliases, names[1:])

	return &Argument{
		Name:        names[0],
		Aliases:     aliases,
		Type:        opts.Type,
		Required:    opts.Required,
		IsArray:     opts.IsArray,
		Description: opts.Description,
	}
}

func (a *Argument) String() string {
	return "--" + a.Name
}

// defaultValue is what an unbound, optional argument resolves to.
func (a *Argument) defaultValue() any {
	if a.IsArray {
		switch a.Type {
		case Number:
			return []float64{}
		case Boolean:
			return []bool{}
		default:
			return []string{}
		}
	}

	if a.Type == Boolean {
		return false
	}

	return nil
}

// Coerce converts a raw token into the scalar value of the given type.
// Booleans never fail: "true" (any case) and "1" are true, anything else is
// false.
func Coerce(raw string, t ArgType, name string) (any, error) {
	switch t {
	case Number:
		f, ok := parseNumber(raw)
		if !ok {
			return nil, &ParseError{Kind: InvalidValue, Name: name, Value: raw}
		}
		return f, nil
	case Boolean:
		return coerceBool(raw), nil
	default:
		return raw, nil
	}
}

func coerceBool(raw string) bool {
	return strings.EqualFold(raw, "true") || raw == "1"
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && strings.ContainsRune("xXoObB", rune(unsigned[1])) {
		// prefixed literals are unsigned integers only
		if unsigned != s {
			return 0, false
		}
		i, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(i), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return 0, false
	}
	if math.IsNaN(f) || strings.ContainsAny(s, "nN") {
		// strconv is more permissive than a numeric literal here
		return 0, false
	}

	return f, true
}

func isRangeErr(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
