package argparse

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	_ ErrorKind = iota

	UnknownOption
	MissingValue
	UnexpectedPositional
	MissingRequired
	InvalidValue
)

var (
	ErrUnknownOption        = errors.New("unknown option")
	ErrMissingValue         = errors.New("missing value for option")
	ErrUnexpectedPositional = errors.New("unexpected positional argument")
	ErrMissingRequired      = errors.New("missing required argument")
	ErrInvalidValue         = errors.New("invalid number value")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnknownOption:
		return ErrUnknownOption
	case MissingValue:
		return ErrMissingValue
	case UnexpectedPositional:
		return ErrUnexpectedPositional
	case MissingRequired:
		return ErrMissingRequired
	case InvalidValue:
		return ErrInvalidValue
	}

	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case UnknownOption:
		return "UnknownOption"
	case MissingValue:
		return "MissingValue"
	case UnexpectedPositional:
		return "UnexpectedPositional"
	case MissingRequired:
		return "MissingRequired"
	case InvalidValue:
		return "InvalidValue"
	}

	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is the failure handed to the error callback. Key is the option
// token as written (without any inline value), Name the canonical argument
// name, Value the offending raw token.
type ParseError struct {
	Kind  ErrorKind
	Key   string
	Name  string
	Value string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnknownOption:
		return fmt.Sprintf("%s: %s", ErrUnknownOption, e.Key)
	case MissingValue:
		return fmt.Sprintf("%s: %s", ErrMissingValue, e.Key)
	case UnexpectedPositional:
		return fmt.Sprintf("%s: %s after named arguments", ErrUnexpectedPositional, e.Value)
	case MissingRequired:
		return fmt.Sprintf("%s: %s", ErrMissingRequired, e.Name)
	case InvalidValue:
		return fmt.Sprintf("%s: %s for %s", ErrInvalidValue, e.Value, e.Name)
	}

	return "parse error"
}

func (e *ParseError) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf reports the ErrorKind carried by err, or 0 if err is not a parse
// failure.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	return 0
}
