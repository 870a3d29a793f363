package errors

import "errors"

var (
	ErrParseFailed     = errors.New("failed to parse arguments")
	ErrManifestExists  = errors.New("manifest already exists")
	ErrUnknownOutput   = errors.New("output must be yaml or json")
	ErrCommandNotFound = func(path string) error {
		return errors.New("command not found: " + path)
	}
)
