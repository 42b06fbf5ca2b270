package configset

import (
	"errors"
	"fmt"

	"github.com/redhatinsights/gitcfg/internal/parser"
)

var (
	// ErrInvalidKey is returned for lookup keys that are not of the form
	// section[.subsection].name.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidValue is returned when a value cannot be converted to the
	// requested type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrOutOfRange is returned when a numeric value does not fit the
	// requested type.
	ErrOutOfRange = errors.New("value out of range")
)

// ParseError reports a syntax error in a config file, with the file name and
// the line the error was found on.
type ParseError = parser.ParseError

// TypeError is returned by the typed getters when the value stored for a key
// cannot be converted to the requested type.
type TypeError struct {
	Key   string
	Value string
	Type  string
	File  string
	Line  int
	Err   error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("bad %s config value '%s' for '%s' in file %s at line %d: %v",
		e.Type, e.Value, e.Key, e.File, e.Line, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}
