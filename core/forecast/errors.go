package forecast

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is wrapped by ParseError when a required input column is
// absent.
var ErrMissingColumn = errors.New("missing required column")

// ParseError reports input that cannot be interpreted. Line is 1-based and
// zero when the error is not tied to an input line.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Value != "":
		return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Column, e.Value, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
	case e.Value != "":
		return fmt.Sprintf("%s %q: %v", e.Column, e.Value, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Column, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
