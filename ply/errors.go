package ply

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the path is not a readable regular file.
	ErrNotFound = errors.New("ply: file not found")
	// ErrMalformedHeader covers a missing end_header, a missing or
	// non-positive vertex count, and non-ascii formats.
	ErrMalformedHeader = errors.New("ply: malformed header")
	// ErrNumericParse is returned when a data token is present but not a number.
	ErrNumericParse = errors.New("ply: numeric parse error")
)

// ParseError locates a failure in the input. Err is one of the sentinels above.
type ParseError struct {
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%v: line %d: %q", e.Err, e.Line, e.Token)
	}
	return fmt.Sprintf("%v: line %d", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }
