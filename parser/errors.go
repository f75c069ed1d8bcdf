package parser

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
)

// ParseError represents a syntax error during parsing.
type ParseError struct {
	Pos       ast.Position
	Message   string
	Remaining string // Unconsumed input from Pos on
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d:%d", e.Pos.Line, e.Pos.Column)
	}

	if near := e.Near(); near != "" {
		return fmt.Sprintf("%s: %s near %q", location, e.Message, near)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

// Near returns the rest of the line at which the error occurred.
func (e *ParseError) Near() string {
	line, _, _ := strings.Cut(e.Remaining, "\n")
	line = strings.TrimRight(line, "\r")
	if len(line) > 40 {
		line = line[:40] + "..."
	}
	return line
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func newErrorf(c cursor, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:       c.pos(),
		Message:   fmt.Sprintf(format, args...),
		Remaining: c.rest(),
	}
}

// InvalidDateError is returned for a well-formed date that does not exist on the
// calendar, such as 2021-02-29.
type InvalidDateError struct {
	Pos   ast.Position
	Year  int
	Month int
	Day   int
}

func (e *InvalidDateError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d:%d", e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: invalid date %04d-%02d-%02d", location, e.Year, e.Month, e.Day)
}

func (e *InvalidDateError) GetPosition() ast.Position {
	return e.Pos
}

// IncludeError is returned when an include directive cannot be followed.
type IncludeError struct {
	Pos  ast.Position
	Path string
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s: include %q: %v", e.Pos, e.Path, e.Err)
}

func (e *IncludeError) GetPosition() ast.Position {
	return e.Pos
}

func (e *IncludeError) Unwrap() error {
	return e.Err
}
