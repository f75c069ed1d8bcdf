package loader

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
)

// ReadError is returned when a journal file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IncludeNotFoundError is returned when the target of an include directive does not
// exist.
type IncludeNotFoundError struct {
	Pos      ast.Position
	Path     string // As written in the directive
	Resolved string
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("%s: included file %q not found (resolved to %s)", e.Pos, e.Path, e.Resolved)
}

func (e *IncludeNotFoundError) GetPosition() ast.Position {
	return e.Pos
}

// IncludeCycleError is returned when a file includes itself, directly or through
// other files. Chain lists the files from the first occurrence back to it.
type IncludeCycleError struct {
	Pos   ast.Position
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("%s: include cycle: %s", e.Pos, strings.Join(e.Chain, " -> "))
}

func (e *IncludeCycleError) GetPosition() ast.Position {
	return e.Pos
}

// IncludeDepthError is returned when includes nest deeper than the configured limit.
type IncludeDepthError struct {
	Pos   ast.Position
	Path  string
	Limit int
}

func (e *IncludeDepthError) Error() string {
	return fmt.Sprintf("%s: including %q exceeds the maximum include depth of %d", e.Pos, e.Path, e.Limit)
}

func (e *IncludeDepthError) GetPosition() ast.Position {
	return e.Pos
}
