package errors

import (
	stderrors "errors"
	"io/fs"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/ledger"
	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/parser"
)

// Kind classifies an error by what went wrong, independent of which package
// produced it.
type Kind string

const (
	// KindIO means a journal file could not be read.
	KindIO Kind = "io"
	// KindParse means the input does not match the journal grammar, or holds a
	// date that does not exist.
	KindParse Kind = "parse"
	// KindValidation means the input parsed but is semantically invalid: an
	// unbalanced transaction, too many elided amounts or undeclared accounts.
	KindValidation Kind = "validation"
	// KindIncludePath means an include directive names a file that cannot be
	// followed.
	KindIncludePath Kind = "include_path"
	// KindIncludeCycle means a journal includes itself, directly or indirectly.
	KindIncludeCycle Kind = "include_cycle"
	// KindExtract means a value was not of the requested variant.
	KindExtract Kind = "extract"
	// KindUnknown is any other error, such as a canceled context.
	KindUnknown Kind = "unknown"
)

// KindOf returns the kind of err, looking through wrapped errors. It returns the
// empty Kind for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		cycleErr    *loader.IncludeCycleError
		notFoundErr *loader.IncludeNotFoundError
		depthErr    *loader.IncludeDepthError
		includeErr  *parser.IncludeError
		parseErr    *parser.ParseError
		dateErr     *parser.InvalidDateError
		extractErr  *ast.ExtractError
		readErr     *loader.ReadError
		pathErr     *fs.PathError
	)

	switch {
	case stderrors.As(err, &cycleErr):
		return KindIncludeCycle
	case stderrors.As(err, &notFoundErr), stderrors.As(err, &depthErr), stderrors.As(err, &includeErr):
		return KindIncludePath
	case stderrors.Is(err, ledger.ErrValidation):
		return KindValidation
	case stderrors.As(err, &parseErr), stderrors.As(err, &dateErr):
		return KindParse
	case stderrors.As(err, &extractErr):
		return KindExtract
	case stderrors.As(err, &readErr), stderrors.As(err, &pathErr):
		return KindIO
	}
	return KindUnknown
}
