// Package loader turns journal files into a ledger.Journal. It follows include
// directives recursively, resolving each path against the directory of the file
// that contains the directive, and splices the included values in place.
//
// Include resolution is guarded against cycles: the loader tracks the canonical
// paths of the files currently being parsed and fails with an IncludeCycleError as
// soon as one of them is entered again. Including the same file from two different
// places is allowed and yields its entries twice.
//
// Example usage:
//
//	ldr := loader.New(loader.WithAccountCheck())
//	result, err := ldr.Load(ctx, "main.journal")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Journal.Transactions()), result.Includes)
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/ledger"
	"github.com/robinvdvleuten/hledger/parser"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// Loader loads journals with recursive include resolution.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithBaseDir("/srv/books"), WithMaxIncludeDepth(8))
type Loader struct {
	// FS reads journal files. Defaults to the operating system.
	FS FileSystem

	// BaseDir resolves includes of journals given as text rather than as a file.
	// Defaults to the working directory at the time New is called.
	BaseDir string

	// MaxIncludeDepth limits how deeply includes may nest. Zero means no limit.
	MaxIncludeDepth int

	// CheckAccounts validates, after all includes are flattened, that every
	// account used by a posting is declared.
	CheckAccounts bool
}

// Option configures how journals are loaded.
type Option func(*Loader)

// WithFileSystem replaces the file system used to read journals.
func WithFileSystem(fsys FileSystem) Option {
	return func(l *Loader) {
		l.FS = fsys
	}
}

// WithBaseDir sets the directory against which includes of text journals resolve.
func WithBaseDir(dir string) Option {
	return func(l *Loader) {
		l.BaseDir = dir
	}
}

// WithMaxIncludeDepth limits include nesting. Zero disables the limit.
func WithMaxIncludeDepth(depth int) Option {
	return func(l *Loader) {
		l.MaxIncludeDepth = depth
	}
}

// WithAccountCheck enables the undeclared account check.
func WithAccountCheck() Option {
	return func(l *Loader) {
		l.CheckAccounts = true
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{FS: OSFileSystem{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.BaseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			l.BaseDir = wd
		} else {
			l.BaseDir = "."
		}
	}
	return l
}

// Result is a loaded journal together with the files it was read from.
type Result struct {
	Journal *ledger.Journal

	// Root is the canonical path of the main file, empty for text input.
	Root string

	// Includes lists the canonical path of every included file once, in the order
	// they were first included.
	Includes []string
}

// Load reads the journal at filename, which is resolved against BaseDir when it is
// relative, and follows its includes.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	path := l.canonical(l.BaseDir, filename)

	timer := telemetry.StartTimer(ctx, "loader.load "+filepath.Base(path))
	defer timer.End()

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: filename, Err: err}
	}

	state := l.newState()
	state.active = []string{path}
	values, err := state.parse(telemetry.WithTimer(ctx, timer), path, filepath.Dir(path), data, 0)
	if err != nil {
		return nil, err
	}
	return l.assemble(values, path, state)
}

// LoadText parses a journal held in memory. Includes resolve against BaseDir.
func (l *Loader) LoadText(ctx context.Context, text string) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "loader.load text")
	defer timer.End()

	state := l.newState()
	values, err := state.parse(telemetry.WithTimer(ctx, timer), "", l.canonical(l.BaseDir, "."), []byte(text), 0)
	if err != nil {
		return nil, err
	}
	return l.assemble(values, "", state)
}

func (l *Loader) assemble(values []ast.Value, root string, state *loaderState) (*Result, error) {
	journal, err := ledger.New(values)
	if err != nil {
		return nil, err
	}
	if l.CheckAccounts {
		if err := journal.ValidateAccounts(); err != nil {
			return nil, err
		}
	}
	return &Result{Journal: journal, Root: root, Includes: state.includes}, nil
}

func (l *Loader) newState() *loaderState {
	return &loaderState{
		loader:   l,
		interner: parser.NewInterner(256),
		seen:     make(map[string]bool),
	}
}

// canonical resolves path against dir and cleans it.
func (l *Loader) canonical(dir, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// loaderState tracks one Load call.
type loaderState struct {
	loader   *Loader
	interner *parser.Interner
	active   []string        // Canonical paths of the files being parsed, outermost first
	includes []string        // Every included file, once
	seen     map[string]bool // Members of includes
}

// parse parses one journal. Includes in it resolve against baseDir.
func (s *loaderState) parse(ctx context.Context, filename, baseDir string, data []byte, depth int) ([]ast.Value, error) {
	return parser.Parse(ctx, string(data),
		parser.WithFilename(filename),
		parser.WithInterner(s.interner),
		parser.WithIncludeFunc(func(ctx context.Context, path string, pos ast.Position) ([]ast.Value, error) {
			return s.include(ctx, baseDir, path, pos, depth+1)
		}),
	)
}

// include resolves, reads and parses the target of an include directive.
func (s *loaderState) include(ctx context.Context, baseDir, path string, pos ast.Position, depth int) ([]ast.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := s.loader
	resolved := l.canonical(baseDir, path)

	if slices.Contains(s.active, resolved) {
		chain := append(slices.Clone(s.active[slices.Index(s.active, resolved):]), resolved)
		return nil, &IncludeCycleError{Pos: pos, Chain: chain}
	}
	if l.MaxIncludeDepth > 0 && depth > l.MaxIncludeDepth {
		return nil, &IncludeDepthError{Pos: pos, Path: path, Limit: l.MaxIncludeDepth}
	}

	if _, err := l.FS.Stat(resolved); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &IncludeNotFoundError{Pos: pos, Path: path, Resolved: resolved}
		}
		return nil, &ReadError{Path: resolved, Err: err}
	}

	timer := telemetry.StartTimer(ctx, "loader.include "+path)
	defer timer.End()

	data, err := l.FS.ReadFile(resolved)
	if err != nil {
		return nil, &ReadError{Path: resolved, Err: err}
	}

	if !s.seen[resolved] {
		s.seen[resolved] = true
		s.includes = append(s.includes, resolved)
	}

	s.active = append(s.active, resolved)
	defer func() { s.active = s.active[:len(s.active)-1] }()

	values, err := s.parse(telemetry.WithTimer(ctx, timer), resolved, filepath.Dir(resolved), data, depth)
	if err != nil {
		from := pos.Filename
		if from == "" {
			from = "<input>"
		}
		return nil, fmt.Errorf("in file %s: %w", from, err)
	}
	return values, nil
}
