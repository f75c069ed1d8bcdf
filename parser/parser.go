// Package parser implements the grammar of hledger-style journals as a hand-written
// recursive descent parser. Every grammar function takes a cursor into the input and
// returns the cursor after what it consumed, so backtracking is simply retrying from
// an earlier cursor.
//
// Parse runs the top-level loop over a whole journal. Each line or block is offered
// to the grammar rules in a fixed order: transaction, blank line, comment line,
// price, account directive, commodity directive and include directive. The first
// rule that matches wins.
//
// Include directives are handed to an IncludeFunc, which reads and parses the
// target and returns its values. The parser itself performs no I/O; the loader
// package provides an IncludeFunc that resolves paths against a base directory.
//
// Example usage:
//
//	values, err := parser.Parse(ctx, source, parser.WithFilename("main.journal"))
//	if err != nil {
//	    var perr *parser.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Pos, perr.Message)
//	    }
//	}
package parser

import (
	"context"
	"errors"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// ErrIncludeNotSupported is returned for include directives when no IncludeFunc is
// configured.
var ErrIncludeNotSupported = errors.New("include directives require an include function")

// IncludeFunc returns the values of the journal named by an include directive. path
// is the path as written in the directive and pos is the position of the directive.
type IncludeFunc func(ctx context.Context, path string, pos ast.Position) ([]ast.Value, error)

// Option configures a parse.
type Option func(*parser)

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *parser) {
		p.filename = filename
	}
}

// WithIncludeFunc sets the function used to follow include directives.
func WithIncludeFunc(fn IncludeFunc) Option {
	return func(p *parser) {
		p.include = fn
	}
}

// WithInterner shares an interner for account names and currencies.
func WithInterner(interner *Interner) Option {
	return func(p *parser) {
		p.interner = interner
	}
}

type parser struct {
	filename string
	include  IncludeFunc
	interner *Interner
}

// Parse parses a journal into the values of its top-level rules, in source order.
// Include directives become *ast.Included values holding the included journal's
// values. Parsing stops at the first error.
func Parse(ctx context.Context, text string, opts ...Option) ([]ast.Value, error) {
	p := &parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.interner == nil {
		p.interner = NewInterner(64)
	}

	name := p.filename
	if name == "" {
		name = "<input>"
	}
	timer := telemetry.StartTimer(ctx, "parser.parse "+name)
	defer timer.End()

	return p.parseValues(telemetry.WithTimer(ctx, timer), cursor{src: newSource(p.filename, text)})
}

func (p *parser) parseValues(ctx context.Context, c cursor) ([]ast.Value, error) {
	var values []ast.Value
	for !c.eof() {
		value, next, err := p.parseLine(ctx, c)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		c = next
	}
	return values, nil
}

// rule is one top-level grammar alternative.
type rule func(ctx context.Context, c cursor) (ast.Value, cursor, error)

// parseLine applies the first matching rule at c. Syntax errors let the next rule
// try; any other error, such as a failed validation or include, ends the parse.
// When no rule matches, the syntax error that got furthest into the input is
// reported.
func (p *parser) parseLine(ctx context.Context, c cursor) (ast.Value, cursor, error) {
	rules := []rule{
		p.transactionRule,
		blankRule,
		commentRule,
		p.priceRule,
		p.accountRule,
		p.commodityRule,
		p.includeRule,
	}

	var furthest *ParseError
	for _, r := range rules {
		value, next, err := r(ctx, c)
		if err == nil {
			return value, next, nil
		}

		// Errors from included files arrive wrapped and are never retried.
		perr, ok := err.(*ParseError)
		if !ok {
			return nil, c, err
		}
		if furthest == nil || perr.Pos.Offset > furthest.Pos.Offset {
			furthest = perr
		}
	}

	if furthest == nil || furthest.Pos.Offset == c.off {
		return nil, c, c.errorf("unexpected input")
	}
	return nil, c, furthest
}

func (p *parser) transactionRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	txn, next, err := p.parseTransaction(c)
	if err != nil {
		return nil, c, err
	}
	return txn, next, nil
}

func blankRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	next, err := blankLine(c)
	if err != nil {
		return nil, c, err
	}
	return ast.Ignore{}, next, nil
}

func commentRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	_, next, err := lineComment(c)
	if err != nil {
		return nil, c, err
	}
	return ast.Ignore{}, next, nil
}

func (p *parser) priceRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	price, next, err := p.parsePrice(c)
	if err != nil {
		return nil, c, err
	}
	return price, next, nil
}

func (p *parser) accountRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	account, next, err := p.parseAccountDirective(c)
	if err != nil {
		return nil, c, err
	}
	return account, next, nil
}

func (p *parser) commodityRule(_ context.Context, c cursor) (ast.Value, cursor, error) {
	commodity, next, err := p.parseCommodity(c)
	if err != nil {
		return nil, c, err
	}
	return commodity, next, nil
}

func (p *parser) includeRule(ctx context.Context, c cursor) (ast.Value, cursor, error) {
	path, next, err := parseInclude(c)
	if err != nil {
		return nil, c, err
	}

	pos := c.pos()
	if p.include == nil {
		return nil, c, &IncludeError{Pos: pos, Path: path, Err: ErrIncludeNotSupported}
	}
	values, err := p.include(ctx, path, pos)
	if err != nil {
		return nil, c, err
	}
	return &ast.Included{Pos: pos, Path: path, Values: values}, next, nil
}

func (p *parser) intern(s string) string {
	return p.interner.Intern(s)
}

func (p *parser) internAmount(a ast.Amount) *ast.Amount {
	a.Currency = p.intern(a.Currency)
	return &a
}
