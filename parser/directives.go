package parser

import (
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
)

// keyword consumes word followed by at least one space.
func keyword(c cursor, word string) (cursor, error) {
	next, ok := literal(c, word)
	if !ok {
		return c, c.errorf("expected %q", word)
	}
	next, ok = space1(next)
	if !ok {
		return c, next.errorf("expected space after %q", word)
	}
	return next, nil
}

// endOfDirective consumes trailing whitespace and the line terminator.
func endOfDirective(c cursor) (cursor, error) {
	next, ok := lineEnding(space0(c))
	if !ok {
		return c, space0(c).errorf("unexpected text at end of line")
	}
	return next, nil
}

// parsePrice parses "P <date> <commodity> <amount>".
func (p *parser) parsePrice(c cursor) (*ast.Price, cursor, error) {
	next, err := keyword(c, "P")
	if err != nil {
		return nil, c, err
	}

	date, next, err := parseDate(next, 0)
	if err != nil {
		return nil, c, err
	}
	next, ok := space1(next)
	if !ok {
		return nil, c, next.errorf("expected space after date")
	}

	commodity, next, err := parseCurrency(next)
	if err != nil {
		return nil, c, err
	}
	if commodity == "" {
		return nil, c, next.errorf("expected commodity")
	}
	next, ok = space1(next)
	if !ok {
		return nil, c, next.errorf("expected space after commodity")
	}

	amount, next, err := parseAmount(next)
	if err != nil {
		return nil, c, err
	}
	next, err = endOfDirective(next)
	if err != nil {
		return nil, c, err
	}

	amount.Currency = p.intern(amount.Currency)
	return &ast.Price{
		Pos:       c.pos(),
		Date:      date,
		Commodity: p.intern(commodity),
		Amount:    amount,
	}, next, nil
}

// parseAccountDirective parses "account <name>". The name is the rest of the line
// and must not contain two consecutive spaces.
func (p *parser) parseAccountDirective(c cursor) (*ast.AccountDirective, cursor, error) {
	next, err := keyword(c, "account")
	if err != nil {
		return nil, c, err
	}

	line, end := restOfLine(next)
	if i := strings.Index(line, "  "); i >= 0 {
		return nil, c, next.advance(i).errorf("account name must not contain two consecutive spaces")
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return nil, c, next.errorf("expected account name")
	}

	end, _ = lineEnding(end)
	return &ast.AccountDirective{Pos: c.pos(), Name: ast.Account(p.intern(name))}, end, nil
}

// parseCommodity parses a commodity directive, trying the multi-line form first:
//
//	commodity USD
//	    format 1000.00USD
//
// and then the single-line forms "commodity $1000.00", "commodity 1000.00 USD" and
// "commodity INR".
func (p *parser) parseCommodity(c cursor) (*ast.Commodity, cursor, error) {
	next, err := keyword(c, "commodity")
	if err != nil {
		return nil, c, err
	}

	if commodity, end, err := p.parseCommodityBlock(c, next); err == nil {
		return commodity, end, nil
	}

	// Sample amount with the number first: the currency is the name.
	start := next
	if _, after, err := parseMoney(start, false); err == nil {
		name, after, err := parseCurrency(space0(after))
		if err == nil && name != "" {
			format := start.textTo(after)
			if end, err := endOfDirective(after); err == nil {
				return p.newCommodity(c, name, &format), end, nil
			}
		}
	}

	name, after, err := parseCurrency(start)
	if err != nil {
		return nil, c, err
	}
	if name == "" {
		return nil, c, start.errorf("expected commodity")
	}

	var format *string
	if _, end, err := parseMoney(space0(after), false); err == nil {
		text := start.textTo(end)
		format = &text
		after = end
	}

	end, err := endOfDirective(after)
	if err != nil {
		return nil, c, err
	}
	return p.newCommodity(c, name, format), end, nil
}

// parseCommodityBlock parses the name line and indented format line of the
// multi-line commodity form. next is positioned after the keyword.
func (p *parser) parseCommodityBlock(c, next cursor) (*ast.Commodity, cursor, error) {
	name, next, err := parseCurrency(next)
	if err != nil {
		return nil, c, err
	}
	if name == "" {
		return nil, c, next.errorf("expected commodity")
	}

	next = space0(next)
	if next.eof() {
		return nil, c, next.errorf("expected format line")
	}
	next, ok := lineEnding(next)
	if !ok {
		return nil, c, next.errorf("expected end of line")
	}

	next, ok = space1(next)
	if !ok {
		return nil, c, next.errorf("expected indented format line")
	}
	next, err = keyword(next, "format")
	if err != nil {
		return nil, c, err
	}

	line, end := restOfLine(next)
	format := strings.TrimSpace(line)
	if format == "" {
		return nil, c, next.errorf("expected format")
	}
	end, _ = lineEnding(end)
	return p.newCommodity(c, name, &format), end, nil
}

func (p *parser) newCommodity(c cursor, name string, format *string) *ast.Commodity {
	return &ast.Commodity{Pos: c.pos(), Name: p.intern(name), Format: format}
}

// parseInclude parses "include <path>" and returns the path as written.
func parseInclude(c cursor) (string, cursor, error) {
	next, err := keyword(c, "include")
	if err != nil {
		return "", c, err
	}

	line, end := restOfLine(next)
	path := strings.TrimSpace(line)
	if path == "" {
		return "", c, next.errorf("expected include path")
	}

	end, _ = lineEnding(end)
	return path, end, nil
}
