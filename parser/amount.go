package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/hledger/ast"
)

// parseAmount parses an amount in suffix form ("100 EUR", "-100EUR") or prefix form
// ("$100", "-$ 100", "$-100").
//
// The suffix form is tried first. Tried the other way round, "100EUR" would parse
// as an amount with an empty currency followed by the unconsumed text "EUR".
func parseAmount(c cursor) (ast.Amount, cursor, error) {
	if a, next, err := parseSuffixAmount(c); err == nil {
		return a, next, nil
	}
	a, next, err := parsePrefixAmount(c)
	if err != nil {
		return ast.Amount{}, c, c.errorf("expected amount")
	}
	return a, next, nil
}

// parseSuffixAmount parses "[sign] number [spaces] currency". The currency may be
// empty, in which case the spaces after the number are left unconsumed.
func parseSuffixAmount(c cursor) (ast.Amount, cursor, error) {
	neg, next := parseSign(c)
	value, next, err := parseMoney(space0(next), true)
	if err != nil {
		return ast.Amount{}, c, err
	}

	afterNumber := next
	currency, next, err := parseCurrency(space0(next))
	if err != nil {
		return ast.Amount{}, c, err
	}
	if currency == "" {
		next = afterNumber
	}
	return ast.Amount{Value: applySign(value, neg), Currency: currency}, next, nil
}

// parsePrefixAmount parses "[sign] currency [spaces] [sign] number". A sign may be
// given before the currency, after it, or both; any minus negates the value once.
func parsePrefixAmount(c cursor) (ast.Amount, cursor, error) {
	neg, next := parseSign(c)
	currency, next, err := parseCurrency(space0(next))
	if err != nil {
		return ast.Amount{}, c, err
	}
	if currency == "" {
		return ast.Amount{}, c, next.errorf("expected currency")
	}

	neg2, next := parseSign(space0(next))
	value, next, err := parseMoney(space0(next), false)
	if err != nil {
		return ast.Amount{}, c, err
	}
	return ast.Amount{Value: applySign(value, neg || neg2), Currency: currency}, next, nil
}

func applySign(value decimal.Decimal, neg bool) decimal.Decimal {
	if neg || value.IsNegative() {
		return value.Abs().Neg()
	}
	return value
}

// parseSign consumes an optional '-' or '+' and reports whether it was a minus.
func parseSign(c cursor) (bool, cursor) {
	switch c.peek() {
	case '-':
		return true, c.advance(1)
	case '+':
		return false, c.advance(1)
	}
	return false, c
}

// parseMoney parses an optionally signed decimal number. Either '.' or ',' separates
// the fractional part; neither is accepted as a thousands separator.
//
// With grouping set, the integer part may continue with groups of exactly three
// digits each preceded by one space, so "100 000" is read as 100000.
func parseMoney(c cursor, grouping bool) (decimal.Decimal, cursor, error) {
	var buf strings.Builder

	next := c
	switch next.peek() {
	case '-', '+':
		buf.WriteByte(next.peek())
		next = next.advance(1)
	}

	digits, next := takeDigits(next)
	if digits == "" {
		return decimal.Decimal{}, c, c.errorf("expected number")
	}
	buf.WriteString(digits)

	for grouping && next.peek() == ' ' {
		group, after := takeDigits(next.advance(1))
		if len(group) != 3 {
			break
		}
		buf.WriteString(group)
		next = after
	}

	if b := next.peek(); b == '.' || b == ',' {
		var fraction string
		fraction, next = takeDigits(next.advance(1))
		if fraction != "" {
			buf.WriteByte('.')
			buf.WriteString(fraction)
		}
	}

	value, err := decimal.NewFromString(buf.String())
	if err != nil {
		return decimal.Decimal{}, c, c.errorf("invalid number: %v", err)
	}
	return value, next, nil
}

func takeDigits(c cursor) (string, cursor) {
	end := c
	for isDigit(end.peek()) {
		end = end.advance(1)
	}
	return c.textTo(end), end
}

// parseCurrency parses a quoted currency or a run of characters that can appear in
// an unquoted currency. The result may be empty.
func parseCurrency(c cursor) (string, cursor, error) {
	if c.peek() == '"' {
		return quoted(c)
	}

	rest := c.rest()
	n := 0
	for n < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[n:])
		if !ast.IsCurrencyRune(r) {
			break
		}
		n += size
	}
	return rest[:n], c.advance(n), nil
}
