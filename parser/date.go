package parser

import (
	"strconv"
	"time"

	"github.com/robinvdvleuten/hledger/ast"
)

// dateSeparators are tried in this order. A date uses one of them throughout.
const dateSeparators = "-/."

// maxDateComponentDigits bounds each number of a date so it cannot overflow.
const maxDateComponentDigits = 9

// parseDatePair parses a primary date and an optional "=secondary" date. A secondary
// date written as month and day takes the year of the primary date.
func parseDatePair(c cursor) (ast.Date, *ast.Date, cursor, error) {
	primary, next, err := parseDate(c, 0)
	if err != nil {
		return ast.Date{}, nil, c, err
	}

	after, ok := literal(next, "=")
	if !ok {
		return primary, nil, next, nil
	}

	secondary, next, err := parseDate(after, primary.Year())
	if err != nil {
		return ast.Date{}, nil, c, err
	}
	return primary, &secondary, next, nil
}

// parseDate parses a year-month-day date. When inheritYear is non-zero the year may
// be left out and inheritYear is used instead.
func parseDate(c cursor, inheritYear int) (ast.Date, cursor, error) {
	for i := 0; i < len(dateSeparators); i++ {
		parts, next := dateComponents(c, dateSeparators[i])

		var year, month, day int
		switch {
		case len(parts) == 3:
			year, month, day = parts[0], parts[1], parts[2]
		case len(parts) == 2 && inheritYear != 0:
			year, month, day = inheritYear, parts[0], parts[1]
		default:
			continue
		}

		// A different separator right after the last component means the date mixes
		// separators, like 2021/02.29.
		if b := next.peek(); b != dateSeparators[i] && isDateSeparator(b) && isDigit(next.advance(1).peek()) {
			return ast.Date{}, c, next.errorf("date mixes separators")
		}

		if !ast.ValidDate(year, month, day) {
			return ast.Date{}, c, &InvalidDateError{Pos: c.pos(), Year: year, Month: month, Day: day}
		}
		return ast.NewDate(year, time.Month(month), day), next, nil
	}
	return ast.Date{}, c, c.errorf("expected date")
}

func isDateSeparator(b byte) bool {
	return b == '-' || b == '/' || b == '.'
}

// dateComponents reads up to three numbers joined by sep.
func dateComponents(c cursor, sep byte) ([]int, cursor) {
	var parts []int
	for len(parts) < 3 {
		start := c
		if len(parts) > 0 {
			if c.peek() != sep {
				break
			}
			c = c.advance(1)
		}

		n, next, ok := number(c)
		if !ok {
			c = start
			break
		}
		parts = append(parts, n)
		c = next
	}
	return parts, c
}

func number(c cursor) (int, cursor, bool) {
	end := c
	for isDigit(end.peek()) && end.off-c.off < maxDateComponentDigits {
		end = end.advance(1)
	}
	if end.off == c.off || isDigit(end.peek()) {
		return 0, c, false
	}
	n, err := strconv.Atoi(c.textTo(end))
	if err != nil {
		return 0, c, false
	}
	return n, end, true
}
