package parser

import (
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
)

// parseStatus consumes an optional status marker. A marker only counts when a space
// follows it.
func parseStatus(c cursor) (ast.Status, cursor) {
	var status ast.Status
	switch c.peek() {
	case '!':
		status = ast.Pending
	case '*':
		status = ast.Cleared
	default:
		return ast.Unmarked, c
	}
	if next, ok := literal(c.advance(1), " "); ok {
		return status, next
	}
	return ast.Unmarked, c
}

// accountBoundary returns the index in line where the account name ends: the first
// run of two spaces, or a tab. It returns -1 when the whole line is the account.
func accountBoundary(line string) int {
	i := strings.Index(line, "  ")
	if j := strings.IndexByte(line, '\t'); j >= 0 && (i < 0 || j < i) {
		i = j
	}
	return i
}

// parsePosting parses one indented posting line, leaving the cursor before the line
// terminator.
func (p *parser) parsePosting(c cursor) (*ast.Posting, cursor, error) {
	next, ok := space1(c)
	if !ok {
		return nil, c, c.errorf("posting must be indented")
	}

	status, next := parseStatus(next)
	next = space0(next)

	line, end := restOfLine(next)
	if strings.TrimSpace(line) == "" {
		return nil, c, next.errorf("expected account")
	}
	if line[0] == ';' || line[0] == '#' {
		return nil, c, next.errorf("expected account, found comment")
	}

	posting := &ast.Posting{Pos: c.pos(), Status: status}

	boundary := accountBoundary(line)
	if boundary < 0 {
		posting.Account = ast.Account(p.intern(strings.TrimSpace(line)))
		return posting, end, nil
	}
	posting.Account = ast.Account(p.intern(strings.TrimSpace(line[:boundary])))

	section := space0(next.advance(boundary))
	after, err := p.parsePostingAmounts(section, posting)
	if err != nil {
		return nil, c, err
	}
	if after.off != end.off {
		return nil, c, after.errorf("unexpected text after posting amount")
	}
	return posting, end, nil
}

// parsePostingAmounts parses what follows the account: an amount, then "@@ total"
// or "@ unit" price, then "= assertion", then an optional "; comment". The amount
// may be left out when only an assertion or a comment follows.
//
// "@@" is tried before "@" because "@" is a prefix of it.
func (p *parser) parsePostingAmounts(c cursor, posting *ast.Posting) (cursor, error) {
	next := c
	if b := next.peek(); b != '=' && b != ';' && !atLineEnd(next) {
		amount, after, err := parseAmount(next)
		if err != nil {
			return c, err
		}
		posting.Amount = p.internAmount(amount)
		next = space0(after)

		if after, ok := literal(next, "@@"); ok {
			price, after, err := parseAmount(space0(after))
			if err != nil {
				return c, err
			}
			posting.TotalPrice = p.internAmount(price)
			next = space0(after)
		} else if after, ok := literal(next, "@"); ok {
			price, after, err := parseAmount(space0(after))
			if err != nil {
				return c, err
			}
			posting.UnitPrice = p.internAmount(price)
			next = space0(after)
		}
	}

	if after, ok := literal(next, "="); ok {
		balance, after, err := parseAmount(space0(after))
		if err != nil {
			return c, err
		}
		posting.BalanceAssertion = p.internAmount(balance)
		next = space0(after)
	}

	if after, ok := literal(next, ";"); ok {
		comment, end := restOfLine(after)
		posting.Comment = strings.TrimSpace(comment)
		next = end
	}

	_, end := restOfLine(next)
	if strings.TrimSpace(next.textTo(end)) == "" {
		next = end
	}
	return next, nil
}
