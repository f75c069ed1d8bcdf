package parser

import (
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/ledger"
)

// parseTransaction parses a transaction header and its postings, then validates the
// result. A transaction that does not validate is an error, never a value.
func (p *parser) parseTransaction(c cursor) (*ast.Transaction, cursor, error) {
	date, secondary, next, err := parseDatePair(c)
	if err != nil {
		return nil, c, err
	}
	if !isSpace(next.peek()) && !atLineEnd(next) {
		return nil, c, next.errorf("expected space after date")
	}

	txn := &ast.Transaction{Pos: c.pos(), Date: date, SecondaryDate: secondary}
	txn.Status, next = parseStatus(space0(next))
	next = space0(next)

	if code, after, ok := parseCode(next); ok {
		txn.Code = &code
		next = space0(after)
	}

	line, end := restOfLine(next)
	description, comment, hasComment := splitComment(line)
	txn.Description = parseDescription(description)
	if hasComment {
		commentStart := next.advance(len(line) - len(comment))
		txn.Tags = parseTags(commentStart, comment)
	}
	next, _ = lineEnding(end)

	txn.Postings, next, err = p.parsePostings(next)
	if err != nil {
		return nil, c, err
	}

	if err := ledger.ValidateTransaction(txn); err != nil {
		return nil, c, err
	}
	return txn, next, nil
}

// parsePostings consumes posting lines until a line is not a posting, returning the
// cursor at the start of that line. Indented comment lines between postings are
// skipped. An indented line that starts like a posting but does not parse is an
// error, since nothing else may follow a transaction indented.
func (p *parser) parsePostings(c cursor) ([]*ast.Posting, cursor, error) {
	var postings []*ast.Posting
	for !c.eof() {
		indented, ok := space1(c)
		if !ok {
			break
		}
		if b := indented.peek(); b == ';' || b == '#' {
			_, end := restOfLine(indented)
			c, _ = lineEnding(end)
			continue
		}
		if atLineEnd(indented) {
			break
		}

		posting, next, err := p.parsePosting(c)
		if err != nil {
			return nil, c, err
		}
		postings = append(postings, posting)
		c, _ = lineEnding(next)
	}
	return postings, c, nil
}

// parseCode parses a non-empty "(code)". An empty "()" is not a code.
func parseCode(c cursor) (string, cursor, bool) {
	if c.peek() != '(' {
		return "", c, false
	}
	line, _ := restOfLine(c.advance(1))
	end := strings.IndexByte(line, ')')
	if end < 0 {
		return "", c, false
	}
	code := strings.TrimSpace(line[:end])
	if code == "" {
		return "", c, false
	}
	return code, c.advance(end + 2), true
}

// splitComment splits a header at the first ';' not escaped by a backslash. Escaped
// semicolons are unescaped in the description.
func splitComment(line string) (description, comment string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ';' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		return unescapeSemicolons(line[:i]), line[i+1:], true
	}
	return unescapeSemicolons(line), "", false
}

func unescapeSemicolons(s string) string {
	return strings.ReplaceAll(s, `\;`, ";")
}

// parseDescription splits "payee | note" at the first '|'. Without a '|' the whole
// text is the note. Parts that are empty after trimming are absent. A backslash
// before a leading '(', '*' or '!' is dropped; it keeps the text from being read
// as a code or a status.
func parseDescription(text string) ast.Description {
	if len(text) > 1 && text[0] == '\\' && strings.IndexByte(ast.HeaderMarkers, text[1]) >= 0 {
		text = text[1:]
	}
	payee, note, found := strings.Cut(text, "|")
	if !found {
		return ast.Description{Note: nonEmpty(text)}
	}
	return ast.Description{Payee: nonEmpty(payee), Note: nonEmpty(note)}
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseTags parses the tags at the end of a transaction comment. The comment is
// split at the last space before the first ':'; the text before it is free-form and
// dropped, the text after it is a comma-separated list of "name:" or "name:value".
// The list ends at the first element that is not a tag; the rest of the comment is
// dropped too. start points at the beginning of comment in the source.
func parseTags(start cursor, comment string) []ast.Tag {
	colon := strings.IndexByte(comment, ':')
	if colon < 0 {
		return nil
	}

	from := strings.LastIndexAny(comment[:colon], " \t") + 1
	if from == 0 {
		from = len(comment) - len(strings.TrimLeft(comment, " \t"))
	}

	var tags []ast.Tag
	c := start.advance(from)
	limit := start.advance(len(comment))
	for c.off < limit.off {
		tag, next, err := parseTag(c, limit)
		if err != nil {
			break
		}
		tags = append(tags, tag)

		next = space0(next)
		if next.off >= limit.off || next.peek() != ',' {
			break
		}
		c = space0(next.advance(1))
	}
	return tags
}

// parseTag parses "name:" or "name:value" where the value runs to the next ',' or to
// limit. The name is quoted or stops at whitespace or ':'.
func parseTag(c, limit cursor) (ast.Tag, cursor, error) {
	var name string
	next := c
	if c.peek() == '"' {
		var err error
		name, next, err = quoted(c)
		if err != nil {
			return ast.Tag{}, c, err
		}
	} else {
		for next.off < limit.off {
			b := next.peek()
			if b == ':' || isSpace(b) {
				break
			}
			next = next.advance(1)
		}
		name = c.textTo(next)
	}
	if name == "" {
		return ast.Tag{}, c, c.errorf("expected tag name")
	}

	next, ok := literal(next, ":")
	if !ok || next.off > limit.off {
		return ast.Tag{}, c, next.errorf("expected ':' after tag name")
	}

	text := next.textTo(limit)
	if i := strings.IndexByte(text, ','); i >= 0 {
		text = text[:i]
	}
	value := nonEmpty(text)
	return ast.Tag{Name: name, Value: value}, next.advance(len(text)), nil
}
