package parser

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/robinvdvleuten/hledger/ast"
)

// source is one journal text shared by every cursor into it.
type source struct {
	filename string
	text     string
	lines    []int // byte offsets of line starts
}

func newSource(filename, text string) *source {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &source{filename: filename, text: text, lines: lines}
}

// position converts a byte offset into a line and column.
func (s *source) position(off int) ast.Position {
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > off }) - 1
	start := s.lines[line]
	return ast.Position{
		Filename: s.filename,
		Offset:   off,
		Line:     line + 1,
		Column:   utf8.RuneCountInString(s.text[start:off]) + 1,
	}
}

// cursor is an immutable position in a source. Grammar functions take a cursor and
// return the cursor after what they consumed; backtracking is keeping the old one.
type cursor struct {
	src *source
	off int
}

func (c cursor) rest() string {
	return c.src.text[c.off:]
}

func (c cursor) eof() bool {
	return c.off >= len(c.src.text)
}

// peek returns the next byte, or 0 at end of input.
func (c cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src.text[c.off]
}

func (c cursor) advance(n int) cursor {
	return cursor{src: c.src, off: c.off + n}
}

func (c cursor) pos() ast.Position {
	return c.src.position(c.off)
}

// textTo returns the input between c and end.
func (c cursor) textTo(end cursor) string {
	return c.src.text[c.off:end.off]
}

func (c cursor) errorf(format string, args ...any) *ParseError {
	return newErrorf(c, format, args...)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// space0 skips any number of spaces and tabs.
func space0(c cursor) cursor {
	for isSpace(c.peek()) {
		c = c.advance(1)
	}
	return c
}

// space1 skips at least one space or tab.
func space1(c cursor) (cursor, bool) {
	next := space0(c)
	return next, next.off > c.off
}

// literal consumes s if the input starts with it.
func literal(c cursor, s string) (cursor, bool) {
	if strings.HasPrefix(c.rest(), s) {
		return c.advance(len(s)), true
	}
	return c, false
}

// atLineEnd reports whether c is at a line terminator or at end of input.
func atLineEnd(c cursor) bool {
	rest := c.rest()
	return rest == "" || rest[0] == '\n' || strings.HasPrefix(rest, "\r\n")
}

// lineEnding consumes "\n" or "\r\n". End of input counts as a line ending too, so
// that a file without a trailing newline parses.
func lineEnding(c cursor) (cursor, bool) {
	switch {
	case c.eof():
		return c, true
	case c.peek() == '\n':
		return c.advance(1), true
	case strings.HasPrefix(c.rest(), "\r\n"):
		return c.advance(2), true
	}
	return c, false
}

// restOfLine returns the text up to the line terminator, leaving the cursor before it.
func restOfLine(c cursor) (string, cursor) {
	rest := c.rest()
	n := strings.IndexByte(rest, '\n')
	if n < 0 {
		n = len(rest)
	}
	if n > 0 && rest[n-1] == '\r' {
		n--
	}
	return rest[:n], c.advance(n)
}

// quoted parses a double-quoted string and returns its interior without surrounding
// whitespace. Quoted strings do not span lines.
func quoted(c cursor) (string, cursor, error) {
	if c.peek() != '"' {
		return "", c, c.errorf("expected '\"'")
	}
	line, _ := restOfLine(c.advance(1))
	end := strings.IndexByte(line, '"')
	if end < 0 {
		return "", c, c.errorf("unterminated quoted string")
	}
	return strings.TrimSpace(line[:end]), c.advance(end + 2), nil
}

// blankLine matches a line holding only whitespace.
func blankLine(c cursor) (cursor, error) {
	next, ok := lineEnding(space0(c))
	if !ok {
		return c, c.errorf("expected blank line")
	}
	return next, nil
}

// lineComment matches a line starting with ';', '#' or '*' and returns its text.
func lineComment(c cursor) (string, cursor, error) {
	switch c.peek() {
	case ';', '#', '*':
	default:
		return "", c, c.errorf("expected comment")
	}
	text, next := restOfLine(space0(c.advance(1)))
	next, _ = lineEnding(next)
	return text, next, nil
}
