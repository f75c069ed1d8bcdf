// Package formatter renders journals in a canonical, aligned layout. Postings are
// indented uniformly and their amounts are right-aligned to a common column, so
// that a whole journal reads as a table:
//
//	2008-06-03 * eat & shop
//	    expenses:food      $1
//	    expenses:supplies  $1
//	    assets:cash
//
// Widths are measured in terminal cells, so accounts and currencies outside ASCII
// align as they are displayed. WithStyles highlights accounts and amounts without
// affecting alignment.
package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/ledger"
	"github.com/robinvdvleuten/hledger/output"
)

const (
	// DefaultIndentation is the number of spaces postings are indented with.
	DefaultIndentation = 4

	// MinimumSpacing is the minimum number of spaces between an account and its
	// amount. Two are required for the account to end there.
	MinimumSpacing = 2

	// StatusWidth is the width of a posting status marker and its space.
	StatusWidth = 2
)

// Formatter renders journals with aligned posting amounts.
type Formatter struct {
	// AmountColumn is the column at which posting amounts end. If 0, it is
	// calculated from the widest posting being formatted.
	AmountColumn int

	// Indentation is the number of spaces before each posting.
	Indentation int

	styles *output.Styles
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithAmountColumn sets the column at which amounts end. Postings too wide for it
// keep MinimumSpacing between account and amount.
func WithAmountColumn(col int) Option {
	return func(f *Formatter) {
		f.AmountColumn = col
	}
}

// WithIndentation sets the posting indentation. Values below one are ignored,
// since postings must be indented.
func WithIndentation(spaces int) Option {
	return func(f *Formatter) {
		if spaces > 0 {
			f.Indentation = spaces
		}
	}
}

// WithStyles highlights posting accounts and amounts. Nil disables highlighting.
func WithStyles(styles *output.Styles) Option {
	return func(f *Formatter) {
		f.styles = styles
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{Indentation: DefaultIndentation}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes the journal to w: account directives, commodities and prices, each
// as one block, followed by the transactions separated by blank lines.
func (f *Formatter) Format(journal *ledger.Journal, w io.Writer) error {
	txns := journal.Transactions()
	column := f.amountColumn(txns...)

	var blocks []string
	if accounts := journal.Accounts(); len(accounts) > 0 {
		lines := make([]string, len(accounts))
		for i, a := range accounts {
			lines[i] = (&ast.AccountDirective{Name: a}).String()
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if commodities := journal.Commodities(); len(commodities) > 0 {
		lines := make([]string, len(commodities))
		for i, c := range commodities {
			lines[i] = f.indentBlock(c.String())
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if prices := journal.Prices(); len(prices) > 0 {
		lines := make([]string, len(prices))
		for i, p := range prices {
			lines[i] = p.String()
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	for _, txn := range txns {
		var buf strings.Builder
		f.formatTransaction(txn, column, &buf)
		blocks = append(blocks, strings.TrimSuffix(buf.String(), "\n"))
	}

	if len(blocks) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

// FormatTransaction renders a single transaction, aligning its amounts on their
// own unless AmountColumn is set. The result ends with a newline.
func (f *Formatter) FormatTransaction(txn *ast.Transaction) string {
	var buf strings.Builder
	f.formatTransaction(txn, f.amountColumn(txn), &buf)
	return buf.String()
}

// amountColumn returns the configured column, or the narrowest column that fits
// every posting of txns.
func (f *Formatter) amountColumn(txns ...*ast.Transaction) int {
	if f.AmountColumn > 0 {
		return f.AmountColumn
	}

	column := 0
	for _, txn := range txns {
		for _, p := range txn.Postings {
			if p.Amount == nil {
				continue
			}
			width := f.prefixWidth(p) + MinimumSpacing + runewidth.StringWidth(p.Amount.String())
			column = max(column, width)
		}
	}
	return column
}

// prefixWidth is the width of everything before the spacing that precedes an
// amount: indentation, status and account.
func (f *Formatter) prefixWidth(p *ast.Posting) int {
	width := f.Indentation + runewidth.StringWidth(string(p.Account))
	if p.Status != ast.Unmarked {
		width += StatusWidth
	}
	return width
}

func (f *Formatter) formatTransaction(txn *ast.Transaction, column int, buf *strings.Builder) {
	buf.WriteString(txn.Header())
	buf.WriteByte('\n')
	for _, p := range txn.Postings {
		f.formatPosting(p, column, buf)
	}
}

func (f *Formatter) formatPosting(p *ast.Posting, column int, buf *strings.Builder) {
	buf.WriteString(strings.Repeat(" ", f.Indentation))
	if p.Status != ast.Unmarked {
		buf.WriteString(p.Status.String())
		buf.WriteByte(' ')
	}
	buf.WriteString(f.account(p.Account))

	tail := p.AmountText()
	if tail == "" {
		buf.WriteByte('\n')
		return
	}

	padding := MinimumSpacing
	if p.Amount != nil {
		amountWidth := runewidth.StringWidth(p.Amount.String())
		padding = max(column-f.prefixWidth(p)-amountWidth, MinimumSpacing)
	}
	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteString(f.amount(tail))
	buf.WriteByte('\n')
}

func (f *Formatter) account(a ast.Account) string {
	if f.styles == nil {
		return string(a)
	}
	return f.styles.Account(string(a))
}

func (f *Formatter) amount(text string) string {
	if f.styles == nil {
		return text
	}
	return f.styles.Amount(text)
}

// indentBlock re-indents the continuation lines of a multi-line directive.
func (f *Formatter) indentBlock(s string) string {
	first, rest, found := strings.Cut(s, "\n")
	if !found {
		return s
	}
	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", f.Indentation) + strings.TrimLeft(line, " \t")
	}
	return first + "\n" + strings.Join(lines, "\n")
}
