// Package errors renders the errors of the other packages for people and programs.
// It separates presentation from the domain packages, which only define typed errors.
//
// The package provides two formatters:
//   - TextFormatter: the error message followed by the source lines around the error
//     with a caret, the offending transaction, or the undeclared accounts
//   - JSONFormatter: structured JSON with the error kind and position
//
// KindOf classifies any error returned while loading a journal.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/formatter"
	"github.com/robinvdvleuten/hledger/ledger"
	"github.com/robinvdvleuten/hledger/loader"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

type positioned interface {
	error
	GetPosition() ast.Position
}

type transactional interface {
	error
	GetTransaction() *ast.Transaction
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	formatter *formatter.Formatter
	sources   map[string][]byte // Source text by file name; "" for text input

	styled       bool
	messageStyle lipgloss.Style
	contextStyle lipgloss.Style
	caretStyle   lipgloss.Style
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source text used for context when an error's file has no
// source of its own registered with WithSources.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sources[""] = source
	}
}

// WithSources registers source text by file name, so that errors raised inside
// included files show their own lines.
func WithSources(sources map[string][]byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		for name, source := range sources {
			tf.sources[name] = source
		}
	}
}

// WithRenderer styles output with colors from r. Without it, output is plain.
func WithRenderer(r *lipgloss.Renderer) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.styled = true
		tf.messageStyle = r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
		tf.contextStyle = r.NewStyle().Foreground(lipgloss.Color("#808080"))
		tf.caretStyle = r.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	}
}

// NewTextFormatter creates a new text formatter. f renders offending transactions;
// nil selects a default formatter.
func NewTextFormatter(f *formatter.Formatter, opts ...TextFormatterOption) *TextFormatter {
	if f == nil {
		f = formatter.New()
	}
	tf := &TextFormatter{formatter: f, sources: make(map[string][]byte)}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error: its message, then whatever context is known.
func (tf *TextFormatter) Format(err error) string {
	message := err.Error()

	var txnErr transactional
	if stderrors.As(err, &txnErr) && txnErr.GetTransaction() != nil {
		return tf.formatWithTransaction(message, txnErr.GetTransaction())
	}

	var undefined *ledger.UndefinedAccountsError
	if stderrors.As(err, &undefined) {
		return tf.formatWithAccounts(message, undefined.Accounts)
	}

	var cycle *loader.IncludeCycleError
	if stderrors.As(err, &cycle) {
		return tf.formatWithChain(message, cycle.Chain)
	}

	var posErr positioned
	if stderrors.As(err, &posErr) {
		if source := tf.source(posErr.GetPosition().Filename); source != nil {
			return tf.formatWithSourceContext(posErr.GetPosition(), message, source)
		}
	}

	return tf.message(message)
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(strings.TrimSuffix(tf.Format(err), "\n"))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// source returns the text of filename. A source set with WithSource stands in for
// every file as long as no named sources are registered.
func (tf *TextFormatter) source(filename string) []byte {
	if source, ok := tf.sources[filename]; ok {
		return source
	}
	if len(tf.sources) == 1 {
		return tf.sources[""]
	}
	return nil
}

func (tf *TextFormatter) message(s string) string {
	if tf.styled {
		return tf.messageStyle.Render(s)
	}
	return s
}

func (tf *TextFormatter) context(s string) string {
	if tf.styled {
		return tf.contextStyle.Render(s)
	}
	return s
}

func (tf *TextFormatter) caret() string {
	if tf.styled {
		return tf.caretStyle.Render("^")
	}
	return "^"
}

// formatWithSourceContext shows up to two lines before the error line and one after
// it, with a caret under the error column.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string, source []byte) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	start := max(pos.Line-3, 0)
	end := min(pos.Line, len(lines)-1)

	for i := start; i <= end; i++ {
		buf.WriteString("   ")
		buf.WriteString(tf.context(lines[i]))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString(tf.caret())
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// formatWithTransaction shows the offending transaction as the formatter renders it.
func (tf *TextFormatter) formatWithTransaction(message string, txn *ast.Transaction) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	for _, line := range strings.Split(tf.formatter.FormatTransaction(txn), "\n") {
		if line == "" {
			continue
		}
		buf.WriteString("   ")
		buf.WriteString(tf.context(line))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (tf *TextFormatter) formatWithAccounts(message string, accounts []ast.Account) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	for _, account := range accounts {
		buf.WriteString("   ")
		buf.WriteString(tf.context("account " + string(account)))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (tf *TextFormatter) formatWithChain(message string, chain []string) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	for i, file := range chain {
		buf.WriteString("   ")
		buf.WriteString(strings.Repeat("  ", i))
		if i > 0 {
			buf.WriteString("includes ")
		}
		buf.WriteString(tf.context(file))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Kind     Kind           `json:"kind"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON. Type names the innermost error that carries
// a position, since wrapping only adds the chain of including files.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Kind:    KindOf(err),
		Message: err.Error(),
		Details: make(map[string]any),
	}

	var posErr positioned
	if stderrors.As(err, &posErr) {
		errJSON.Type = fmt.Sprintf("%T", posErr)
		if pos := posErr.GetPosition(); !pos.IsZero() {
			errJSON.Position = &PositionJSON{
				Filename: pos.Filename,
				Line:     pos.Line,
				Column:   pos.Column,
			}
		}
	}

	var (
		txnErr     transactional
		unbalanced *ledger.TransactionNotBalancedError
		elided     *ledger.ElidedAmountsError
		undefined  *ledger.UndefinedAccountsError
		cycle      *loader.IncludeCycleError
		notFound   *loader.IncludeNotFoundError
		readErr    *loader.ReadError
	)
	if stderrors.As(err, &txnErr) && txnErr.GetTransaction() != nil {
		txn := txnErr.GetTransaction()
		errJSON.Details["date"] = txn.Date.String()
		if payee := txn.Payee(); payee != "" {
			errJSON.Details["payee"] = payee
		}
	}
	switch {
	case stderrors.As(err, &unbalanced):
		errJSON.Details["sum"] = unbalanced.Sum.String()
	case stderrors.As(err, &elided):
		errJSON.Details["elided"] = elided.Count
	case stderrors.As(err, &undefined):
		accounts := make([]string, len(undefined.Accounts))
		for i, a := range undefined.Accounts {
			accounts[i] = string(a)
		}
		errJSON.Details["accounts"] = accounts
	case stderrors.As(err, &cycle):
		errJSON.Details["chain"] = cycle.Chain
	case stderrors.As(err, &notFound):
		errJSON.Details["path"] = notFound.Path
		errJSON.Details["resolved"] = notFound.Resolved
	case stderrors.As(err, &readErr):
		errJSON.Details["path"] = readErr.Path
	}

	return errJSON
}
