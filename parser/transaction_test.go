package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/ledger"
)

func strPtr(s string) *string {
	return &s
}

func TestParseTransaction(t *testing.T) {
	input := "2008/01/01 income\n    assets:bank:checking  $1\n    income:salary  $-1\n"

	txn, next, err := newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.True(t, next.eof())
	assert.Equal(t, ast.NewDate(2008, 1, 1), txn.Date)
	assert.Zero(t, txn.SecondaryDate)
	assert.Equal(t, ast.Unmarked, txn.Status)
	assert.Zero(t, txn.Code)
	assert.Equal(t, ast.Description{Note: strPtr("income")}, txn.Description)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, ast.Account("assets:bank:checking"), txn.Postings[0].Account)
	assert.Equal(t, "-1", txn.Postings[1].Amount.Value.String())
	assert.Equal(t, 3, txn.Postings[1].Pos.Line)
}

func TestParseTransactionHeader(t *testing.T) {
	input := "2008/06/03=06/05 * (code123-1!) Acme | eat & shop ; trip:, project: groceries\n" +
		"    expenses:food      $1\n" +
		"    assets:cash\n"

	txn, _, err := newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.Equal(t, ast.NewDate(2008, 6, 5), *txn.SecondaryDate)
	assert.Equal(t, ast.Cleared, txn.Status)
	assert.Equal(t, "code123-1!", *txn.Code)
	assert.Equal(t, ast.Description{Payee: strPtr("Acme"), Note: strPtr("eat & shop")}, txn.Description)
	assert.Equal(t, []ast.Tag{
		{Name: "trip"},
		{Name: "project", Value: strPtr("groceries")},
	}, txn.Tags)
	assert.Equal(t, "Acme", txn.Payee())
}

func TestParseTransactionEndsAfterPostings(t *testing.T) {
	input := "2008/06/01 gift\n    assets:bank:checking  $1\n    income:gifts\n2008/06/02 save\n"

	txn, next, err := newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, "2008/06/02 save\n", next.rest())

	input = "2008/06/01 gift\n    assets:bank:checking  $1\n    income:gifts\n\n; comment\n"
	_, next, err = newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.Equal(t, "\n; comment\n", next.rest())
}

func TestParseTransactionCommentLines(t *testing.T) {
	input := "2008/06/01 gift\n" +
		"    ; received from grandma\n" +
		"    assets:bank:checking  $1\n" +
		"    # another note\n" +
		"    income:gifts\n"

	txn, next, err := newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txn.Postings))
	assert.True(t, next.eof())
}

func TestParseTransactionWithoutPostings(t *testing.T) {
	txn, next, err := newTestParser().parseTransaction(cur("2008/01/01\n"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(txn.Postings))
	assert.True(t, txn.Description.IsEmpty())
	assert.True(t, next.eof())
}

func TestParseTransactionWithoutTrailingNewline(t *testing.T) {
	txn, next, err := newTestParser().parseTransaction(cur("2008/01/01 x\n  a  $1\n  b"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txn.Postings))
	assert.True(t, next.eof())
}

func TestParseTransactionTags(t *testing.T) {
	input := "2008/01/01 ; some comment tag1:value1, tag2:value2, tag3:\n" +
		"    assets:bank:checking   $1\n" +
		"    income:salary         $-1\n"

	txn, _, err := newTestParser().parseTransaction(cur(input))
	assert.NoError(t, err)
	assert.True(t, txn.Description.IsEmpty())
	assert.Equal(t, []ast.Tag{
		{Name: "tag1", Value: strPtr("value1")},
		{Name: "tag2", Value: strPtr("value2")},
		{Name: "tag3"},
	}, txn.Tags)
}

func TestParseTransactionInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NoSpaceAfterDate", "2008/01/01x\n  a  $1\n  b\n"},
		{"BadPosting", "2008/01/01 x\n  a  $1 junk\n  b\n"},
		{"NotADate", "x 2008/01/01\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, next, err := newTestParser().parseTransaction(cur(tt.input))
			assert.Error(t, err)
			assert.Equal(t, 0, next.off)
		})
	}
}

func TestParseTransactionValidation(t *testing.T) {
	_, _, err := newTestParser().parseTransaction(cur("2008/01/01 x\n  a  $1\n  b  $2\n"))
	var unbalanced *ledger.TransactionNotBalancedError
	assert.True(t, errors.As(err, &unbalanced))
	assert.Equal(t, "3", unbalanced.Sum.String())
	assert.True(t, errors.Is(err, ledger.ErrValidation))

	_, _, err = newTestParser().parseTransaction(cur("2008/01/01 x\n  a  $1\n  b\n  c\n"))
	var elided *ledger.ElidedAmountsError
	assert.True(t, errors.As(err, &elided))
	assert.Equal(t, 2, elided.Count)

	_, _, err = newTestParser().parseTransaction(cur("2008/01/01 x\n  a  $100 @@ €93\n  b  €-93\n"))
	assert.NoError(t, err)
}

func TestParseCode(t *testing.T) {
	code, next, ok := parseCode(cur("(code123-1!) rest"))
	assert.True(t, ok)
	assert.Equal(t, "code123-1!", code)
	assert.Equal(t, " rest", next.rest())

	for _, input := range []string{"() rest", "(  ) rest", "(open", "code"} {
		_, next, ok := parseCode(cur(input))
		assert.False(t, ok, input)
		assert.Equal(t, input, next.rest())
	}
}

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		payee *string
		note  *string
	}{
		{"Simple", "some description", nil, strPtr("some description")},
		{"PayeeAndNote", "Acme | some description", strPtr("Acme"), strPtr("some description")},
		{"IrregularSpacing", "Acme| some description", strPtr("Acme"), strPtr("some description")},
		{"IrregularSpacing2", "Acme |some description", strPtr("Acme"), strPtr("some description")},
		{"NoSpace", "Acme|some description", strPtr("Acme"), strPtr("some description")},
		{"PayeeOnly", "Acme |", strPtr("Acme"), nil},
		{"NoteAfterPipe", "| note", nil, strPtr("note")},
		{"SecondPipe", "a | b | c", strPtr("a"), strPtr("b | c")},
		{"Blank", " ", nil, nil},
		{"Empty", "", nil, nil},
		{"EscapedCode", `\(foo) bar`, nil, strPtr("(foo) bar")},
		{"EscapedStatus", `\* starred`, nil, strPtr("* starred")},
		{"EscapedPayee", `\(foo) | bar`, strPtr("(foo)"), strPtr("bar")},
		{"OtherBackslash", `\foo`, nil, strPtr(`\foo`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ast.Description{Payee: tt.payee, Note: tt.note}, parseDescription(tt.input))
		})
	}
}

func TestSplitComment(t *testing.T) {
	description, comment, ok := splitComment("Acme ; tag:")
	assert.True(t, ok)
	assert.Equal(t, "Acme ", description)
	assert.Equal(t, " tag:", comment)

	description, _, ok = splitComment(`50\; off`)
	assert.False(t, ok)
	assert.Equal(t, "50; off", description)
}

func TestParseTags(t *testing.T) {
	comment := " a comment containing tag1:, tag2: some value"
	tags := parseTags(cur(comment), comment)
	assert.Equal(t, []ast.Tag{
		{Name: "tag1"},
		{Name: "tag2", Value: strPtr("some value")},
	}, tags)

	comment = " just words"
	assert.Zero(t, parseTags(cur(comment), comment))
}

func TestParseTagsStopAtFreeText(t *testing.T) {
	tests := []struct {
		name     string
		comment  string
		expected []ast.Tag
	}{
		{"UntaggedAfterComma", " tags: a, b", []ast.Tag{{Name: "tags", Value: strPtr("a")}}},
		{"TextAfterComma", " tag1:a, free text", []ast.Tag{{Name: "tag1", Value: strPtr("a")}}},
		{"TagAfterText", " a:1, b c:2", []ast.Tag{{Name: "a", Value: strPtr("1")}}},
		{"NoSeparator", " a:1 b", []ast.Tag{{Name: "a", Value: strPtr("1 b")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseTags(cur(tt.comment), tt.comment))
		})
	}
}

func TestParseTransactionIgnoresTrailingCommentText(t *testing.T) {
	for _, header := range []string{
		"2021-01-01 x ; tags: a, b",
		"2021-01-01 x ; tag1:a, free text",
	} {
		t.Run(header, func(t *testing.T) {
			txn, next, err := newTestParser().parseTransaction(cur(header + "\n    a  $1\n    b"))
			assert.NoError(t, err)
			assert.True(t, next.eof())
			assert.Equal(t, 1, len(txn.Tags))
			assert.Equal(t, 2, len(txn.Postings))
		})
	}
}

func TestParseTag(t *testing.T) {
	input := "cash:atm"
	tag, next, err := parseTag(cur(input), cur(input).advance(len(input)))
	assert.NoError(t, err)
	assert.Equal(t, ast.Tag{Name: "cash", Value: strPtr("atm")}, tag)
	assert.True(t, next.eof())

	input = "cash:"
	tag, _, err = parseTag(cur(input), cur(input).advance(len(input)))
	assert.NoError(t, err)
	assert.Equal(t, ast.Tag{Name: "cash"}, tag)

	input = "not a tag:"
	_, _, err = parseTag(cur(input), cur(input).advance(len(input)))
	assert.Error(t, err)
}
