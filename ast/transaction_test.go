package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPostingString(t *testing.T) {
	p := NewPosting("assets:cash",
		WithPostingStatus(Pending),
		WithAmount("100", "$"),
		WithUnitPrice(MustAmount("0.94", "EUR")),
	)
	assert.Equal(t, "! assets:cash  $100 @ 0.94 EUR", p.String())

	p = NewPosting("expenses:gifts",
		WithAmount("100", "$"),
		WithTotalPrice(MustAmount("93.89", "€")),
		WithBalanceAssertion(MustAmount("400", "$")),
	)
	assert.Equal(t, "expenses:gifts  $100 @@ €93.89 = $400", p.String())

	assert.Equal(t, "income:salary", NewPosting("income:salary").String())
}

func TestPostingWeight(t *testing.T) {
	assert.Zero(t, NewPosting("income:salary").Weight())

	p := NewPosting("assets:cash", WithAmount("100", "$"))
	assert.True(t, p.Weight().Equal(*MustAmount("100", "$")))

	p = NewPosting("assets:cash", WithAmount("100", "$"), WithTotalPrice(MustAmount("93.89", "€")))
	assert.True(t, p.Weight().Equal(*MustAmount("93.89", "€")))

	p = NewPosting("assets:cash", WithAmount("100", "$"), WithUnitPrice(MustAmount("0.94", "€")))
	assert.True(t, p.Weight().Equal(*MustAmount("100", "$")))
}

func TestTransactionString(t *testing.T) {
	txn := NewTransaction(NewDate(2008, 6, 3),
		WithSecondaryDate(NewDate(2008, 6, 5)),
		WithStatus(Cleared),
		WithCode("1042"),
		WithPayee("Acme"),
		WithNote("eat & shop"),
		WithTags(NewTag("trip", ""), NewTag("project", "kitchen")),
		WithPostings(
			NewPosting("expenses:food", WithAmount("1", "$")),
			NewPosting("assets:cash"),
		),
	)

	expected := "2008-06-03=2008-06-05 * (1042) Acme | eat & shop ; trip:, project:kitchen\n" +
		"    expenses:food  $1\n" +
		"    assets:cash"
	assert.Equal(t, expected, txn.String())
	assert.Equal(t, "Acme", txn.Payee())
	assert.Equal(t, "", NewTransaction(NewDate(2008, 1, 1)).Payee())
}

func TestDirectiveString(t *testing.T) {
	format := "1000.00USD"

	assert.Equal(t, "account assets:cash", (&AccountDirective{Name: "assets:cash"}).String())
	assert.Equal(t, "commodity INR", (&Commodity{Name: "INR"}).String())
	assert.Equal(t, "commodity USD\n    format 1000.00USD", (&Commodity{Name: "USD", Format: &format}).String())
	assert.Equal(t, "P 2017-01-01 EUR 9.552532877 SEK", (&Price{
		Date:      NewDate(2017, 1, 1),
		Commodity: "EUR",
		Amount:    *MustAmount("9.552532877", "SEK"),
	}).String())
}

func TestTransactionsWithoutSecondaryDateCompare(t *testing.T) {
	a := &Transaction{Date: NewDate(2021, 1, 1)}
	b := &Transaction{Date: NewDate(2021, 1, 1)}
	assert.Equal(t, a, b)

	var missing *Date
	assert.True(t, missing.IsZero())
	assert.True(t, (&Date{}).IsZero())
	date := NewDate(2021, 1, 1)
	assert.False(t, date.IsZero())
}

func TestHeaderEscapesLeadingMarkers(t *testing.T) {
	date := NewDate(2021, 1, 1)
	tests := []struct {
		name     string
		txn      *Transaction
		expected string
	}{
		{"NoteLikeCode", NewTransaction(date, WithNote("(foo) bar")), `2021-01-01 \(foo) bar`},
		{"NoteLikeStatus", NewTransaction(date, WithNote("* starred")), `2021-01-01 \* starred`},
		{"PayeeLikeCode", NewTransaction(date, WithPayee("(foo)"), WithNote("bar")), `2021-01-01 \(foo) | bar`},
		{"AfterStatus", NewTransaction(date, WithStatus(Cleared), WithNote("(foo) bar")), `2021-01-01 * \(foo) bar`},
		{"StatusAfterStatus", NewTransaction(date, WithStatus(Cleared), WithNote("! urgent")), `2021-01-01 * ! urgent`},
		{"AfterCode", NewTransaction(date, WithCode("1"), WithNote("(foo) bar")), `2021-01-01 (1) (foo) bar`},
		{"Plain", NewTransaction(date, WithNote("foo (bar)")), `2021-01-01 foo (bar)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.txn.Header())
		})
	}
}
